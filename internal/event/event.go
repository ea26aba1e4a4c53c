// Package event defines the calendar event type laid out in a day column.
package event

import (
	"errors"
	"strings"
	"time"

	"github.com/javiermolinar/dayslot/internal/layout"
)

// Validation errors.
var (
	ErrEmptyTitle     = errors.New("title cannot be empty")
	ErrEndBeforeStart = errors.New("end time must be after start time")
	ErrMissingTime    = errors.New("start and end times are required")
)

// Domain errors.
var (
	ErrEventNotFound = errors.New("event not found")
)

// SourceLocal marks events created from the CLI or TUI.
const SourceLocal = "local"

// Event is a timed or all-day calendar entry.
type Event struct {
	ID        int64
	Title     string
	Start     time.Time
	End       time.Time
	AllDay    bool
	Source    string // "local" or the imported calendar name
	UID       string // external identifier, unique per source
	CreatedAt time.Time
}

// New creates a local timed event with validation.
func New(title string, start, end time.Time) (*Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if start.IsZero() || end.IsZero() {
		return nil, ErrMissingTime
	}
	if !end.After(start) {
		return nil, ErrEndBeforeStart
	}
	return &Event{
		Title:     title,
		Start:     start,
		End:       end,
		Source:    SourceLocal,
		CreatedAt: time.Now(),
	}, nil
}

// Duration returns the event length.
func (e *Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// OverlapsWith returns true if the two events share any instant.
func (e *Event) OverlapsWith(other *Event) bool {
	if other == nil {
		return false
	}
	return e.Start.Before(other.End) && other.Start.Before(e.End)
}

// StartOf returns the event start, or the zero time for a nil event.
func StartOf(e *Event) time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.Start
}

// EndOf returns the event end, or the zero time for a nil event.
func EndOf(e *Event) time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.End
}

// TitleOf returns the event title.
func TitleOf(e *Event) string {
	if e == nil {
		return ""
	}
	return e.Title
}

// Accessors returns the layout accessors for events.
func Accessors() layout.Accessors[*Event] {
	return layout.Accessors[*Event]{
		Start: StartOf,
		End:   EndOf,
		Title: TitleOf,
	}
}

// Timed filters out all-day events, which are not placed on the time axis.
func Timed(events []*Event) []*Event {
	out := make([]*Event, 0, len(events))
	for _, e := range events {
		if e != nil && !e.AllDay {
			out = append(out, e)
		}
	}
	return out
}

// Visible returns the timed events overlapping [from, to).
func Visible(events []*Event, from, to time.Time) []*Event {
	out := make([]*Event, 0, len(events))
	for _, e := range Timed(events) {
		if e.Start.Before(to) && e.End.After(from) {
			out = append(out, e)
		}
	}
	return out
}
