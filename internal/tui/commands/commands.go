// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayslot/internal/dateutil"
	"github.com/javiermolinar/dayslot/internal/event"
)

// DayLoadedMsg is sent when a day's events are loaded.
type DayLoadedMsg struct {
	Day    time.Time
	Events []*event.Event
}

// EventCreatedMsg is sent after an event is stored.
type EventCreatedMsg struct {
	Event *event.Event
}

// EventDeletedMsg is sent after an event is removed.
type EventDeletedMsg struct {
	ID int64
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// TickMsg is sent once a minute to move the current-time line.
type TickMsg struct {
	Time time.Time
}

// LoadDay loads every event overlapping the given day.
func LoadDay(repo event.Repository, day time.Time) tea.Cmd {
	return func() tea.Msg {
		from, to := dateutil.DayBounds(day)
		events, err := repo.ListEventsBetween(context.Background(), from, to)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading %s: %w", from.Format(dateutil.DateLayout), err)}
		}
		return DayLoadedMsg{Day: from, Events: events}
	}
}

// CreateEvent stores a new event.
func CreateEvent(repo event.Repository, e *event.Event) tea.Cmd {
	return func() tea.Msg {
		if err := repo.CreateEvent(context.Background(), e); err != nil {
			return ErrMsg{Err: err}
		}
		return EventCreatedMsg{Event: e}
	}
}

// DeleteEvent removes an event by ID.
func DeleteEvent(repo event.Repository, id int64) tea.Cmd {
	return func() tea.Msg {
		if err := repo.DeleteEvent(context.Background(), id); err != nil {
			return ErrMsg{Err: err}
		}
		return EventDeletedMsg{ID: id}
	}
}

// CopyToClipboard writes text to the system clipboard.
func CopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsgCmd{Msg: "Copied " + text}
	}
}

// Tick schedules the next TickMsg at the start of the next minute.
func Tick(now time.Time) tea.Cmd {
	next := now.Truncate(time.Minute).Add(time.Minute)
	return tea.Tick(next.Sub(now), func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
