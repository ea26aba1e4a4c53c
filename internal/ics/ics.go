// Package ics imports VEVENTs from iCalendar data.
package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/javiermolinar/dayslot/internal/event"
)

// Parse errors.
var (
	ErrMissingUID   = errors.New("missing UID")
	ErrMissingStart = errors.New("missing DTSTART")
)

// untitled is used when a VEVENT has no SUMMARY.
const untitled = "(untitled)"

// Parse reads a calendar and returns its events tagged with source.
// VEVENTs that cannot be converted are skipped and reported in skipped;
// err is only set when the calendar itself is unreadable.
func Parse(source string, r io.Reader) (events []*event.Event, skipped []error, err error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing calendar: %w", err)
	}

	for _, ve := range cal.Events() {
		e, err := convert(source, ve)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		events = append(events, e)
	}

	return events, skipped, nil
}

func convert(source string, ve *ical.VEvent) (*event.Event, error) {
	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || strings.TrimSpace(uidProp.Value) == "" {
		return nil, ErrMissingUID
	}
	uid := uidProp.Value

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return nil, fmt.Errorf("%s: %w", uid, ErrMissingStart)
	}

	allDay := isDateValue(dtStart)
	getStart, getEnd := ve.GetStartAt, ve.GetEndAt
	if allDay {
		getStart, getEnd = ve.GetAllDayStartAt, ve.GetAllDayEndAt
	}

	start, err := getStart()
	if err != nil {
		return nil, fmt.Errorf("%s: DTSTART: %w", uid, err)
	}

	var end time.Time
	if ve.GetProperty(ical.ComponentPropertyDtEnd) != nil {
		end, err = getEnd()
		if err != nil {
			return nil, fmt.Errorf("%s: DTEND: %w", uid, err)
		}
	}
	if allDay {
		start = midnight(start)
		if !end.IsZero() {
			end = midnight(end)
		}
	}

	// RFC 5545: without DTEND a date spans one day and a date-time has no duration.
	switch {
	case end.IsZero() && allDay:
		end = start.AddDate(0, 0, 1)
	case end.IsZero():
		end = start
	case end.Before(start):
		return nil, fmt.Errorf("%s: %w", uid, event.ErrEndBeforeStart)
	}

	title := untitled
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil && strings.TrimSpace(p.Value) != "" {
		title = strings.TrimSpace(p.Value)
	}

	return &event.Event{
		Title:     title,
		Start:     start.Local(),
		End:       end.Local(),
		AllDay:    allDay,
		Source:    source,
		UID:       uid,
		CreatedAt: time.Now(),
	}, nil
}

// isDateValue reports whether a property holds a DATE rather than a DATE-TIME.
func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters[string(ical.ParameterValue)]; ok && len(vs) > 0 {
		if strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(p.Value, "T")
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
