// Package hours describes business hours and checks timestamps against them.
package hours

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/dayslot/internal/timeaxis"
)

// Validation errors.
var (
	ErrInvalidWeekday = errors.New("invalid weekday")
	ErrEmptyRange     = errors.New("business hours start must be before end")
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Range is an opening interval in minutes since midnight, on the given
// weekdays. An empty Days slice means every day.
type Range struct {
	Days  []time.Weekday
	Start int
	End   int
}

// Parse builds a Range from weekday names and "HH:MM" bounds.
func Parse(days []string, start, end string) (Range, error) {
	s, err := timeaxis.ParseClock(start)
	if err != nil {
		return Range{}, fmt.Errorf("start: %w", err)
	}
	e, err := timeaxis.ParseClock(end)
	if err != nil {
		return Range{}, fmt.Errorf("end: %w", err)
	}
	if s >= e {
		return Range{}, fmt.Errorf("%w: %s-%s", ErrEmptyRange, start, end)
	}

	r := Range{Start: s, End: e}
	for _, d := range days {
		wd, err := ParseWeekday(d)
		if err != nil {
			return Range{}, err
		}
		r.Days = append(r.Days, wd)
	}
	return r, nil
}

// ParseWeekday converts a case-insensitive weekday name.
func ParseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrInvalidWeekday, s)
	}
	return wd, nil
}

// Contains reports whether t falls inside the range. Both bounds are
// inclusive so a selection may end exactly at closing time.
func (r Range) Contains(t time.Time) bool {
	if !r.appliesTo(t.Weekday()) {
		return false
	}
	mins := t.Hour()*60 + t.Minute()
	if mins >= r.Start && mins <= r.End {
		return true
	}
	// Closing at midnight: 00:00 of the next day counts as the end.
	return r.End == 24*60 && mins == 0 && r.appliesTo((t.Weekday()+6)%7)
}

func (r Range) appliesTo(wd time.Weekday) bool {
	if len(r.Days) == 0 {
		return true
	}
	for _, d := range r.Days {
		if d == wd {
			return true
		}
	}
	return false
}

// String renders the range as "HH:MM-HH:MM".
func (r Range) String() string {
	return timeaxis.FormatClock(r.Start) + "-" + timeaxis.FormatClock(r.End)
}

// Set is a collection of business-hour ranges.
type Set []Range

// Contains reports whether any range contains t. An empty set contains everything.
func (s Set) Contains(t time.Time) bool {
	if len(s) == 0 {
		return true
	}
	for _, r := range s {
		if r.Contains(t) {
			return true
		}
	}
	return false
}

// Predicate returns s.Contains as a function value.
func (s Set) Predicate() func(time.Time) bool {
	return s.Contains
}

// OpenAt reports whether the minute of day falls inside any range for the weekday.
// Used for shading the time gutter.
func (s Set) OpenAt(wd time.Weekday, minute int) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if r.appliesTo(wd) && minute >= r.Start && minute < r.End {
			return true
		}
	}
	return false
}
