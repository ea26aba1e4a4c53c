// Package timeaxis maps between timestamps and vertical positions on a day column.
//
// A Window is the bounded interval [Min, Max] rendered by the column. Positions are
// expressed as percentages of the column height, and timestamps derived from positions
// are quantized to the window's step (slot duration in minutes).
package timeaxis

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Window construction errors.
var (
	ErrInvalidWindow = errors.New("window min must be before max")
	ErrInvalidStep   = errors.New("step must be a positive number of minutes")
)

// Range is a half-open time interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the range.
func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Equal reports whether both bounds match to minute precision.
func (r Range) Equal(other Range) bool {
	return sameMinute(r.Start, other.Start) && sameMinute(r.End, other.End)
}

// Window is the visible time span of a day column.
type Window struct {
	Min  time.Time
	Max  time.Time
	Step int // slot duration in minutes
}

// New creates a Window. min must be strictly before max and step must be positive.
func New(min, max time.Time, step int) (Window, error) {
	if !min.Before(max) {
		return Window{}, fmt.Errorf("%w: %s >= %s", ErrInvalidWindow,
			min.Format(time.RFC3339), max.Format(time.RFC3339))
	}
	if step <= 0 {
		return Window{}, fmt.Errorf("%w: %d", ErrInvalidStep, step)
	}
	return Window{Min: min, Max: max, Step: step}, nil
}

// ForDay builds the window for a calendar day from "HH:MM" bounds.
// An end of "24:00" means the following midnight.
func ForDay(day time.Time, dayStart, dayEnd string, step int) (Window, error) {
	startMin, err := ParseClock(dayStart)
	if err != nil {
		return Window{}, fmt.Errorf("day start: %w", err)
	}
	endMin, err := ParseClock(dayEnd)
	if err != nil {
		return Window{}, fmt.Errorf("day end: %w", err)
	}
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return New(
		midnight.Add(time.Duration(startMin)*time.Minute),
		midnight.Add(time.Duration(endMin)*time.Minute),
		step,
	)
}

// TotalMinutes returns the span of the window in minutes.
func (w Window) TotalMinutes() float64 {
	return w.Max.Sub(w.Min).Minutes()
}

// StepDuration returns the slot duration.
func (w Window) StepDuration() time.Duration {
	return time.Duration(w.Step) * time.Minute
}

// DayStart returns midnight of the day containing Min, in Min's location.
func (w Window) DayStart() time.Time {
	return time.Date(w.Min.Year(), w.Min.Month(), w.Min.Day(), 0, 0, 0, 0, w.Min.Location())
}

// Contains reports whether t lies within [Min, Max].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Min) && !t.After(w.Max)
}

// Clamp limits t to [Min, Max].
func (w Window) Clamp(t time.Time) time.Time {
	if t.Before(w.Min) {
		return w.Min
	}
	if t.After(w.Max) {
		return w.Max
	}
	return t
}

// PositionOf returns the vertical position of t as a percentage of the window.
// Values outside the window are clamped. A zero-length window yields 0.
func (w Window) PositionOf(t time.Time) float64 {
	total := w.TotalMinutes()
	if total <= 0 {
		return 0
	}
	offset := w.Clamp(t).Sub(w.Min).Minutes()
	return 100 * math.Min(math.Max(offset, 0), total) / total
}

// TimeAt converts a vertical percentage into a timestamp snapped down to the step.
func (w Window) TimeAt(percent float64) time.Time {
	totalMs := float64(w.Max.Sub(w.Min).Milliseconds())
	ms := math.Round(percent / 100 * totalMs)
	return w.Snap(w.Min.Add(time.Duration(ms) * time.Millisecond))
}

// Snap floors t to a multiple of Step minutes counted from the start of Min's day.
func (w Window) Snap(t time.Time) time.Time {
	if w.Step <= 0 {
		return t
	}
	origin := w.DayStart()
	step := w.StepDuration()
	offset := t.Sub(origin)
	n := int64(offset / step)
	if offset < 0 && offset%step != 0 {
		n--
	}
	return origin.Add(time.Duration(n) * step)
}

// Slots returns every step boundary from r.Start up to, but excluding, r.End.
func (w Window) Slots(r Range) []time.Time {
	if w.Step <= 0 {
		return nil
	}
	var slots []time.Time
	for cur := r.Start; cur.Before(r.End); cur = cur.Add(w.StepDuration()) {
		slots = append(slots, cur)
	}
	return slots
}

func sameMinute(a, b time.Time) bool {
	return a.Truncate(time.Minute).Equal(b.Truncate(time.Minute))
}
