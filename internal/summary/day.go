// Package summary computes occupancy figures for a day column.
package summary

import (
	"fmt"
	"slices"
	"time"

	"github.com/javiermolinar/dayslot/internal/event"
	"github.com/javiermolinar/dayslot/internal/timeaxis"
)

// Day holds occupancy figures for the visible window of one day.
type Day struct {
	Window timeaxis.Window
	Timed  int // timed events reaching into the window
	AllDay int
	Busy   time.Duration // union of event intervals, clipped to the window
	Free   time.Duration
	Gaps   []timeaxis.Range // free intervals in window order

	// MaxOverlap is the largest number of events sharing an instant.
	MaxOverlap int
}

// SummarizeDay builds the occupancy of w from events. Events outside the
// window and all-day events do not count towards busy time.
func SummarizeDay(w timeaxis.Window, events []*event.Event) *Day {
	d := &Day{Window: w}
	for _, e := range events {
		if e != nil && e.AllDay {
			d.AllDay++
		}
	}

	visible := event.Visible(events, w.Min, w.Max)
	d.Timed = len(visible)

	spans := make([]timeaxis.Range, 0, len(visible))
	for _, e := range visible {
		spans = append(spans, timeaxis.Range{Start: w.Clamp(e.Start), End: w.Clamp(e.End)})
	}
	slices.SortFunc(spans, func(a, b timeaxis.Range) int {
		return a.Start.Compare(b.Start)
	})

	cursor := w.Min
	for _, s := range spans {
		if s.Start.After(cursor) {
			d.Gaps = append(d.Gaps, timeaxis.Range{Start: cursor, End: s.Start})
		}
		if s.End.After(cursor) {
			cursor = s.End
		}
	}
	if cursor.Before(w.Max) {
		d.Gaps = append(d.Gaps, timeaxis.Range{Start: cursor, End: w.Max})
	}

	for _, g := range d.Gaps {
		d.Free += g.Duration()
	}
	d.Busy = w.Max.Sub(w.Min) - d.Free
	d.MaxOverlap = maxOverlap(visible)
	return d
}

// LongestGap returns the longest free interval, earliest first on ties.
func (d *Day) LongestGap() (timeaxis.Range, bool) {
	var best timeaxis.Range
	found := false
	for _, g := range d.Gaps {
		if !found || g.Duration() > best.Duration() {
			best = g
			found = true
		}
	}
	return best, found
}

// FirstGap returns the earliest free interval of at least atLeast that starts at
// or after from.
func (d *Day) FirstGap(from time.Time, atLeast time.Duration) (timeaxis.Range, bool) {
	for _, g := range d.Gaps {
		if g.End.Before(from) || g.End.Equal(from) {
			continue
		}
		if g.Start.Before(from) {
			g.Start = from
		}
		if g.Duration() >= atLeast {
			return g, true
		}
	}
	return timeaxis.Range{}, false
}

// maxOverlap sweeps start and end points. Ends sort before starts at the same
// instant so back-to-back events do not count as overlapping.
func maxOverlap(events []*event.Event) int {
	type point struct {
		at    time.Time
		delta int
	}
	points := make([]point, 0, 2*len(events))
	for _, e := range events {
		if !e.End.After(e.Start) {
			continue
		}
		points = append(points, point{e.Start, 1}, point{e.End, -1})
	}
	slices.SortFunc(points, func(a, b point) int {
		if c := a.at.Compare(b.at); c != 0 {
			return c
		}
		return a.delta - b.delta
	})

	depth, best := 0, 0
	for _, p := range points {
		depth += p.delta
		best = max(best, depth)
	}
	return best
}

// FormatDuration formats a duration as a short human-readable string.
func FormatDuration(d time.Duration) string {
	minutes := int(d.Round(time.Minute) / time.Minute)
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}
