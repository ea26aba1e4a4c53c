// Package layout packs timed events into non-overlapping bands of a day column.
//
// Events are assigned to columns by greedy interval colouring and grouped into
// clusters of transitively overlapping events. Each cluster divides the column
// width evenly among the columns it uses, so events far apart in time keep the
// full width.
package layout

import (
	"errors"
	"slices"
	"time"

	"github.com/javiermolinar/dayslot/internal/timeaxis"
)

// ErrMissingAccessor is returned when the start or end accessor is nil.
var ErrMissingAccessor = errors.New("start and end accessors are required")

// Accessors extract the fields the engine needs from an event.
// Title is optional and only passed through to placements.
type Accessors[E any] struct {
	Start func(E) time.Time
	End   func(E) time.Time
	Title func(E) string
}

// Placement is the styled region computed for one event.
// Percentages are relative to the column height (Top, Height) and width
// (XOffset, Width). Start and End are the unclamped event bounds.
type Placement[E any] struct {
	Event E
	Start time.Time
	End   time.Time

	Top     float64
	Height  float64
	XOffset float64
	Width   float64

	Column  int // column index within the cluster
	Columns int // columns used by the cluster
	Cluster int

	title string
}

// Title returns the event title, or "" when no title accessor was configured.
func (p Placement[E]) Title() string {
	return p.title
}

// Bottom returns Top+Height.
func (p Placement[E]) Bottom() float64 {
	return p.Top + p.Height
}

// ContinuesBefore reports whether the event starts before the window.
func (p Placement[E]) ContinuesBefore(w timeaxis.Window) bool {
	return p.Start.Before(w.Min)
}

// ContinuesAfter reports whether the event ends after the window.
func (p Placement[E]) ContinuesAfter(w timeaxis.Window) bool {
	return p.End.After(w.Max)
}

// Engine lays out events of type E. It holds no mutable state and is safe
// for concurrent use.
type Engine[E any] struct {
	acc Accessors[E]
}

// NewEngine creates a layout engine for the given accessors.
func NewEngine[E any](acc Accessors[E]) (*Engine[E], error) {
	if acc.Start == nil || acc.End == nil {
		return nil, ErrMissingAccessor
	}
	return &Engine[E]{acc: acc}, nil
}

// item is an event prepared for layout.
type item[E any] struct {
	event E
	index int
	start time.Time
	end   time.Time
	// until is the end used for collision checks. Zero-duration events
	// still occupy their instant.
	until time.Time
}

func (it item[E]) duration() time.Duration {
	return it.end.Sub(it.start)
}

// Layout computes placements for events within the window. Events whose
// accessors return a zero time are skipped. The output follows layout order
// (start ascending, longer first, then input order).
func (e *Engine[E]) Layout(events []E, w timeaxis.Window) []Placement[E] {
	items := e.prepare(events)
	if len(items) == 0 {
		return nil
	}

	slices.SortStableFunc(items, compareItems[E])

	columns := assignColumns(items)
	clusters, widths := clusterize(items, columns)

	placements := make([]Placement[E], 0, len(items))
	for i, it := range items {
		n := widths[clusters[i]]
		width := 100 / float64(n)

		top := w.PositionOf(it.start)
		height := w.PositionOf(it.end) - top
		if top+height > 100 {
			height = 100 - top
		}

		p := Placement[E]{
			Event:   it.event,
			Start:   it.start,
			End:     it.end,
			Top:     top,
			Height:  height,
			XOffset: float64(columns[i]) * width,
			Width:   width,
			Column:  columns[i],
			Columns: n,
			Cluster: clusters[i],
		}
		if e.acc.Title != nil {
			p.title = e.acc.Title(it.event)
		}
		placements = append(placements, p)
	}
	return placements
}

func (e *Engine[E]) prepare(events []E) []item[E] {
	items := make([]item[E], 0, len(events))
	for i, ev := range events {
		start, end, ok := e.bounds(ev)
		if !ok {
			continue
		}
		if end.Before(start) {
			end = start
		}
		until := end
		if !until.After(start) {
			until = start.Add(1)
		}
		items = append(items, item[E]{event: ev, index: i, start: start, end: end, until: until})
	}
	return items
}

// bounds calls the accessors, treating a zero time as an invalid event.
func (e *Engine[E]) bounds(ev E) (start, end time.Time, ok bool) {
	start = e.acc.Start(ev)
	end = e.acc.End(ev)
	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func compareItems[E any](a, b item[E]) int {
	if c := a.start.Compare(b.start); c != 0 {
		return c
	}
	// Longer events claim a column first.
	if da, db := a.duration(), b.duration(); da != db {
		if da > db {
			return -1
		}
		return 1
	}
	return a.index - b.index
}

// assignColumns colours sorted items greedily: each item takes the lowest
// column whose last event ended at or before the item's start.
func assignColumns[E any](items []item[E]) []int {
	var ends []time.Time
	columns := make([]int, len(items))
	for i, it := range items {
		col := -1
		for c, end := range ends {
			if !end.After(it.start) {
				col = c
				break
			}
		}
		if col == -1 {
			col = len(ends)
			ends = append(ends, it.until)
		} else {
			ends[col] = it.until
		}
		columns[i] = col
	}
	return columns
}

// clusterize groups sorted items into connected components of the overlap
// graph and returns the cluster index per item plus the column count per cluster.
func clusterize[E any](items []item[E], columns []int) (clusters []int, widths []int) {
	clusters = make([]int, len(items))
	var clusterEnd time.Time
	current := -1
	for i, it := range items {
		if current == -1 || !it.start.Before(clusterEnd) {
			current++
			widths = append(widths, 0)
			clusterEnd = it.until
		} else if it.until.After(clusterEnd) {
			clusterEnd = it.until
		}
		clusters[i] = current
		// Columns restart at 0 in every cluster because all earlier
		// columns are free by the time a new cluster begins.
		if columns[i]+1 > widths[current] {
			widths[current] = columns[i] + 1
		}
	}
	return clusters, widths
}
