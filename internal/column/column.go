// Package column wires the time axis, layout engine, gesture tracker and
// selection machine into a single day column.
package column

import (
	"errors"
	"time"

	"github.com/javiermolinar/dayslot/internal/format"
	"github.com/javiermolinar/dayslot/internal/gesture"
	"github.com/javiermolinar/dayslot/internal/layout"
	"github.com/javiermolinar/dayslot/internal/selection"
	"github.com/javiermolinar/dayslot/internal/timeaxis"
)

// ErrMissingEventHandler is returned when OnSelectEvent is not set.
var ErrMissingEventHandler = errors.New("select event handler is required")

// Options configures a Column.
type Options[E any] struct {
	Window    timeaxis.Window
	Accessors layout.Accessors[E]

	Mode              selection.Mode
	DragThroughEvents bool
	Threshold         float64
	RTL               bool

	// BusinessHours guards dragged ranges. Nil allows everything.
	BusinessHours func(time.Time) bool

	Formatter            format.Formatter
	Locale               string
	SelectRangeFormat    string
	EventTimeRangeFormat string

	OnSelecting   func(timeaxis.Range) bool
	OnSelectSlot  func(selection.Commit)
	OnSelectEvent func(E)

	// OnDispatch observes every classified gesture and its transition.
	OnDispatch func(Dispatch)
}

// Surface is the rendered extent of the column in pointer coordinates.
type Surface struct {
	Top, Bottom float64
	Left, Right float64
}

// Contains reports whether the point lies on the surface.
func (s Surface) Contains(x, y float64) bool {
	return gesture.Bounds{Top: s.Top, Bottom: s.Bottom}.Contains(y) &&
		gesture.Bounds{Top: s.Left, Bottom: s.Right}.Contains(x)
}

// Dispatch records one classified gesture and how the machine handled it.
type Dispatch struct {
	Signal     gesture.Signal
	Transition selection.Transition
}

// Column is one rendered day column. It is driven from a single goroutine.
type Column[E any] struct {
	opts    Options[E]
	engine  *layout.Engine[E]
	machine *selection.Machine
	tracker *gesture.Tracker
	surface Surface

	placements []layout.Placement[E]
	pressX     float64
	pressY     float64
}

// New validates options and builds a Column.
func New[E any](opts Options[E]) (*Column[E], error) {
	if _, err := timeaxis.New(opts.Window.Min, opts.Window.Max, opts.Window.Step); err != nil {
		return nil, err
	}
	if opts.OnSelectEvent == nil {
		return nil, ErrMissingEventHandler
	}
	engine, err := layout.NewEngine(opts.Accessors)
	if err != nil {
		return nil, err
	}
	machine, err := selection.New(opts.Window, selection.Options{
		Mode:          opts.Mode,
		BusinessHours: opts.BusinessHours,
		Selecting:     opts.OnSelecting,
		SelectSlot:    opts.OnSelectSlot,
	})
	if err != nil {
		return nil, err
	}
	if opts.Formatter == nil {
		opts.Formatter = format.Clock{}
	}

	return &Column[E]{
		opts:    opts,
		engine:  engine,
		machine: machine,
		tracker: gesture.NewTracker(gesture.Bounds{}, gesture.Options{
			Threshold:         opts.Threshold,
			IgnoreEvents:      opts.Mode == selection.IgnoreEvents,
			DragThroughEvents: opts.DragThroughEvents,
		}),
	}, nil
}

// Window returns the column's time window.
func (c *Column[E]) Window() timeaxis.Window {
	return c.opts.Window
}

// SetWindow replaces the time window, dropping cached placements and any
// in-flight selection.
func (c *Column[E]) SetWindow(w timeaxis.Window) error {
	if _, err := timeaxis.New(w.Min, w.Max, w.Step); err != nil {
		return err
	}
	c.opts.Window = w
	c.machine.SetWindow(w)
	c.tracker.Cancel()
	c.placements = nil
	return nil
}

// SetSurface records where the column is drawn.
func (c *Column[E]) SetSurface(s Surface) {
	c.surface = s
	c.tracker.SetBounds(gesture.Bounds{Top: s.Top, Bottom: s.Bottom})
}

// Surface returns the drawn extent.
func (c *Column[E]) Surface() Surface {
	return c.surface
}

// Mode returns the selection mode.
func (c *Column[E]) Mode() selection.Mode {
	return c.machine.Mode()
}

// SetSelectable changes the selection mode. Disabling discards any
// in-flight selection without committing.
func (c *Column[E]) SetSelectable(mode selection.Mode) {
	c.machine.SetMode(mode)
	c.tracker.SetIgnoreEvents(mode == selection.IgnoreEvents)
	if mode == selection.Disabled {
		c.tracker.Cancel()
	}
}

// Layout runs a layout pass over events and caches the result for hit testing.
func (c *Column[E]) Layout(events []E) []layout.Placement[E] {
	c.placements = c.engine.Layout(events, c.opts.Window)
	return c.placements
}

// Placements returns the result of the last layout pass.
func (c *Column[E]) Placements() []layout.Placement[E] {
	return c.placements
}

// Selection returns the current selection state.
func (c *Column[E]) Selection() selection.State {
	return c.machine.State()
}

// Preview returns the live selection band and its label.
func (c *Column[E]) Preview() (top, height float64, label string, ok bool) {
	top, height, ok = c.machine.Preview()
	if !ok {
		return 0, 0, "", false
	}
	return top, height, c.RangeLabel(c.machine.State().Range()), true
}

// RangeLabel formats a selection range.
func (c *Column[E]) RangeLabel(r timeaxis.Range) string {
	return c.opts.Formatter.Format(r, c.opts.SelectRangeFormat, c.opts.Locale)
}

// EventLabel formats the time range of a placed event.
func (c *Column[E]) EventLabel(p layout.Placement[E]) string {
	return c.opts.Formatter.Format(timeaxis.Range{Start: p.Start, End: p.End}, c.opts.EventTimeRangeFormat, c.opts.Locale)
}

// HitTest returns the topmost placement under the pointer.
func (c *Column[E]) HitTest(x, y float64) (layout.Placement[E], bool) {
	yPct := gesture.Bounds{Top: c.surface.Top, Bottom: c.surface.Bottom}.Percent(y)
	xPct := gesture.Bounds{Top: c.surface.Left, Bottom: c.surface.Right}.Percent(x)
	if c.opts.RTL {
		xPct = 100 - xPct
	}
	for i := len(c.placements) - 1; i >= 0; i-- {
		p := c.placements[i]
		inY := yPct >= p.Top && (yPct < p.Bottom() || yPct == p.Top)
		inX := xPct >= p.XOffset && xPct < p.XOffset+p.Width
		if inY && inX {
			return p, true
		}
	}
	var zero layout.Placement[E]
	return zero, false
}

// Press handles a pointer press. Presses outside the surface are ignored.
func (c *Column[E]) Press(x, y float64) {
	if !c.surface.Contains(x, y) {
		c.tracker.Cancel()
		return
	}
	c.pressX, c.pressY = x, y
	_, onEvent := c.HitTest(x, y)
	c.tracker.Press(y, onEvent)
}

// Motion handles pointer movement while pressed.
func (c *Column[E]) Motion(x, y float64) []Dispatch {
	_, onEvent := c.HitTest(x, y)
	return c.dispatch(c.tracker.Motion(y, onEvent))
}

// Release handles a pointer release.
func (c *Column[E]) Release() []Dispatch {
	return c.dispatch(c.tracker.Release())
}

// Cancel abandons the current gesture and selection. Idempotent.
func (c *Column[E]) Cancel() {
	c.tracker.Cancel()
	c.machine.Reset()
}

func (c *Column[E]) dispatch(signals []gesture.Signal) []Dispatch {
	var out []Dispatch
	for _, sig := range signals {
		var tr selection.Transition
		switch sig.Kind {
		case gesture.SelectStart:
			tr = c.machine.Start(sig.Percent)
		case gesture.Selecting:
			tr = c.machine.Move(sig.Percent)
		case gesture.Select:
			tr = c.machine.End()
		case gesture.Click:
			if sig.OnEvent {
				if p, ok := c.HitTest(c.pressX, c.pressY); ok {
					c.opts.OnSelectEvent(p.Event)
				}
				c.machine.Reset()
				tr = selection.Transition{Result: selection.Ignored, State: c.machine.State()}
			} else {
				tr = c.machine.Click(sig.Percent)
			}
		}
		d := Dispatch{Signal: sig, Transition: tr}
		if c.opts.OnDispatch != nil {
			c.opts.OnDispatch(d)
		}
		out = append(out, d)
	}
	return out
}
