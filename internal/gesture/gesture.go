// Package gesture classifies raw pointer events on a day column into the
// selection gestures the selection machine understands.
package gesture

import "math"

// Kind identifies a classified gesture.
type Kind int

const (
	SelectStart Kind = iota // a drag began
	Selecting               // the drag moved
	Select                  // the drag was released
	Click                   // press and release without a drag
)

// String returns a short name for logging.
func (k Kind) String() string {
	switch k {
	case SelectStart:
		return "select_start"
	case Selecting:
		return "selecting"
	case Select:
		return "select"
	case Click:
		return "click"
	default:
		return "unknown"
	}
}

// Signal is a classified gesture. Percent is the vertical position within
// the surface. OnEvent is set for clicks that landed on an existing event.
type Signal struct {
	Kind    Kind
	Percent float64
	OnEvent bool
}

// Bounds is the vertical extent of the rendering surface, in the same units
// as pointer coordinates.
type Bounds struct {
	Top    float64
	Bottom float64
}

// Percent converts a y coordinate into a vertical percentage of the surface.
func (b Bounds) Percent(y float64) float64 {
	span := math.Abs(b.Bottom - b.Top)
	if span == 0 {
		return 0
	}
	return 100 * (y - b.Top) / span
}

// Contains reports whether y lies on the surface.
func (b Bounds) Contains(y float64) bool {
	return y >= math.Min(b.Top, b.Bottom) && y < math.Max(b.Top, b.Bottom)
}

// Options configures a Tracker.
type Options struct {
	// Threshold is the pointer travel that turns a press into a drag.
	// Values below 1 are treated as 1.
	Threshold float64

	// IgnoreEvents suppresses selection for presses that land on an event.
	// Clicks on the event are still reported.
	IgnoreEvents bool

	// DragThroughEvents lets a drag extend across existing events. When
	// false, motion over an event does not produce Selecting signals.
	DragThroughEvents bool
}

// Tracker holds the pointer state of one surface.
type Tracker struct {
	bounds Bounds
	opts   Options

	pressed    bool
	dragging   bool
	suppressed bool
	onEvent    bool
	pressY     float64
}

// NewTracker creates a Tracker for the surface bounds.
func NewTracker(b Bounds, opts Options) *Tracker {
	if opts.Threshold < 1 {
		opts.Threshold = 1
	}
	return &Tracker{bounds: b, opts: opts}
}

// SetBounds updates the surface extent, e.g. after a resize.
func (t *Tracker) SetBounds(b Bounds) {
	t.bounds = b
}

// Bounds returns the surface extent.
func (t *Tracker) Bounds() Bounds {
	return t.bounds
}

// SetIgnoreEvents toggles event suppression for subsequent presses.
func (t *Tracker) SetIgnoreEvents(v bool) {
	t.opts.IgnoreEvents = v
}

// Pressed reports whether a pointer is down.
func (t *Tracker) Pressed() bool {
	return t.pressed
}

// Dragging reports whether the current gesture is a drag.
func (t *Tracker) Dragging() bool {
	return t.dragging
}

// Press records a pointer press at y. onEvent tells whether an existing
// event is under the pointer.
func (t *Tracker) Press(y float64, onEvent bool) {
	t.pressed = true
	t.dragging = false
	t.onEvent = onEvent
	t.suppressed = onEvent && t.opts.IgnoreEvents
	t.pressY = y
}

// Motion records pointer movement and returns the signals it produced.
func (t *Tracker) Motion(y float64, onEvent bool) []Signal {
	if !t.pressed || t.suppressed {
		return nil
	}
	if !t.dragging {
		if math.Abs(y-t.pressY) < t.opts.Threshold {
			return nil
		}
		t.dragging = true
		signals := []Signal{{Kind: SelectStart, Percent: t.bounds.Percent(t.pressY)}}
		if onEvent && !t.opts.DragThroughEvents {
			return signals
		}
		return append(signals, Signal{Kind: Selecting, Percent: t.bounds.Percent(y)})
	}
	if onEvent && !t.opts.DragThroughEvents {
		return nil
	}
	return []Signal{{Kind: Selecting, Percent: t.bounds.Percent(y)}}
}

// Release ends the gesture and returns the final signal, if any.
func (t *Tracker) Release() []Signal {
	if !t.pressed {
		return nil
	}
	defer t.Cancel()

	if t.dragging {
		return []Signal{{Kind: Select}}
	}
	return []Signal{{Kind: Click, Percent: t.bounds.Percent(t.pressY), OnEvent: t.onEvent}}
}

// Cancel drops the current gesture. It is safe to call repeatedly.
func (t *Tracker) Cancel() {
	t.pressed = false
	t.dragging = false
	t.suppressed = false
	t.onEvent = false
}
