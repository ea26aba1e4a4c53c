// Package selection implements the drag-selection state machine of a day column.
//
// The machine receives already-classified gestures (start, move, end, click)
// as vertical percentages and turns them into time ranges snapped to the
// window's step. Every operation returns a Transition describing whether the
// update was accepted and, on release or click, the committed range.
package selection

import (
	"errors"
	"time"

	"github.com/javiermolinar/dayslot/internal/timeaxis"
)

// ErrMissingHandler is returned when no SelectSlot handler is configured.
var ErrMissingHandler = errors.New("select slot handler is required")

// Mode controls whether and how slot selection is enabled.
type Mode int

const (
	Disabled Mode = iota
	Enabled
	IgnoreEvents // selection enabled, but never initiated over an existing event
)

// String returns the config name of the mode.
func (m Mode) String() string {
	switch m {
	case Disabled:
		return "off"
	case Enabled:
		return "on"
	case IgnoreEvents:
		return "ignore_events"
	default:
		return "unknown"
	}
}

// Phase is the lifecycle phase of a gesture.
type Phase int

const (
	Idle Phase = iota
	Selecting
)

// State is the in-flight selection. Valid is false while a gesture is in
// progress but no position has passed the guards yet.
type State struct {
	Phase  Phase
	Anchor time.Time
	Start  time.Time
	End    time.Time
	Valid  bool
}

// Range returns the selected range.
func (s State) Range() timeaxis.Range {
	return timeaxis.Range{Start: s.Start, End: s.End}
}

// Commit is a finished selection. Slots lists every step boundary in
// [Start, End).
type Commit struct {
	Start time.Time
	End   time.Time
	Slots []time.Time
}

// Range returns the committed range.
func (c Commit) Range() timeaxis.Range {
	return timeaxis.Range{Start: c.Start, End: c.End}
}

// Result classifies the outcome of a transition.
type Result int

const (
	Accepted Result = iota
	Unchanged
	OutsideBusinessHours
	Vetoed
	Ignored
)

// String returns a short name for logging.
func (r Result) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case Unchanged:
		return "unchanged"
	case OutsideBusinessHours:
		return "outside_business_hours"
	case Vetoed:
		return "vetoed"
	case Ignored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Transition is returned by every machine operation.
type Transition struct {
	Result Result
	State  State
	Commit *Commit
}

// Options configures a Machine.
type Options struct {
	Mode Mode

	// BusinessHours, when set, must accept both bounds of a dragged range.
	BusinessHours func(time.Time) bool

	// Selecting is notified of every changed range during a drag.
	// Returning false rejects the update.
	Selecting func(timeaxis.Range) bool

	// SelectSlot receives every commit. Required.
	SelectSlot func(Commit)
}

// Machine is the selection state for one day column. It is not safe for
// concurrent use; gestures must be delivered in arrival order.
type Machine struct {
	window timeaxis.Window
	opts   Options
	state  State
}

// New creates a Machine for the window.
func New(w timeaxis.Window, opts Options) (*Machine, error) {
	if opts.SelectSlot == nil {
		return nil, ErrMissingHandler
	}
	return &Machine{window: w, opts: opts}, nil
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Mode returns the current selection mode.
func (m *Machine) Mode() Mode {
	return m.opts.Mode
}

// Window returns the window the machine snaps against.
func (m *Machine) Window() timeaxis.Window {
	return m.window
}

// SetWindow replaces the window and drops any in-flight gesture.
func (m *Machine) SetWindow(w timeaxis.Window) {
	m.window = w
	m.Reset()
}

// SetMode changes the selection mode. Switching to Disabled discards any
// in-flight gesture without committing.
func (m *Machine) SetMode(mode Mode) {
	m.opts.Mode = mode
	if mode == Disabled {
		m.Reset()
	}
}

// Disable turns selection off. It is safe to call repeatedly.
func (m *Machine) Disable() {
	m.SetMode(Disabled)
}

// Reset returns to Idle without emitting anything.
func (m *Machine) Reset() {
	m.state = State{}
}

// Start begins a gesture at the given vertical percentage.
func (m *Machine) Start(percent float64) Transition {
	if m.opts.Mode == Disabled {
		return m.transition(Ignored, nil)
	}
	m.state = State{Phase: Selecting, Anchor: m.slotAt(percent)}
	return m.update(percent)
}

// Move extends the current gesture to the given vertical percentage.
func (m *Machine) Move(percent float64) Transition {
	if m.opts.Mode == Disabled || m.state.Phase != Selecting {
		return m.transition(Ignored, nil)
	}
	return m.update(percent)
}

// End releases the gesture, committing the last valid range.
func (m *Machine) End() Transition {
	if m.state.Phase != Selecting {
		return m.transition(Ignored, nil)
	}
	if !m.state.Valid {
		m.Reset()
		return m.transition(Ignored, nil)
	}
	commit := m.commit(m.state.Range())
	m.Reset()
	return m.transition(Accepted, commit)
}

// Click commits the single slot at the given percentage, bypassing drag
// accumulation. Any in-flight gesture is discarded.
func (m *Machine) Click(percent float64) Transition {
	if m.opts.Mode == Disabled {
		return m.transition(Ignored, nil)
	}
	slot := m.slotAt(percent)
	r := m.rangeFrom(slot, slot)
	m.Reset()
	if !r.Start.Before(r.End) {
		return m.transition(Ignored, nil)
	}
	return m.transition(Accepted, m.commit(r))
}

// Preview returns the vertical band of the live selection.
func (m *Machine) Preview() (top, height float64, ok bool) {
	if m.state.Phase != Selecting || !m.state.Valid {
		return 0, 0, false
	}
	top = m.window.PositionOf(m.state.Start)
	return top, m.window.PositionOf(m.state.End) - top, true
}

func (m *Machine) update(percent float64) Transition {
	next := m.rangeFrom(m.state.Anchor, m.slotAt(percent))
	if !next.Start.Before(next.End) {
		return m.transition(Ignored, nil)
	}

	if m.opts.BusinessHours != nil && (!m.opts.BusinessHours(next.Start) || !m.opts.BusinessHours(next.End)) {
		return m.transition(OutsideBusinessHours, nil)
	}
	if m.state.Valid && m.state.Range().Equal(next) {
		return m.transition(Unchanged, nil)
	}
	if m.opts.Selecting != nil && !m.opts.Selecting(next) {
		return m.transition(Vetoed, nil)
	}

	m.state.Start = next.Start
	m.state.End = next.End
	m.state.Valid = true
	return m.transition(Accepted, nil)
}

// slotAt returns the slot under percent, held to the first and last slot of
// the window so a pointer beyond either edge selects the edge slot.
func (m *Machine) slotAt(percent float64) time.Time {
	w := m.window
	t := w.TimeAt(percent)
	if first := w.Snap(w.Min); t.Before(first) {
		return first
	}
	if last := w.Snap(w.Max.Add(-time.Nanosecond)); t.After(last) {
		return last
	}
	return t
}

// rangeFrom orders anchor and current into a clamped range. Forward drags
// include the slot under the pointer: a current slot at or after the anchor
// is bumped one step, not only a current equal to the anchor. A click is the
// equal case and yields its single slot.
func (m *Machine) rangeFrom(anchor, current time.Time) timeaxis.Range {
	if !current.Before(anchor) {
		current = current.Add(m.window.StepDuration())
	}
	start, end := anchor, current
	if current.Before(anchor) {
		start, end = current, anchor
	}
	if start.Before(m.window.Min) {
		start = m.window.Min
	}
	if end.After(m.window.Max) {
		end = m.window.Max
	}
	return timeaxis.Range{Start: start, End: end}
}

func (m *Machine) commit(r timeaxis.Range) *Commit {
	c := &Commit{Start: r.Start, End: r.End, Slots: m.window.Slots(r)}
	m.opts.SelectSlot(*c)
	return c
}

func (m *Machine) transition(result Result, commit *Commit) Transition {
	return Transition{Result: result, State: m.state, Commit: commit}
}
