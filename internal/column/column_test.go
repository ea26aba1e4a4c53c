package column

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/javiermolinar/dayslot/internal/layout"
	"github.com/javiermolinar/dayslot/internal/selection"
	"github.com/javiermolinar/dayslot/internal/timeaxis"
)

type meeting struct {
	title string
	start time.Time
	end   time.Time
}

func at(h, m int) time.Time {
	return time.Date(2025, 3, 10, h, m, 0, 0, time.UTC)
}

var accessors = layout.Accessors[meeting]{
	Start: func(m meeting) time.Time { return m.start },
	End:   func(m meeting) time.Time { return m.end },
	Title: func(m meeting) string { return m.title },
}

type harness struct {
	col     *Column[meeting]
	commits []selection.Commit
	clicked []meeting
}

// newHarness builds a full-day column drawn on rows 0..48 (one row per
// 30 minutes) and columns 0..100.
func newHarness(t *testing.T, mode selection.Mode, mutate func(*Options[meeting])) *harness {
	t.Helper()
	w, err := timeaxis.New(at(0, 0), at(0, 0).AddDate(0, 0, 1), 30)
	if err != nil {
		t.Fatalf("timeaxis.New failed: %v", err)
	}
	h := &harness{}
	opts := Options[meeting]{
		Window:            w,
		Accessors:         accessors,
		Mode:              mode,
		DragThroughEvents: true,
		OnSelectSlot:      func(c selection.Commit) { h.commits = append(h.commits, c) },
		OnSelectEvent:     func(m meeting) { h.clicked = append(h.clicked, m) },
	}
	if mutate != nil {
		mutate(&opts)
	}
	col, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	col.SetSurface(Surface{Top: 0, Bottom: 48, Left: 0, Right: 100})
	h.col = col
	return h
}

// row returns the surface row of h:m.
func row(h, m int) float64 {
	return float64(h*2) + float64(m)/30
}

func TestNew_Validation(t *testing.T) {
	w, _ := timeaxis.New(at(8, 0), at(18, 0), 30)
	base := Options[meeting]{
		Window:        w,
		Accessors:     accessors,
		OnSelectSlot:  func(selection.Commit) {},
		OnSelectEvent: func(meeting) {},
	}

	tests := []struct {
		name    string
		mutate  func(*Options[meeting])
		wantErr error
	}{
		{name: "bad window", mutate: func(o *Options[meeting]) { o.Window = timeaxis.Window{Min: at(9, 0), Max: at(8, 0), Step: 30} }, wantErr: timeaxis.ErrInvalidWindow},
		{name: "bad step", mutate: func(o *Options[meeting]) { o.Window.Step = 0 }, wantErr: timeaxis.ErrInvalidStep},
		{name: "missing accessor", mutate: func(o *Options[meeting]) { o.Accessors.End = nil }, wantErr: layout.ErrMissingAccessor},
		{name: "missing slot handler", mutate: func(o *Options[meeting]) { o.OnSelectSlot = nil }, wantErr: selection.ErrMissingHandler},
		{name: "missing event handler", mutate: func(o *Options[meeting]) { o.OnSelectEvent = nil }, wantErr: ErrMissingEventHandler},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			tt.mutate(&opts)
			if _, err := New(opts); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDragCommitsRange(t *testing.T) {
	h := newHarness(t, selection.Enabled, nil)

	h.col.Press(10, row(10, 0))
	h.col.Motion(10, row(10, 45))

	top, height, label, ok := h.col.Preview()
	if !ok {
		t.Fatal("expected preview while dragging")
	}
	if label != "10:00 – 11:00" {
		t.Errorf("unexpected label %q", label)
	}
	if math.Abs(top-100*600.0/1440) > 1e-9 || math.Abs(height-100*60.0/1440) > 1e-9 {
		t.Errorf("unexpected preview %v %v", top, height)
	}

	h.col.Release()
	if len(h.commits) != 1 {
		t.Fatalf("expected 1 commit, got %d", len(h.commits))
	}
	c := h.commits[0]
	if !c.Start.Equal(at(10, 0)) || !c.End.Equal(at(11, 0)) || len(c.Slots) != 2 {
		t.Errorf("unexpected commit %s-%s slots=%d", c.Start.Format("15:04"), c.End.Format("15:04"), len(c.Slots))
	}
	if _, _, _, ok := h.col.Preview(); ok {
		t.Error("expected no preview after release")
	}
}

func TestClickOnEmptySpace(t *testing.T) {
	h := newHarness(t, selection.Enabled, nil)

	h.col.Press(50, row(14, 10))
	dispatches := h.col.Release()
	if len(dispatches) != 1 || dispatches[0].Transition.Commit == nil {
		t.Fatalf("expected one committing dispatch, got %+v", dispatches)
	}
	if len(h.commits) != 1 || len(h.commits[0].Slots) != 1 || !h.commits[0].Slots[0].Equal(at(14, 0)) {
		t.Fatalf("expected single slot at 14:00, got %+v", h.commits)
	}
}

func TestClickOnEvent(t *testing.T) {
	for _, mode := range []selection.Mode{selection.Enabled, selection.IgnoreEvents, selection.Disabled} {
		t.Run(mode.String(), func(t *testing.T) {
			h := newHarness(t, mode, nil)
			h.col.Layout([]meeting{
				{title: "left", start: at(9, 0), end: at(11, 0)},
				{title: "right", start: at(9, 0), end: at(10, 0)},
			})

			h.col.Press(75, row(9, 30))
			h.col.Release()

			if len(h.clicked) != 1 || h.clicked[0].title != "right" {
				t.Fatalf("expected click on right, got %+v", h.clicked)
			}
			if len(h.commits) != 0 {
				t.Errorf("expected no slot commit, got %d", len(h.commits))
			}
		})
	}
}

func TestIgnoreEventsSuppressesDragFromEvent(t *testing.T) {
	h := newHarness(t, selection.IgnoreEvents, nil)
	h.col.Layout([]meeting{{title: "busy", start: at(9, 0), end: at(11, 0)}})

	h.col.Press(50, row(9, 30))
	if d := h.col.Motion(50, row(12, 0)); len(d) != 0 {
		t.Fatalf("expected no dispatches, got %d", len(d))
	}
	h.col.Release()
	if len(h.commits) != 0 {
		t.Errorf("expected no commit, got %d", len(h.commits))
	}

	// With selection fully enabled the same drag selects through the event.
	h.col.SetSelectable(selection.Enabled)
	h.col.Press(50, row(9, 30))
	h.col.Motion(50, row(12, 0))
	h.col.Release()
	if len(h.commits) != 1 {
		t.Fatalf("expected 1 commit, got %d", len(h.commits))
	}
	if !h.commits[0].Start.Equal(at(9, 30)) || !h.commits[0].End.Equal(at(12, 30)) {
		t.Errorf("unexpected range %s-%s", h.commits[0].Start.Format("15:04"), h.commits[0].End.Format("15:04"))
	}
}

func TestDisablingMidDragDiscards(t *testing.T) {
	h := newHarness(t, selection.Enabled, nil)

	h.col.Press(10, row(10, 0))
	h.col.Motion(10, row(12, 0))
	h.col.SetSelectable(selection.Disabled)
	h.col.SetSelectable(selection.Disabled)
	h.col.Release()

	if len(h.commits) != 0 {
		t.Fatalf("expected no commits, got %d", len(h.commits))
	}
	if h.col.Selection().Phase != selection.Idle {
		t.Error("expected Idle")
	}
}

func TestBusinessHoursGuard(t *testing.T) {
	var notified int
	h := newHarness(t, selection.Enabled, func(o *Options[meeting]) {
		o.BusinessHours = func(ts time.Time) bool { return ts.Hour() >= 9 && (ts.Hour() < 17 || ts.Hour() == 17 && ts.Minute() == 0) }
		o.OnSelecting = func(timeaxis.Range) bool { notified++; return true }
	})

	h.col.Press(10, row(16, 0))
	h.col.Motion(10, row(16, 30))
	before := notified
	h.col.Motion(10, row(19, 0))
	h.col.Motion(10, row(21, 0))
	if notified != before {
		t.Error("observer notified for positions outside business hours")
	}
	h.col.Release()

	if len(h.commits) != 1 || !h.commits[0].End.Equal(at(17, 0)) {
		t.Fatalf("expected commit ending 17:00, got %+v", h.commits)
	}
}

func TestHitTest_RTL(t *testing.T) {
	h := newHarness(t, selection.Enabled, func(o *Options[meeting]) { o.RTL = true })
	h.col.Layout([]meeting{
		{title: "first", start: at(9, 0), end: at(10, 0)},
		{title: "second", start: at(9, 0), end: at(10, 0)},
	})

	p, ok := h.col.HitTest(90, row(9, 30))
	if !ok || p.Event.title != "first" {
		t.Fatalf("expected first band on the right in RTL, got %+v", p)
	}
	if _, ok := h.col.HitTest(50, row(12, 0)); ok {
		t.Error("expected no hit in empty space")
	}
}

func TestEventLabel(t *testing.T) {
	h := newHarness(t, selection.Enabled, func(o *Options[meeting]) { o.Locale = "en-US" })
	placements := h.col.Layout([]meeting{{title: "lunch", start: at(12, 0), end: at(13, 0)}})
	if got := h.col.EventLabel(placements[0]); got != "12:00 PM – 1:00 PM" {
		t.Errorf("unexpected label %q", got)
	}
}

func TestSetWindow(t *testing.T) {
	h := newHarness(t, selection.Enabled, nil)
	h.col.Layout([]meeting{{title: "a", start: at(9, 0), end: at(10, 0)}})

	if err := h.col.SetWindow(timeaxis.Window{Min: at(9, 0), Max: at(9, 0), Step: 30}); !errors.Is(err, timeaxis.ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
	w, _ := timeaxis.New(at(8, 0), at(12, 0), 15)
	if err := h.col.SetWindow(w); err != nil {
		t.Fatalf("SetWindow failed: %v", err)
	}
	if len(h.col.Placements()) != 0 {
		t.Error("expected placements to be dropped")
	}
	if h.col.Window().Step != 15 {
		t.Errorf("expected step 15, got %d", h.col.Window().Step)
	}
}

func TestPressOutsideSurfaceIgnored(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
	}{
		{name: "below", x: 50, y: 48},
		{name: "far below", x: 50, y: 60},
		{name: "above", x: 50, y: -1},
		{name: "left", x: -2, y: row(10, 0)},
		{name: "right", x: 100, y: row(10, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, selection.Enabled, nil)

			h.col.Press(tt.x, tt.y)
			if d := h.col.Motion(50, row(12, 0)); len(d) != 0 {
				t.Errorf("expected no dispatches on motion, got %d", len(d))
			}
			if d := h.col.Release(); len(d) != 0 {
				t.Errorf("expected no dispatches on release, got %d", len(d))
			}
			if len(h.commits) != 0 {
				t.Errorf("expected no commits, got %d", len(h.commits))
			}
		})
	}
}
