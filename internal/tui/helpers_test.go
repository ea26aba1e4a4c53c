package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/dayslot/internal/config"
	"github.com/javiermolinar/dayslot/internal/event"
	"github.com/javiermolinar/dayslot/internal/tui/commands"
)

// memRepo is an in-memory event.Repository.
type memRepo struct {
	events  []*event.Event
	deleted []int64
}

func (r *memRepo) CreateEvent(ctx context.Context, e *event.Event) error {
	e.ID = int64(len(r.events) + 1)
	r.events = append(r.events, e)
	return nil
}

func (r *memRepo) CreateEvents(ctx context.Context, events []*event.Event) error {
	for _, e := range events {
		if err := r.CreateEvent(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *memRepo) GetEvent(ctx context.Context, id int64) (*event.Event, error) {
	for _, e := range r.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, event.ErrEventNotFound
}

func (r *memRepo) DeleteEvent(ctx context.Context, id int64) error {
	for i, e := range r.events {
		if e.ID == id {
			r.events = append(r.events[:i], r.events[i+1:]...)
			r.deleted = append(r.deleted, id)
			return nil
		}
	}
	return event.ErrEventNotFound
}

func (r *memRepo) ListEventsBetween(ctx context.Context, from, to time.Time) ([]*event.Event, error) {
	var out []*event.Event
	for _, e := range r.events {
		if e.Start.Before(to) && e.End.After(from) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memRepo) Close() error { return nil }

// Test geometry: 80x33 terminal, 30 grid rows covering 07:00-22:00, so one
// row is 30 minutes and row r starts at terminal line r+1.
const (
	testWidth  = 80
	testHeight = 33
)

var testDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

func at(hour, minute int) time.Time {
	return testDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// rowLine returns the terminal line of the grid row starting at hour:minute.
func rowLine(hour, minute int) int {
	return headerLines + (hour*60+minute-7*60)/30
}

func useASCII(t *testing.T) {
	t.Helper()
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(prev)
	})
}

func newTestModel(t *testing.T, mutate func(*config.Config), events ...*event.Event) (Model, *memRepo) {
	t.Helper()

	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	repo := &memRepo{}
	for _, e := range events {
		_ = repo.CreateEvent(context.Background(), e)
	}

	now := at(8, 10)
	m, err := New(repo, cfg, WithNow(func() time.Time { return now }), WithDay(testDay))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	updated, _ := m.Update(tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	model := updated.(Model)

	updated, _ = model.Update(commands.LoadDay(repo, testDay)())
	return updated.(Model), repo
}

func mustEvent(t *testing.T, title string, start, end time.Time) *event.Event {
	t.Helper()
	e, err := event.New(title, start, end)
	if err != nil {
		t.Fatalf("event.New(%q) failed: %v", title, err)
	}
	return e
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	button := tea.MouseButtonLeft
	if action == tea.MouseActionRelease {
		button = tea.MouseButtonNone
	}
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

// send applies messages in order and returns the final model and last command.
func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var updated tea.Model
		updated, cmd = m.Update(msg)
		m = updated.(Model)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
