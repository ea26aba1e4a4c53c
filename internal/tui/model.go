// Package tui provides the terminal day column for dayslot.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayslot/internal/column"
	"github.com/javiermolinar/dayslot/internal/config"
	"github.com/javiermolinar/dayslot/internal/dateutil"
	"github.com/javiermolinar/dayslot/internal/event"
	"github.com/javiermolinar/dayslot/internal/format"
	"github.com/javiermolinar/dayslot/internal/hours"
	"github.com/javiermolinar/dayslot/internal/selection"
	"github.com/javiermolinar/dayslot/internal/summary"
	"github.com/javiermolinar/dayslot/internal/timeaxis"
	"github.com/javiermolinar/dayslot/internal/tui/commands"
	"github.com/javiermolinar/dayslot/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt      // Naming a committed selection
)

// Fixed chrome around the column.
const (
	headerLines = 1
	footerLines = 2
)

// sink collects column callbacks until Update drains them.
type sink struct {
	selected *event.Event
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo   event.Repository
	config *config.Config
	now    func() time.Time

	// Theme and styles
	styles *Styles
	keys   keyMap
	help   help.Model

	// Column
	column  *column.Column[*event.Event]
	sink    *sink
	hours   func(time.Time) bool // nil without business hours
	open    hours.Set
	gutterW int

	// State
	day       time.Time
	events    []*event.Event
	mode      Mode
	pending   *selection.Commit
	focusedID int64
	lastRange string
	title     textinput.Model
	occupancy *summary.Day

	// Terminal dimensions
	width  int
	height int
	gridH  int

	// Messages
	statusMsg  string
	statusErr  bool
	statusTime time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithNow overrides the clock.
func WithNow(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// WithDay sets the initial day.
func WithDay(day time.Time) ModelOption {
	return func(m *Model) {
		m.day = dateutil.TruncateToDay(day)
	}
}

// New creates a new TUI model.
func New(repo event.Repository, cfg *config.Config, opts ...ModelOption) (*Model, error) {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		return nil, err
	}
	styles := NewStyles(t)

	ti := textinput.New()
	ti.Placeholder = "Event title"
	ti.CharLimit = 256
	ti.Prompt = "Title: "
	ti.PromptStyle = styles.PromptStyle
	ti.TextStyle = styles.EmptyCellStyle

	m := &Model{
		repo:   repo,
		config: cfg,
		now:    time.Now,
		styles: styles,
		keys:   defaultKeyMap(),
		help:   help.New(),
		sink:   &sink{},
		mode:   ModeNormal,
		title:  ti,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.day.IsZero() {
		m.day = dateutil.TruncateToDay(m.now())
	}

	mode, err := cfg.SelectionMode()
	if err != nil {
		return nil, err
	}
	set, err := cfg.Hours()
	if err != nil {
		return nil, err
	}
	if cfg.HasBusinessHours() {
		m.hours = set.Predicate()
	}
	m.open = set
	window, err := cfg.WindowFor(m.day)
	if err != nil {
		return nil, err
	}

	sk := m.sink
	col, err := column.New(column.Options[*event.Event]{
		Window:               window,
		Accessors:            event.Accessors(),
		Mode:                 mode,
		DragThroughEvents:    cfg.Selection.DragThroughEvents,
		RTL:                  cfg.UI.RTL,
		BusinessHours:        m.hours,
		Locale:               cfg.UI.Locale,
		SelectRangeFormat:    cfg.UI.SelectRangeFormat,
		EventTimeRangeFormat: cfg.UI.EventTimeRangeFormat,
		OnSelectEvent: func(e *event.Event) {
			sk.selected = e
		},
		OnSelecting: func(r timeaxis.Range) bool {
			LogSelecting(r)
			return true
		},
		OnSelectSlot: LogCommit,
		OnDispatch:   LogDispatch,
	})
	if err != nil {
		return nil, fmt.Errorf("creating column: %w", err)
	}
	m.column = col
	m.gutterW = gutterWidth(format.LayoutFor(cfg.UI.Locale))

	return m, nil
}

// Init loads the initial day and starts the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(commands.LoadDay(m.repo, m.day), commands.Tick(m.now()))
}

// Run starts the TUI.
func Run(repo event.Repository, cfg *config.Config, opts ...ModelOption) error {
	return RunWithDebug(repo, cfg, false, opts...)
}

// RunWithDebug starts the TUI with optional debug logging.
func RunWithDebug(repo event.Repository, cfg *config.Config, debug bool, opts ...ModelOption) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	if repo == nil {
		r, err := openRepo(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		defer func() { _ = r.Close() }()
		repo = r
	}

	model, err := New(repo, cfg, opts...)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

// goToDay switches the column to another day and reloads its events.
func (m Model) goToDay(day time.Time) (tea.Model, tea.Cmd) {
	day = dateutil.TruncateToDay(day)
	window, err := m.config.WindowFor(day)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	if err := m.column.SetWindow(window); err != nil {
		m.setError(err)
		return m, nil
	}
	m.day = day
	m.events = nil
	m.occupancy = nil
	m.focusedID = 0
	m.column.Layout(nil)
	LogDayChange(day)
	return m, commands.LoadDay(m.repo, day)
}

// relayout recomputes placements for the loaded timed events that reach into the window.
func (m *Model) relayout() {
	w := m.column.Window()
	placements := m.column.Layout(event.Visible(m.events, w.Min, w.Max))
	m.occupancy = summary.SummarizeDay(w, m.events)
	LogLayout(m.day, placements)
}

// resize recomputes the grid height and the column's pointer surface.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	m.gridH = height - headerLines - footerLines - (m.helpLines() - 1)
	if m.gridH < 0 {
		m.gridH = 0
	}
	m.column.SetSurface(column.Surface{
		Top:    headerLines,
		Bottom: float64(headerLines + m.gridH),
		Left:   float64(m.gutterW),
		Right:  float64(width),
	})
}

// helpLines is the height of the rendered help.
func (m *Model) helpLines() int {
	if !m.help.ShowAll {
		return 1
	}
	lines := 1
	for _, group := range m.keys.FullHelp() {
		lines = max(lines, len(group))
	}
	return lines
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusErr = false
	m.statusTime = m.now().Add(3 * time.Second)
}

func (m *Model) setError(err error) {
	LogError("status", err)
	m.statusMsg = "Error: " + err.Error()
	m.statusErr = true
	m.statusTime = m.now().Add(5 * time.Second)
}

// gutterWidth fits the widest hour label plus a space.
func gutterWidth(layout string) int {
	noon := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	return len(noon.Format(layout)) + 1
}
