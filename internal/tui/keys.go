package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayslot/internal/dateutil"
	"github.com/javiermolinar/dayslot/internal/event"
	"github.com/javiermolinar/dayslot/internal/selection"
	"github.com/javiermolinar/dayslot/internal/timeaxis"
	"github.com/javiermolinar/dayslot/internal/tui/commands"
)

// keyMap defines the normal-mode key bindings.
type keyMap struct {
	PrevDay key.Binding
	NextDay key.Binding
	Today   key.Binding
	Free    key.Binding
	Mode    key.Binding
	Copy    key.Binding
	Delete  key.Binding
	Cancel  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PrevDay: key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "prev day")),
		NextDay: key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next day")),
		Today:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Free:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "first free slot")),
		Mode:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "selection mode")),
		Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy range")),
		Delete:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete event")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevDay, k.NextDay, k.Mode, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevDay, k.NextDay, k.Today, k.Free},
		{k.Mode, k.Cancel, k.Copy, k.Delete},
		{k.Help, k.Quit},
	}
}

// nextMode cycles on -> ignore events -> off -> on.
func nextMode(m selection.Mode) selection.Mode {
	switch m {
	case selection.Enabled:
		return selection.IgnoreEvents
	case selection.IgnoreEvents:
		return selection.Disabled
	default:
		return selection.Enabled
	}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.mode == ModePrompt {
		return m.handlePromptKeys(msg)
	}
	return m.handleNormalKeys(msg)
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.PrevDay):
		return m.goToDay(m.day.AddDate(0, 0, -1))
	case key.Matches(msg, m.keys.NextDay):
		return m.goToDay(m.day.AddDate(0, 0, 1))
	case key.Matches(msg, m.keys.Today):
		return m.goToDay(m.now())

	case key.Matches(msg, m.keys.Free):
		return m.selectFirstFree()

	case key.Matches(msg, m.keys.Mode):
		from := m.column.Mode()
		to := nextMode(from)
		m.column.SetSelectable(to)
		LogModeChange(from, to, "key")
		m.setStatus("Selection " + to.String())
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.column.Cancel()
		m.focusedID = 0
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if m.lastRange == "" {
			m.setStatus("Nothing selected yet")
			return m, nil
		}
		return m, commands.CopyToClipboard(m.lastRange)

	case key.Matches(msg, m.keys.Delete):
		if m.focusedID == 0 {
			m.setStatus("Click an event first")
			return m, nil
		}
		id := m.focusedID
		m.focusedID = 0
		return m, commands.DeleteEvent(m.repo, id)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize(m.width, m.height)
		return m, nil
	}

	return m, nil
}

// selectFirstFree commits the first free slot of the day, starting from the
// current slot boundary when the day is today.
func (m Model) selectFirstFree() (tea.Model, tea.Cmd) {
	if m.column.Mode() == selection.Disabled {
		m.setStatus("Selection off")
		return m, nil
	}
	if m.occupancy == nil {
		return m, nil
	}

	w := m.column.Window()
	step := w.StepDuration()
	from := w.Min
	if now := m.now(); dateutil.SameDay(now, m.day) && now.After(from) {
		from = w.Snap(now)
		if from.Before(now) {
			from = from.Add(step)
		}
	}

	gap, ok := m.occupancy.FirstGap(from, step)
	if !ok {
		m.setStatus("No free slot left")
		return m, nil
	}
	r := timeaxis.Range{Start: gap.Start, End: gap.Start.Add(step)}
	m.lastRange = m.column.RangeLabel(r)
	m.focusedID = 0
	cmd := m.openPrompt(selection.Commit{Start: r.Start, End: r.End, Slots: w.Slots(r)})
	return m, cmd
}

// handlePromptKeys handles the title prompt shown after a committed selection.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt("cancelled")
		return m, nil

	case "enter":
		commit := m.pending
		title := strings.TrimSpace(m.title.Value())
		if commit == nil {
			m.closePrompt("no selection")
			return m, nil
		}
		e, err := event.New(title, commit.Start, commit.End)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.closePrompt("saved")
		return m, commands.CreateEvent(m.repo, e)
	}

	var cmd tea.Cmd
	m.title, cmd = m.title.Update(msg)
	return m, cmd
}

// openPrompt asks for a title for a committed selection.
func (m *Model) openPrompt(c selection.Commit) tea.Cmd {
	m.pending = &c
	m.mode = ModePrompt
	m.title.SetValue("")
	m.title.Focus()
	LogPrompt("open", m.column.RangeLabel(c.Range()))
	return textinput.Blink
}

func (m *Model) closePrompt(reason string) {
	m.pending = nil
	m.mode = ModeNormal
	m.title.Blur()
	m.title.SetValue("")
	LogPrompt(reason, "")
}
