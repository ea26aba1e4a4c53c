package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayslot/internal/column"
	"github.com/javiermolinar/dayslot/internal/dateutil"
	"github.com/javiermolinar/dayslot/internal/selection"
	"github.com/javiermolinar/dayslot/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case commands.DayLoadedMsg:
		if !dateutil.SameDay(m.day, msg.Day) {
			return m, nil // stale load after navigation
		}
		m.events = msg.Events
		m.relayout()
		return m, nil

	case commands.EventCreatedMsg:
		m.setStatus(fmt.Sprintf("Created %q", msg.Event.Title))
		return m, commands.LoadDay(m.repo, m.day)

	case commands.EventDeletedMsg:
		m.setStatus(fmt.Sprintf("Deleted #%d", msg.ID))
		return m, commands.LoadDay(m.repo, m.day)

	case commands.ErrMsg:
		m.setError(msg.Err)
		return m, nil

	case commands.StatusMsgCmd:
		m.setStatus(msg.Msg)
		return m, nil

	case commands.TickMsg:
		if m.now().After(m.statusTime) {
			m.statusMsg = ""
		}
		return m, commands.Tick(m.now())
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.title, cmd = m.title.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleMouse feeds left-button gestures inside the column to the selection
// machinery. Pointer coordinates are cell centres.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNormal || m.gridH <= 0 {
		return m, nil
	}
	x := float64(msg.X) + 0.5
	y := float64(msg.Y) + 0.5

	var dispatches []column.Dispatch
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.inColumn(msg.X, msg.Y) {
			return m, nil
		}
		LogMouse(msg)
		m.column.Press(x, y)
		return m, nil
	case tea.MouseActionMotion:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		dispatches = m.column.Motion(x, y)
	case tea.MouseActionRelease:
		LogMouse(msg)
		dispatches = m.column.Release()
	default:
		return m, nil
	}

	return m.applyDispatches(dispatches)
}

// applyDispatches reacts to classified gestures: committed ranges open the
// title prompt, clicks on events focus them, guard rejections are reported.
func (m Model) applyDispatches(dispatches []column.Dispatch) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, d := range dispatches {
		switch d.Transition.Result {
		case selection.OutsideBusinessHours:
			m.setStatus("Outside business hours")
		case selection.Vetoed:
			m.setStatus("Selection rejected")
		}
		if c := d.Transition.Commit; c != nil {
			m.lastRange = m.column.RangeLabel(c.Range())
			m.focusedID = 0
			cmd = m.openPrompt(*c)
		}
	}

	if e := m.sink.selected; e != nil {
		m.sink.selected = nil
		m.focusedID = e.ID
		m.setStatus(fmt.Sprintf("#%d %s", e.ID, e.Title))
	}
	return m, cmd
}

// inColumn reports whether a cell lies in the event area.
func (m Model) inColumn(x, y int) bool {
	return x >= m.gutterW && x < m.width && y >= headerLines && y < headerLines+m.gridH
}
