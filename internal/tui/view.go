package tui

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/dayslot/internal/dateutil"
	"github.com/javiermolinar/dayslot/internal/event"
	"github.com/javiermolinar/dayslot/internal/format"
	"github.com/javiermolinar/dayslot/internal/layout"
	"github.com/javiermolinar/dayslot/internal/selection"
	"github.com/javiermolinar/dayslot/internal/summary"
)

// Markers for events clipped by the visible window.
const (
	continuesEarlier = "▲ "
	continuesLater   = " ▼"
)

// span is a styled run of cells within one row.
type span struct {
	x, w  int
	text  string
	style lipgloss.Style
}

// View renders the day column.
func (m Model) View() string {
	if m.width <= m.gutterW || m.gridH <= 0 {
		return "Terminal too small"
	}

	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderHeader())
	lines = append(lines, m.renderGrid()...)
	lines = append(lines, m.renderStatus())
	lines = append(lines, m.styles.HelpStyle.Render(m.help.View(m.keys)))
	return strings.Join(lines, "\n")
}

func (m Model) renderHeader() string {
	style := m.styles.HeaderStyle
	title := m.day.Format("Mon 02 Jan 2006")
	if dateutil.SameDay(m.day, m.now()) {
		style = m.styles.HeaderTodayStyle
		title += " · today"
	}

	mode := m.column.Mode()
	modeStyle := m.styles.ModeStyle
	if mode == selection.Disabled {
		modeStyle = m.styles.ModeOffStyle
	}
	right := modeStyle.Render("select: " + mode.String())

	left := style.Render(" " + title)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return ansi.Truncate(left, m.width, "")
	}
	return left + m.styles.EmptyCellStyle.Render(strings.Repeat(" ", gap)) + right
}

// renderGrid draws one line per row. Row i covers [i, i+1)/gridH of the window,
// and a band occupies every row whose midpoint it contains.
func (m Model) renderGrid() []string {
	w := m.column.Window()
	areaW := m.width - m.gutterW
	rows := make([][]span, m.gridH)

	now := m.now()
	nowRow := -1
	if dateutil.SameDay(m.day, now) && w.Contains(now) {
		nowRow = m.rowAt(w.PositionOf(now))
		rows[nowRow] = append(rows[nowRow], span{x: 0, w: areaW, text: strings.Repeat("─", areaW), style: m.styles.NowLineStyle})
	}

	for _, p := range m.column.Placements() {
		m.paintPlacement(rows, p, areaW, now)
	}

	if top, height, label, ok := m.column.Preview(); ok {
		first, last := m.rowSpan(top, top+height)
		for r := first; r <= last; r++ {
			text := ""
			if r == first {
				text = " " + label
			}
			rows[r] = append(rows[r], span{x: 0, w: areaW, text: text, style: m.styles.SelectionStyle})
		}
	}

	lines := make([]string, m.gridH)
	for r := range rows {
		lines[r] = m.renderGutter(r, r == nowRow) + renderRow(areaW, m.styles.EmptyCellStyle, rows[r])
	}
	return lines
}

// paintPlacement adds an event band to the rows it covers.
func (m Model) paintPlacement(rows [][]span, p layout.Placement[*event.Event], areaW int, now time.Time) {
	w := m.column.Window()
	x0 := int(math.Round(p.XOffset / 100 * float64(areaW)))
	x1 := int(math.Round((p.XOffset + p.Width) / 100 * float64(areaW)))
	if m.config.UI.RTL {
		x0, x1 = areaW-x1, areaW-x0
	}
	if x1 <= x0 {
		x1 = x0 + 1
	}

	style := m.styles.eventStyle(p.Event.Source != event.SourceLocal, p.End.Before(now), p.Column%2 == 1)
	if p.Event.ID != 0 && p.Event.ID == m.focusedID {
		style = m.styles.FocusedStyle
	}

	title := p.Title()
	if p.ContinuesBefore(w) {
		title = continuesEarlier + title
	}
	timeLabel := m.column.EventLabel(p)

	first, last := m.rowSpan(p.Top, p.Bottom())
	for r := first; r <= last; r++ {
		var text string
		switch {
		case r == first && first == last:
			text = " " + title + "  " + timeLabel
		case r == first:
			text = " " + title
		case r == first+1:
			text = " " + timeLabel
		}
		if r == last && p.ContinuesAfter(w) {
			text = rightAlign(text, continuesLater, x1-x0)
		}
		rows[r] = append(rows[r], span{x: x0, w: x1 - x0, text: text, style: style})
	}
}

// rowSpan returns the rows whose midpoints fall in [top, bottom). A band too
// thin to contain a midpoint still gets the row it starts in.
func (m Model) rowSpan(top, bottom float64) (first, last int) {
	first, last = -1, -1
	for r := 0; r < m.gridH; r++ {
		mid := (float64(r) + 0.5) / float64(m.gridH) * 100
		if mid >= top && mid < bottom {
			if first < 0 {
				first = r
			}
			last = r
		}
	}
	if first < 0 {
		first = m.rowAt(top)
		last = first
	}
	return first, last
}

// rowAt returns the row containing a percent position.
func (m Model) rowAt(pct float64) int {
	r := int(pct / 100 * float64(m.gridH))
	return min(max(r, 0), m.gridH-1)
}

// rowBounds returns the time interval a row covers.
func (m Model) rowBounds(r int) (start, end time.Time) {
	w := m.column.Window()
	total := float64(w.Max.Sub(w.Min))
	start = w.Min.Add(time.Duration(total * float64(r) / float64(m.gridH)))
	end = w.Min.Add(time.Duration(total * float64(r+1) / float64(m.gridH)))
	return start, end
}

// renderGutter draws the hour label for a row and shades business hours.
func (m Model) renderGutter(r int, isNow bool) string {
	layout := format.LayoutFor(m.config.UI.Locale)
	start, end := m.rowBounds(r)

	label := ""
	hour := time.Date(start.Year(), start.Month(), start.Day(), start.Hour(), 0, 0, 0, start.Location())
	if hour.Before(start) {
		hour = hour.Add(time.Hour)
	}
	if hour.Before(end) {
		label = hour.Format(layout)
	}
	if isNow {
		label = m.now().Format(layout)
	}

	mid := start.Add(end.Sub(start) / 2)
	text := padLeft(label, m.gutterW-1) + " "
	switch {
	case isNow:
		return m.styles.GutterNowStyle.Render(text)
	case m.open.OpenAt(mid.Weekday(), mid.Hour()*60+mid.Minute()):
		return m.styles.GutterBusinessStyle.Render(text)
	default:
		return m.styles.GutterStyle.Render(text)
	}
}

func (m Model) renderStatus() string {
	if m.mode == ModePrompt {
		return m.title.View()
	}
	if m.statusMsg == "" {
		return m.styles.StatusStyle.Render(" " + m.idleStatus())
	}
	if m.statusErr {
		return m.styles.StatusErrorStyle.Render(" " + m.statusMsg + " ")
	}
	return m.styles.StatusStyle.Render(" " + m.statusMsg)
}

func (m Model) idleStatus() string {
	timed := len(event.Timed(m.events))
	allDay := len(m.events) - timed
	s := pluralize(timed, "event")
	if allDay > 0 {
		s += " · " + pluralize(allDay, "all-day event")
	}
	if m.occupancy != nil {
		s += " · " + summary.FormatDuration(m.occupancy.Free) + " free"
	}
	return s
}

// renderRow paints spans over a background, later spans on top.
func renderRow(width int, bg lipgloss.Style, spans []span) string {
	owner := make([]int, width)
	for i := range owner {
		owner[i] = -1
	}
	for i, s := range spans {
		for x := max(s.x, 0); x < min(s.x+s.w, width); x++ {
			owner[x] = i
		}
	}

	var b strings.Builder
	for x := 0; x < width; {
		o := owner[x]
		end := x
		for end < width && owner[end] == o {
			end++
		}
		if o < 0 {
			b.WriteString(bg.Render(strings.Repeat(" ", end-x)))
		} else {
			s := spans[o]
			b.WriteString(s.style.Render(ansi.Cut(fit(s.text, s.w), x-s.x, end-s.x)))
		}
		x = end
	}
	return b.String()
}

// fit truncates or pads text to exactly w cells.
func fit(text string, w int) string {
	text = ansi.Truncate(text, w, "…")
	if pad := w - ansi.StringWidth(text); pad > 0 {
		text += strings.Repeat(" ", pad)
	}
	return text
}

// rightAlign places suffix at the end of a w-cell field, keeping as much of text as fits.
func rightAlign(text, suffix string, w int) string {
	room := w - ansi.StringWidth(suffix)
	if room <= 0 {
		return ansi.Truncate(suffix, w, "")
	}
	return fit(text, room) + suffix
}

func padLeft(s string, width int) string {
	if n := ansi.StringWidth(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
