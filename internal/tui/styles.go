package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/dayslot/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	// Header
	HeaderStyle      lipgloss.Style
	HeaderTodayStyle lipgloss.Style
	ModeStyle        lipgloss.Style
	ModeOffStyle     lipgloss.Style

	// Time gutter
	GutterStyle         lipgloss.Style
	GutterBusinessStyle lipgloss.Style
	GutterNowStyle      lipgloss.Style

	// Column body
	EmptyCellStyle   lipgloss.Style
	NowLineStyle     lipgloss.Style
	SelectionStyle   lipgloss.Style
	FocusedStyle     lipgloss.Style
	EventStyle       lipgloss.Style
	EventAltStyle    lipgloss.Style // Odd layout columns
	EventPastStyle   lipgloss.Style
	ImportedStyle    lipgloss.Style
	ImportedAltStyle lipgloss.Style
	ImportedPast     lipgloss.Style

	// Footer
	StatusStyle      lipgloss.Style
	StatusErrorStyle lipgloss.Style
	PromptStyle      lipgloss.Style
	HelpStyle        lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	base := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)

	band := func(bg, fg lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Background(bg).Foreground(fg)
	}

	return &Styles{
		palette: p,

		HeaderStyle:      base.Bold(true).Foreground(p.Accent),
		HeaderTodayStyle: base.Bold(true).Foreground(p.Now),
		ModeStyle:        base.Foreground(p.FgMuted),
		ModeOffStyle:     base.Foreground(p.Warning),

		GutterStyle:         base.Foreground(p.FgMuted),
		GutterBusinessStyle: band(p.BusinessBg, p.Fg),
		GutterNowStyle:      base.Bold(true).Foreground(p.Now),

		EmptyCellStyle:   base,
		NowLineStyle:     base.Foreground(p.Now),
		SelectionStyle:   band(p.SelectionBg, p.TextOnSelection).Bold(true),
		FocusedStyle:     band(p.BgSelection, p.Fg).Bold(true),
		EventStyle:       band(p.EventBg, p.TextOnEvent),
		EventAltStyle:    band(p.EventBgAlt, p.TextOnEvent),
		EventPastStyle:   band(p.EventPastBg, p.FgMuted),
		ImportedStyle:    band(p.ImportedBg, p.TextOnImported),
		ImportedAltStyle: band(p.ImportedBgAlt, p.TextOnImported),
		ImportedPast:     band(p.ImportedPastBg, p.FgMuted),

		StatusStyle:      base.Foreground(p.FgMuted),
		StatusErrorStyle: band(p.Warning, p.TextOnWarning),
		PromptStyle:      base.Foreground(p.Accent),
		HelpStyle:        base.Foreground(p.FgMuted),
	}
}

// eventStyle picks the band style for an event.
func (s *Styles) eventStyle(imported, past, alt bool) lipgloss.Style {
	switch {
	case imported && past:
		return s.ImportedPast
	case imported && alt:
		return s.ImportedAltStyle
	case imported:
		return s.ImportedStyle
	case past:
		return s.EventPastStyle
	case alt:
		return s.EventAltStyle
	default:
		return s.EventStyle
	}
}
