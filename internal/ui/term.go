package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/dayslot/internal/event"
)

// Color definitions for consistent styling across the CLI.
var (
	// Local events: bold cyan
	colorEvent = color.New(color.FgCyan, color.Bold)

	// Imported events: magenta to tell calendars apart
	colorImported = color.New(color.FgMagenta)

	// Committed selections: green
	colorSelection = color.New(color.FgGreen, color.Bold)

	// Guard rejections and skipped imports
	colorWarn = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

func formatEvent(title, source string) string {
	if source != "" && source != event.SourceLocal {
		return colorImported.Sprint(title)
	}
	return colorEvent.Sprint(title)
}

func formatSelection(s string) string {
	return colorSelection.Sprint(s)
}

func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
