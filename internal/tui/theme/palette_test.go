package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNewPalette_EventShades(t *testing.T) {
	base := &Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Event:       "#112233",
		Imported:    "#445566",
		Selection:   "#777777",
		Business:    "#181818",
		Now:         "#ff00ff",
		Warning:     "#888888",
	}

	palette := NewPalette(base)

	if palette.EventBg != lipgloss.Color(darkenColor(base.Event)) {
		t.Fatalf("EventBg = %q, want %q", palette.EventBg, darkenColor(base.Event))
	}
	if palette.ImportedBg != lipgloss.Color(darkenColor(base.Imported)) {
		t.Fatalf("ImportedBg = %q, want %q", palette.ImportedBg, darkenColor(base.Imported))
	}
	if palette.EventBgAlt != lipgloss.Color(alternateShade(darkenColor(base.Event), false)) {
		t.Fatalf("EventBgAlt = %q, want %q", palette.EventBgAlt, alternateShade(darkenColor(base.Event), false))
	}
	if palette.EventPastBg != lipgloss.Color(muteColor(base.Event)) {
		t.Fatalf("EventPastBg = %q, want %q", palette.EventPastBg, muteColor(base.Event))
	}
	if palette.BusinessBg != lipgloss.Color(base.Business) {
		t.Fatalf("BusinessBg = %q, want %q", palette.BusinessBg, base.Business)
	}
}

func TestNewPalette_LightTheme(t *testing.T) {
	base := &Theme{
		Bg:        "#ffffff",
		Fg:        "#000000",
		Event:     "#0000ff",
		Imported:  "#00ff00",
		Selection: "#ffcc00",
		Warning:   "#ff0000",
	}

	palette := NewPalette(base)

	want := blendColors(base.Event, base.Bg, 0.75)
	if palette.EventBg != lipgloss.Color(want) {
		t.Fatalf("EventBg = %q, want %q", palette.EventBg, want)
	}
	if palette.TextOnSelection != lipgloss.Color(base.Fg) {
		t.Fatalf("TextOnSelection = %q, want dark text %q", palette.TextOnSelection, base.Fg)
	}
}

func TestNewPalette_NilLoadsMocha(t *testing.T) {
	palette := NewPalette(nil)
	if palette.Bg != lipgloss.Color("#1e1e2e") {
		t.Fatalf("Bg = %q, want mocha background", palette.Bg)
	}
}

func TestBlendColors(t *testing.T) {
	tests := []struct {
		a, b  string
		ratio float64
		want  string
	}{
		{"#000000", "#ffffff", 0, "#000000"},
		{"#000000", "#ffffff", 1, "#ffffff"},
		{"#000000", "#ffffff", 2, "#ffffff"},
		{"#102030", "#102030", 0.5, "#102030"},
		{"bogus", "#ffffff", 0.5, "bogus"},
	}

	for _, tt := range tests {
		if got := blendColors(tt.a, tt.b, tt.ratio); got != tt.want {
			t.Errorf("blendColors(%q, %q, %v) = %q, want %q", tt.a, tt.b, tt.ratio, got, tt.want)
		}
	}
}
