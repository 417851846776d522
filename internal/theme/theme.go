// Package theme provides the colour palettes used by the browser.
package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colours used in the browser UI.
type Theme struct {
	Accent    lipgloss.Color
	AccentFg  lipgloss.Color // Foreground for text on Accent background
	AccentDim lipgloss.Color // Selected row
	Border    lipgloss.Color
	MutedFg   lipgloss.Color
	TextFg    lipgloss.Color
	DirFg     lipgloss.Color
	TrackedFg lipgloss.Color
	IgnoredFg lipgloss.Color
	SuccessFg lipgloss.Color
	ErrorFg   lipgloss.Color
}

// Theme names.
const (
	DraculaName        = "dracula"
	DraculaLightName   = "dracula-light"
	NordName           = "nord"
	GruvboxDarkName    = "gruvbox-dark"
	SolarizedLightName = "solarized-light"
)

var themes = map[string]Theme{
	DraculaName: {
		Accent:    "#BD93F9",
		AccentFg:  "#282A36",
		AccentDim: "#44475A",
		Border:    "#6272A4",
		MutedFg:   "#6272A4",
		TextFg:    "#F8F8F2",
		DirFg:     "#8BE9FD",
		TrackedFg: "#50FA7B",
		IgnoredFg: "#6272A4",
		SuccessFg: "#50FA7B",
		ErrorFg:   "#FF5555",
	},
	DraculaLightName: {
		Accent:    "#7C3AED",
		AccentFg:  "#FFFFFF",
		AccentDim: "#E5E7EB",
		Border:    "#9CA3AF",
		MutedFg:   "#6B7280",
		TextFg:    "#1F2937",
		DirFg:     "#0E7490",
		TrackedFg: "#15803D",
		IgnoredFg: "#9CA3AF",
		SuccessFg: "#15803D",
		ErrorFg:   "#DC2626",
	},
	NordName: {
		Accent:    "#88C0D0",
		AccentFg:  "#2E3440",
		AccentDim: "#3B4252",
		Border:    "#4C566A",
		MutedFg:   "#81A1C1",
		TextFg:    "#E5E9F0",
		DirFg:     "#8FBCBB",
		TrackedFg: "#A3BE8C",
		IgnoredFg: "#4C566A",
		SuccessFg: "#A3BE8C",
		ErrorFg:   "#BF616A",
	},
	GruvboxDarkName: {
		Accent:    "#FABD2F",
		AccentFg:  "#282828",
		AccentDim: "#3C3836",
		Border:    "#504945",
		MutedFg:   "#928374",
		TextFg:    "#EBDBB2",
		DirFg:     "#83A598",
		TrackedFg: "#B8BB26",
		IgnoredFg: "#665C54",
		SuccessFg: "#B8BB26",
		ErrorFg:   "#FB4934",
	},
	SolarizedLightName: {
		Accent:    "#268BD2",
		AccentFg:  "#FDF6E3",
		AccentDim: "#EEE8D5",
		Border:    "#93A1A1",
		MutedFg:   "#93A1A1",
		TextFg:    "#586E75",
		DirFg:     "#2AA198",
		TrackedFg: "#859900",
		IgnoredFg: "#93A1A1",
		SuccessFg: "#859900",
		ErrorFg:   "#DC322F",
	},
}

// GetTheme returns a theme by name, or Dracula if not found.
func GetTheme(name string) *Theme {
	t, ok := themes[name]
	if !ok {
		t = themes[DraculaName]
	}
	return &t
}

// IsLight returns true if the theme is a light theme.
func IsLight(name string) bool {
	return name == DraculaLightName || name == SolarizedLightName
}

// DefaultDark returns the default dark theme name.
func DefaultDark() string {
	return DraculaName
}

// AvailableThemes returns the sorted list of theme names.
func AvailableThemes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
