// Package ui provides the Bubble Tea presentation layer for Woofinder:
// sign-in, search and match pages over the coordinator packages.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Woofinder palette
var (
	// Light mode
	LightBackground = lipgloss.Color("#fdf2f8")
	LightForeground = lipgloss.Color("#1f2937")
	LightPrimary    = lipgloss.Color("#db2777") // pink-600
	LightAccent     = lipgloss.Color("#9d174d")
	LightMuted      = lipgloss.Color("#9ca3af")
	LightBorder     = lipgloss.Color("#e5e7eb")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark mode (the app's default, as in the web theme)
	DarkBackground = lipgloss.Color("#111827")
	DarkForeground = lipgloss.Color("#f3f4f6")
	DarkPrimary    = lipgloss.Color("#f472b6") // pink-400
	DarkAccent     = lipgloss.Color("#db2777")
	DarkMuted      = lipgloss.Color("#6b7280")
	DarkBorder     = lipgloss.Color("#374151")
	DarkCard       = lipgloss.Color("#1f2937")

	// Semantic colors, same in both modes
	Destructive = lipgloss.Color("#ef4444")
	Success     = lipgloss.Color("#22c55e")
	Warning     = lipgloss.Color("#eab308")
)

// Theme holds the active color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// DetectTheme picks a theme from the terminal background; dark by default.
func DetectTheme() Theme {
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		// Format is "foreground;background"; background 7-15 means light.
		parts := strings.Split(colorTerm, ";")
		if len(parts) >= 2 {
			if bg, err := strconv.Atoi(parts[len(parts)-1]); err == nil && bg >= 7 && bg <= 15 {
				return LightTheme()
			}
		}
	}
	return DarkTheme()
}

// Styles bundles the lipgloss styles the pages share.
type Styles struct {
	Theme Theme

	Title     lipgloss.Style
	Header    lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Highlight lipgloss.Style

	Card         lipgloss.Style
	SelectedCard lipgloss.Style
	FieldLabel   lipgloss.Style
	Help         lipgloss.Style
	Toast        lipgloss.Style
	ToastError   lipgloss.Style
}

// NewStyles builds the shared styles for a theme.
func NewStyles(theme Theme) Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	return Styles{
		Theme: theme,

		Title:     lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Header:    lipgloss.NewStyle().Bold(true).Foreground(theme.Foreground).Underline(true),
		Bold:      lipgloss.NewStyle().Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(theme.Muted),
		Error:     lipgloss.NewStyle().Foreground(Destructive),
		Success:   lipgloss.NewStyle().Foreground(Success),
		Highlight: lipgloss.NewStyle().Foreground(theme.Primary),

		Card:         card,
		SelectedCard: card.BorderForeground(theme.Primary),
		FieldLabel:   lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Help:         lipgloss.NewStyle().Foreground(theme.Muted),
		Toast: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Success).
			Padding(0, 1),
		ToastError: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Destructive).
			Padding(0, 1),
	}
}
