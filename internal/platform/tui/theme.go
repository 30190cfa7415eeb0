package tui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/digger/internal/core"
)

// Theme contains the visual styles of the terminal front end.
type Theme struct {
	// Palette maps screen cell colors to terminal styles.
	Palette map[core.Color]lipgloss.Style

	// Menu styles
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style
	MenuControls    lipgloss.Style
}

func fg(code string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(code))
}

// DefaultTheme returns the default 256-color theme.
func DefaultTheme() Theme {
	return Theme{
		Palette: map[core.Color]lipgloss.Style{
			core.ColorDefault:      lipgloss.NewStyle(),
			core.ColorRed:          fg("1"),
			core.ColorGreen:        fg("2"),
			core.ColorYellow:       fg("3"),
			core.ColorBlue:         fg("4"),
			core.ColorMagenta:      fg("5"),
			core.ColorCyan:         fg("6"),
			core.ColorWhite:        fg("7"),
			core.ColorBrightRed:    fg("9").Bold(true),
			core.ColorBrightGreen:  fg("10").Bold(true),
			core.ColorBrightYellow: fg("11").Bold(true),
			core.ColorOrange:       fg("208"),
			core.ColorBrown:        fg("130"), // Dirt
			core.ColorGray:         fg("245"),
		},

		MenuTitle:       fg("214").Bold(true),
		MenuItemNormal:  fg("252"),
		MenuItemActive:  fg("226").Bold(true),
		MenuDescription: fg("245"),
		MenuControls:    fg("241"),
	}
}

// MonochromeTheme returns a theme without colors, for terminals that render
// 256-color codes poorly.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	plain := lipgloss.NewStyle()
	for c := range theme.Palette {
		theme.Palette[c] = plain
	}
	theme.Palette[core.ColorBrightGreen] = plain.Bold(true) // Keep the player visible
	theme.MenuTitle = plain.Bold(true)
	theme.MenuItemActive = plain.Reverse(true)
	return theme
}

var themes = map[string]func() Theme{
	"default": DefaultTheme,
	"mono":    MonochromeTheme,
}

// ThemeNames returns the names accepted by SetThemeByName.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Global theme variable (can be changed at startup)
var currentTheme = DefaultTheme()

// SetTheme sets the global theme.
func SetTheme(theme Theme) {
	currentTheme = theme
}

// SetThemeByName selects one of the built-in themes.
func SetThemeByName(name string) error {
	f, ok := themes[name]
	if !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, ThemeNames())
	}
	currentTheme = f()
	return nil
}

// GetTheme returns the current global theme.
func GetTheme() Theme {
	return currentTheme
}
