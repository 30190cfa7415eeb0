package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/digger/internal/core"
)

// RenderScreen converts a Screen buffer to a styled string using the current theme.
func RenderScreen(s *core.Screen) string {
	return renderWithPalette(s, currentTheme.Palette)
}

// renderWithPalette groups adjacent cells with the same color to minimize
// ANSI escape sequences.
func renderWithPalette(s *core.Screen, palette map[core.Color]lipgloss.Style) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := palette[startColor]
			if !ok {
				style = palette[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
