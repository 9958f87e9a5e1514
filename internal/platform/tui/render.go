package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-platformer/internal/core"
)

// cellStyles[fg][bg] is the style for a cell. Built once; read-only after.
var cellStyles = buildCellStyles()

func buildCellStyles() [][]lipgloss.Style {
	colors := core.Colors()
	styles := make([][]lipgloss.Style, len(colors))
	for _, fg := range colors {
		styles[fg] = make([]lipgloss.Style, len(colors))
		for _, bg := range colors {
			st := lipgloss.NewStyle()
			if code := fg.Code(); code != "" {
				st = st.Foreground(lipgloss.Color(code))
			}
			if code := bg.Code(); code != "" {
				st = st.Background(lipgloss.Color(code))
			}
			styles[fg][bg] = st
		}
	}
	return styles
}

func cellStyle(fg, bg core.Color) lipgloss.Style {
	if int(fg) >= len(cellStyles) || int(bg) >= len(cellStyles) {
		return cellStyles[core.ColorDefault][core.ColorDefault]
	}
	return cellStyles[fg][bg]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colors to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			first := s.GetCell(x, y)

			run.Reset()
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Fg != first.Fg || cell.Bg != first.Bg {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(cellStyle(first.Fg, first.Bg).Render(run.String()))
		}
	}
	return sb.String()
}
