package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// progressBar renders a bar of width cells filled to percent (0-100),
// followed by the percentage.
func progressBar(percent float64, width int) string {
	if width < 4 {
		width = 4
	}
	filled := int(float64(width) * percent / 100)
	filled = max(0, min(filled, width))

	bar := barFilled.Render(strings.Repeat(" ", filled)) +
		barEmpty.Render(strings.Repeat(" ", width-filled))
	return bar + dimStyle.Render(fmt.Sprintf(" %3d%%", int(percent)))
}

// padRight pads s to width display cells.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
