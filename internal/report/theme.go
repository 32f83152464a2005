package report

import "charm.land/lipgloss/v2"

// Palette.
var (
	primary   = lipgloss.Color("#2563EB") // Blue
	secondary = lipgloss.Color("#14B8A6") // Teal
	success   = lipgloss.Color("#22C55E") // Green
	danger    = lipgloss.Color("#F43F5E") // Rose
	text      = lipgloss.Color("#F8FAFC")
	textDim   = lipgloss.Color("#94A3B8")
	border    = lipgloss.Color("#334155")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(text).
			MarginTop(1)

	dimStyle = lipgloss.NewStyle().
			Foreground(textDim)

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(text)

	upStyle = lipgloss.NewStyle().
		Foreground(success).
		Bold(true)

	downStyle = lipgloss.NewStyle().
			Foreground(danger).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1)

	barFilled = lipgloss.NewStyle().Background(secondary)
	barEmpty  = lipgloss.NewStyle().Background(border)
)
