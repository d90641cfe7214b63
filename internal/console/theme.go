package console

import (
	"charm.land/lipgloss/v2"
)

// Palette
var (
	Primary = lipgloss.Color("#6366F1") // Indigo
	Accent  = lipgloss.Color("#F59E0B") // Amber
	Success = lipgloss.Color("#22C55E") // Green
	Error   = lipgloss.Color("#EF4444") // Red
	Text    = lipgloss.Color("#F8FAFC")
	TextDim = lipgloss.Color("#94A3B8")
	Border  = lipgloss.Color("#334155")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	headerStyle = lipgloss.NewStyle().
			Foreground(TextDim).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(Border)

	bodyStyle = lipgloss.NewStyle().
			Foreground(Text)

	hintStyle = lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true)

	alertStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent)

	errorStyle = lipgloss.NewStyle().
			Foreground(Error)

	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent)

	tutorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	correctStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	incorrectStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)
)
