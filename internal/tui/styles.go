package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette.
const (
	colorHeader   = "63"  // purple
	colorFocus    = "212" // pink
	colorSelected = "78"  // green
	colorMuted    = "241" // gray
	colorStatus   = "252" // light gray
	colorBusy     = "214" // orange
)

// Shared styles for the grid renderer.
//
//nolint:gochecknoglobals // Style constants, initialized once.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorHeader)).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)

	focusedCellStyle = lipgloss.NewStyle().
				Reverse(true).
				Foreground(lipgloss.Color(colorFocus))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorSelected))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorStatus)).
			Faint(true)

	busyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorBusy)).
			Bold(true)

	liveRegionStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color(colorMuted))
)
