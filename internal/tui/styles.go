package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")

	appStyle     = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	accentStyle  = lipgloss.NewStyle().Foreground(accentFg)
	dimStyle     = lipgloss.NewStyle().Foreground(baseDimFg)
	dateStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F5F5F5")).Bold(true)
	sampleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#38BDF8"))
	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")).Bold(true)
	hoverStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))

	// burstStyles fade with the age of a burst in days.
	burstStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FF1744")).Bold(true),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#F0524F")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#B8463F")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#7A3A36")),
	}
)
