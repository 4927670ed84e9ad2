// Package styles holds the colour palette and shared lipgloss styles of
// the d0ctl terminal console.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	White   = lipgloss.Color("#E2E2E2")
	Gray    = lipgloss.Color("#888888")
	Muted   = lipgloss.Color("#555555")
	DimGray = lipgloss.Color("#444444")

	Blue     = lipgloss.Color("#5FAFFF")
	DarkBlue = lipgloss.Color("#1A2F40")

	// Outcome colours: applied, pending approval, rejected.
	Green  = lipgloss.Color("#5FD787")
	Yellow = lipgloss.Color("#FFD787")
	Red    = lipgloss.Color("#FF8787")

	// Extra record-type hues.
	Purple = lipgloss.Color("#C3A6FF")
	Cyan   = lipgloss.Color("#87D7D7")
)
