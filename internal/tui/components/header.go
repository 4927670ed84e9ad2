// Package components holds render-only building blocks shared by the
// d0ctl TUI models: header, footer, status line, table and chart.
package components

import (
	"strings"

	"domain0/d0ctl/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Header renders "d0ctl > breadcrumb" on the left and who is logged in on
// the right, over a rule. When space is short the breadcrumb is cut
// before the right-hand side is.
func Header(width int, breadcrumb string, user string) string {
	if width < 10 {
		return ""
	}
	inner := width - 4

	right := ""
	if user != "" {
		right = styles.Subtitle.Render(ansi.Truncate(user, max(inner/3, 1), "…"))
	}

	left := styles.Title.Foreground(styles.Blue).Render("d0ctl")
	if breadcrumb != "" {
		room := inner - lipgloss.Width(left) - lipgloss.Width(right) - 4
		if room > 1 {
			left += styles.MutedText.Render(" > ") + styles.Title.Render(ansi.Truncate(breadcrumb, room, "…"))
		}
	}

	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderBottom(true).
		BorderForeground(styles.DimGray).
		Render(left + strings.Repeat(" ", gap) + right)
}
