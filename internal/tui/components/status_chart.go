package components

import (
	"fmt"
	"strings"

	"domain0/d0ctl/internal/tui/styles"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

// chartHeight is the fixed height of status bar charts.
const chartHeight = 6

// StatusCount is one bar of a status chart.
type StatusCount struct {
	Label string
	Count int
	Color lipgloss.Color
}

// StatusChart renders one vertical bar per status with a legend line.
// Returns a muted placeholder when every count is zero.
func StatusChart(title string, counts []StatusCount, width int) string {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if total == 0 {
		return styles.MutedText.Render(title + ": nothing yet")
	}

	data := make([]barchart.BarData, 0, len(counts))
	legend := make([]string, 0, len(counts))
	for _, c := range counts {
		style := lipgloss.NewStyle().Foreground(c.Color)
		data = append(data, barchart.BarData{
			Label: abbreviate(c.Label, 4),
			Values: []barchart.BarValue{
				{Name: c.Label, Value: float64(c.Count), Style: style},
			},
		})
		legend = append(legend, style.Render("■")+" "+styles.MutedText.Render(fmt.Sprintf("%s %d", c.Label, c.Count)))
	}

	chartWidth := max(min(width, len(counts)*8), 12)
	chart := barchart.New(chartWidth, chartHeight)
	chart.PushAll(data)
	chart.Draw()

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Label.Render(title),
		chart.View(),
		strings.Join(legend, "  "),
	)
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
