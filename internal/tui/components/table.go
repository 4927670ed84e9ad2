package components

import (
	"strings"

	"domain0/d0ctl/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Column is one table column. The Flex column absorbs spare width.
type Column struct {
	Title string
	Width int
	Flex  bool
}

// TableRows is how many data rows fit in a table of the given height.
func TableRows(height int) int {
	return max(height-2, 1)
}

// Scroll returns the first visible row so that cursor stays on screen.
func Scroll(cursor, offset, visible int) int {
	switch {
	case cursor < offset:
		return max(cursor, 0)
	case cursor >= offset+visible:
		return cursor - visible + 1
	}
	return offset
}

// Table renders a header, a rule and the visible slice of rows. Cells are
// pre-styled strings; they are truncated to their column. The row at
// cursor is marked and highlighted.
func Table(width, height int, cols []Column, rows [][]string, cursor, offset int) string {
	avail := width - 4
	cols = fit(cols, avail)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = styles.TableHeader.Width(c.Width).Render(c.Title)
	}
	lines := []string{
		"  " + lipgloss.JoinHorizontal(lipgloss.Top, header...),
		"  " + styles.MutedText.Render(strings.Repeat("─", max(avail, 0))),
	}

	end := min(offset+TableRows(height), len(rows))
	for i := max(offset, 0); i < end; i++ {
		cells := make([]string, len(cols))
		for j, c := range cols {
			var cell string
			if j < len(rows[i]) {
				cell = ansi.Truncate(rows[i][j], max(c.Width-1, 1), "…")
			}
			cells[j] = lipgloss.NewStyle().Width(c.Width).Render(cell)
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
		if i == cursor {
			lines = append(lines, styles.AccentText.Render("> ")+styles.TableSelectedRow.Render(row))
		} else {
			lines = append(lines, "  "+styles.TableCell.Render(row))
		}
	}

	out := strings.Join(lines, "\n")
	if n := len(lines); n < height {
		out += strings.Repeat("\n", height-n)
	}
	return out
}

func fit(cols []Column, avail int) []Column {
	total := 0
	for _, c := range cols {
		total += c.Width
	}
	if total >= avail {
		return cols
	}
	out := append([]Column(nil), cols...)
	for i := range out {
		if out[i].Flex {
			out[i].Width += avail - total
			break
		}
	}
	return out
}
