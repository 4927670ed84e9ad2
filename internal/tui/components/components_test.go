package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestFooter_DropsBindingsThatDoNotFit(t *testing.T) {
	bindings := []KeyBinding{
		{Key: "n", Desc: "new record"},
		{Key: "e", Desc: "edit"},
		{Key: "d", Desc: "delete"},
		{Key: "q", Desc: "quit"},
	}

	wide := Footer(120, bindings)
	for _, b := range bindings {
		if !strings.Contains(wide, b.Desc) {
			t.Errorf("wide footer lacks %q", b.Desc)
		}
	}

	narrow := Footer(32, bindings)
	if !strings.Contains(narrow, "quit") {
		t.Error("the last binding must survive")
	}
	if strings.Contains(narrow, "delete") {
		t.Error("expected middle bindings to be dropped")
	}
	if w := lipgloss.Width(narrow); w > 32 {
		t.Errorf("footer width = %d", w)
	}
}

func TestFooter_TooNarrow(t *testing.T) {
	if got := Footer(8, []KeyBinding{{Key: "q", Desc: "quit"}}); got != "" {
		t.Errorf("Footer() = %q", got)
	}
}

func TestStatusLine(t *testing.T) {
	if got := StatusLine(80, "", ToneError); got != "" {
		t.Errorf("empty message rendered %q", got)
	}

	long := strings.Repeat("pending approval ", 10)
	got := StatusLine(40, long, TonePending)
	if w := lipgloss.Width(got); w > 40 {
		t.Errorf("status width = %d", w)
	}
	if !strings.Contains(got, "…") {
		t.Error("expected a truncation marker")
	}
}

func TestScroll(t *testing.T) {
	tests := []struct {
		cursor, offset, visible, want int
	}{
		{0, 0, 5, 0},
		{4, 0, 5, 0},
		{5, 0, 5, 1},
		{2, 4, 5, 2},
		{9, 2, 3, 7},
	}
	for _, tt := range tests {
		if got := Scroll(tt.cursor, tt.offset, tt.visible); got != tt.want {
			t.Errorf("Scroll(%d, %d, %d) = %d, want %d", tt.cursor, tt.offset, tt.visible, got, tt.want)
		}
	}
}

func TestTable(t *testing.T) {
	cols := []Column{{Title: "ID", Width: 4}, {Title: "NAME", Width: 10, Flex: true}}
	rows := [][]string{{"1", "alpha"}, {"2", "a-very-long-name-that-overflows"}, {"3", "gamma"}}

	out := Table(30, 4, cols, rows, 1, 1)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "NAME") {
		t.Errorf("header missing: %q", lines[0])
	}
	if strings.Contains(out, "alpha") {
		t.Error("row above the offset must not render")
	}
	if !strings.Contains(lines[2], ">") || !strings.Contains(lines[2], "…") {
		t.Errorf("cursor row should be marked and truncated: %q", lines[2])
	}
	if !strings.Contains(lines[3], "gamma") {
		t.Errorf("last visible row: %q", lines[3])
	}
}

func TestHeader_TruncatesBreadcrumbFirst(t *testing.T) {
	out := Header(40, "dns > a-really-long-domain-name.example.com", "alice")
	if !strings.Contains(out, "alice") {
		t.Errorf("user dropped:\n%s", out)
	}
	if !strings.Contains(out, "…") {
		t.Errorf("breadcrumb not truncated:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > 40 {
			t.Errorf("line width %d exceeds 40", w)
		}
	}
	if Header(5, "x", "y") != "" {
		t.Error("too narrow a header must render empty")
	}
}
