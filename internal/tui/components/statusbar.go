package components

import (
	"domain0/d0ctl/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Tone picks the colour of a status line.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneSuccess
	// TonePending is used for mutations the server deferred for approval.
	TonePending
	ToneError
)

// StatusBar renders a neutral or error status line between the content
// and the footer.
func StatusBar(width int, message string, isError bool) string {
	tone := ToneNeutral
	if isError {
		tone = ToneError
	}
	return StatusLine(width, message, tone)
}

// StatusLine renders a one-line status message in the given tone. Long
// messages are cut to the width. Returns "" for an empty message.
func StatusLine(width int, message string, tone Tone) string {
	if message == "" {
		return ""
	}

	style := styles.MutedText
	switch tone {
	case ToneSuccess:
		style = styles.SuccessText
	case TonePending:
		style = styles.WarningText
	case ToneError:
		style = styles.ErrorText
	}

	if width > 6 {
		message = ansi.Truncate(message, width-4, "…")
	}
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		Render(style.Render(message))
}
