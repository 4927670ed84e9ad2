package tui

import (
	"errors"
	"fmt"

	"domain0/d0ctl/internal/services/auth"
	"domain0/d0ctl/internal/tui/components"
	"domain0/d0ctl/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SessionField is one row of the status card.
type SessionField struct {
	Label string
	Value string
}

// --- Auth status model ---

type authStatusModel struct {
	endpoint string
	fields   []SessionField
	ok       bool
	summary  string

	width  int
	height int
}

// RunAuthStatus starts the full-window session status TUI.
func RunAuthStatus(session *auth.Session) error {
	p := tea.NewProgram(newAuthStatusModel(session), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newAuthStatusModel(session *auth.Session) authStatusModel {
	m := authStatusModel{endpoint: session.Endpoint()}

	claims, err := session.Claims()
	switch {
	case err == nil:
		m.ok = true
		m.summary = "logged in"
		m.fields = SessionFields(claims)
	case errors.Is(err, auth.ErrTokenNotFound):
		m.summary = "not logged in"
	case errors.Is(err, auth.ErrTokenExpired):
		m.summary = "session expired, log in again"
	default:
		m.summary = fmt.Sprintf("error: %v", err)
	}
	return m
}

// SessionFields lists the claims shown by auth status.
func SessionFields(c *auth.Claims) []SessionField {
	fields := []SessionField{
		{"User ID", c.UserID()},
		{"Name", c.Name},
		{"Email", c.Email},
		{"Role", c.Role.String()},
	}
	if c.StudentID != "" {
		fields = append(fields, SessionField{"Student ID", c.StudentID})
	}
	if exp := c.Expiry(); !exp.IsZero() {
		fields = append(fields, SessionField{"Expires", exp.Local().Format("2006-01-02 15:04")})
	}
	return fields
}

func (m authStatusModel) Init() tea.Cmd {
	return nil
}

func (m authStatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m authStatusModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "auth status", "")
	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "q", Desc: "quit"},
	})

	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)
	content := m.renderContent(contentH)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (m authStatusModel) renderContent(height int) string {
	title := styles.Title.Render("Session")

	labelWidth := 14
	rows := []string{
		styles.Label.Width(labelWidth).Render("Endpoint") + styles.Value.Render(m.endpoint),
	}

	statusStyle := styles.MutedText
	if m.ok {
		statusStyle = styles.SuccessText
	}
	rows = append(rows, styles.Label.Width(labelWidth).Render("Status")+statusStyle.Render(m.summary))

	for _, f := range m.fields {
		rows = append(rows, styles.Label.Width(labelWidth).Render(f.Label)+styles.Value.Render(f.Value))
	}

	card := styles.Card.Width(56).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	combined := lipgloss.JoinVertical(lipgloss.Center, title, "", card)

	return lipgloss.Place(
		m.width, height,
		lipgloss.Center, lipgloss.Center,
		combined,
	)
}
