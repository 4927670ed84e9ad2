package tui

import (
	"context"
	"fmt"
	"strings"

	"domain0/d0ctl/internal/services/auth"
	"domain0/d0ctl/internal/tui/components"
	"domain0/d0ctl/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Messages ---

type loginSucceededMsg struct {
	claims *auth.Claims
}

type loginFailedMsg struct {
	err error
}

// --- Auth login model ---

type authLoginModel struct {
	session *auth.Session
	authn   auth.Authenticator

	userInput     textinput.Model
	passwordInput textinput.Model
	focus         int

	spinner    spinner.Model
	submitting bool

	width  int
	height int

	err      error
	claims   *auth.Claims
	quitting bool
}

// AuthLoginResult holds the outcome of the login TUI.
type AuthLoginResult struct {
	Claims *auth.Claims
}

// RunAuthLogin starts the interactive login TUI. prefillUser seeds the
// username field. A nil result means the user cancelled.
func RunAuthLogin(session *auth.Session, authn auth.Authenticator, prefillUser string) (*AuthLoginResult, error) {
	p := tea.NewProgram(newAuthLoginModel(session, authn, prefillUser), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run auth login: %w", err)
	}

	final := result.(authLoginModel)
	if final.claims == nil {
		return nil, nil
	}
	return &AuthLoginResult{Claims: final.claims}, nil
}

func newAuthLoginModel(session *auth.Session, authn auth.Authenticator, prefillUser string) authLoginModel {
	user := textinput.New()
	user.Placeholder = "username or email"
	user.Width = 50
	user.SetValue(prefillUser)

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '*'
	pass.Width = 50

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	m := authLoginModel{
		session:       session,
		authn:         authn,
		userInput:     user,
		passwordInput: pass,
		spinner:       s,
	}
	if prefillUser != "" {
		m.focus = 1
	}
	m.applyFocus()
	return m
}

func (m *authLoginModel) applyFocus() {
	if m.focus == 0 {
		m.userInput.Focus()
		m.passwordInput.Blur()
		return
	}
	m.userInput.Blur()
	m.passwordInput.Focus()
}

func (m authLoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m authLoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case loginSucceededMsg:
		m.submitting = false
		m.claims = msg.claims
		return m, tea.Quit

	case loginFailedMsg:
		m.submitting = false
		m.err = msg.err
		m.passwordInput.SetValue("")
		return m, nil

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.userInput, cmd = m.userInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m authLoginModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.focus = 1 - m.focus
		m.applyFocus()
		return m, nil
	case "enter":
		if m.focus == 0 {
			m.focus = 1
			m.applyFocus()
			return m, nil
		}
		user := strings.TrimSpace(m.userInput.Value())
		pass := m.passwordInput.Value()
		if user == "" || pass == "" {
			m.err = fmt.Errorf("username and password are required")
			return m, nil
		}
		m.err = nil
		m.submitting = true
		return m, tea.Batch(m.spinner.Tick, m.loginCmd(user, pass))
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.userInput, cmd = m.userInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	m.err = nil
	return m, cmd
}

func (m authLoginModel) loginCmd(user, pass string) tea.Cmd {
	session, authn := m.session, m.authn
	return func() tea.Msg {
		claims, err := session.Login(context.Background(), authn, user, pass)
		if err != nil {
			return loginFailedMsg{err: err}
		}
		return loginSucceededMsg{claims: claims}
	}
}

func (m authLoginModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "auth login", m.session.Endpoint())
	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "tab", Desc: "switch field"},
		{Key: "enter", Desc: "log in"},
		{Key: "esc", Desc: "cancel"},
	})

	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)
	content := m.renderContent(contentH)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (m authLoginModel) renderContent(height int) string {
	title := styles.Title.Render("Log in")
	hint := styles.MutedText.Render("Sign in to " + m.session.Endpoint())

	var status string
	switch {
	case m.submitting:
		status = "\n" + m.spinner.View() + " " + styles.MutedText.Render("Logging in…")
	case m.err != nil:
		status = "\n" + styles.ErrorText.Render(m.err.Error())
	}

	card := lipgloss.JoinVertical(lipgloss.Left,
		title,
		hint,
		"",
		styles.Label.Render("User"),
		m.userInput.View(),
		"",
		styles.Label.Render("Password"),
		m.passwordInput.View(),
		status,
	)

	return lipgloss.Place(
		m.width, height,
		lipgloss.Center, lipgloss.Center,
		card,
	)
}
