package tui

import (
	"fmt"
	"strings"

	"domain0/d0ctl/internal/config"
	"domain0/d0ctl/internal/tui/components"
	"domain0/d0ctl/internal/tui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type configSavedMsg struct {
	key     string
	cleared bool
}

type configSaveErrorMsg struct {
	err error
}

// configViewModel browses the configuration keys with their effective
// values. Keys shadowed by an environment variable are read-only.
type configViewModel struct {
	cfg  *config.Config
	keys []config.KeySpec
	save func(*config.Config) error

	cursor  int
	editing bool
	editor  textinput.Model

	width  int
	height int

	status  string
	isError bool
}

// RunConfigView starts the interactive config viewer.
func RunConfigView() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	p := tea.NewProgram(newConfigViewModel(cfg, (*config.Config).Save), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func newConfigViewModel(cfg *config.Config, save func(*config.Config) error) configViewModel {
	return configViewModel{cfg: cfg, keys: config.Keys, save: save}
}

func (m configViewModel) Init() tea.Cmd {
	return nil
}

func (m configViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)

	case configSavedMsg:
		m.editing = false
		verb := "saved"
		if msg.cleared {
			verb = "cleared"
		}
		m.setStatus(fmt.Sprintf("%s %s", msg.key, verb), false)
		return m, nil

	case configSaveErrorMsg:
		m.setStatus("Error: "+msg.err.Error(), true)
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *configViewModel) setStatus(text string, isError bool) {
	m.status = text
	m.isError = isError
}

func (m configViewModel) selected() config.KeySpec {
	return m.keys[m.cursor]
}

func (m configViewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.keys)-1 {
			m.cursor++
		}
	case "enter", "e":
		spec := m.selected()
		if spec.Overridden() {
			m.setStatus(fmt.Sprintf("%s is set by $%s; unset it to edit here", spec.Name, spec.Env), true)
			return m, nil
		}
		ti := textinput.New()
		ti.SetValue(spec.Get(m.cfg))
		ti.Placeholder = spec.Default
		ti.Width = 40
		ti.Focus()
		m.editor = ti
		m.editing = true
		m.status = ""
		return m, textinput.Blink
	case "d", "delete":
		spec := m.selected()
		if spec.Get(m.cfg) == "" {
			m.setStatus(spec.Name+" is not set", false)
			return m, nil
		}
		spec.Unset(m.cfg)
		return m, m.saveCmd(spec.Name, true)
	}
	return m, nil
}

func (m configViewModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		return m, nil
	case "enter":
		spec := m.selected()
		value := strings.TrimSpace(m.editor.Value())
		if value == "" {
			spec.Unset(m.cfg)
			return m, m.saveCmd(spec.Name, true)
		}
		if err := spec.Set(m.cfg, value); err != nil {
			m.setStatus("Error: "+err.Error(), true)
			return m, nil
		}
		return m, m.saveCmd(spec.Name, false)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m configViewModel) saveCmd(key string, cleared bool) tea.Cmd {
	cfg, save := m.cfg, m.save
	return func() tea.Msg {
		if err := save(cfg); err != nil {
			return configSaveErrorMsg{err: err}
		}
		return configSavedMsg{key: key, cleared: cleared}
	}
}

func (m configViewModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "config", m.cfg.Endpoint())

	bindings := []components.KeyBinding{
		{Key: "j/k", Desc: "navigate"},
		{Key: "e", Desc: "edit"},
		{Key: "d", Desc: "unset"},
		{Key: "q", Desc: "quit"},
	}
	if m.editing {
		bindings = []components.KeyBinding{
			{Key: "enter", Desc: "save (empty clears)"},
			{Key: "esc", Desc: "cancel"},
		}
	}
	footer := components.Footer(m.width, bindings)
	statusBar := components.StatusBar(m.width, m.status, m.isError)

	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer)-lipgloss.Height(statusBar), 1)

	sections := []string{header, m.renderKeys(contentH)}
	if statusBar != "" {
		sections = append(sections, statusBar)
	}
	sections = append(sections, footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m configViewModel) renderKeys(height int) string {
	const nameW, sourceW = 18, 22

	lines := make([]string, 0, len(m.keys)*2)
	for i, spec := range m.keys {
		value, src := spec.Resolve(m.cfg)
		if src == config.SourceUnset {
			value = "(not set)"
		}

		prefix, nameStyle, valueStyle := "  ", styles.MutedText, styles.MutedText
		if i == m.cursor {
			prefix, nameStyle, valueStyle = styles.AccentText.Render("> "), styles.Label, styles.Value.Bold(true)
		}

		cell := valueStyle.Render(value)
		if i == m.cursor && m.editing {
			cell = m.editor.View()
		}
		lines = append(lines, prefix+
			nameStyle.Width(nameW).Render(spec.Name)+
			sourceBadge(spec, src, sourceW)+
			cell)

		if i == m.cursor && !m.editing {
			lines = append(lines, "    "+styles.MutedText.Italic(true).Render(spec.Description))
		}
	}

	card := styles.Card.Width(min(max(m.width-8, 40), 90)).Render(strings.Join(lines, "\n"))
	body := lipgloss.JoinVertical(lipgloss.Center,
		styles.Title.Render("Configuration"),
		styles.MutedText.Render(configPath()),
		"",
		card,
	)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, body)
}

func sourceBadge(spec config.KeySpec, src config.Source, width int) string {
	style := lipgloss.NewStyle().Width(width)
	switch src {
	case config.SourceEnv:
		return style.Inherit(styles.WarningText).Render("$" + spec.Env)
	case config.SourceFile:
		return style.Inherit(styles.SuccessText).Render("config file")
	case config.SourceDefault:
		return style.Inherit(styles.MutedText).Render("default")
	}
	return style.Render("")
}

func configPath() string {
	p, err := config.Path()
	if err != nil {
		return ""
	}
	return p
}
