package tui

import (
	"context"
	"fmt"
	"strings"

	"domain0/d0ctl/internal/dns/vendors"
	"domain0/d0ctl/internal/domain"
	"domain0/d0ctl/internal/tui/components"
	"domain0/d0ctl/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type dnsDomainsLoadedMsg struct {
	domains []domain.Domain
}

type dnsDomainsErrorMsg struct {
	err error
}

// DomainSource lists the domains the caller can manage.
type DomainSource interface {
	List(ctx context.Context) ([]domain.Domain, error)
}

var domainColumns = []components.Column{
	{Title: "ID", Width: 7},
	{Title: "DOMAIN", Width: 28, Flex: true},
	{Title: "VENDOR", Width: 14},
	{Title: "ICP", Width: 6},
	{Title: "CREATED", Width: 12},
}

// dnsDomainListModel picks the domain whose records to open. Typing "/"
// narrows the list by name.
type dnsDomainListModel struct {
	source DomainSource
	user   string

	all     []domain.Domain
	visible []domain.Domain
	cursor  int
	offset  int

	filtering bool
	filter    textinput.Model

	loading bool
	spinner spinner.Model
	err     error

	width  int
	height int
}

func newDNSDomainListModel(source DomainSource, user string, width, height int) dnsDomainListModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	f := textinput.New()
	f.Prompt = "/"
	f.Placeholder = "filter by name"
	f.CharLimit = 253

	return dnsDomainListModel{
		source:  source,
		user:    user,
		width:   width,
		height:  height,
		loading: true,
		spinner: s,
		filter:  f,
	}
}

func (m dnsDomainListModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m dnsDomainListModel) loadCmd() tea.Cmd {
	src := m.source
	return func() tea.Msg {
		domains, err := src.List(context.Background())
		if err != nil {
			return dnsDomainsErrorMsg{err}
		}
		return dnsDomainsLoadedMsg{domains}
	}
}

// applyFilter recomputes the visible rows, keeping the cursor in range.
func (m *dnsDomainListModel) applyFilter() {
	needle := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = make([]domain.Domain, 0, len(m.all))
	for _, d := range m.all {
		if needle == "" || strings.Contains(strings.ToLower(d.Name), needle) {
			m.visible = append(m.visible, d)
		}
	}
	m.cursor = min(m.cursor, max(len(m.visible)-1, 0))
	m.offset = components.Scroll(m.cursor, min(m.offset, m.cursor), m.rows())
}

func (m dnsDomainListModel) rows() int {
	return components.TableRows(m.height - 4)
}

func (m *dnsDomainListModel) move(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.visible)-1)
	m.offset = components.Scroll(m.cursor, m.offset, m.rows())
}

func (m dnsDomainListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.offset = components.Scroll(m.cursor, m.offset, m.rows())

	case dnsDomainsLoadedMsg:
		m.loading = false
		m.err = nil
		m.all = msg.domains
		m.cursor, m.offset = 0, 0
		m.applyFilter()

	case dnsDomainsErrorMsg:
		m.loading = false
		m.err = msg.err

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m dnsDomainListModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case "up", "down":
		return m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m dnsDomainListModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		if m.filter.Value() != "" && msg.String() == "esc" {
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		}
		return m, tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "g", "home":
		m.move(-len(m.visible))
	case "G", "end":
		m.move(len(m.visible))
	case "/":
		m.filtering = true
		cmd := m.filter.Focus()
		return m, cmd
	case "r":
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadCmd())
	case "enter":
		if m.cursor < len(m.visible) {
			dom := m.visible[m.cursor]
			return m, func() tea.Msg { return dnsNavigateToRecordListMsg{domain: dom} }
		}
	}
	return m, nil
}

func (m dnsDomainListModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := components.Header(m.width, "dns > domains", m.user)

	bindings := []components.KeyBinding{{Key: "ctrl+c", Desc: "quit"}}
	switch {
	case m.filtering:
		bindings = []components.KeyBinding{{Key: "enter", Desc: "keep filter"}, {Key: "esc", Desc: "clear"}}
	case !m.loading:
		bindings = []components.KeyBinding{
			{Key: "j/k", Desc: "navigate"},
			{Key: "enter", Desc: "records"},
			{Key: "/", Desc: "filter"},
			{Key: "r", Desc: "refresh"},
			{Key: "q", Desc: "quit"},
		}
	}
	footer := components.Footer(m.width, bindings)

	var status string
	tone := components.ToneNeutral
	switch {
	case m.err != nil:
		status, tone = "Error: "+m.err.Error(), components.ToneError
	case !m.loading && len(m.all) > 0 && len(m.visible) != len(m.all):
		status = fmt.Sprintf("%d of %d domains", len(m.visible), len(m.all))
	case !m.loading:
		status = fmt.Sprintf("%d domains", len(m.all))
	}
	statusBar := components.StatusLine(m.width, status, tone)

	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer)-lipgloss.Height(statusBar), 1)

	sections := []string{header, m.renderContent(contentH)}
	if statusBar != "" {
		sections = append(sections, statusBar)
	}
	return lipgloss.JoinVertical(lipgloss.Left, append(sections, footer)...)
}

func (m dnsDomainListModel) renderContent(height int) string {
	center := func(s string) string {
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, s)
	}
	switch {
	case m.loading:
		return center(styles.MutedText.Render(m.spinner.View() + "  Fetching domains…"))
	case m.err != nil:
		return center(styles.ErrorText.Render("Could not load domains. Press r to retry."))
	case len(m.all) == 0:
		return center(styles.MutedText.Render("You have no domains yet. Register one with 'd0ctl domain create'."))
	}

	var top string
	if m.filtering || m.filter.Value() != "" {
		top = "  " + m.filter.View()
		height--
	}
	if len(m.visible) == 0 {
		body := lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("No domain matches the filter."))
		return strings.TrimPrefix(top+"\n"+body, "\n")
	}

	rows := make([][]string, len(m.visible))
	for i, d := range m.visible {
		icp := styles.MutedText.Render("no")
		if d.HasICP() {
			icp = styles.SuccessText.Render("yes")
		}
		created := "-"
		if !d.CreatedAt.IsZero() {
			created = d.CreatedAt.Local().Format("2006-01-02")
		}
		rows[i] = []string{fmt.Sprint(d.ID), d.Name, vendors.Get(d.Vendor).DisplayName, icp, created}
	}
	table := components.Table(m.width, height, domainColumns, rows, m.cursor, m.offset)
	if top == "" {
		return table
	}
	return top + "\n" + table
}
