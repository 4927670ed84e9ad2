// Package tui is the full-window change-request browser: the requests
// awaiting the user's decision and the ones the user submitted.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"domain0/d0ctl/internal/changerequest"
	"domain0/d0ctl/internal/domain"
	"domain0/d0ctl/internal/tui/components"
	"domain0/d0ctl/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Workflow loads change requests and records decisions.
type Workflow interface {
	Load(ctx context.Context) (changerequest.Lists, error)
	Accept(ctx context.Context, id int64) ([]domain.ChangeRequest, error)
	Reject(ctx context.Context, id int64) ([]domain.ChangeRequest, error)
}

// --- Messages ---

type changesLoadedMsg struct {
	lists changerequest.Lists
}

type changesErrorMsg struct {
	err error
}

type decisionResultMsg struct {
	id      int64
	accept  bool
	pending []domain.ChangeRequest
	err     error
}

type changeTab int

const (
	tabPending changeTab = iota
	tabSubmitted
)

type changeAppModel struct {
	workflow    Workflow
	user        string
	domainNames map[int64]string

	tab       changeTab
	lists     changerequest.Lists
	cursor    int
	listStart int

	showDetail bool

	// confirming is set while a decision waits for y/n.
	confirming   bool
	confirmAllow bool

	loading bool
	busy    bool
	spinner spinner.Model

	status        string
	statusIsError bool

	width  int
	height int
}

// RunChangeApp starts the change-request TUI. domainNames maps domain ids
// to names for display and may be nil.
func RunChangeApp(wf Workflow, user string, domainNames map[int64]string) error {
	p := tea.NewProgram(newChangeAppModel(wf, user, domainNames), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newChangeAppModel(wf Workflow, user string, domainNames map[int64]string) changeAppModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	return changeAppModel{
		workflow:    wf,
		user:        user,
		domainNames: domainNames,
		loading:     true,
		spinner:     s,
	}
}

func (m changeAppModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m changeAppModel) loadCmd() tea.Cmd {
	wf := m.workflow
	return func() tea.Msg {
		lists, err := wf.Load(context.Background())
		if err != nil {
			return changesErrorMsg{err}
		}
		return changesLoadedMsg{lists}
	}
}

func (m changeAppModel) decideCmd(id int64, accept bool) tea.Cmd {
	wf := m.workflow
	return func() tea.Msg {
		var (
			pending []domain.ChangeRequest
			err     error
		)
		if accept {
			pending, err = wf.Accept(context.Background(), id)
		} else {
			pending, err = wf.Reject(context.Background(), id)
		}
		return decisionResultMsg{id: id, accept: accept, pending: pending, err: err}
	}
}

func (m changeAppModel) current() []domain.ChangeRequest {
	if m.tab == tabSubmitted {
		return m.lists.Applied
	}
	return m.lists.Pending
}

func (m changeAppModel) selected() (domain.ChangeRequest, bool) {
	list := m.current()
	if m.cursor < 0 || m.cursor >= len(list) {
		return domain.ChangeRequest{}, false
	}
	return list[m.cursor], true
}

func (m *changeAppModel) clampCursor() {
	if n := len(m.current()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.updateScroll()
}

func (m *changeAppModel) updateScroll() {
	m.listStart = components.Scroll(m.cursor, m.listStart, components.TableRows(m.tableHeight()))
}

func (m changeAppModel) tableHeight() int {
	h := m.height - 3 - 2 - 2 // header, footer + status, tabs
	if m.showDetail {
		h /= 2
	}
	return max(h, 3)
}

func (m *changeAppModel) setStatus(msg string, isError bool) {
	m.status = msg
	m.statusIsError = isError
}

func (m changeAppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateScroll()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case changesLoadedMsg:
		m.loading = false
		m.lists = msg.lists
		m.clampCursor()
		if m.status == "" {
			m.setStatus(fmt.Sprintf("%d awaiting decision, %d submitted", len(m.lists.Pending), len(m.lists.Applied)), false)
		}

	case changesErrorMsg:
		m.loading = false
		m.setStatus(msg.err.Error(), true)

	case decisionResultMsg:
		m.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, changerequest.ErrAlreadyDecided) {
				m.setStatus(fmt.Sprintf("Change #%d was already decided", msg.id), true)
			} else {
				m.setStatus(fmt.Sprintf("Change #%d: %v", msg.id, msg.err), true)
			}
			return m, nil
		}
		verb := "Rejected"
		if msg.accept {
			verb = "Accepted"
		}
		m.lists.Pending = msg.pending
		m.clampCursor()
		m.setStatus(fmt.Sprintf("%s change #%d", verb, msg.id), false)

	case spinner.TickMsg:
		if m.loading || m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m changeAppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.loading || m.busy {
		return m, nil
	}

	if m.confirming {
		m.confirming = false
		cr, ok := m.selected()
		if !ok {
			return m, nil
		}
		switch msg.String() {
		case "y", "Y", "enter":
			m.busy = true
			m.setStatus(fmt.Sprintf("Submitting decision for #%d…", cr.ID), false)
			return m, tea.Batch(m.spinner.Tick, m.decideCmd(cr.ID, m.confirmAllow))
		}
		m.setStatus("Cancelled", false)
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		if m.showDetail && msg.String() == "esc" {
			m.showDetail = false
			return m, nil
		}
		return m, tea.Quit
	case "tab", "left", "right", "h", "l":
		if m.tab == tabPending {
			m.tab = tabSubmitted
		} else {
			m.tab = tabPending
		}
		m.cursor, m.listStart = 0, 0
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.updateScroll()
	case "down", "j":
		if m.cursor < len(m.current())-1 {
			m.cursor++
		}
		m.updateScroll()
	case "enter":
		m.showDetail = !m.showDetail
		m.updateScroll()
	case "r":
		m.loading = true
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, m.loadCmd())
	case "a", "x":
		if m.tab != tabPending {
			return m, nil
		}
		cr, ok := m.selected()
		if !ok {
			return m, nil
		}
		if cr.Decided() {
			m.setStatus(fmt.Sprintf("Change #%d is already %s", cr.ID, strings.ToLower(cr.ActionStatus.String())), true)
			return m, nil
		}
		m.confirming = true
		m.confirmAllow = msg.String() == "a"
		verb := "Reject"
		if m.confirmAllow {
			verb = "Accept"
		}
		m.setStatus(fmt.Sprintf("%s change #%d? y/n", verb, cr.ID), false)
	}

	return m, nil
}

func (m changeAppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "changes", m.user)

	bindings := []components.KeyBinding{
		{Key: "tab", Desc: "switch list"},
		{Key: "j/k", Desc: "nav"},
		{Key: "enter", Desc: "details"},
	}
	if m.tab == tabPending {
		bindings = append(bindings,
			components.KeyBinding{Key: "a", Desc: "accept"},
			components.KeyBinding{Key: "x", Desc: "reject"},
		)
	}
	bindings = append(bindings,
		components.KeyBinding{Key: "r", Desc: "reload"},
		components.KeyBinding{Key: "q", Desc: "quit"},
	)
	footer := components.Footer(m.width, bindings)

	statusText := m.status
	if m.busy {
		statusText = m.spinner.View() + " " + statusText
	}
	statusBar := components.StatusBar(m.width, statusText, m.statusIsError)

	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer)-lipgloss.Height(statusBar), 1)

	var content string
	if m.loading {
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render(m.spinner.View()+"  Fetching change requests…"))
	} else {
		content = m.renderContent(contentH)
	}

	sections := []string{header, content}
	if statusBar != "" {
		sections = append(sections, statusBar)
	}
	sections = append(sections, footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m changeAppModel) renderContent(height int) string {
	tabs := m.renderTabs()
	parts := []string{tabs, ""}

	if m.tab == tabSubmitted && !m.showDetail && height > 22 {
		parts = append(parts, "  "+components.StatusChart("Submitted by status", statusCounts(m.lists.Applied), m.width-4), "")
	}

	used := 0
	for _, p := range parts {
		used += lipgloss.Height(p)
	}
	tableH := max(height-used, 3)
	if m.showDetail {
		tableH = max(tableH/2, 3)
	}
	parts = append(parts, m.renderTable(tableH))

	if m.showDetail {
		if cr, ok := m.selected(); ok {
			parts = append(parts, m.renderDetail(cr))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if lines := strings.Count(content, "\n") + 1; lines < height {
		content += strings.Repeat("\n", height-lines)
	}
	return content
}

func (m changeAppModel) renderTabs() string {
	labels := []string{
		fmt.Sprintf("Awaiting my decision (%d)", len(m.lists.Pending)),
		fmt.Sprintf("Submitted by me (%d)", len(m.lists.Applied)),
	}
	out := make([]string, len(labels))
	for i, label := range labels {
		if changeTab(i) == m.tab {
			out[i] = "[" + styles.AccentText.Bold(true).Render(label) + "]"
		} else {
			out[i] = " " + styles.MutedText.Render(label) + " "
		}
	}
	return "  " + strings.Join(out, "  ")
}

var changeColumns = []components.Column{
	{Title: "ID", Width: 6},
	{Title: "DOMAIN", Width: 24, Flex: true},
	{Title: "ACTION", Width: 14},
	{Title: "STATUS", Width: 12},
	{Title: "CREATED", Width: 18},
}

func (m changeAppModel) renderTable(height int) string {
	list := m.current()
	if len(list) == 0 {
		empty := "Nothing awaiting your decision."
		if m.tab == tabSubmitted {
			empty = "You have not submitted any change requests."
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Top, styles.MutedText.Render("\n"+empty))
	}

	rows := make([][]string, len(list))
	for i, cr := range list {
		created := "-"
		if !cr.CreatedAt.IsZero() {
			created = cr.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		status := cr.ActionStatus.String()
		rows[i] = []string{
			fmt.Sprint(cr.ID),
			m.domainName(cr.DomainID),
			cr.ActionType.String(),
			styles.StatusStyle(status).Render(status),
			created,
		}
	}
	return components.Table(m.width, height, changeColumns, rows, m.cursor, m.listStart)
}

func (m changeAppModel) renderDetail(cr domain.ChangeRequest) string {
	lines := []string{
		styles.Title.Render(fmt.Sprintf("Change #%d", cr.ID)) + "  " + styles.StatusIndicator(cr.ActionStatus.String()),
		"",
		styles.Label.Render("Domain   ") + styles.Value.Render(m.domainName(cr.DomainID)),
		styles.Label.Render("Author   ") + styles.Value.Render(fmt.Sprintf("user %d", cr.UserID)),
		styles.Label.Render("Action   ") + styles.Value.Render(cr.ActionType.String()),
	}
	if cr.Reason != "" {
		lines = append(lines, styles.Label.Render("Reason   ")+styles.Value.Render(cr.Reason))
	}
	lines = append(lines, "", styles.Label.Render("Operation"), styles.MutedText.Render(changerequest.PrettyOperation(cr.Operation)))

	return styles.Card.Width(max(m.width-4, 20)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m changeAppModel) domainName(id int64) string {
	if name, ok := m.domainNames[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

func statusCounts(list []domain.ChangeRequest) []components.StatusCount {
	counts := changerequest.Counts(list)
	return []components.StatusCount{
		{Label: domain.StatusReviewing.String(), Count: counts[domain.StatusReviewing], Color: styles.Yellow},
		{Label: domain.StatusApproved.String(), Count: counts[domain.StatusApproved], Color: styles.Green},
		{Label: domain.StatusRejected.String(), Count: counts[domain.StatusRejected], Color: styles.Red},
	}
}
