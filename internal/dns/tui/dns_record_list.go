package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"domain0/d0ctl/internal/dns/coordinator"
	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/dns/vendors"
	"domain0/d0ctl/internal/domain"
	"domain0/d0ctl/internal/tui/components"
	"domain0/d0ctl/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// --- Messages ---

type dnsRecordsLoadedMsg struct {
	records []dnsdomain.Record
}

type dnsRecordsErrorMsg struct {
	err error
}

// dnsCallResultMsg carries a finished mutation back onto the update loop.
type dnsCallResultMsg struct {
	result coordinator.Result
}

// --- Record list model ---

type dnsRecordListModel struct {
	provider dnsdomain.Provider
	coord    *coordinator.Coordinator
	domain   domain.Domain
	vendor   vendors.Entry
	user     string

	cursor    int
	listStart int // for scrolling

	typeFilter string // e.g. "A", "CNAME", "" for all
	typeTypes  []string

	// form is the open draft editor, if any.
	form *dnsRecordFormModel

	width  int
	height int

	loading       bool
	spinner       spinner.Model
	err           error
	status        string
	statusIsError bool
	statusTone    components.Tone

	embedded bool
}

func newDNSRecordListModel(provider dnsdomain.Provider, dom domain.Domain, user string, embedded bool, width, height int) dnsRecordListModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	return dnsRecordListModel{
		provider:  provider,
		coord:     coordinator.New(provider, dom.ID),
		domain:    dom,
		vendor:    vendors.Get(dom.Vendor),
		user:      user,
		typeTypes: []string{"", "A", "AAAA", "CNAME", "MX", "TXT"},
		embedded:  embedded,
		width:     width,
		height:    height,
		loading:   true,
		spinner:   s,
	}
}

func (m dnsRecordListModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadRecordsCmd())
}

func (m dnsRecordListModel) loadRecordsCmd() tea.Cmd {
	provider, domainID := m.provider, m.domain.ID
	return func() tea.Msg {
		records, err := provider.ListRecords(context.Background(), domainID)
		if err != nil {
			return dnsRecordsErrorMsg{err}
		}
		return dnsRecordsLoadedMsg{records}
	}
}

func (m dnsRecordListModel) executeCmd(call coordinator.Call) tea.Cmd {
	provider, name := m.provider, m.domain.Name
	return func() tea.Msg {
		start := time.Now()
		res := coordinator.Execute(context.Background(), provider, call)
		recordAudit(name, res, start)
		return dnsCallResultMsg{result: res}
	}
}

// visibleRows returns the merged rows that pass the type filter.
func (m dnsRecordListModel) visibleRows() []coordinator.Row {
	all := m.coord.Rows()
	rows := make([]coordinator.Row, 0, len(all))
	for _, r := range all {
		if m.typeFilter == "" || r.IsNew || strings.EqualFold(string(r.Fields.Type), m.typeFilter) {
			rows = append(rows, r)
		}
	}
	return rows
}

func (m dnsRecordListModel) selected() (coordinator.Row, bool) {
	rows := m.visibleRows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return coordinator.Row{}, false
	}
	return rows[m.cursor], true
}

func (m *dnsRecordListModel) clampCursor() {
	n := len(m.visibleRows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.updateScroll()
}

func (m *dnsRecordListModel) moveCursor(to int) {
	if r, ok := m.selected(); ok {
		m.coord.Blur(r.Identity)
	}
	m.cursor = to
	m.clampCursor()
}

func (m *dnsRecordListModel) selectIdentity(id dnsdomain.Identity) {
	for i, r := range m.visibleRows() {
		if r.Identity == id {
			m.cursor = i
			m.updateScroll()
			return
		}
	}
}

func (m *dnsRecordListModel) updateScroll() {
	headerH, footerH, statusH := 3, 1, 1 // approximate
	contentH := max(m.height-headerH-footerH-statusH, 1)
	filterBarH := 1
	tableH := max(contentH-filterBarH-1, 1)
	visibleRows := max(tableH-3, 1)

	if m.cursor < m.listStart {
		m.listStart = m.cursor
	} else if m.cursor >= m.listStart+visibleRows {
		m.listStart = m.cursor - visibleRows + 1
	}
}

func (m *dnsRecordListModel) setStatus(msg string, isError bool) {
	m.status = msg
	m.statusIsError = isError
	m.statusTone = components.ToneNeutral
	if isError {
		m.statusTone = components.ToneError
	}
}

func (m *dnsRecordListModel) openForm(id dnsdomain.Identity) {
	draft, err := m.coord.Draft(id)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	row, _ := m.coord.Row(id)
	form := newDNSRecordFormModel(id, draft, row.IsNew, m.vendor.Proxyable, m.width)
	m.form = &form
	m.selectIdentity(id)
}

// editRow puts a row in edit mode and opens its form.
func (m *dnsRecordListModel) editRow(id dnsdomain.Identity) {
	if err := m.coord.Edit(id); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.openForm(id)
}

func (m dnsRecordListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.form != nil {
			m.form.width = msg.Width
		}

	case tea.KeyMsg:
		if m.loading {
			if msg.String() == "ctrl+c" && !m.embedded {
				return m, tea.Quit
			}
			return m, nil
		}
		if m.form != nil {
			form, cmd := m.form.Update(msg)
			m.form = &form
			return m, cmd
		}
		return m.handleKey(msg)

	case dnsFormSubmitMsg:
		if err := m.coord.SetDraft(msg.id, msg.opts); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		call, err := m.coord.PrepareSave(msg.id)
		if err != nil {
			if m.form != nil {
				m.form.err = err
			}
			return m, nil
		}
		m.form = nil
		m.setStatus(fmt.Sprintf("Saving %s…", displayName(msg.opts.Name)), false)
		return m, m.executeCmd(call)

	case dnsFormCancelMsg:
		if err := m.coord.Cancel(msg.id); err != nil && !errors.Is(err, coordinator.ErrNotEditing) {
			m.setStatus(err.Error(), true)
		}
		m.form = nil
		m.clampCursor()

	case dnsEditRowMsg:
		m.editRow(msg.id)

	case dnsCallResultMsg:
		n, ok := m.coord.Apply(msg.result)
		if !ok {
			return m, nil
		}
		m.setStatus(n.Message, n.Level == coordinator.LevelError)
		m.statusTone = toneFor(n.Level)
		call := msg.result.Call
		if msg.result.Outcome.Kind == dnsdomain.OutcomeRejected && call.Kind != coordinator.CallDelete && m.form == nil {
			m.openForm(call.Identity)
			if m.form != nil {
				m.form.err = n.Err
			}
		}
		m.clampCursor()

	case dnsRecordsLoadedMsg:
		m.loading = false
		m.err = nil
		m.form = nil
		m.coord.Reset(msg.records)
		m.clampCursor()
		if !m.statusIsError && m.status == "" {
			m.setStatus(fmt.Sprintf("%d record(s)", len(msg.records)), false)
		}

	case dnsRecordsErrorMsg:
		m.loading = false
		m.err = msg.err
		m.setStatus(msg.err.Error(), true)

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	default:
		if m.form != nil {
			form, cmd := m.form.Update(msg)
			m.form = &form
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m dnsRecordListModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.visibleRows()

	switch msg.String() {
	case "esc", "backspace":
		if r, ok := m.selected(); ok && r.Armed {
			m.coord.Blur(r.Identity)
			m.setStatus("Delete cancelled", false)
			return m, nil
		}
		if m.embedded {
			return m, func() tea.Msg { return dnsNavigateBackMsg{} }
		}
		return m, tea.Quit
	case "ctrl+c", "q":
		if !m.embedded {
			return m, tea.Quit
		}
	case "up", "k":
		if m.cursor > 0 {
			m.moveCursor(m.cursor - 1)
		}
	case "down", "j":
		if m.cursor < len(rows)-1 {
			m.moveCursor(m.cursor + 1)
		}
	case "g":
		m.moveCursor(0)
	case "G":
		m.moveCursor(len(rows) - 1)
	case "f":
		idx := 0
		for i, t := range m.typeTypes {
			if t == m.typeFilter {
				idx = i
				break
			}
		}
		if r, ok := m.selected(); ok {
			m.coord.Blur(r.Identity)
		}
		m.typeFilter = m.typeTypes[(idx+1)%len(m.typeTypes)]
		m.clampCursor()
	case "r":
		m.loading = true
		m.err = nil
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, m.loadRecordsCmd())
	case "a", "c":
		if r, ok := m.selected(); ok {
			m.coord.Blur(r.Identity)
		}
		id := m.coord.Add()
		m.openForm(id)
	case "e", "enter":
		if r, ok := m.selected(); ok {
			m.editRow(r.Identity)
		}
	case "s":
		if r, ok := m.selected(); ok && !r.IsNew {
			id, rec := r.Identity, r.Fields
			return m, func() tea.Msg { return dnsNavigateToRecordShowMsg{id: id, record: rec} }
		}
	case "d":
		r, ok := m.selected()
		if !ok {
			return m, nil
		}
		if r.Armed {
			call, err := m.coord.ConfirmDelete(r.Identity)
			if err != nil {
				m.setStatus(err.Error(), true)
				return m, nil
			}
			m.setStatus(fmt.Sprintf("Deleting %s…", displayName(r.Fields.Name)), false)
			return m, m.executeCmd(call)
		}
		if err := m.coord.ArmDelete(r.Identity); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Press d again to delete %s, esc to cancel", displayName(r.Fields.Name)), false)
	}

	return m, nil
}

func (m dnsRecordListModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "dns > "+m.domain.Name, m.user)

	var footerBindings []components.KeyBinding
	switch {
	case m.loading:
		footerBindings = []components.KeyBinding{
			{Key: "ctrl+c", Desc: "quit"},
		}
	case m.form != nil:
		footerBindings = []components.KeyBinding{
			{Key: "tab", Desc: "next field"},
			{Key: "enter", Desc: "save"},
			{Key: "esc", Desc: "cancel"},
		}
	default:
		footerBindings = []components.KeyBinding{
			{Key: "j/k", Desc: "nav"},
			{Key: "a", Desc: "add"},
			{Key: "e", Desc: "edit"},
			{Key: "d", Desc: "delete"},
			{Key: "s", Desc: "show"},
			{Key: "f", Desc: "filter"},
			{Key: "r", Desc: "reload"},
			{Key: "esc", Desc: "back"},
		}
		if !m.embedded {
			footerBindings = append(footerBindings, components.KeyBinding{Key: "q", Desc: "quit"})
		}
	}
	footer := components.Footer(m.width, footerBindings)

	statusBar := ""
	if m.err != nil {
		statusBar = components.StatusBar(m.width, "Error: "+m.err.Error(), true)
	} else if m.status != "" {
		statusBar = components.StatusLine(m.width, m.status, m.statusTone)
	}

	headerH := lipgloss.Height(header)
	footerH := lipgloss.Height(footer)
	statusH := lipgloss.Height(statusBar)
	contentH := max(m.height-headerH-footerH-statusH, 1)

	var content string
	if m.form != nil {
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.form.View())
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

func (m dnsRecordListModel) renderContent(height int) string {
	if m.loading {
		loadingText := m.spinner.View() + "  Fetching records…"
		return lipgloss.Place(
			m.width, height,
			lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render(loadingText),
		)
	}

	if m.err != nil {
		return lipgloss.Place(
			m.width, height,
			lipgloss.Center, lipgloss.Center,
			styles.ErrorText.Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	if len(m.coord.Rows()) == 0 {
		return lipgloss.Place(
			m.width, height,
			lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("No records yet. Press a to add one."),
		)
	}

	filterBar := m.renderFilterBar()
	tableH := max(height-lipgloss.Height(filterBar)-1, 1) // -1 for margin
	table := m.renderTable(tableH)

	content := lipgloss.JoinVertical(lipgloss.Left, filterBar, "", table)

	contentLines := strings.Split(content, "\n")
	if len(contentLines) < height {
		content += strings.Repeat("\n", height-len(contentLines))
	}

	return content
}

func (m dnsRecordListModel) renderFilterBar() string {
	var parts []string
	parts = append(parts, "  Filter: ")

	for _, t := range m.typeTypes {
		label := t
		if t == "" {
			label = "All"
		}

		if t == m.typeFilter {
			parts = append(parts, fmt.Sprintf("[%s]", styles.AccentText.Render(label)))
		} else {
			parts = append(parts, fmt.Sprintf(" %s ", styles.MutedText.Render(label)))
		}
	}

	return strings.Join(parts, "")
}

func (m dnsRecordListModel) renderTable(height int) string {
	rows := m.visibleRows()
	if len(rows) == 0 {
		return lipgloss.Place(
			m.width, height,
			lipgloss.Center, lipgloss.Top,
			styles.MutedText.Render("\nNo records match the current filter."),
		)
	}

	type column struct {
		title string
		width int
		value func(coordinator.Row) string
	}

	available := m.width - 4

	cols := []column{
		{title: "NAME", width: 20, value: func(r coordinator.Row) string { return displayName(r.Fields.Name) }},
		{title: "TYPE", width: 8, value: func(r coordinator.Row) string { return styles.RecordType(string(r.Fields.Type)).Render(string(r.Fields.Type)) }},
		{title: "CONTENT", width: 30},
		{title: "TTL", width: 7, value: func(r coordinator.Row) string { return strconv.Itoa(r.Fields.TTL) }},
	}
	for _, vc := range m.vendor.Columns {
		value := vc.Value
		cols = append(cols, column{title: vc.Header, width: vc.Width, value: func(r coordinator.Row) string { return value(r.Fields) }})
	}
	cols = append(cols, column{title: "STATE", width: 22, value: rowState})

	total := 0
	for _, c := range cols {
		total += c.width
	}
	if available > total {
		cols[2].width += available - total
	}
	contentW := cols[2].width
	cols[2].value = func(r coordinator.Row) string {
		return ansi.Truncate(r.Fields.Content, max(contentW-2, 1), "…")
	}

	headerCells := make([]string, len(cols))
	for i, col := range cols {
		headerCells[i] = styles.TableHeader.
			Width(col.width).
			Render(col.title)
	}
	headerRow := lipgloss.JoinHorizontal(lipgloss.Top, headerCells...)

	sep := styles.MutedText.Render(strings.Repeat("─", available))

	visible := max(height-3, 1)
	end := min(m.listStart+visible, len(rows))

	out := []string{headerRow, sep}
	for i := m.listStart; i < end; i++ {
		r := rows[i]

		cells := make([]string, len(cols))
		for j, col := range cols {
			cells[j] = lipgloss.NewStyle().Width(col.width).Render(col.value(r))
		}
		rowContent := lipgloss.JoinHorizontal(lipgloss.Top, cells...)

		cursor := "  "
		rowStyle := styles.TableCell
		if i == m.cursor {
			cursor = styles.AccentText.Render("> ")
			rowStyle = styles.TableSelectedRow
		}
		if r.Armed {
			cursor = styles.ErrorText.Render("! ")
		}

		out = append(out, lipgloss.JoinHorizontal(lipgloss.Top, cursor, rowStyle.Render(rowContent)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

// rowState renders the mutation state shown in the STATE column.
func rowState(r coordinator.Row) string {
	switch {
	case r.Armed:
		return styles.ErrorText.Render("d again to delete")
	case r.State == coordinator.StateSaving:
		return styles.RowBusy.Render("saving…")
	case r.State == coordinator.StateDeletePending:
		return styles.RowBusy.Render("deleting…")
	case r.IsNew:
		return styles.AccentText.Render("new")
	case r.State == coordinator.StateEditing:
		return styles.AccentText.Render("editing")
	}
	return ""
}

func toneFor(l coordinator.Level) components.Tone {
	switch l {
	case coordinator.LevelSuccess:
		return components.ToneSuccess
	case coordinator.LevelInfo:
		return components.TonePending
	case coordinator.LevelError:
		return components.ToneError
	}
	return components.ToneNeutral
}

func displayName(name string) string {
	if name == "" {
		return "@"
	}
	return name
}
