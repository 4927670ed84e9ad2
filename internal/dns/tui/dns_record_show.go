package tui

import (
	"fmt"
	"strconv"

	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/dns/vendors"
	"domain0/d0ctl/internal/tui/components"
	"domain0/d0ctl/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type dnsRecordShowModel struct {
	record dnsdomain.Record
	id     dnsdomain.Identity
	domain string
	vendor vendors.Entry
	user   string
	width  int
	height int
}

func newDNSRecordShowModel(id dnsdomain.Identity, record dnsdomain.Record, domainName string, vendor vendors.Entry, user string, width, height int) dnsRecordShowModel {
	return dnsRecordShowModel{
		record: record,
		id:     id,
		domain: domainName,
		vendor: vendor,
		user:   user,
		width:  width,
		height: height,
	}
}

func (m dnsRecordShowModel) Init() tea.Cmd {
	return nil
}

func (m dnsRecordShowModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "backspace", "left", "h", "q":
			return m, func() tea.Msg { return dnsNavigateBackMsg{} }
		case "e":
			id := m.id
			return m, func() tea.Msg { return dnsEditRowMsg{id: id} }
		}
	}

	return m, nil
}

func (m dnsRecordShowModel) View() string {
	breadcrumb := fmt.Sprintf("dns > %s > %s", m.domain, m.record.Name)
	header := components.Header(m.width, breadcrumb, m.user)

	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "e", Desc: "edit"},
		{Key: "esc", Desc: "back"},
	})

	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)
	content := lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.renderCard())

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (m dnsRecordShowModel) renderCard() string {
	r := m.record

	titleRow := lipgloss.JoinHorizontal(lipgloss.Center,
		styles.Title.Render(r.Name),
		"  ",
		styles.RecordType(string(r.Type)).Render(string(r.Type)),
	)

	fields := []struct {
		label string
		val   string
	}{
		{"ID", r.ID},
		{"Name", r.Name},
		{"Type", string(r.Type)},
		{"Content", r.Content},
		{"TTL", strconv.Itoa(r.TTL)},
		{"Priority", "—"},
		{"Vendor", m.vendor.DisplayName},
	}
	if r.Priority > 0 {
		fields[5].val = strconv.Itoa(r.Priority)
	}
	for _, col := range m.vendor.Columns {
		fields = append(fields, struct {
			label string
			val   string
		}{col.Header, col.Value(r)})
	}
	if r.Comment != "" {
		fields = append(fields, struct {
			label string
			val   string
		}{"Comment", r.Comment})
	}

	gridRows := []string{titleRow, ""}
	for _, f := range fields {
		gridRows = append(gridRows, lipgloss.JoinHorizontal(lipgloss.Left,
			lipgloss.NewStyle().Width(12).Render(styles.Label.Render(f.label)),
			styles.Value.Render(f.val),
		))
	}

	return styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left, gridRows...))
}
