// Package tui holds the interactive DNS browser: a domain list, a record
// table whose rows are edited in place, and a record detail card.
package tui

import (
	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
)

// --- Navigation messages ---
// Sent by child models to request view transitions.

type dnsNavigateToRecordListMsg struct {
	domain domain.Domain
}

type dnsNavigateToRecordShowMsg struct {
	id     dnsdomain.Identity
	record dnsdomain.Record
}

// dnsEditRowMsg asks the record list to open the editor for a row.
type dnsEditRowMsg struct {
	id dnsdomain.Identity
}

type dnsNavigateBackMsg struct{}

// --- Top-level App Model ---

type dnsAppView int

const (
	dnsAppViewDomainList dnsAppView = iota
	dnsAppViewRecordList
	dnsAppViewRecordShow
)

type dnsAppModel struct {
	domains  DomainSource
	provider dnsdomain.Provider
	user     string
	view     dnsAppView

	// direct is set when the app was opened on one domain; leaving the
	// record list then quits instead of showing the domain list.
	direct bool

	domainList dnsDomainListModel
	recordList dnsRecordListModel
	recordShow dnsRecordShowModel

	width  int
	height int
}

// RunDNSApp starts the DNS TUI. When initial is not nil it opens straight
// onto that domain's records.
func RunDNSApp(domains DomainSource, provider dnsdomain.Provider, user string, initial *domain.Domain) (tea.Model, error) {
	m := newDNSAppModel(domains, provider, user, initial)
	p := tea.NewProgram(m, tea.WithAltScreen())
	return p.Run()
}

func newDNSAppModel(domains DomainSource, provider dnsdomain.Provider, user string, initial *domain.Domain) dnsAppModel {
	m := dnsAppModel{
		domains:  domains,
		provider: provider,
		user:     user,
	}
	if initial != nil {
		m.direct = true
		m.switchToRecordList(*initial)
	} else {
		m.switchToDomainList()
	}
	return m
}

func (m *dnsAppModel) switchToDomainList() {
	m.view = dnsAppViewDomainList
	m.domainList = newDNSDomainListModel(m.domains, m.user, m.width, m.height)
}

func (m *dnsAppModel) switchToRecordList(dom domain.Domain) {
	m.view = dnsAppViewRecordList
	m.recordList = newDNSRecordListModel(m.provider, dom, m.user, true, m.width, m.height)
}

func (m dnsAppModel) Init() tea.Cmd {
	if m.view == dnsAppViewRecordList {
		return m.recordList.Init()
	}
	return m.domainList.Init()
}

func (m dnsAppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.updateChild(msg)

	case dnsNavigateToRecordListMsg:
		m.switchToRecordList(msg.domain)
		return m, m.recordList.Init()

	case dnsNavigateToRecordShowMsg:
		m.view = dnsAppViewRecordShow
		m.recordShow = newDNSRecordShowModel(msg.id, msg.record, m.recordList.domain.Name, m.recordList.vendor, m.user, m.width, m.height)
		return m, m.recordShow.Init()

	case dnsEditRowMsg:
		m.view = dnsAppViewRecordList
		return m.forwardToRecords(msg)

	// Record results land on the record list whichever view is showing.
	case dnsCallResultMsg, dnsRecordsLoadedMsg, dnsRecordsErrorMsg:
		return m.forwardToRecords(msg)

	case dnsNavigateBackMsg:
		switch m.view {
		case dnsAppViewRecordShow:
			m.view = dnsAppViewRecordList
			return m, nil
		case dnsAppViewRecordList:
			if m.direct {
				return m, tea.Quit
			}
			m.view = dnsAppViewDomainList
			if m.domainList.source == nil {
				m.switchToDomainList()
				return m, m.domainList.Init()
			}
			return m, nil
		}
	}

	return m.updateChild(msg)
}

func (m dnsAppModel) forwardToRecords(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.recordList.Update(msg)
	m.recordList = updated.(dnsRecordListModel)
	return m, cmd
}

func (m dnsAppModel) updateChild(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case dnsAppViewDomainList:
		var updated tea.Model
		updated, cmd = m.domainList.Update(msg)
		m.domainList = updated.(dnsDomainListModel)
	case dnsAppViewRecordList:
		var updated tea.Model
		updated, cmd = m.recordList.Update(msg)
		m.recordList = updated.(dnsRecordListModel)
	case dnsAppViewRecordShow:
		var updated tea.Model
		updated, cmd = m.recordShow.Update(msg)
		m.recordShow = updated.(dnsRecordShowModel)
	}
	return m, cmd
}

func (m dnsAppModel) View() string {
	switch m.view {
	case dnsAppViewRecordList:
		return m.recordList.View()
	case dnsAppViewRecordShow:
		return m.recordShow.View()
	}
	return m.domainList.View()
}
