package tui

import (
	"fmt"
	"strconv"
	"strings"

	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/tui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Form messages ---

type dnsFormSubmitMsg struct {
	id   dnsdomain.Identity
	opts dnsdomain.RecordOpts
}

type dnsFormCancelMsg struct {
	id dnsdomain.Identity
}

type dnsFormField int

const (
	dnsFieldName dnsFormField = iota
	dnsFieldType
	dnsFieldContent
	dnsFieldTTL
	dnsFieldPriority
	dnsFieldComment
	dnsFieldProxied
)

var dnsFieldLabels = map[dnsFormField]string{
	dnsFieldName:     "Name",
	dnsFieldType:     "Type",
	dnsFieldContent:  "Content",
	dnsFieldTTL:      "TTL",
	dnsFieldPriority: "Priority",
	dnsFieldComment:  "Comment",
	dnsFieldProxied:  "Proxied",
}

// dnsRecordFormModel edits the draft of one row. It never talks to the
// network; submitting hands the parsed draft back to the record list.
type dnsRecordFormModel struct {
	id      dnsdomain.Identity
	isNew   bool
	inputs  map[dnsFormField]textinput.Model
	typeIdx int
	proxied *bool

	proxyable bool
	focus     dnsFormField
	err       error
	width     int
}

func newDNSRecordFormModel(id dnsdomain.Identity, draft dnsdomain.RecordOpts, isNew, proxyable bool, width int) dnsRecordFormModel {
	inputs := make(map[dnsFormField]textinput.Model)

	nameIn := textinput.New()
	nameIn.Placeholder = "e.g. www (@ for the apex)"
	nameIn.SetValue(draft.Name)
	inputs[dnsFieldName] = nameIn

	contentIn := textinput.New()
	contentIn.Placeholder = "e.g. 1.2.3.4"
	contentIn.SetValue(draft.Content)
	inputs[dnsFieldContent] = contentIn

	ttlIn := textinput.New()
	ttlIn.Placeholder = strconv.Itoa(dnsdomain.DefaultTTL)
	if draft.TTL > 0 {
		ttlIn.SetValue(strconv.Itoa(draft.TTL))
	}
	inputs[dnsFieldTTL] = ttlIn

	prioIn := textinput.New()
	prioIn.Placeholder = "e.g. 10"
	if draft.Priority > 0 {
		prioIn.SetValue(strconv.Itoa(draft.Priority))
	}
	inputs[dnsFieldPriority] = prioIn

	commentIn := textinput.New()
	commentIn.Placeholder = "Optional comment"
	commentIn.CharLimit = 255
	commentIn.SetValue(draft.Comment)
	inputs[dnsFieldComment] = commentIn

	typeIdx := 0
	for i, t := range dnsdomain.RecordTypes {
		if t == draft.Type {
			typeIdx = i
			break
		}
	}

	m := dnsRecordFormModel{
		id:        id,
		isNew:     isNew,
		inputs:    inputs,
		typeIdx:   typeIdx,
		proxied:   draft.Proxied,
		proxyable: proxyable,
		focus:     dnsFieldName,
		width:     width,
	}
	m.focusInput()
	return m
}

func (m dnsRecordFormModel) recordType() dnsdomain.RecordType {
	return dnsdomain.RecordTypes[m.typeIdx]
}

func (m dnsRecordFormModel) fields() []dnsFormField {
	fields := []dnsFormField{dnsFieldName, dnsFieldType, dnsFieldContent, dnsFieldTTL}
	if t := m.recordType(); t == dnsdomain.RecordTypeMX || t == dnsdomain.RecordTypeSRV {
		fields = append(fields, dnsFieldPriority)
	}
	fields = append(fields, dnsFieldComment)
	if m.proxyable {
		fields = append(fields, dnsFieldProxied)
	}
	return fields
}

func (m *dnsRecordFormModel) move(delta int) {
	fields := m.fields()
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(fields)) % len(fields)
	m.focus = fields[idx]
	m.focusInput()
}

func (m *dnsRecordFormModel) focusInput() {
	for field, in := range m.inputs {
		if field == m.focus {
			in.Focus()
		} else {
			in.Blur()
		}
		m.inputs[field] = in
	}
}

// draft parses the inputs. Only numeric parsing fails here; field rules
// are checked by the coordinator's validator.
func (m dnsRecordFormModel) draft() (dnsdomain.RecordOpts, error) {
	opts := dnsdomain.RecordOpts{
		Name:    strings.TrimSpace(m.inputs[dnsFieldName].Value()),
		Type:    m.recordType(),
		Content: strings.TrimSpace(m.inputs[dnsFieldContent].Value()),
		Comment: strings.TrimSpace(m.inputs[dnsFieldComment].Value()),
		TTL:     dnsdomain.DefaultTTL,
	}
	if v := strings.TrimSpace(m.inputs[dnsFieldTTL].Value()); v != "" {
		ttl, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("ttl: %q is not a number", v)
		}
		opts.TTL = ttl
	}
	if t := opts.Type; t == dnsdomain.RecordTypeMX || t == dnsdomain.RecordTypeSRV {
		if v := strings.TrimSpace(m.inputs[dnsFieldPriority].Value()); v != "" {
			prio, err := strconv.Atoi(v)
			if err != nil {
				return opts, fmt.Errorf("priority: %q is not a number", v)
			}
			opts.Priority = prio
		}
	}
	if m.proxyable {
		opts.Proxied = m.proxied
	}
	return opts, nil
}

func (m dnsRecordFormModel) Update(msg tea.Msg) (dnsRecordFormModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if in, exists := m.inputs[m.focus]; exists {
			var cmd tea.Cmd
			in, cmd = in.Update(msg)
			m.inputs[m.focus] = in
			return m, cmd
		}
		return m, nil
	}

	switch key.String() {
	case "esc":
		id := m.id
		return m, func() tea.Msg { return dnsFormCancelMsg{id: id} }
	case "tab", "down":
		m.move(1)
		return m, nil
	case "shift+tab", "up":
		m.move(-1)
		return m, nil
	case "enter":
		opts, err := m.draft()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		id := m.id
		return m, func() tea.Msg { return dnsFormSubmitMsg{id: id, opts: opts} }
	}

	switch m.focus {
	case dnsFieldType:
		switch key.String() {
		case "left", "h":
			m.typeIdx = (m.typeIdx - 1 + len(dnsdomain.RecordTypes)) % len(dnsdomain.RecordTypes)
		case "right", "l", " ":
			m.typeIdx = (m.typeIdx + 1) % len(dnsdomain.RecordTypes)
		}
		return m, nil
	case dnsFieldProxied:
		switch key.String() {
		case " ", "left", "right", "h", "l":
			m.proxied = cycleProxied(m.proxied)
		}
		return m, nil
	}

	in := m.inputs[m.focus]
	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	m.inputs[m.focus] = in
	return m, cmd
}

// cycleProxied steps unset → on → off → unset.
func cycleProxied(v *bool) *bool {
	switch {
	case v == nil:
		on := true
		return &on
	case *v:
		off := false
		return &off
	}
	return nil
}

func (m dnsRecordFormModel) View() string {
	title := "Edit record"
	if m.isNew {
		title = "New record"
	}

	rows := []string{styles.Title.Render(title), ""}
	for _, field := range m.fields() {
		label := styles.Label.Render(dnsFieldLabels[field])
		if field == m.focus {
			label = styles.AccentText.Bold(true).Render(dnsFieldLabels[field])
		}

		var value string
		switch field {
		case dnsFieldType:
			value = m.renderTypePicker()
		case dnsFieldProxied:
			value = proxiedLabel(m.proxied)
		default:
			value = m.inputs[field].View()
		}

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Left,
			lipgloss.NewStyle().Width(12).Render(label),
			value,
		))
	}

	if m.err != nil {
		rows = append(rows, "", styles.ErrorText.Render(m.err.Error()))
	}
	rows = append(rows, "", styles.MutedText.Render("tab next · ←/→ change · enter save · esc cancel"))

	return styles.CardActive.Width(min(max(m.width-8, 40), 90)).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m dnsRecordFormModel) renderTypePicker() string {
	parts := make([]string, 0, len(dnsdomain.RecordTypes))
	for i, t := range dnsdomain.RecordTypes {
		if i == m.typeIdx {
			parts = append(parts, "["+styles.RecordType(string(t)).Bold(true).Render(string(t))+"]")
			continue
		}
		parts = append(parts, " "+styles.MutedText.Render(string(t))+" ")
	}
	return strings.Join(parts, "")
}

func proxiedLabel(v *bool) string {
	switch {
	case v == nil:
		return styles.MutedText.Render("vendor default")
	case *v:
		return styles.SuccessText.Render("on")
	}
	return styles.WarningText.Render("off")
}
