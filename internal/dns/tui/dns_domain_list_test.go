package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"domain0/d0ctl/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
)

type stubDomains struct {
	domains []domain.Domain
	err     error
}

func (s stubDomains) List(context.Context) ([]domain.Domain, error) { return s.domains, s.err }

func sendDomains(t *testing.T, m dnsDomainListModel, msgs ...tea.Msg) (dnsDomainListModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var updated tea.Model
		updated, cmd = m.Update(msg)
		m = updated.(dnsDomainListModel)
	}
	return m, cmd
}

func loadedDomains(t *testing.T) dnsDomainListModel {
	t.Helper()
	src := stubDomains{domains: []domain.Domain{
		{ID: 1, Name: "example.com", Vendor: domain.VendorDNSPod},
		{ID: 2, Name: "example.org", Vendor: domain.VendorDNSPod, ICPReg: 1},
		{ID: 3, Name: "shop.net", Vendor: domain.VendorDNSPod},
	}}
	m := newDNSDomainListModel(src, "alice", 100, 30)
	m, _ = sendDomains(t, m, m.loadCmd()())
	return m
}

func visibleNames(m dnsDomainListModel) []string {
	var names []string
	for _, d := range m.visible {
		names = append(names, d.Name)
	}
	return names
}

func TestDomainList_EnterOpensSelected(t *testing.T) {
	m := loadedDomains(t)
	m, cmd := sendDomains(t, m, key("j"), key("enter"))
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	nav, ok := cmd().(dnsNavigateToRecordListMsg)
	if !ok || nav.domain.ID != 2 {
		t.Fatalf("navigated to %+v", nav)
	}
}

func TestDomainList_Filter(t *testing.T) {
	m := loadedDomains(t)

	m, _ = sendDomains(t, m, key("/"), key("e"), key("x"))
	if !m.filtering {
		t.Fatal("expected filter mode")
	}
	if diff := cmp.Diff([]string{"example.com", "example.org"}, visibleNames(m)); diff != "" {
		t.Errorf("visible (-want +got):\n%s", diff)
	}

	m, _ = sendDomains(t, m, key("ample.org"), key("enter"))
	if m.filtering {
		t.Fatal("enter must leave filter mode")
	}
	if diff := cmp.Diff([]string{"example.org"}, visibleNames(m)); diff != "" {
		t.Errorf("visible (-want +got):\n%s", diff)
	}
	if !strings.Contains(m.View(), "1 of 3 domains") {
		t.Error("status should count the filtered rows")
	}

	// esc outside filter mode clears the filter before it quits.
	m, cmd := sendDomains(t, m, key("esc"))
	if cmd != nil {
		t.Fatal("esc with an active filter must not quit")
	}
	if len(m.visible) != 3 {
		t.Errorf("visible = %v, want all", visibleNames(m))
	}
}

func TestDomainList_CursorStaysInRange(t *testing.T) {
	m := loadedDomains(t)
	m, _ = sendDomains(t, m, key("G"))
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}
	m, _ = sendDomains(t, m, key("/"), key("example"))
	if m.cursor != 1 {
		t.Fatalf("cursor = %d after narrowing to two rows", m.cursor)
	}
}

func TestDomainList_LoadError(t *testing.T) {
	m := newDNSDomainListModel(stubDomains{err: errors.New("boom")}, "alice", 100, 30)
	m, _ = sendDomains(t, m, m.loadCmd()())
	if m.err == nil || !strings.Contains(m.View(), "Press r to retry") {
		t.Fatalf("error not shown: %v", m.err)
	}
	m, cmd := sendDomains(t, m, key("r"))
	if !m.loading || cmd == nil {
		t.Fatal("r must reload")
	}
}
