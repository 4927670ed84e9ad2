package tui

import (
	"errors"
	"strings"
	"testing"

	"domain0/d0ctl/internal/config"

	tea "github.com/charmbracelet/bubbletea"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func configStep(t *testing.T, m configViewModel, msg tea.Msg) (configViewModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(configViewModel), cmd
}

// sized returns a viewer with a recording save func, cursor on key.
func sized(t *testing.T, cfg *config.Config, key string) (configViewModel, *int) {
	t.Helper()
	saves := 0
	m := newConfigViewModel(cfg, func(*config.Config) error { saves++; return nil })
	m, _ = configStep(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	for m.selected().Name != key {
		m, _ = configStep(t, m, runes("j"))
	}
	return m, &saves
}

func TestConfigView_EditSavesValue(t *testing.T) {
	t.Setenv(config.EnvAPIURL, "")
	cfg := &config.Config{}
	m, saves := sized(t, cfg, "output")

	m, _ = configStep(t, m, runes("e"))
	if !m.editing {
		t.Fatal("expected edit mode")
	}
	m.editor.SetValue("JSON")
	m, cmd := configStep(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = configStep(t, m, cmd())

	if cfg.Output != "json" || *saves != 1 {
		t.Errorf("output = %q after %d saves", cfg.Output, *saves)
	}
	if m.editing || m.status != "output saved" {
		t.Errorf("editing = %v, status = %q", m.editing, m.status)
	}
}

func TestConfigView_InvalidValueStaysInEditor(t *testing.T) {
	cfg := &config.Config{}
	m, saves := sized(t, cfg, "request-timeout")

	m, _ = configStep(t, m, runes("e"))
	m.editor.SetValue("soon")
	m, cmd := configStep(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil || *saves != 0 {
		t.Error("an invalid value must not be saved")
	}
	if !m.editing || !m.isError {
		t.Errorf("editing = %v, status = %q", m.editing, m.status)
	}
}

func TestConfigView_UnsetKey(t *testing.T) {
	cfg := &config.Config{DefaultDomain: "example.com"}
	m, saves := sized(t, cfg, "default-domain")

	m, cmd := configStep(t, m, runes("d"))
	m, _ = configStep(t, m, cmd())

	if cfg.DefaultDomain != "" || *saves != 1 {
		t.Errorf("default-domain = %q after %d saves", cfg.DefaultDomain, *saves)
	}
	if m.status != "default-domain cleared" {
		t.Errorf("status = %q", m.status)
	}
}

func TestConfigView_EnvOverriddenKeyIsReadOnly(t *testing.T) {
	t.Setenv(config.EnvAPIURL, "https://env.example.com/api")
	m, _ := sized(t, &config.Config{}, "api-url")

	m, _ = configStep(t, m, runes("e"))
	if m.editing {
		t.Error("an env-overridden key must not open the editor")
	}
	if !m.isError || !strings.Contains(m.status, "$"+config.EnvAPIURL) {
		t.Errorf("status = %q", m.status)
	}
	if !strings.Contains(m.View(), "https://env.example.com/api") {
		t.Error("expected the effective endpoint in the view")
	}
}

func TestConfigView_SaveErrorIsShown(t *testing.T) {
	m := newConfigViewModel(&config.Config{DefaultDomain: "x"}, func(*config.Config) error { return errors.New("disk full") })
	m, _ = configStep(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m.cursor = 1

	m, cmd := configStep(t, m, runes("d"))
	m, _ = configStep(t, m, cmd())

	if !m.isError || m.status != "Error: disk full" {
		t.Errorf("status = %q", m.status)
	}
}
