package config

import (
	"strings"
	"testing"

	"domain0/d0ctl/internal/config"
)

func TestGet_DefaultDomain_NotSet(t *testing.T) {
	setupTestConfig(t)

	stdout, stderr := execConfig(t, "get", "default-domain")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "not set") {
		t.Errorf("expected 'not set', got: %s", stdout)
	}
}

func TestGet_DefaultDomain_Set(t *testing.T) {
	path := setupTestConfig(t)

	// Write a config value directly.
	cfg := &config.Config{DefaultDomain: "example.com"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	stdout, stderr := execConfig(t, "get", "--key", "default-domain")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "example.com") {
		t.Errorf("expected 'example.com', got: %s", stdout)
	}
}

func TestGet_ListsAllKeys(t *testing.T) {
	path := setupTestConfig(t)
	t.Setenv(config.EnvAPIURL, "")

	cfg := &config.Config{APIURL: "https://d0.example.com/api", Output: "json"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	stdout, _ := execConfig(t, "get")

	for _, want := range []string{
		"api-url: https://d0.example.com/api",
		"default-domain: (not set)",
		"output: json",
		"effective endpoint: https://d0.example.com/api",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestGet_UnknownKey(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "get", "bogus-key")

	if !strings.Contains(stderr, "unknown configuration key") {
		t.Errorf("expected 'unknown configuration key' error, got: %s", stderr)
	}
}
