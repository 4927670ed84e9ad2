// Package cmdtest runs d0ctl commands against an in-memory backend.
package cmdtest

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/backend"
	"domain0/d0ctl/internal/config"
	"domain0/d0ctl/internal/database"
	"domain0/d0ctl/internal/services/auth"

	"github.com/spf13/cobra"
)

// Endpoint is the API URL every harness points at.
const Endpoint = "http://d0.test/api"

// Harness holds the fakes behind a command under test.
type Harness struct {
	API   *backend.Fake
	Store *auth.MockStore
	Dir   string
}

// Setup isolates config, database and keychain in t.TempDir and installs
// a fresh fake backend. Everything is restored when the test ends.
func Setup(t *testing.T) *Harness {
	t.Helper()
	h := &Harness{API: backend.NewFake(), Store: auth.NewMockStore(), Dir: t.TempDir()}

	t.Setenv(config.EnvAPIURL, Endpoint)
	t.Setenv(config.EnvDisableCache, "1")
	config.SetPath(filepath.Join(h.Dir, "config.json"))
	database.SetPath(filepath.Join(h.Dir, "d0ctl.db"))
	backend.Use(h.API.Factory())
	cmdutil.UseStore(h.Store)
	interactive := cmdutil.Interactive
	cmdutil.Interactive = func() bool { return false }

	t.Cleanup(func() {
		cmdutil.Interactive = interactive
		config.ResetPath()
		database.ResetPath()
		backend.Reset()
		cmdutil.ResetStore()
	})
	return h
}

// Login stores a valid session token for the fake's user.
func (h *Harness) Login(t *testing.T) {
	t.Helper()
	if err := h.Store.SetToken(Endpoint, h.API.IssueToken(time.Hour)); err != nil {
		t.Fatal(err)
	}
}

// SetConfig writes one config key as 'd0ctl config set' would.
func SetConfig(t *testing.T, key, value string) {
	t.Helper()
	spec := config.Lookup(key)
	if spec == nil {
		t.Fatalf("unknown config key %q", key)
	}
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if err := spec.Set(cfg, value); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}
}

// Result is the captured output of one command run.
type Result struct {
	Stdout string
	Stderr string
	Err    error
}

// Run executes cmd with args and captures its output.
func Run(t *testing.T, cmd *cobra.Command, args ...string) Result {
	t.Helper()
	return RunWithInput(t, cmd, "", args...)
}

// RunWithInput is Run with stdin set to input.
func RunWithInput(t *testing.T, cmd *cobra.Command, input string, args ...string) Result {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return Result{Stdout: outBuf.String(), Stderr: errBuf.String(), Err: err}
}

// AssertContainsAll verifies that output contains every expected substring.
func AssertContainsAll(t *testing.T, output, label string, expected ...string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in %s output:\n%s", want, label, output)
		}
	}
}
