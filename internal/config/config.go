// Package config handles persistent user configuration for d0ctl.
//
// Configuration is stored as JSON at ~/.config/d0ctl/config.json (or the
// platform-equivalent path returned by os.UserConfigDir). Environment
// variables take precedence over the file for the endpoint and caching.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	appDir   = "d0ctl"
	fileName = "config.json"

	// EnvAPIURL overrides the configured API base URL.
	EnvAPIURL = "D0CTL_API_URL"
	// EnvDisableCache disables the on-disk list cache when set to a true value.
	EnvDisableCache = "D0CTL_DISABLE_CACHE"

	DefaultAPIURL         = "http://localhost:8080/api"
	DefaultRequestTimeout = 30 * time.Second
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds user preferences that persist across invocations.
type Config struct {
	APIURL         string `json:"api_url,omitempty"`
	DefaultDomain  string `json:"default_domain,omitempty"`
	RequestTimeout string `json:"request_timeout,omitempty"`
	Output         string `json:"output,omitempty"`
}

// Endpoint returns the API base URL: $D0CTL_API_URL, then the configured
// value, then DefaultAPIURL.
func (c *Config) Endpoint() string {
	if v := os.Getenv(EnvAPIURL); v != "" {
		return v
	}
	if c != nil && c.APIURL != "" {
		return c.APIURL
	}
	return DefaultAPIURL
}

// Timeout returns the per-request timeout. Unparseable values fall back
// to DefaultRequestTimeout.
func (c *Config) Timeout() time.Duration {
	if c == nil || c.RequestTimeout == "" {
		return DefaultRequestTimeout
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return DefaultRequestTimeout
	}
	return d
}

// CacheDisabled reports whether $D0CTL_DISABLE_CACHE asks for no caching.
func CacheDisabled() bool {
	v, err := strconv.ParseBool(os.Getenv(EnvDisableCache))
	return err == nil && v
}

// Path returns the config file location: the SetPath override if any,
// else d0ctl/config.json under os.UserConfigDir.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config file. A missing file yields a zero Config.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config stored at path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to Path.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path through a temporary file in the same
// directory, so readers never see a partial file.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, fileName+".*")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("config: failed to replace %s: %w", path, err)
	}
	return nil
}
