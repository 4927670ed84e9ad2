package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"domain0/d0ctl/internal/util"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "api-url").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set validates and applies a value (in memory only; the caller is
	// responsible for calling Save).
	Set func(cfg *Config, value string) error

	// Unset clears the stored value.
	Unset func(cfg *Config)

	// Env names an environment variable that takes precedence over the
	// file, if any.
	Env string

	// Default is the value in force when neither the file nor Env set one.
	Default string
}

// Source says where an effective value came from.
type Source string

const (
	SourceEnv     Source = "env"
	SourceFile    Source = "file"
	SourceDefault Source = "default"
	SourceUnset   Source = ""
)

// Resolve returns the value in force for this key and its source.
func (k KeySpec) Resolve(cfg *Config) (string, Source) {
	if k.Env != "" {
		if v := os.Getenv(k.Env); v != "" {
			return v, SourceEnv
		}
	}
	if v := k.Get(cfg); v != "" {
		return v, SourceFile
	}
	if k.Default != "" {
		return k.Default, SourceDefault
	}
	return "", SourceUnset
}

// Overridden reports whether Env currently shadows the stored value.
func (k KeySpec) Overridden() bool {
	return k.Env != "" && os.Getenv(k.Env) != ""
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "api-url",
		Description: "Base URL of the Domain0 API",
		Get:         func(cfg *Config) string { return cfg.APIURL },
		Set: func(cfg *Config, v string) error {
			u, err := url.Parse(v)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return fmt.Errorf("api-url must be an http(s) URL, got %q", v)
			}
			cfg.APIURL = strings.TrimRight(v, "/")
			return nil
		},
		Unset:   func(cfg *Config) { cfg.APIURL = "" },
		Env:     EnvAPIURL,
		Default: DefaultAPIURL,
	},
	{
		Name:        "default-domain",
		Description: "Domain used when a command's domain argument is omitted",
		Get:         func(cfg *Config) string { return cfg.DefaultDomain },
		Set: func(cfg *Config, v string) error {
			if err := validateDomainRef(v); err != nil {
				return err
			}
			cfg.DefaultDomain = v
			return nil
		},
		Unset: func(cfg *Config) { cfg.DefaultDomain = "" },
	},
	{
		Name:        "request-timeout",
		Description: "Per-request timeout, e.g. 30s",
		Get:         func(cfg *Config) string { return cfg.RequestTimeout },
		Set: func(cfg *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil || d <= 0 {
				return fmt.Errorf("request-timeout must be a positive duration, got %q", v)
			}
			cfg.RequestTimeout = v
			return nil
		},
		Unset:   func(cfg *Config) { cfg.RequestTimeout = "" },
		Default: DefaultRequestTimeout.String(),
	},
	{
		Name:        "output",
		Description: "Default output format: table or json",
		Get:         func(cfg *Config) string { return cfg.Output },
		Set: func(cfg *Config, v string) error {
			v = strings.ToLower(v)
			if v != "table" && v != "json" {
				return fmt.Errorf("output must be table or json, got %q", v)
			}
			cfg.Output = v
			return nil
		},
		Unset:   func(cfg *Config) { cfg.Output = "" },
		Default: "table",
	},
}

// validateDomainRef accepts a domain name or a positive numeric domain id.
func validateDomainRef(ref string) error {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if id <= 0 {
			return fmt.Errorf("default-domain id must be positive, got %d", id)
		}
		return nil
	}
	return util.ValidateDomainName(strings.TrimSuffix(ref, "."))
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
