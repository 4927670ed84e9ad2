package config

import (
	"strings"
	"testing"
)

func TestLookup_Exists(t *testing.T) {
	spec := Lookup("api-url")
	if spec == nil {
		t.Fatal("expected to find key 'api-url', got nil")
	}
	if spec.Name != "api-url" {
		t.Errorf("expected Name %q, got %q", "api-url", spec.Name)
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	spec := Lookup("  DEFAULT-DOMAIN ")
	if spec == nil {
		t.Fatal("expected case-insensitive lookup to succeed")
	}
	if spec.Name != "default-domain" {
		t.Errorf("expected Name %q, got %q", "default-domain", spec.Name)
	}
}

func TestLookup_NotFound(t *testing.T) {
	if spec := Lookup("default-provider"); spec != nil {
		t.Errorf("expected nil for unknown key, got %+v", spec)
	}
}

func TestKeys_AllHaveGetAndSet(t *testing.T) {
	for _, k := range Keys {
		if k.Get == nil || k.Set == nil || k.Unset == nil {
			t.Errorf("key %q is missing Get, Set or Unset", k.Name)
		}
		if k.Description == "" {
			t.Errorf("key %q has empty Description", k.Name)
		}
	}
}

func TestKeys_SetValidates(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{"api-url", "https://d0.example.com/api/", "https://d0.example.com/api", false},
		{"api-url", "d0.example.com", "", true},
		{"default-domain", "example.com", "example.com", false},
		{"default-domain", "42", "42", false},
		{"default-domain", "0", "", true},
		{"default-domain", "not a domain", "", true},
		{"request-timeout", "45s", "45s", false},
		{"request-timeout", "soon", "", true},
		{"request-timeout", "-1s", "", true},
		{"output", "JSON", "json", false},
		{"output", "yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			spec := Lookup(tt.key)
			cfg := &Config{}
			err := spec.Set(cfg, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() err = %v, wantErr %v", err, tt.wantErr)
			}
			if got := spec.Get(cfg); got != tt.want {
				t.Errorf("Get() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyNames(t *testing.T) {
	names := KeyNames()
	if len(names) != len(Keys) {
		t.Fatalf("expected %d names, got %d", len(Keys), len(names))
	}
	for i, name := range names {
		if name != Keys[i].Name {
			t.Errorf("index %d: expected %q, got %q", i, Keys[i].Name, name)
		}
	}
}

func TestKeysHelp_ContainsAllKeys(t *testing.T) {
	help := KeysHelp()
	if !strings.Contains(help, "Available keys:") {
		t.Error("expected 'Available keys:' header in help output")
	}
	for _, k := range Keys {
		if !strings.Contains(help, k.Name) || !strings.Contains(help, k.Description) {
			t.Errorf("expected key %q and its description in help output", k.Name)
		}
	}
}

func TestKeySpec_Resolve(t *testing.T) {
	spec := Lookup("api-url")

	tests := []struct {
		name       string
		env        string
		stored     string
		wantValue  string
		wantSource Source
	}{
		{"default", "", "", DefaultAPIURL, SourceDefault},
		{"file", "", "https://d0.example.com/api", "https://d0.example.com/api", SourceFile},
		{"env wins", "https://env.example.com/api", "https://d0.example.com/api", "https://env.example.com/api", SourceEnv},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvAPIURL, tt.env)
			value, src := spec.Resolve(&Config{APIURL: tt.stored})
			if value != tt.wantValue || src != tt.wantSource {
				t.Errorf("Resolve() = %q, %q; want %q, %q", value, src, tt.wantValue, tt.wantSource)
			}
			if spec.Overridden() != (tt.env != "") {
				t.Errorf("Overridden() = %v", spec.Overridden())
			}
		})
	}
}

func TestKeySpec_ResolveUnsetWithoutDefault(t *testing.T) {
	value, src := Lookup("default-domain").Resolve(&Config{})
	if value != "" || src != SourceUnset {
		t.Errorf("Resolve() = %q, %q", value, src)
	}
}

func TestKeySpec_Unset(t *testing.T) {
	cfg := &Config{DefaultDomain: "example.com", Output: "json"}
	Lookup("default-domain").Unset(cfg)

	if cfg.DefaultDomain != "" || cfg.Output != "json" {
		t.Errorf("cfg = %+v", cfg)
	}
}
