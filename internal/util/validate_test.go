package util

import (
	"strings"
	"testing"
)

func TestValidateDomainName_Valid(t *testing.T) {
	valid := []string{
		"example.com",
		"example.com.",
		"sub.example.co.uk",
		"xn--fiqs8s.cn",
		"a-b.example.org",
		"UPPER.Example.COM",
		"123.example.net",
	}
	for _, name := range valid {
		t.Run(name, func(t *testing.T) {
			if err := ValidateDomainName(name); err != nil {
				t.Errorf("expected %q to be valid, got error: %v", name, err)
			}
		})
	}
}

func TestValidateDomainName_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		wantMsg string
	}{
		{"", "is required"},
		{"localhost", "at least two labels"},
		{"exa mple.com", "invalid character"},
		{"-example.com", "must not start or end with a hyphen"},
		{"example-.com", "must not start or end with a hyphen"},
		{"example..com", "empty label"},
		{strings.Repeat("a", 64) + ".com", "longer than 63"},
		{strings.Repeat("a.", 127) + "com", "at most 253"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDomainName(tt.name)
			if err == nil {
				t.Fatalf("expected %q to be invalid", tt.name)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err, tt.wantMsg)
			}
		})
	}
}
