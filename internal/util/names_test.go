package util

import "testing"

func TestCanonicalDomain(t *testing.T) {
	tests := map[string]string{
		"example.com":     "example.com",
		" Example.COM. ":  "example.com",
		"sub.example.org": "sub.example.org",
		"":                "",
	}
	for in, want := range tests {
		if got := CanonicalDomain(in); got != want {
			t.Errorf("CanonicalDomain(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	a := NormalizeEndpoint("https://Domain0.example.com/api/")
	b := NormalizeEndpoint("  https://domain0.example.com/api")
	if a != b {
		t.Fatalf("endpoints differ: %q vs %q", a, b)
	}
	if a != "https://domain0.example.com/api" {
		t.Fatalf("got %q", a)
	}
}
