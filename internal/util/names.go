package util

import "strings"

// NormalizeKey folds case and surrounding space so that user-typed
// names compare equal to stored ones.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CanonicalDomain is NormalizeKey with the root label's trailing dot
// removed: "Example.COM." and "example.com" are the same zone.
func CanonicalDomain(name string) string {
	return strings.TrimSuffix(NormalizeKey(name), ".")
}

// NormalizeEndpoint keys per-endpoint state such as stored tokens and
// cached lists. "https://X/api/" and "https://x/api" share a key.
func NormalizeEndpoint(endpoint string) string {
	return strings.TrimRight(NormalizeKey(endpoint), "/")
}
