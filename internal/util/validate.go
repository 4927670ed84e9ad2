package util

import (
	"fmt"
	"strings"
)

const (
	maxDomainLength = 253
	maxLabelLength  = 63
)

// ValidateDomainName checks that name is a registrable domain name:
//   - at least two labels separated by periods
//   - each label 1-63 characters of a-z, A-Z, 0-9 and inner hyphens
//   - at most 253 characters overall
//
// A single trailing period is accepted.
func ValidateDomainName(name string) error {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".")
	if name == "" {
		return fmt.Errorf("domain name is required")
	}
	if len(name) > maxDomainLength {
		return fmt.Errorf("domain name must be at most %d characters, got %d", maxDomainLength, len(name))
	}

	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return fmt.Errorf("domain name %q must have at least two labels", name)
	}
	for _, label := range labels {
		if err := validateLabel(label); err != nil {
			return fmt.Errorf("domain name %q: %w", name, err)
		}
	}
	return nil
}

func validateLabel(label string) error {
	if label == "" {
		return fmt.Errorf("empty label")
	}
	if len(label) > maxLabelLength {
		return fmt.Errorf("label %q is longer than %d characters", label, maxLabelLength)
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if !isAlphanumeric(c) && c != '-' {
			return fmt.Errorf("label %q contains invalid character %q", label, string(c))
		}
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return fmt.Errorf("label %q must not start or end with a hyphen", label)
	}
	return nil
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
