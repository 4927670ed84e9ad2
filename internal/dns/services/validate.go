package services

import (
	"fmt"
	"net"
	"strings"
	"unicode/utf8"

	"domain0/d0ctl/internal/dns/domain"
)

// DefaultTTL is the TTL applied when none is specified.
const DefaultTTL = domain.DefaultTTL

// MaxCommentLength caps record comments.
const MaxCommentLength = 200

// validRecordTypes is the set of supported DNS record types.
var validRecordTypes = func() map[domain.RecordType]bool {
	m := make(map[domain.RecordType]bool, len(domain.RecordTypes))
	for _, t := range domain.RecordTypes {
		m[t] = true
	}
	return m
}()

// ValidationError is a field-level problem caught before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidateOpts checks a record draft. Name and content are required; type,
// TTL, priority and comment length are checked, and A/AAAA content must be
// an IP literal of the right family.
func ValidateOpts(opts domain.RecordOpts) error {
	if strings.TrimSpace(opts.Name) == "" {
		return &ValidationError{Field: "name", Reason: "record name cannot be empty"}
	}
	if err := validateRecordType(opts.Type); err != nil {
		return err
	}
	if err := validateContent(opts.Type, opts.Content); err != nil {
		return err
	}
	if opts.TTL < 0 {
		return &ValidationError{Field: "ttl", Reason: fmt.Sprintf("must not be negative, got %d", opts.TTL)}
	}
	if opts.Priority < 0 || opts.Priority > 65535 {
		return &ValidationError{Field: "priority", Reason: fmt.Sprintf("must be between 0 and 65535, got %d", opts.Priority)}
	}
	return validateComment(opts.Comment)
}

// normalizeOpts trims the draft and applies the default TTL.
func normalizeOpts(opts domain.RecordOpts) domain.RecordOpts {
	opts.Name = normalizeName(opts.Name)
	opts.Type = domain.RecordType(strings.ToUpper(strings.TrimSpace(string(opts.Type))))
	opts.Content = strings.TrimSpace(opts.Content)
	opts.Comment = strings.TrimSpace(opts.Comment)
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return opts
}

// normalizeName lowercases a host name and strips any trailing dot.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(name), "."))
}

// validateRecordType returns an error if t is not a supported record type.
func validateRecordType(t domain.RecordType) error {
	if !validRecordTypes[t] {
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unsupported record type %q", t)}
	}
	return nil
}

// validateContent checks that the content value is appropriate for the record type.
// It catches obvious mismatches (e.g. a non-IP value for an A record) to give
// the user an early error.
func validateContent(t domain.RecordType, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return &ValidationError{Field: "content", Reason: "record content cannot be empty"}
	}

	switch t {
	case domain.RecordTypeA:
		ip := net.ParseIP(content)
		if ip == nil || ip.To4() == nil {
			return &ValidationError{Field: "content", Reason: fmt.Sprintf("A record content must be a valid IPv4 address, got %q", content)}
		}
	case domain.RecordTypeAAAA:
		ip := net.ParseIP(content)
		if ip == nil || ip.To4() != nil {
			return &ValidationError{Field: "content", Reason: fmt.Sprintf("AAAA record content must be a valid IPv6 address, got %q", content)}
		}
	}

	return nil
}

func validateComment(comment string) error {
	if n := utf8.RuneCountInString(comment); n > MaxCommentLength {
		return &ValidationError{Field: "comment", Reason: fmt.Sprintf("must be at most %d characters, got %d", MaxCommentLength, n)}
	}
	return nil
}

// CheckDraft validates a draft the way CreateRecord and UpdateRecord will
// see it after normalisation.
func CheckDraft(opts domain.RecordOpts) error {
	return ValidateOpts(normalizeOpts(opts))
}
