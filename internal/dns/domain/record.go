package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RecordType represents a DNS record type.
type RecordType string

const (
	RecordTypeA     RecordType = "A"
	RecordTypeCNAME RecordType = "CNAME"
	RecordTypeMX    RecordType = "MX"
	RecordTypeTXT   RecordType = "TXT"
	RecordTypeNS    RecordType = "NS"
	RecordTypeAAAA  RecordType = "AAAA"
	RecordTypeSRV   RecordType = "SRV"
	RecordTypeCAA   RecordType = "CAA"
	RecordTypeSPF   RecordType = "SPF"
)

// RecordTypes lists the record types the API accepts, in display order.
var RecordTypes = []RecordType{
	RecordTypeA, RecordTypeCNAME, RecordTypeMX, RecordTypeTXT, RecordTypeNS,
	RecordTypeAAAA, RecordTypeSRV, RecordTypeCAA, RecordTypeSPF,
}

// Record represents a single DNS record as the API returns it.
type Record struct {
	// ID is the vendor-assigned record identifier. Some vendors issue
	// numbers and some issue strings; both are held as text.
	ID string `json:"id"`

	// Name is the host part of the record (e.g. "www" or "@").
	Name string `json:"name"`

	// Type is the DNS record type (A, AAAA, CNAME, etc.).
	Type RecordType `json:"type"`

	// Content is the record value (IP address, hostname, text, etc.).
	Content string `json:"content"`

	// TTL is the time-to-live in seconds.
	TTL int `json:"ttl"`

	// Priority is used for record types that support it (MX, SRV).
	Priority int `json:"priority"`

	// Comment is an optional human-readable annotation.
	Comment string `json:"comment,omitempty"`

	// Proxied is only returned by vendors that proxy traffic (Cloudflare).
	Proxied *bool `json:"proxied,omitempty"`
}

// Identity returns the stable identity of a persisted record.
func (r Record) Identity() Identity { return Stable(r.ID) }

type recordJSON struct {
	ID       json.RawMessage `json:"id,omitempty"`
	Name     string          `json:"name"`
	Type     RecordType      `json:"type"`
	Content  string          `json:"content"`
	TTL      int             `json:"ttl"`
	Priority int             `json:"priority"`
	Comment  string          `json:"comment,omitempty"`
	Proxied  *bool           `json:"proxied,omitempty"`
}

// UnmarshalJSON accepts the id as either a JSON number or a JSON string.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}
	*r = Record{
		ID:       id,
		Name:     raw.Name,
		Type:     raw.Type,
		Content:  raw.Content,
		TTL:      raw.TTL,
		Priority: raw.Priority,
		Comment:  raw.Comment,
		Proxied:  raw.Proxied,
	}
	return nil
}

// MarshalJSON writes numeric ids back as numbers so the API sees the
// same type it issued.
func (r Record) MarshalJSON() ([]byte, error) {
	raw := recordJSON{
		Name:     r.Name,
		Type:     r.Type,
		Content:  r.Content,
		TTL:      r.TTL,
		Priority: r.Priority,
		Comment:  r.Comment,
		Proxied:  r.Proxied,
	}
	if r.ID != "" {
		if _, err := strconv.ParseInt(r.ID, 10, 64); err == nil {
			raw.ID = json.RawMessage(r.ID)
		} else {
			quoted, err := json.Marshal(r.ID)
			if err != nil {
				return nil, err
			}
			raw.ID = quoted
		}
	}
	return json.Marshal(raw)
}

func decodeID(raw json.RawMessage) (string, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return "", nil
	}
	if text[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("record id: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("record id: %w", err)
	}
	return n.String(), nil
}
