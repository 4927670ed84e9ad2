// Package auditlog records every mutating d0ctl command in the local
// SQLite database: what ran, against which endpoint and resource, as
// whom, and how it ended.
package auditlog

import "time"

// Outcomes of an audited command.
const (
	OutcomeSuccess = "success"
	// OutcomePending marks a mutation the API deferred for approval.
	OutcomePending = "pending"
	OutcomeError   = "error"
)

// AuditEntry is one audited command run.
type AuditEntry struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Command      string    `json:"command"`
	Args         string    `json:"args,omitempty"`
	Endpoint     string    `json:"endpoint,omitempty"`
	User         string    `json:"user,omitempty"`
	Domain       string    `json:"domain,omitempty"`
	ResourceType string    `json:"resource_type,omitempty"`
	ResourceID   string    `json:"resource_id,omitempty"`
	ResourceName string    `json:"resource_name,omitempty"`
	Outcome      string    `json:"outcome"`
	Detail       string    `json:"detail,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
}

// Resource renders the touched resource as "type:id (name)", omitting
// empty parts, or "-" when nothing was recorded.
func (e AuditEntry) Resource() string {
	s := e.ResourceType
	if e.ResourceID != "" {
		if s != "" {
			s += ":"
		}
		s += e.ResourceID
	}
	if e.ResourceName != "" {
		if s != "" {
			s += " (" + e.ResourceName + ")"
		} else {
			s = e.ResourceName
		}
	}
	if s == "" {
		return "-"
	}
	return s
}

// Filter selects audit entries. Zero fields match everything.
type Filter struct {
	Command string
	Domain  string
	Outcome string
	User    string
	Since   time.Time
	Limit   int
}
