package deferrals

import (
	"encoding/json"
	"time"
)

// Kind is the resource family a deferred mutation targets.
type Kind string

const (
	KindRecord Kind = "record"
	KindAccess Kind = "access"
	KindDomain Kind = "domain"
)

// Entry is one mutation the server captured as a change request instead
// of executing. The server does not return the change-request id, so the
// journal keeps what the user asked for and what the server said.
type Entry struct {
	// ID is the auto-increment primary key (assigned on insert).
	ID int64 `json:"id"`

	// DomainID is the domain the mutation targeted.
	DomainID int64 `json:"domain_id"`

	// Kind is the resource family (record, access, domain).
	Kind Kind `json:"kind"`

	// Action describes the operation, e.g. "create", "update", "grant".
	Action string `json:"action"`

	// Resource names the target: a record name or id, a user id.
	Resource string `json:"resource,omitempty"`

	// Payload is the JSON body the client sent, if any.
	Payload string `json:"payload,omitempty"`

	// Message is the server's human-readable explanation.
	Message string `json:"message"`

	// CreatedAt is when the deferral was recorded.
	CreatedAt time.Time `json:"created_at"`
}

// SetPayload stores v as JSON. Encoding failures leave the payload empty.
func (e *Entry) SetPayload(v any) {
	if v == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	e.Payload = string(data)
}
