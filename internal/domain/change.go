package domain

import (
	"fmt"
	"time"
)

// ActionType is the kind of mutation a change request captures.
type ActionType int

const (
	ActionSubmit ActionType = iota
	ActionEditDNS
	ActionEditOthers
	ActionGrantAccess
	ActionRevokeAccess
	ActionDelete
)

var actionTypeNames = [...]string{"Submit", "EditDNS", "EditOthers", "GrantAccess", "RevokeAccess", "Delete"}

func (a ActionType) String() string {
	if a >= 0 && int(a) < len(actionTypeNames) {
		return actionTypeNames[a]
	}
	return fmt.Sprintf("ActionType(%d)", int(a))
}

// ActionStatus is the review state of a change request.
type ActionStatus int

const (
	StatusReviewing ActionStatus = iota
	StatusApproved
	StatusRejected
)

func (s ActionStatus) String() string {
	switch s {
	case StatusReviewing:
		return "Reviewing"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	}
	return fmt.Sprintf("ActionStatus(%d)", int(s))
}

// ChangeRequest is a deferred mutation awaiting (or past) an approver's
// decision. It is immutable once its status leaves Reviewing.
type ChangeRequest struct {
	ID           int64        `json:"ID"`
	CreatedAt    time.Time    `json:"CreatedAt"`
	UpdatedAt    time.Time    `json:"UpdatedAt"`
	DomainID     int64        `json:"DomainId"`
	UserID       int64        `json:"UserId"`
	ActionType   ActionType   `json:"ActionType"`
	ActionStatus ActionStatus `json:"ActionStatus"`
	Reason       string       `json:"Reason"`

	// Operation is the serialized intent, opaque to the client.
	Operation string `json:"Operation"`
}

// Decided reports whether an approver has already acted on the request.
func (c ChangeRequest) Decided() bool { return c.ActionStatus != StatusReviewing }
