package domain

import "fmt"

// OutcomeKind is the interpretation of a mutation response.
type OutcomeKind int

const (
	// OutcomeApplied means the server executed the mutation.
	OutcomeApplied OutcomeKind = iota + 1
	// OutcomePending means the server captured the mutation as a change
	// request awaiting approval. Nothing changed yet.
	OutcomePending
	// OutcomeRejected means the mutation failed.
	OutcomeRejected
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeApplied:
		return "applied"
	case OutcomePending:
		return "pending"
	case OutcomeRejected:
		return "rejected"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is the classified result of a create, update or delete call.
type Outcome struct {
	Kind OutcomeKind

	// Record is the authoritative server record. Set only for an applied
	// create or update.
	Record *Record

	// Message is the server's explanation for a pending outcome.
	Message string

	// Err is the displayable failure of a rejected outcome.
	Err error

	// Warning is a local problem that did not change the outcome, such as
	// a pending outcome that could not be written to the journal.
	Warning error
}

// Applied returns an applied outcome. rec may be nil for deletes.
func Applied(rec *Record) Outcome { return Outcome{Kind: OutcomeApplied, Record: rec} }

// PendingApproval returns a deferred outcome carrying the server message.
func PendingApproval(message string) Outcome {
	return Outcome{Kind: OutcomePending, Message: message}
}

// Rejected returns a failed outcome.
func Rejected(err error) Outcome { return Outcome{Kind: OutcomeRejected, Err: err} }

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomePending:
		return fmt.Sprintf("pending: %s", o.Message)
	case OutcomeRejected:
		return fmt.Sprintf("rejected: %v", o.Err)
	}
	return o.Kind.String()
}
