package domain

import "context"

// Provider is the record-level surface of the API that the mutation
// coordinator drives. Mutations never return a Go error; transport and
// API failures are folded into a Rejected outcome.
type Provider interface {
	// ListRecords returns all DNS records for the given domain.
	ListRecords(ctx context.Context, domainID int64) ([]Record, error)

	// CreateRecord creates a record. An applied outcome carries the
	// record with its server-issued id.
	CreateRecord(ctx context.Context, domainID int64, opts RecordOpts) Outcome

	// UpdateRecord replaces the record's fields. The applied record may
	// come back under a different id.
	UpdateRecord(ctx context.Context, domainID int64, rec Record) Outcome

	// DeleteRecord deletes a record by its id.
	DeleteRecord(ctx context.Context, domainID int64, id string) Outcome
}
