// Package services provides the DNS service layer.
//
// The Service type wraps the API client and implements domain.Provider:
// it normalises drafts, retries idempotent reads, classifies mutation
// responses, and journals deferred mutations. CLI commands and the TUI
// reach records through a Service rather than the client directly.
package services

import (
	"context"
	"fmt"

	"domain0/d0ctl/internal/api"
	"domain0/d0ctl/internal/deferrals"
	"domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/dns/reconcile"
	"domain0/d0ctl/internal/retry"
)

// Compile-time check that Service satisfies domain.Provider.
var _ domain.Provider = (*Service)(nil)

// RecordAPI is the subset of the API client the service needs.
type RecordAPI interface {
	ListRecords(ctx context.Context, domainID int64) ([]domain.Record, error)
	CreateRecord(ctx context.Context, domainID int64, opts domain.RecordOpts) (*api.Response, error)
	UpdateRecord(ctx context.Context, domainID int64, rec domain.Record) (*api.Response, error)
	DeleteRecord(ctx context.Context, domainID int64, recordID string) (*api.Response, error)
}

// Service is the DNS business logic layer.
type Service struct {
	api     RecordAPI
	retry   retry.Policy
	journal deferrals.Journal
}

// Option configures a Service.
type Option func(*Service)

// WithRetry overrides the retry policy for list calls.
func WithRetry(p retry.Policy) Option {
	return func(s *Service) { s.retry = p }
}

// WithJournal records every pending-approval outcome.
func WithJournal(j deferrals.Journal) Option {
	return func(s *Service) { s.journal = j }
}

// New returns a Service backed by the given API.
func New(client RecordAPI, opts ...Option) *Service {
	svc := &Service{api: client, retry: retry.DefaultPolicy()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// ListRecords returns all DNS records of a domain. Transient failures are
// retried; the result is never cached so the ledger always reconciles
// against a fresh snapshot.
func (s *Service) ListRecords(ctx context.Context, domainID int64) ([]domain.Record, error) {
	if domainID <= 0 {
		return nil, fmt.Errorf("domain ID is required")
	}
	return retry.Do(ctx, s.retry, func(ctx context.Context) ([]domain.Record, error) {
		return s.api.ListRecords(ctx, domainID)
	})
}

// CreateRecord normalises the draft and creates the record.
func (s *Service) CreateRecord(ctx context.Context, domainID int64, opts domain.RecordOpts) domain.Outcome {
	opts = normalizeOpts(opts)
	if err := ValidateOpts(opts); err != nil {
		return domain.Rejected(err)
	}
	outcome := reconcile.Classify(s.api.CreateRecord(ctx, domainID, opts))
	return s.journalPending(domainID, "create", opts.Name, opts, outcome)
}

// UpdateRecord normalises the record and replaces it.
func (s *Service) UpdateRecord(ctx context.Context, domainID int64, rec domain.Record) domain.Outcome {
	if rec.ID == "" {
		return domain.Rejected(fmt.Errorf("record ID is required"))
	}
	opts := normalizeOpts(domain.OptsFromRecord(rec))
	if err := ValidateOpts(opts); err != nil {
		return domain.Rejected(err)
	}
	rec = opts.Apply(rec)
	outcome := reconcile.Classify(s.api.UpdateRecord(ctx, domainID, rec))
	return s.journalPending(domainID, "update", rec.ID, opts, outcome)
}

// UpdateComment changes only the comment of a record.
func (s *Service) UpdateComment(ctx context.Context, domainID int64, rec domain.Record, comment string) domain.Outcome {
	if err := validateComment(comment); err != nil {
		return domain.Rejected(err)
	}
	rec.Comment = comment
	return s.UpdateRecord(ctx, domainID, rec)
}

// DeleteRecord deletes a record by its id.
func (s *Service) DeleteRecord(ctx context.Context, domainID int64, id string) domain.Outcome {
	if id == "" {
		return domain.Rejected(fmt.Errorf("record ID is required"))
	}
	outcome := reconcile.ClassifyAck(s.api.DeleteRecord(ctx, domainID, id))
	return s.journalPending(domainID, "delete", id, nil, outcome)
}

// journalPending records a pending outcome. A journal failure comes back
// as the outcome's Warning.
func (s *Service) journalPending(domainID int64, action, resource string, payload any, outcome domain.Outcome) domain.Outcome {
	if outcome.Kind != domain.OutcomePending {
		return outcome
	}
	entry := &deferrals.Entry{
		DomainID: domainID,
		Kind:     deferrals.KindRecord,
		Action:   action,
		Resource: resource,
		Message:  outcome.Message,
	}
	entry.SetPayload(payload)
	outcome.Warning = deferrals.Record(s.journal, entry)
	return outcome
}
