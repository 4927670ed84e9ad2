// Package access manages per-domain access grants.
package access

import (
	"context"
	"fmt"

	"domain0/d0ctl/internal/api"
	"domain0/d0ctl/internal/deferrals"
	"domain0/d0ctl/internal/dns/reconcile"
	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/domain"
)

// API is the subset of the API client the service needs.
type API interface {
	ListAccess(ctx context.Context, domainID int64) ([]domain.AccessGrant, error)
	GrantAccess(ctx context.Context, domainID, userID int64, role domain.AccessRole) (*api.Response, error)
	RevokeAccess(ctx context.Context, domainID, userID int64) (*api.Response, error)
}

// Service lists, grants and revokes domain access.
type Service struct {
	api     API
	journal deferrals.Journal
}

// New returns a Service. journal may be nil.
func New(client API, journal deferrals.Journal) *Service {
	return &Service{api: client, journal: journal}
}

// List returns the grants of a domain.
func (s *Service) List(ctx context.Context, domainID int64) ([]domain.AccessGrant, error) {
	if domainID <= 0 {
		return nil, fmt.Errorf("domain ID is required")
	}
	return s.api.ListAccess(ctx, domainID)
}

// Grant gives userID role on a domain. The server may defer the grant
// for approval.
func (s *Service) Grant(ctx context.Context, domainID, userID int64, role domain.AccessRole) dnsdomain.Outcome {
	if err := checkIDs(domainID, userID); err != nil {
		return dnsdomain.Rejected(err)
	}
	if role < domain.AccessReadOnly || role > domain.AccessOwner {
		return dnsdomain.Rejected(fmt.Errorf("invalid role %d", int(role)))
	}
	outcome := reconcile.ClassifyAck(s.api.GrantAccess(ctx, domainID, userID, role))
	return s.journalPending(domainID, "grant", userID, role.String(), outcome)
}

// Revoke removes userID's grant on a domain.
func (s *Service) Revoke(ctx context.Context, domainID, userID int64) dnsdomain.Outcome {
	if err := checkIDs(domainID, userID); err != nil {
		return dnsdomain.Rejected(err)
	}
	outcome := reconcile.ClassifyAck(s.api.RevokeAccess(ctx, domainID, userID))
	return s.journalPending(domainID, "revoke", userID, "", outcome)
}

func (s *Service) journalPending(domainID int64, action string, userID int64, role string, outcome dnsdomain.Outcome) dnsdomain.Outcome {
	if outcome.Kind != dnsdomain.OutcomePending {
		return outcome
	}
	entry := &deferrals.Entry{
		DomainID: domainID,
		Kind:     deferrals.KindAccess,
		Action:   action,
		Resource: fmt.Sprintf("user %d", userID),
		Message:  outcome.Message,
	}
	if role != "" {
		entry.SetPayload(map[string]any{"user_id": userID, "role": role})
	}
	outcome.Warning = deferrals.Record(s.journal, entry)
	return outcome
}

func checkIDs(domainID, userID int64) error {
	if domainID <= 0 {
		return fmt.Errorf("domain ID is required")
	}
	if userID <= 0 {
		return fmt.Errorf("user ID is required")
	}
	return nil
}
