// Package domains provides the domain service layer: listing with a
// stale-while-revalidate cache, and role-gated registration.
package domains

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"domain0/d0ctl/internal/api"
	"domain0/d0ctl/internal/deferrals"
	"domain0/d0ctl/internal/dns/reconcile"
	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/domain"
	"domain0/d0ctl/internal/swrcache"
	"domain0/d0ctl/internal/util"
)

// ErrICPNotPermitted is returned when a caller without the ICP capability
// tries to set the ICP flag.
var ErrICPNotPermitted = errors.New("setting the ICP flag requires the Admin role")

// API is the subset of the API client the service needs.
type API interface {
	ListDomains(ctx context.Context) ([]domain.Domain, error)
	GetDomain(ctx context.Context, id int64) (*domain.Domain, error)
	CreateDomain(ctx context.Context, opts domain.CreateDomainOpts) (*api.Response, error)
	UpdateDomain(ctx context.Context, id int64, opts domain.UpdateDomainOpts) (*api.Response, error)
	DeleteDomain(ctx context.Context, id int64) (*api.Response, error)
}

// Capabilities are role-derived permissions resolved once per service.
type Capabilities struct {
	EditICP bool
}

// CapabilitiesFor resolves the capabilities of a user role.
func CapabilitiesFor(role domain.UserRole) Capabilities {
	return Capabilities{EditICP: role.AtLeast(domain.RoleAdmin)}
}

const listName = "domains"

// Service is the domain business logic layer.
type Service struct {
	api     API
	caps    Capabilities
	cache   *swrcache.Cache
	scope   swrcache.Scope
	journal deferrals.Journal
}

// Option configures a Service.
type Option func(*Service)

// WithCache caches the domain list under scope.
func WithCache(cache *swrcache.Cache, scope swrcache.Scope) Option {
	return func(s *Service) {
		s.cache = cache
		s.scope = scope
	}
}

// WithJournal records deferred mutations.
func WithJournal(j deferrals.Journal) Option {
	return func(s *Service) { s.journal = j }
}

// New returns a Service. caps is fixed for the life of the service.
func New(client API, caps Capabilities, opts ...Option) *Service {
	s := &Service{api: client, caps: caps}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Capabilities returns the capabilities the service was built with.
func (s *Service) Capabilities() Capabilities { return s.caps }

// List returns the domains visible to the caller.
func (s *Service) List(ctx context.Context) ([]domain.Domain, error) {
	return swrcache.Get(ctx, s.cache, s.scope, listName, s.api.ListDomains)
}

// Get returns one domain.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Domain, error) {
	if id <= 0 {
		return nil, fmt.Errorf("domain ID is required")
	}
	return s.api.GetDomain(ctx, id)
}

// Resolve finds a domain by numeric id or by name.
func (s *Service) Resolve(ctx context.Context, ref string) (*domain.Domain, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("domain is required")
	}
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		d := &list[i]
		if fmt.Sprint(d.ID) == ref || util.CanonicalDomain(d.Name) == util.CanonicalDomain(ref) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("domain %q: %w", ref, domain.ErrNotFound)
}

// Create registers a domain. The ICP flag requires the EditICP capability.
func (s *Service) Create(ctx context.Context, opts domain.CreateDomainOpts) dnsdomain.Outcome {
	opts.Name = util.CanonicalDomain(opts.Name)
	if err := util.ValidateDomainName(opts.Name); err != nil {
		return dnsdomain.Rejected(err)
	}
	if !validVendor(opts.Vendor) {
		return dnsdomain.Rejected(fmt.Errorf("unsupported vendor %q", opts.Vendor))
	}
	if opts.APIID == "" || opts.APISecret == "" {
		return dnsdomain.Rejected(fmt.Errorf("vendor API id and secret are required"))
	}
	if opts.ICPReg != 0 && !s.caps.EditICP {
		return dnsdomain.Rejected(ErrICPNotPermitted)
	}

	outcome := reconcile.ClassifyAck(s.api.CreateDomain(ctx, opts))
	return s.settle(0, "create", opts.Name, outcome)
}

// Update changes a domain's non-empty fields.
func (s *Service) Update(ctx context.Context, id int64, opts domain.UpdateDomainOpts) dnsdomain.Outcome {
	if id <= 0 {
		return dnsdomain.Rejected(fmt.Errorf("domain ID is required"))
	}
	if opts.IsEmpty() {
		return dnsdomain.Rejected(fmt.Errorf("nothing to update"))
	}
	if opts.Name != "" {
		if err := util.ValidateDomainName(opts.Name); err != nil {
			return dnsdomain.Rejected(err)
		}
	}
	if opts.Vendor != "" && !validVendor(opts.Vendor) {
		return dnsdomain.Rejected(fmt.Errorf("unsupported vendor %q", opts.Vendor))
	}

	outcome := reconcile.ClassifyAck(s.api.UpdateDomain(ctx, id, opts))
	return s.settle(id, "update", fmt.Sprint(id), outcome)
}

// Delete removes a domain.
func (s *Service) Delete(ctx context.Context, id int64) dnsdomain.Outcome {
	if id <= 0 {
		return dnsdomain.Rejected(fmt.Errorf("domain ID is required"))
	}
	outcome := reconcile.ClassifyAck(s.api.DeleteDomain(ctx, id))
	return s.settle(id, "delete", fmt.Sprint(id), outcome)
}

// settle invalidates the list cache after an applied mutation and
// journals a deferred one. Failing to journal is reported as the
// outcome's Warning.
func (s *Service) settle(id int64, action, resource string, outcome dnsdomain.Outcome) dnsdomain.Outcome {
	switch outcome.Kind {
	case dnsdomain.OutcomeApplied:
		_ = s.cache.Invalidate(s.scope, listName)
	case dnsdomain.OutcomePending:
		outcome.Warning = deferrals.Record(s.journal, &deferrals.Entry{
			DomainID: id,
			Kind:     deferrals.KindDomain,
			Action:   action,
			Resource: resource,
			Message:  outcome.Message,
		})
	}
	return outcome
}

func validVendor(v domain.Vendor) bool {
	for _, known := range domain.Vendors {
		if v == known {
			return true
		}
	}
	return false
}
