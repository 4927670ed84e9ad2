// Package users manages accounts: listing them, editing profiles and
// roles, and deleting them.
package users

import (
	"context"
	"fmt"
	"net/mail"
	"strconv"

	"domain0/d0ctl/internal/api"
	"domain0/d0ctl/internal/dns/reconcile"
	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/domain"
)

// MinPasswordLength is the shortest password the server accepts.
const MinPasswordLength = 6

// API is the subset of the API client the service needs.
type API interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, opts domain.UpdateUserOpts) (*api.Response, error)
	DeleteUser(ctx context.Context, id int64) (*api.Response, error)
}

// Caller is the logged-in account acting on other accounts.
type Caller struct {
	ID   int64
	Role domain.UserRole
}

// CallerFromSession builds a Caller from the session subject and role.
func CallerFromSession(subject string, role domain.UserRole) (Caller, error) {
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil || id <= 0 {
		return Caller{}, fmt.Errorf("session has no numeric user ID (sub %q)", subject)
	}
	return Caller{ID: id, Role: role}, nil
}

// Service applies the account rules of the caller's role before calling
// the API.
type Service struct {
	api    API
	caller Caller
}

// New returns a Service acting as caller.
func New(client API, caller Caller) *Service {
	return &Service{api: client, caller: caller}
}

// Caller returns the account the service acts as.
func (s *Service) Caller() Caller { return s.caller }

// List returns every account. Only admins may list.
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	if !s.caller.Role.AtLeast(domain.RoleAdmin) {
		return nil, fmt.Errorf("listing users requires the Admin role: %w", domain.ErrForbidden)
	}
	return s.api.ListUsers(ctx)
}

// Get returns one account. Non-admins may only read their own.
func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if id != s.caller.ID && !s.caller.Role.AtLeast(domain.RoleAdmin) {
		return nil, fmt.Errorf("reading user %d requires the Admin role: %w", id, domain.ErrForbidden)
	}
	return s.api.GetUser(ctx, id)
}

// Update changes an account. Users may change their own email and
// password; admins may also edit other accounts and assign roles below
// their own.
func (s *Service) Update(ctx context.Context, id int64, opts domain.UpdateUserOpts) dnsdomain.Outcome {
	if err := s.checkUpdate(id, opts); err != nil {
		return dnsdomain.Rejected(err)
	}
	return reconcile.ClassifyAck(s.api.UpdateUser(ctx, id, opts))
}

func (s *Service) checkUpdate(id int64, opts domain.UpdateUserOpts) error {
	if id <= 0 {
		return fmt.Errorf("user ID is required")
	}
	if opts.IsEmpty() {
		return fmt.Errorf("nothing to update")
	}
	admin := s.caller.Role.AtLeast(domain.RoleAdmin)
	if !admin {
		if id != s.caller.ID {
			return fmt.Errorf("editing user %d requires the Admin role: %w", id, domain.ErrForbidden)
		}
		if opts.Name != "" || opts.StudentID != "" || opts.Role != nil {
			return fmt.Errorf("only email and password can be changed on your own account: %w", domain.ErrForbidden)
		}
	}
	if opts.Role != nil {
		if id == s.caller.ID {
			return fmt.Errorf("cannot change your own role: %w", domain.ErrForbidden)
		}
		if *opts.Role < domain.RoleNormal || *opts.Role >= s.caller.Role {
			return fmt.Errorf("a %s can only assign roles below %s: %w", s.caller.Role, s.caller.Role, domain.ErrForbidden)
		}
	}
	if opts.Email != "" {
		if _, err := mail.ParseAddress(opts.Email); err != nil {
			return fmt.Errorf("invalid email %q", opts.Email)
		}
	}
	if opts.Password != "" && len(opts.Password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// Delete removes an account. Only admins may delete, and never their own
// account.
func (s *Service) Delete(ctx context.Context, id int64) dnsdomain.Outcome {
	switch {
	case id <= 0:
		return dnsdomain.Rejected(fmt.Errorf("user ID is required"))
	case !s.caller.Role.AtLeast(domain.RoleAdmin):
		return dnsdomain.Rejected(fmt.Errorf("deleting users requires the Admin role: %w", domain.ErrForbidden))
	case id == s.caller.ID:
		return dnsdomain.Rejected(fmt.Errorf("cannot delete your own account"))
	}
	return reconcile.ClassifyAck(s.api.DeleteUser(ctx, id))
}
