package domain

import "domain0/d0ctl/internal/domain"

// Re-export shared sentinel errors so DNS callers do not need to import
// the cross-domain package directly.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = domain.ErrNotFound

	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = domain.ErrUnauthorized

	// ErrForbidden indicates the caller lacks the role for the operation.
	ErrForbidden = domain.ErrForbidden

	// ErrRateLimited indicates the API throttled the request.
	ErrRateLimited = domain.ErrRateLimited
)
