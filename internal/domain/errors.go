package domain

import "errors"

// Sentinel errors for API error classification.
// The API client wraps these so commands can handle error categories
// uniformly without inspecting HTTP status codes.
//
//	return fmt.Errorf("failed to delete domain: %w", domain.ErrNotFound)
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the request was rejected due to
	// invalid, expired, or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller is authenticated but lacks the
	// domain role or user role the operation needs.
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimited indicates the API throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrConflict indicates a state or uniqueness conflict, such as
	// a duplicate domain name.
	ErrConflict = errors.New("conflict")
)
