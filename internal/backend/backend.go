// Package backend builds the API client the commands talk to. Tests swap
// the factory for an in-memory fake.
package backend

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"domain0/d0ctl/internal/api"
	"domain0/d0ctl/internal/changerequest"
	dnsservices "domain0/d0ctl/internal/dns/services"
	"domain0/d0ctl/internal/services/access"
	"domain0/d0ctl/internal/services/auth"
	"domain0/d0ctl/internal/services/domains"
	"domain0/d0ctl/internal/services/users"
)

// API is the whole remote surface of the Domain0 API.
type API interface {
	dnsservices.RecordAPI
	domains.API
	access.API
	changerequest.Source
	auth.Authenticator
	users.API
}

var _ API = (*api.Client)(nil)

// Factory builds an API for an endpoint. tokens supplies the bearer token
// of every request.
type Factory func(endpoint string, tokens api.TokenSource, timeout time.Duration) (API, error)

var (
	mu      sync.RWMutex
	factory Factory = Default
)

// Default returns the HTTP client for endpoint.
func Default(endpoint string, tokens api.TokenSource, timeout time.Duration) (API, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("backend: API endpoint is not configured")
	}
	return api.New(endpoint, tokens, api.WithTimeout(timeout)), nil
}

// Use replaces the factory. It panics on a nil factory.
func Use(f Factory) {
	if f == nil {
		panic("backend: nil factory")
	}
	mu.Lock()
	defer mu.Unlock()
	factory = f
}

// Get builds the API for endpoint with the current factory.
func Get(endpoint string, tokens api.TokenSource, timeout time.Duration) (API, error) {
	mu.RLock()
	f := factory
	mu.RUnlock()
	return f(endpoint, tokens, timeout)
}

// Reset restores the HTTP factory. Intended for use in tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	factory = Default
}
