// Package cmdutil holds the wiring shared by every d0ctl command: the
// loaded config, the session for the configured endpoint, the API backend
// and the services built on top of it.
package cmdutil

import (
	"errors"
	"fmt"
	"sync"

	"domain0/d0ctl/internal/backend"
	"domain0/d0ctl/internal/changerequest"
	"domain0/d0ctl/internal/config"
	"domain0/d0ctl/internal/deferrals"
	dnsservices "domain0/d0ctl/internal/dns/services"
	"domain0/d0ctl/internal/services/access"
	"domain0/d0ctl/internal/services/auth"
	"domain0/d0ctl/internal/services/domains"
	"domain0/d0ctl/internal/services/users"
	"domain0/d0ctl/internal/swrcache"
)

var (
	storeMu       sync.Mutex
	storeOverride auth.Store
)

// UseStore replaces the keychain store. Intended for use in tests only.
func UseStore(s auth.Store) {
	storeMu.Lock()
	defer storeMu.Unlock()
	storeOverride = s
}

// ResetStore restores the keychain store. Intended for use in tests only.
func ResetStore() { UseStore(nil) }

func store() auth.Store {
	storeMu.Lock()
	defer storeMu.Unlock()
	if storeOverride != nil {
		return storeOverride
	}
	return auth.DefaultStore()
}

// Env is everything a command needs to reach the API.
type Env struct {
	Config  *config.Config
	Session *auth.Session
	API     backend.API

	journal    *deferrals.SQLiteRepository
	journalErr error
	opened     bool
}

// Load reads the config and builds the backend for its endpoint.
func Load() (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	session := auth.NewSession(store(), cfg.Endpoint())
	client, err := backend.Get(cfg.Endpoint(), session, cfg.Timeout())
	if err != nil {
		return nil, err
	}
	return &Env{Config: cfg, Session: session, API: client}, nil
}

// SessionUser names the user logged in to endpoint, or returns "" when
// there is no valid session.
func SessionUser(endpoint string) string {
	if endpoint == "" {
		return ""
	}
	claims, err := auth.NewSession(store(), endpoint).Claims()
	if err != nil {
		return ""
	}
	if claims.Name != "" {
		return claims.Name
	}
	return claims.UserID()
}

// Close releases the deferral journal if it was opened.
func (e *Env) Close() {
	if e.journal != nil {
		e.journal.Close()
		e.journal = nil
	}
}

// Claims returns the session claims or an error that tells the user how
// to log in.
func (e *Env) Claims() (*auth.Claims, error) {
	claims, err := e.Session.Claims()
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, auth.ErrTokenNotFound):
		return nil, fmt.Errorf("not logged in to %s; run 'd0ctl auth login'", e.Session.Endpoint())
	case errors.Is(err, auth.ErrTokenExpired):
		return nil, fmt.Errorf("session for %s has expired; run 'd0ctl auth login'", e.Session.Endpoint())
	}
	return nil, err
}

// Journal returns the local deferral journal. When it cannot be opened,
// every save fails with the open error so pending outcomes carry a warning.
func (e *Env) Journal() deferrals.Journal {
	if !e.opened {
		e.opened = true
		e.journal, e.journalErr = deferrals.Open()
	}
	if e.journalErr != nil {
		return deferrals.Unavailable{Err: fmt.Errorf("open deferral journal: %w", e.journalErr)}
	}
	return e.journal
}

// Records returns the DNS record service.
func (e *Env) Records() *dnsservices.Service {
	return dnsservices.New(e.API, dnsservices.WithJournal(e.Journal()))
}

// Domains returns the domain service for the logged-in user. The ICP
// capability comes from the session role.
func (e *Env) Domains() (*domains.Service, error) {
	claims, err := e.Claims()
	if err != nil {
		return nil, err
	}
	opts := []domains.Option{domains.WithJournal(e.Journal())}
	if !config.CacheDisabled() {
		opts = append(opts, domains.WithCache(swrcache.NewDefault(), CacheScope(e.Session.Endpoint(), claims.UserID())))
	}
	return domains.New(e.API, domains.CapabilitiesFor(claims.Role), opts...), nil
}

// Access returns the access-grant service.
func (e *Env) Access() *access.Service {
	return access.New(e.API, e.Journal())
}

// Users returns the account service acting as the logged-in user.
func (e *Env) Users() (*users.Service, error) {
	claims, err := e.Claims()
	if err != nil {
		return nil, err
	}
	caller, err := users.CallerFromSession(claims.UserID(), claims.Role)
	if err != nil {
		return nil, err
	}
	return users.New(e.API, caller), nil
}

// Changes returns the approval-workflow bridge.
func (e *Env) Changes() *changerequest.Bridge {
	return changerequest.New(e.API)
}

// CacheScope is the cache scope of one user on one endpoint.
func CacheScope(endpoint, userID string) swrcache.Scope {
	return swrcache.Scope{Endpoint: auth.NormalizeEndpoint(endpoint), User: userID}
}

// InvalidateEndpointCache drops every cached list of endpoint.
func InvalidateEndpointCache(endpoint string) error {
	return swrcache.NewDefault().DropEndpoint(auth.NormalizeEndpoint(endpoint))
}
