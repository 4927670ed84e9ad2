package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Authenticator exchanges credentials for a session token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, email, password string) (string, error)
}

// Session manages the stored token of one API endpoint. It satisfies the
// API client's token source.
type Session struct {
	store    Store
	endpoint string
	now      func() time.Time
}

// NewSession returns the session for endpoint.
func NewSession(store Store, endpoint string) *Session {
	return &Session{store: store, endpoint: endpoint, now: time.Now}
}

// Endpoint returns the API base URL the session belongs to.
func (s *Session) Endpoint() string { return s.endpoint }

// Token returns the stored token. An expired token is treated as absent.
func (s *Session) Token() (string, error) {
	token, err := s.store.GetToken(s.endpoint)
	if err != nil {
		return "", err
	}
	claims, err := ParseClaims(token)
	if err != nil {
		return "", err
	}
	if claims.Expired(s.now()) {
		return "", ErrTokenExpired
	}
	return token, nil
}

// Claims returns the claims of the current token.
func (s *Session) Claims() (*Claims, error) {
	token, err := s.Token()
	if err != nil {
		return nil, err
	}
	return ParseClaims(token)
}

// LoggedIn reports whether a usable token is stored.
func (s *Session) LoggedIn() bool {
	_, err := s.Token()
	return err == nil
}

// Login authenticates and stores the returned token.
func (s *Session) Login(ctx context.Context, a Authenticator, username, password string) (*Claims, error) {
	token, err := a.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.save(token)
}

// Register creates an account and stores the returned token.
func (s *Session) Register(ctx context.Context, a Authenticator, email, password string) (*Claims, error) {
	token, err := a.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.save(token)
}

// Logout removes the stored token. Logging out twice is not an error.
func (s *Session) Logout() error {
	err := s.store.DeleteToken(s.endpoint)
	if errors.Is(err, ErrTokenNotFound) {
		return nil
	}
	return err
}

func (s *Session) save(token string) (*Claims, error) {
	claims, err := ParseClaims(token)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetToken(s.endpoint, token); err != nil {
		return nil, fmt.Errorf("failed to store session token: %w", err)
	}
	return claims, nil
}
