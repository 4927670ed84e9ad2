package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"domain0/d0ctl/internal/domain"
)

// ErrTokenExpired is returned for a stored token whose exp has passed.
var ErrTokenExpired = errors.New("session token has expired")

// Claims is the payload of a session token. The client never verifies the
// signature; it reads the claims to show who is logged in and to resolve
// role-gated capabilities.
type Claims struct {
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Role      domain.UserRole `json:"role"`
	StudentID string          `json:"stu_id"`
	jwt.RegisteredClaims
}

// UserID returns the sub claim.
func (c *Claims) UserID() string { return c.Subject }

// Expiry returns the exp claim, or the zero time when absent.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Expired reports whether the token is past its exp at now.
func (c *Claims) Expired(now time.Time) bool {
	exp := c.Expiry()
	return !exp.IsZero() && !now.Before(exp)
}

// ParseClaims decodes a session token without verifying it.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	return claims, nil
}
