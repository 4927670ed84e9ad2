package api

import (
	"context"
	"fmt"
	"net/http"

	"domain0/d0ctl/internal/domain"
)

func accessPath(domainID int64) string { return fmt.Sprintf("/v1/domain/%d/user", domainID) }

type grantBody struct {
	UserID int64             `json:"user_id"`
	Role   domain.AccessRole `json:"role"`
}

// ListAccess returns the access grants of a domain.
func (c *Client) ListAccess(ctx context.Context, domainID int64) ([]domain.AccessGrant, error) {
	var out []domain.AccessGrant
	if err := c.getData(ctx, accessPath(domainID), &out); err != nil {
		return nil, fmt.Errorf("failed to list access for domain %d: %w", domainID, err)
	}
	return out, nil
}

// GrantAccess gives a user a role on a domain.
func (c *Client) GrantAccess(ctx context.Context, domainID, userID int64, role domain.AccessRole) (*Response, error) {
	return c.Do(ctx, http.MethodPost, accessPath(domainID), nil, grantBody{UserID: userID, Role: role})
}

// RevokeAccess removes a user's grant on a domain.
func (c *Client) RevokeAccess(ctx context.Context, domainID, userID int64) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", accessPath(domainID), userID), nil, nil)
}
