package api

import (
	"context"
	"fmt"
	"net/http"

	"domain0/d0ctl/internal/domain"
)

const domainsPath = "/v1/domain"

func domainPath(id int64) string { return fmt.Sprintf("/v1/domain/%d", id) }

// ListDomains returns the domains visible to the caller.
func (c *Client) ListDomains(ctx context.Context) ([]domain.Domain, error) {
	var out []domain.Domain
	if err := c.getData(ctx, domainsPath, &out); err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	return out, nil
}

// GetDomain returns a single domain.
func (c *Client) GetDomain(ctx context.Context, id int64) (*domain.Domain, error) {
	var out domain.Domain
	if err := c.getData(ctx, domainPath(id), &out); err != nil {
		return nil, fmt.Errorf("failed to get domain %d: %w", id, err)
	}
	return &out, nil
}

// CreateDomain registers a domain. Submissions may be deferred for approval.
func (c *Client) CreateDomain(ctx context.Context, opts domain.CreateDomainOpts) (*Response, error) {
	return c.Do(ctx, http.MethodPost, domainsPath, nil, opts)
}

// UpdateDomain changes a domain's non-empty fields.
func (c *Client) UpdateDomain(ctx context.Context, id int64, opts domain.UpdateDomainOpts) (*Response, error) {
	return c.Do(ctx, http.MethodPut, domainPath(id), nil, opts)
}

// DeleteDomain removes a domain.
func (c *Client) DeleteDomain(ctx context.Context, id int64) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, domainPath(id), nil, nil)
}
