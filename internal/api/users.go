package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"domain0/d0ctl/internal/domain"
)

// Login exchanges a username and password for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{"user": []string{username}, "pass": []string{password}}
	return c.tokenCall(ctx, "/v1/user/login", form, "login")
}

// Register creates an account and returns its session token.
func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	form := url.Values{"email": []string{email}, "pass": []string{password}}
	return c.tokenCall(ctx, "/v1/user/register", form, "register")
}

func (c *Client) tokenCall(ctx context.Context, path string, form url.Values, op string) (string, error) {
	anon := &Client{baseURL: c.baseURL, client: c.client}
	resp, err := anon.Do(ctx, http.MethodPost, path, nil, form)
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", op, err)
	}
	if resp.Status != http.StatusOK {
		return "", fmt.Errorf("%s failed: %w", op, resp.Err())
	}
	token := strings.TrimSpace(resp.Text())
	if token == "" {
		return "", fmt.Errorf("%s failed: empty token in response", op)
	}
	return token, nil
}

const usersPath = "/v1/user"

func userPath(id int64) string { return fmt.Sprintf("/v1/user/%d", id) }

// ListUsers returns every account. The server only allows admins.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := c.getData(ctx, usersPath, &out); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return out, nil
}

// GetUser returns one account.
func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var out domain.User
	if err := c.getData(ctx, userPath(id), &out); err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &out, nil
}

// UpdateUser changes an account's non-empty fields.
func (c *Client) UpdateUser(ctx context.Context, id int64, opts domain.UpdateUserOpts) (*Response, error) {
	return c.Do(ctx, http.MethodPut, userPath(id), nil, opts)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id int64) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, userPath(id), nil, nil)
}
