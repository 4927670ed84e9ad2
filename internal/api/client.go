// Package api is a direct HTTP client for the Domain0 REST API.
//
// Every call carries the session token as a Bearer credential. Responses
// arrive wrapped in a {status, data, errors} envelope whose status is
// independent of the HTTP status line; Response exposes both.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"domain0/d0ctl/internal/domain"
)

const (
	// DefaultBaseURL is used when no api-url is configured.
	DefaultBaseURL = "http://localhost:8080/api"

	defaultTimeout = 30 * time.Second

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 8 << 20
)

// TokenSource supplies the bearer token attached to every call.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token returns the token, or ErrUnauthorized when it is empty.
func (t StaticToken) Token() (string, error) {
	if t == "" {
		return "", fmt.Errorf("%w: no session token", domain.ErrUnauthorized)
	}
	return string(t), nil
}

// Client talks to the Domain0 API.
type Client struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client = &http.Client{Timeout: d}
		}
	}
}

// New creates a Client for baseURL. tokens may be nil for the login and
// register calls, which are unauthenticated.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// Do issues one request and returns the decoded envelope.
//
// body may be nil, url.Values (sent form-encoded) or any JSON-encodable
// value. A transport failure or an HTTP status of 400 and above yields an
// error; in the latter case the partially decoded Response is returned too.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var (
		bodyReader  io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case url.Values:
		bodyReader = strings.NewReader(b.Encode())
		contentType = "application/x-www-form-urlencoded"
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("api: failed to encode request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("api: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("api: failed to read response: %w", err)
	}

	resp := decodeResponse(httpResp.StatusCode, raw)
	if httpResp.StatusCode >= 400 {
		apiErr := errorFromHTTP(httpResp.StatusCode, raw)
		apiErr.Wait = retryAfter(httpResp.Header, time.Now())
		return resp, apiErr
	}
	return resp, nil
}

// getData issues a GET and decodes the envelope data into out, treating any
// envelope status other than 200 as a failure.
func (c *Client) getData(ctx context.Context, path string, out any) error {
	resp, err := c.Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	if resp.Status != http.StatusOK {
		return resp.Err()
	}
	return resp.Decode(out)
}
