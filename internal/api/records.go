package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	dnsdomain "domain0/d0ctl/internal/dns/domain"
)

// recordList is the vendor-level result nested inside the DNS list
// envelope. Its success flag is independent of both outer statuses.
type recordList struct {
	Success  bool               `json:"success"`
	Result   []dnsdomain.Record `json:"result"`
	Errors   json.RawMessage    `json:"errors"`
	Messages json.RawMessage    `json:"messages"`
}

func recordsPath(domainID int64) string {
	return fmt.Sprintf("/v1/domain/%d/dns", domainID)
}

func recordPath(domainID int64, recordID string) string {
	return fmt.Sprintf("/v1/domain/%d/dns/%s", domainID, url.PathEscape(recordID))
}

// ListRecords returns every record of a domain. The HTTP status, the
// envelope status and the nested success flag must all report success
// before the result is trusted.
func (c *Client) ListRecords(ctx context.Context, domainID int64) ([]dnsdomain.Record, error) {
	resp, err := c.Do(ctx, http.MethodGet, recordsPath(domainID), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	if resp.Status != http.StatusOK {
		return nil, &DomainError{Status: resp.Status, Messages: nonEmpty(resp.Errors)}
	}

	var inner recordList
	if err := resp.Decode(&inner); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	if !inner.Success {
		return nil, &DomainError{Status: resp.Status, Messages: nonEmpty(flattenMessages(inner.Errors))}
	}
	if inner.Result == nil {
		return []dnsdomain.Record{}, nil
	}
	return inner.Result, nil
}

// CreateRecord posts a new record. The raw response is returned for
// classification; the tentative row id is never part of the payload.
func (c *Client) CreateRecord(ctx context.Context, domainID int64, opts dnsdomain.RecordOpts) (*Response, error) {
	return c.Do(ctx, http.MethodPost, recordsPath(domainID), nil, opts)
}

// UpdateRecord replaces a record's fields.
func (c *Client) UpdateRecord(ctx context.Context, domainID int64, rec dnsdomain.Record) (*Response, error) {
	return c.Do(ctx, http.MethodPut, recordPath(domainID, rec.ID), nil, rec)
}

// DeleteRecord removes a record.
func (c *Client) DeleteRecord(ctx context.Context, domainID int64, recordID string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, recordPath(domainID, recordID), nil, nil)
}

func nonEmpty(msg string) []string {
	if msg == "" {
		return nil
	}
	return []string{msg}
}
