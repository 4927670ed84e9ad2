package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"domain0/d0ctl/internal/domain"
)

const (
	changesAppliedPath = "/v1/domain/change/myapply"
	changesPendingPath = "/v1/domain/change/myapprove"
)

// Decision is the opt value of a change-request status update.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// ListAppliedChanges returns the change requests the caller authored.
func (c *Client) ListAppliedChanges(ctx context.Context) ([]domain.ChangeRequest, error) {
	var out []domain.ChangeRequest
	if err := c.getData(ctx, changesAppliedPath, &out); err != nil {
		return nil, fmt.Errorf("failed to list submitted changes: %w", err)
	}
	return out, nil
}

// ListPendingChanges returns the change requests awaiting the caller's decision.
func (c *Client) ListPendingChanges(ctx context.Context) ([]domain.ChangeRequest, error) {
	var out []domain.ChangeRequest
	if err := c.getData(ctx, changesPendingPath, &out); err != nil {
		return nil, fmt.Errorf("failed to list changes to review: %w", err)
	}
	return out, nil
}

// DecideChange accepts or rejects a change request. Only an envelope
// status of 200 counts as success.
func (c *Client) DecideChange(ctx context.Context, id int64, decision Decision) error {
	query := url.Values{"opt": []string{string(decision)}}
	resp, err := c.Do(ctx, http.MethodPut, fmt.Sprintf("/v1/domain/change/%d", id), query, nil)
	if err != nil {
		return fmt.Errorf("failed to %s change %d: %w", decision, id, err)
	}
	if resp.Status != http.StatusOK {
		return fmt.Errorf("failed to %s change %d: %w", decision, id, resp.Err())
	}
	return nil
}
