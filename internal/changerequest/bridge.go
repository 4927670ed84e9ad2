// Package changerequest exposes the approval workflow: the change
// requests a user authored and the ones awaiting their decision.
package changerequest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"domain0/d0ctl/internal/api"
	"domain0/d0ctl/internal/domain"
)

// ErrAlreadyDecided is returned when a decision targets a request that
// has left the Reviewing state.
var ErrAlreadyDecided = errors.New("change request has already been decided")

// Source is the subset of the API client the bridge needs.
type Source interface {
	ListAppliedChanges(ctx context.Context) ([]domain.ChangeRequest, error)
	ListPendingChanges(ctx context.Context) ([]domain.ChangeRequest, error)
	DecideChange(ctx context.Context, id int64, decision api.Decision) error
}

// Lists holds both change-request lists, newest first.
type Lists struct {
	Applied []domain.ChangeRequest
	Pending []domain.ChangeRequest
}

// Bridge loads change requests and submits decisions. The actionable
// list is always re-fetched after a decision; it is never patched locally.
type Bridge struct {
	source  Source
	pending []domain.ChangeRequest
}

// New returns a bridge over source.
func New(source Source) *Bridge {
	return &Bridge{source: source}
}

// Applied loads the requests the caller authored.
func (b *Bridge) Applied(ctx context.Context) ([]domain.ChangeRequest, error) {
	list, err := b.source.ListAppliedChanges(ctx)
	if err != nil {
		return nil, err
	}
	return newestFirst(list), nil
}

// Pending loads the requests awaiting the caller's decision.
func (b *Bridge) Pending(ctx context.Context) ([]domain.ChangeRequest, error) {
	list, err := b.source.ListPendingChanges(ctx)
	if err != nil {
		return nil, err
	}
	b.pending = newestFirst(list)
	return slices.Clone(b.pending), nil
}

// Load fetches both lists concurrently.
func (b *Bridge) Load(ctx context.Context) (Lists, error) {
	var lists Lists
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := b.Applied(gctx)
		lists.Applied = list
		return err
	})
	g.Go(func() error {
		list, err := b.source.ListPendingChanges(gctx)
		lists.Pending = newestFirst(list)
		return err
	})
	if err := g.Wait(); err != nil {
		return Lists{}, err
	}
	b.pending = slices.Clone(lists.Pending)
	return lists, nil
}

// Accept approves a request and returns the reloaded actionable list.
func (b *Bridge) Accept(ctx context.Context, id int64) ([]domain.ChangeRequest, error) {
	return b.decide(ctx, id, api.DecisionAccept)
}

// Reject declines a request and returns the reloaded actionable list.
func (b *Bridge) Reject(ctx context.Context, id int64) ([]domain.ChangeRequest, error) {
	return b.decide(ctx, id, api.DecisionReject)
}

func (b *Bridge) decide(ctx context.Context, id int64, decision api.Decision) ([]domain.ChangeRequest, error) {
	if id <= 0 {
		return nil, fmt.Errorf("change request ID is required")
	}
	for _, cr := range b.pending {
		if cr.ID == id && cr.Decided() {
			return nil, fmt.Errorf("change %d is %s: %w", id, cr.ActionStatus, ErrAlreadyDecided)
		}
	}
	if err := b.source.DecideChange(ctx, id, decision); err != nil {
		return nil, err
	}
	return b.Pending(ctx)
}

// PrettyOperation indents an operation payload. Payloads that are not
// JSON are returned unchanged.
func PrettyOperation(op string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(op), "", "  "); err != nil {
		return op
	}
	return buf.String()
}

// Counts tallies requests by status.
func Counts(list []domain.ChangeRequest) map[domain.ActionStatus]int {
	counts := map[domain.ActionStatus]int{}
	for _, cr := range list {
		counts[cr.ActionStatus]++
	}
	return counts
}

func newestFirst(list []domain.ChangeRequest) []domain.ChangeRequest {
	out := slices.Clone(list)
	slices.Reverse(out)
	return out
}
