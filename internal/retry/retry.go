// Package retry re-runs idempotent API reads that failed transiently.
// Mutations are never retried: a lost response to a create could
// otherwise produce a duplicate record or a second change request.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"time"

	"domain0/d0ctl/internal/domain"
)

// Policy bounds the attempts and the backoff between them.
type Policy struct {
	// Attempts is the total number of calls, including the first.
	Attempts int
	// Base is the backoff ceiling after the first failure. It doubles
	// per attempt up to Cap. Zero retries immediately.
	Base time.Duration
	Cap  time.Duration
	// Retryable decides which errors are worth another attempt.
	// Nil means Transient.
	Retryable func(error) bool
}

// DefaultPolicy is used for record and domain list reads.
func DefaultPolicy() Policy {
	return Policy{Attempts: 3, Base: 400 * time.Millisecond, Cap: 4 * time.Second}
}

// Do calls fn until it succeeds, returns a permanent error, runs out of
// attempts or ctx ends. The last error is returned unchanged.
func Do[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error)) (T, error) {
	attempts := max(p.Attempts, 1)
	retryable := p.Retryable
	if retryable == nil {
		retryable = Transient
	}

	var (
		out T
		err error
	)
	for attempt := 1; ; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return out, cerr
		}
		out, err = fn(ctx)
		if err == nil || attempt >= attempts || !retryable(err) {
			return out, err
		}
		if !wait(ctx, p.delay(attempt, err)) {
			return out, ctx.Err()
		}
	}
}

// hinted is implemented by errors that carry a server-requested delay,
// such as a 429 with a Retry-After header.
type hinted interface {
	RetryAfter() time.Duration
}

// delay is full-jitter exponential backoff, unless the server asked for a
// specific wait. Server hints are still capped.
func (p Policy) delay(attempt int, err error) time.Duration {
	var h hinted
	if errors.As(err, &h) {
		if d := h.RetryAfter(); d > 0 {
			if p.Cap > 0 {
				d = min(d, p.Cap)
			}
			return d
		}
	}
	if p.Base <= 0 {
		return 0
	}
	ceiling := p.Base << min(attempt-1, 16)
	if p.Cap > 0 && ceiling > p.Cap {
		ceiling = p.Cap
	}
	return rand.N(ceiling + 1)
}

// Transient reports throttling, server faults and network timeouts.
// Cancellation is never transient.
func Transient(err error) bool {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, domain.ErrRateLimited):
		return true
	}

	var r interface{ Retryable() bool }
	if errors.As(err, &r) {
		return r.Retryable()
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
