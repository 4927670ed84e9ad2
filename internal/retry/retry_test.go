package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"domain0/d0ctl/internal/domain"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return false }

type statusErr struct {
	transient bool
	after     time.Duration
}

func (e statusErr) Error() string             { return "status" }
func (e statusErr) Retryable() bool           { return e.transient }
func (e statusErr) RetryAfter() time.Duration { return e.after }

// failing returns errs in order, then succeeds with the call count.
func failing(errs ...error) (func(context.Context) (int, error), *int) {
	calls := 0
	return func(context.Context) (int, error) {
		calls++
		if calls <= len(errs) {
			return 0, errs[calls-1]
		}
		return calls, nil
	}, &calls
}

func TestDo(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name      string
		errs      []error
		wantErr   error
		wantCalls int
	}{
		{"first try", nil, nil, 1},
		{"timeout then success", []error{timeoutErr{}}, nil, 2},
		{"rate limited then success", []error{fmt.Errorf("list: %w", domain.ErrRateLimited)}, nil, 2},
		{"permanent stops", []error{boom}, boom, 1},
		{"forbidden stops", []error{domain.ErrForbidden}, domain.ErrForbidden, 1},
		{"attempts exhausted", []error{timeoutErr{}, timeoutErr{}, statusErr{transient: true}}, statusErr{transient: true}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, calls := failing(tt.errs...)
			got, err := Do(context.Background(), Policy{Attempts: 3}, fn)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil || got != *calls {
				t.Fatalf("got %d, %v", got, err)
			}
			if *calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", *calls, tt.wantCalls)
			}
		})
	}
}

func TestDo_CancelledContextMakesNoCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fn, calls := failing()
	if _, err := Do(ctx, DefaultPolicy(), fn); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if *calls != 0 {
		t.Fatalf("calls = %d, want 0", *calls)
	}
}

func TestDo_CancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	slow := statusErr{transient: true, after: time.Hour}
	fn, calls := failing(slow, slow)

	_, err := Do(ctx, Policy{Attempts: 3, Cap: time.Hour}, fn)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
	if *calls != 1 {
		t.Fatalf("calls = %d, want 1", *calls)
	}
}

func TestDo_CustomClassifier(t *testing.T) {
	boom := errors.New("boom")
	fn, calls := failing(boom)
	p := Policy{Attempts: 2, Retryable: func(err error) bool { return errors.Is(err, boom) }}
	if _, err := Do(context.Background(), p, fn); err != nil {
		t.Fatal(err)
	}
	if *calls != 2 {
		t.Fatalf("calls = %d", *calls)
	}
}

func TestPolicyDelay(t *testing.T) {
	p := Policy{Base: 100 * time.Millisecond, Cap: time.Second}

	if d := p.delay(1, statusErr{after: 300 * time.Millisecond}); d != 300*time.Millisecond {
		t.Errorf("hinted delay = %v", d)
	}
	if d := p.delay(1, statusErr{after: time.Minute}); d != time.Second {
		t.Errorf("hint must be capped, got %v", d)
	}
	for attempt := 1; attempt <= 8; attempt++ {
		if d := p.delay(attempt, timeoutErr{}); d < 0 || d > time.Second {
			t.Errorf("attempt %d: delay %v outside [0, cap]", attempt, d)
		}
	}
	if d := (Policy{}).delay(3, timeoutErr{}); d != 0 {
		t.Errorf("zero base delay = %v", d)
	}
}

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, true},
		{"net timeout", fmt.Errorf("dial: %w", timeoutErr{}), true},
		{"retryable status", statusErr{transient: true}, true},
		{"permanent status", statusErr{}, false},
		{"not found", domain.ErrNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Transient(tt.err); got != tt.want {
				t.Errorf("Transient() = %v, want %v", got, tt.want)
			}
		})
	}
}
