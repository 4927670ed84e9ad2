package changerequest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"domain0/d0ctl/internal/api"
	"domain0/d0ctl/internal/domain"

	"github.com/google/go-cmp/cmp"
)

type decision struct {
	id  int64
	opt api.Decision
}

type mockSource struct {
	mu        sync.Mutex
	applied   []domain.ChangeRequest
	pending   []domain.ChangeRequest
	pendingFn func() []domain.ChangeRequest
	listErr   error
	decideErr error

	pendingCalls int
	decisions    []decision
}

func (m *mockSource) ListAppliedChanges(context.Context) ([]domain.ChangeRequest, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.applied, nil
}

func (m *mockSource) ListPendingChanges(context.Context) ([]domain.ChangeRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingCalls++
	if m.pendingFn != nil {
		return m.pendingFn(), nil
	}
	return m.pending, nil
}

func (m *mockSource) DecideChange(_ context.Context, id int64, opt api.Decision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, decision{id, opt})
	return m.decideErr
}

func ids(list []domain.ChangeRequest) []int64 {
	out := make([]int64, 0, len(list))
	for _, cr := range list {
		out = append(out, cr.ID)
	}
	return out
}

func TestLoad_BothListsNewestFirst(t *testing.T) {
	src := &mockSource{
		applied: []domain.ChangeRequest{{ID: 1}, {ID: 2}, {ID: 3}},
		pending: []domain.ChangeRequest{{ID: 10}, {ID: 11}},
	}
	lists, err := New(src).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff([]int64{3, 2, 1}, ids(lists.Applied)); diff != "" {
		t.Errorf("applied (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{11, 10}, ids(lists.Pending)); diff != "" {
		t.Errorf("pending (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{1, 2, 3}, ids(src.applied)); diff != "" {
		t.Errorf("source slice was mutated (-want +got):\n%s", diff)
	}
}

func TestLoad_PropagatesError(t *testing.T) {
	src := &mockSource{listErr: errors.New("boom")}
	if _, err := New(src).Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestAccept_ReloadsActionableList(t *testing.T) {
	src := &mockSource{}
	calls := 0
	src.pendingFn = func() []domain.ChangeRequest {
		calls++
		if calls == 1 {
			return []domain.ChangeRequest{{ID: 5}, {ID: 6}}
		}
		return []domain.ChangeRequest{{ID: 6}}
	}
	b := New(src)
	if _, err := b.Pending(context.Background()); err != nil {
		t.Fatalf("Pending: %v", err)
	}

	got, err := b.Accept(context.Background(), 5)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if diff := cmp.Diff([]int64{6}, ids(got)); diff != "" {
		t.Errorf("reloaded list (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]decision{{5, api.DecisionAccept}}, src.decisions, cmp.AllowUnexported(decision{})); diff != "" {
		t.Errorf("decisions (-want +got):\n%s", diff)
	}
	if src.pendingCalls != 2 {
		t.Errorf("pending fetched %d times, want 2", src.pendingCalls)
	}
}

func TestReject_FailureSkipsReload(t *testing.T) {
	src := &mockSource{decideErr: errors.New("status 500")}
	b := New(src)

	if _, err := b.Reject(context.Background(), 9); err == nil {
		t.Fatal("expected error")
	}
	if len(src.decisions) != 1 || src.decisions[0].opt != api.DecisionReject {
		t.Fatalf("decisions = %+v", src.decisions)
	}
	if src.pendingCalls != 0 {
		t.Errorf("failed decision must not reload, got %d fetches", src.pendingCalls)
	}
}

func TestDecide_RefusesDecidedRequest(t *testing.T) {
	src := &mockSource{pending: []domain.ChangeRequest{{ID: 4, ActionStatus: domain.StatusApproved}}}
	b := New(src)
	if _, err := b.Pending(context.Background()); err != nil {
		t.Fatalf("Pending: %v", err)
	}

	_, err := b.Accept(context.Background(), 4)
	if !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("err = %v, want ErrAlreadyDecided", err)
	}
	if len(src.decisions) != 0 {
		t.Error("no decision should reach the server")
	}
}

func TestPrettyOperation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json", `{"name":"www","ttl":600}`, "{\n  \"name\": \"www\",\n  \"ttl\": 600\n}"},
		{"not json", "delete www", "delete www"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrettyOperation(tt.in); got != tt.want {
				t.Errorf("PrettyOperation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCounts(t *testing.T) {
	got := Counts([]domain.ChangeRequest{
		{ActionStatus: domain.StatusReviewing},
		{ActionStatus: domain.StatusApproved},
		{ActionStatus: domain.StatusReviewing},
	})
	want := map[domain.ActionStatus]int{domain.StatusReviewing: 2, domain.StatusApproved: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Counts (-want +got):\n%s", diff)
	}
}
