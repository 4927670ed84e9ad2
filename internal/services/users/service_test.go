package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"domain0/d0ctl/internal/api"
	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/domain"

	"github.com/google/go-cmp/cmp"
)

type mockAPI struct {
	resp    *api.Response
	users   []domain.User
	updates []int64
	deletes []int64
}

func (m *mockAPI) ListUsers(context.Context) ([]domain.User, error) { return m.users, nil }

func (m *mockAPI) GetUser(_ context.Context, id int64) (*domain.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			return &m.users[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockAPI) UpdateUser(_ context.Context, id int64, _ domain.UpdateUserOpts) (*api.Response, error) {
	m.updates = append(m.updates, id)
	return m.resp, nil
}

func (m *mockAPI) DeleteUser(_ context.Context, id int64) (*api.Response, error) {
	m.deletes = append(m.deletes, id)
	return m.resp, nil
}

func newMock() *mockAPI {
	return &mockAPI{
		resp:  &api.Response{HTTPStatus: 200, Status: 200},
		users: []domain.User{{ID: 1, Name: "root", Role: domain.RoleSysAdmin}, {ID: 7, Name: "alice"}},
	}
}

func rolePtr(r domain.UserRole) *domain.UserRole { return &r }

func TestCallerFromSession(t *testing.T) {
	c, err := CallerFromSession("42", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(Caller{ID: 42, Role: domain.RoleAdmin}, c); diff != "" {
		t.Errorf("caller mismatch (-want +got):\n%s", diff)
	}
	for _, sub := range []string{"", "alice", "0"} {
		if _, err := CallerFromSession(sub, domain.RoleAdmin); err == nil {
			t.Errorf("CallerFromSession(%q) succeeded", sub)
		}
	}
}

func TestList_RequiresAdmin(t *testing.T) {
	m := newMock()

	if _, err := New(m, Caller{ID: 7, Role: domain.RoleContributor}).List(context.Background()); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("contributor list err = %v, want forbidden", err)
	}
	got, err := New(m, Caller{ID: 1, Role: domain.RoleAdmin}).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("users = %+v", got)
	}
}

func TestGet_SelfOrAdmin(t *testing.T) {
	m := newMock()
	normal := New(m, Caller{ID: 7, Role: domain.RoleNormal})

	if u, err := normal.Get(context.Background(), 7); err != nil || u.Name != "alice" {
		t.Errorf("self get = %+v, %v", u, err)
	}
	if _, err := normal.Get(context.Background(), 1); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("other get err = %v, want forbidden", err)
	}
	if _, err := New(m, Caller{ID: 1, Role: domain.RoleAdmin}).Get(context.Background(), 7); err != nil {
		t.Errorf("admin get err = %v", err)
	}
}

func TestUpdate_Rules(t *testing.T) {
	tests := []struct {
		name    string
		caller  Caller
		id      int64
		opts    domain.UpdateUserOpts
		wantErr string
	}{
		{"self email", Caller{7, domain.RoleNormal}, 7, domain.UpdateUserOpts{Email: "a@example.com"}, ""},
		{"self password", Caller{7, domain.RoleNormal}, 7, domain.UpdateUserOpts{Password: "longenough"}, ""},
		{"self name", Caller{7, domain.RoleNormal}, 7, domain.UpdateUserOpts{Name: "bob"}, "only email and password"},
		{"other account", Caller{7, domain.RoleContributor}, 1, domain.UpdateUserOpts{Email: "a@example.com"}, "requires the Admin role"},
		{"empty", Caller{1, domain.RoleAdmin}, 7, domain.UpdateUserOpts{}, "nothing to update"},
		{"bad email", Caller{1, domain.RoleAdmin}, 7, domain.UpdateUserOpts{Email: "not-an-email"}, "invalid email"},
		{"short password", Caller{1, domain.RoleAdmin}, 7, domain.UpdateUserOpts{Password: "abc"}, "at least 6"},
		{"admin promotes to contributor", Caller{1, domain.RoleAdmin}, 7, domain.UpdateUserOpts{Role: rolePtr(domain.RoleContributor)}, ""},
		{"admin cannot promote to admin", Caller{1, domain.RoleAdmin}, 7, domain.UpdateUserOpts{Role: rolePtr(domain.RoleAdmin)}, "only assign roles below Admin"},
		{"sysadmin promotes to admin", Caller{1, domain.RoleSysAdmin}, 7, domain.UpdateUserOpts{Role: rolePtr(domain.RoleAdmin)}, ""},
		{"own role", Caller{1, domain.RoleSysAdmin}, 1, domain.UpdateUserOpts{Role: rolePtr(domain.RoleAdmin)}, "own role"},
		{"missing id", Caller{1, domain.RoleAdmin}, 0, domain.UpdateUserOpts{Name: "x"}, "user ID is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMock()
			out := New(m, tt.caller).Update(context.Background(), tt.id, tt.opts)

			if tt.wantErr == "" {
				if out.Kind != dnsdomain.OutcomeApplied {
					t.Fatalf("outcome = %v, want applied", out)
				}
				if len(m.updates) != 1 {
					t.Errorf("updates = %v", m.updates)
				}
				return
			}
			if out.Kind != dnsdomain.OutcomeRejected || out.Err == nil || !strings.Contains(out.Err.Error(), tt.wantErr) {
				t.Fatalf("outcome = %v (%v), want rejection containing %q", out, out.Err, tt.wantErr)
			}
			if len(m.updates) != 0 {
				t.Errorf("rejected update reached the API: %v", m.updates)
			}
		})
	}
}

func TestUpdate_PendingApproval(t *testing.T) {
	m := newMock()
	m.resp = &api.Response{HTTPStatus: 200, Status: api.StatusPendingApproval}

	out := New(m, Caller{1, domain.RoleAdmin}).Update(context.Background(), 7, domain.UpdateUserOpts{Name: "al"})
	if out.Kind != dnsdomain.OutcomePending {
		t.Errorf("outcome = %v, want pending", out)
	}
}

func TestDelete_Rules(t *testing.T) {
	tests := []struct {
		name    string
		caller  Caller
		id      int64
		wantErr string
	}{
		{"admin deletes other", Caller{1, domain.RoleAdmin}, 7, ""},
		{"contributor", Caller{7, domain.RoleContributor}, 1, "requires the Admin role"},
		{"self", Caller{1, domain.RoleSysAdmin}, 1, "own account"},
		{"missing id", Caller{1, domain.RoleAdmin}, 0, "user ID is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMock()
			out := New(m, tt.caller).Delete(context.Background(), tt.id)

			if tt.wantErr == "" {
				if out.Kind != dnsdomain.OutcomeApplied || len(m.deletes) != 1 {
					t.Fatalf("outcome = %v, deletes = %v", out, m.deletes)
				}
				return
			}
			if out.Err == nil || !strings.Contains(out.Err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", out.Err, tt.wantErr)
			}
			if len(m.deletes) != 0 {
				t.Errorf("rejected delete reached the API: %v", m.deletes)
			}
		})
	}
}
