package access

import (
	"context"
	"encoding/json"
	"testing"

	"domain0/d0ctl/internal/api"
	"domain0/d0ctl/internal/deferrals"
	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/domain"
)

type grantCall struct {
	domainID, userID int64
	role             domain.AccessRole
}

type mockAPI struct {
	resp    *api.Response
	err     error
	grants  []grantCall
	revokes []int64
}

func (m *mockAPI) ListAccess(_ context.Context, domainID int64) ([]domain.AccessGrant, error) {
	return []domain.AccessGrant{{DomainID: domainID, UserID: 5, Role: domain.AccessOwner}}, nil
}

func (m *mockAPI) GrantAccess(_ context.Context, domainID, userID int64, role domain.AccessRole) (*api.Response, error) {
	m.grants = append(m.grants, grantCall{domainID, userID, role})
	return m.resp, m.err
}

func (m *mockAPI) RevokeAccess(_ context.Context, _ int64, userID int64) (*api.Response, error) {
	m.revokes = append(m.revokes, userID)
	return m.resp, m.err
}

type memJournal struct{ entries []*deferrals.Entry }

func (j *memJournal) Save(e *deferrals.Entry) error {
	j.entries = append(j.entries, e)
	return nil
}

func TestGrant_Outcomes(t *testing.T) {
	tests := []struct {
		name        string
		resp        *api.Response
		want        dnsdomain.OutcomeKind
		wantJournal int
	}{
		{"applied", &api.Response{HTTPStatus: 200, Status: 200}, dnsdomain.OutcomeApplied, 0},
		{"pending", &api.Response{HTTPStatus: 200, Status: api.StatusPendingApproval, Data: json.RawMessage(`"需审批"`)}, dnsdomain.OutcomePending, 1},
		{"rejected", &api.Response{HTTPStatus: 200, Status: 400, Errors: "user not found"}, dnsdomain.OutcomeRejected, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockAPI{resp: tt.resp}
			j := &memJournal{}
			out := New(m, j).Grant(context.Background(), 1, 9, domain.AccessReadWrite)
			if out.Kind != tt.want {
				t.Fatalf("outcome = %v, want %v", out, tt.want)
			}
			if len(j.entries) != tt.wantJournal {
				t.Fatalf("journal entries = %d, want %d", len(j.entries), tt.wantJournal)
			}
			if tt.wantJournal == 1 && j.entries[0].Payload != `{"role":"ReadWrite","user_id":9}` {
				t.Errorf("payload = %s", j.entries[0].Payload)
			}
		})
	}
}

func TestGrant_ValidatesInput(t *testing.T) {
	m := &mockAPI{resp: &api.Response{Status: 200}}
	svc := New(m, nil)

	cases := []struct {
		name             string
		domainID, userID int64
		role             domain.AccessRole
	}{
		{"no domain", 0, 1, domain.AccessReadOnly},
		{"no user", 1, 0, domain.AccessReadOnly},
		{"bad role", 1, 1, domain.AccessRole(9)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if out := svc.Grant(context.Background(), c.domainID, c.userID, c.role); out.Kind != dnsdomain.OutcomeRejected {
				t.Fatalf("outcome = %v, want rejected", out)
			}
		})
	}
	if len(m.grants) != 0 {
		t.Fatal("invalid grants must not reach the API")
	}
}

func TestRevoke(t *testing.T) {
	m := &mockAPI{resp: &api.Response{HTTPStatus: 200, Status: 200}}
	if out := New(m, nil).Revoke(context.Background(), 1, 7); out.Kind != dnsdomain.OutcomeApplied {
		t.Fatalf("outcome = %v", out)
	}
	if len(m.revokes) != 1 || m.revokes[0] != 7 {
		t.Fatalf("revokes = %v", m.revokes)
	}
}
