package domains

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"domain0/d0ctl/internal/api"
	"domain0/d0ctl/internal/deferrals"
	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/domain"
	"domain0/d0ctl/internal/swrcache"

	"github.com/google/go-cmp/cmp"
)

type mockAPI struct {
	domains   []domain.Domain
	listCalls int
	resp      *api.Response
	created   []domain.CreateDomainOpts
	updated   []domain.UpdateDomainOpts
	deleted   []int64
}

func (m *mockAPI) ListDomains(context.Context) ([]domain.Domain, error) {
	m.listCalls++
	return m.domains, nil
}

func (m *mockAPI) GetDomain(_ context.Context, id int64) (*domain.Domain, error) {
	for _, d := range m.domains {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockAPI) CreateDomain(_ context.Context, opts domain.CreateDomainOpts) (*api.Response, error) {
	m.created = append(m.created, opts)
	return m.resp, nil
}

func (m *mockAPI) UpdateDomain(_ context.Context, _ int64, opts domain.UpdateDomainOpts) (*api.Response, error) {
	m.updated = append(m.updated, opts)
	return m.resp, nil
}

func (m *mockAPI) DeleteDomain(_ context.Context, id int64) (*api.Response, error) {
	m.deleted = append(m.deleted, id)
	return m.resp, nil
}

type memJournal struct{ entries []*deferrals.Entry }

func (j *memJournal) Save(e *deferrals.Entry) error {
	j.entries = append(j.entries, e)
	return nil
}

func okResponse() *api.Response {
	return &api.Response{HTTPStatus: 200, Status: 200, Data: json.RawMessage(`"ok"`)}
}

func pendingResponse() *api.Response {
	return &api.Response{HTTPStatus: 200, Status: api.StatusPendingApproval, Data: json.RawMessage(`"需审批"`)}
}

func validCreate() domain.CreateDomainOpts {
	return domain.CreateDomainOpts{Name: "Example.COM.", Vendor: domain.VendorCloudflare, APIID: "id", APISecret: "secret"}
}

func TestCapabilitiesFor(t *testing.T) {
	tests := []struct {
		role domain.UserRole
		want bool
	}{
		{domain.RoleNormal, false},
		{domain.RoleContributor, false},
		{domain.RoleAdmin, true},
		{domain.RoleSysAdmin, true},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			if got := CapabilitiesFor(tt.role).EditICP; got != tt.want {
				t.Errorf("EditICP = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreate_ICPRequiresCapability(t *testing.T) {
	m := &mockAPI{resp: okResponse()}
	opts := validCreate()
	opts.ICPReg = 1

	out := New(m, Capabilities{}).Create(context.Background(), opts)
	if out.Kind != dnsdomain.OutcomeRejected || !errors.Is(out.Err, ErrICPNotPermitted) {
		t.Fatalf("outcome = %v, want ICP refusal", out)
	}
	if len(m.created) != 0 {
		t.Fatal("refused create must not reach the API")
	}

	out = New(m, Capabilities{EditICP: true}).Create(context.Background(), opts)
	if out.Kind != dnsdomain.OutcomeApplied {
		t.Fatalf("outcome = %v, want applied", out)
	}
	if m.created[0].Name != "example.com" {
		t.Errorf("name not normalised: %q", m.created[0].Name)
	}
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.CreateDomainOpts)
	}{
		{"bad name", func(o *domain.CreateDomainOpts) { o.Name = "localhost" }},
		{"bad vendor", func(o *domain.CreateDomainOpts) { o.Vendor = "route53" }},
		{"missing secret", func(o *domain.CreateDomainOpts) { o.APISecret = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockAPI{resp: okResponse()}
			opts := validCreate()
			tt.mutate(&opts)
			if out := New(m, Capabilities{}).Create(context.Background(), opts); out.Kind != dnsdomain.OutcomeRejected {
				t.Fatalf("outcome = %v, want rejected", out)
			}
			if len(m.created) != 0 {
				t.Fatal("invalid create must not reach the API")
			}
		})
	}
}

func TestMutations_PendingIsJournalled(t *testing.T) {
	m := &mockAPI{resp: pendingResponse()}
	j := &memJournal{}
	svc := New(m, Capabilities{}, WithJournal(j))

	out := svc.Delete(context.Background(), 3)
	if out.Kind != dnsdomain.OutcomePending || out.Message != "需审批" {
		t.Fatalf("outcome = %v", out)
	}
	if len(j.entries) != 1 {
		t.Fatalf("journal entries = %d, want 1", len(j.entries))
	}
	e := j.entries[0]
	if e.Kind != deferrals.KindDomain || e.Action != "delete" || e.DomainID != 3 {
		t.Errorf("unexpected entry %+v", e)
	}
}

func TestUpdate_RefusesEmpty(t *testing.T) {
	m := &mockAPI{resp: okResponse()}
	if out := New(m, Capabilities{}).Update(context.Background(), 1, domain.UpdateDomainOpts{}); out.Kind != dnsdomain.OutcomeRejected {
		t.Fatalf("outcome = %v, want rejected", out)
	}
	if len(m.updated) != 0 {
		t.Fatal("empty update must not reach the API")
	}
}

func TestList_CachedAndInvalidated(t *testing.T) {
	m := &mockAPI{
		domains: []domain.Domain{{ID: 1, Name: "example.com"}},
		resp:    okResponse(),
	}
	cache := swrcache.New(t.TempDir(), swrcache.WithFreshFor(time.Hour))
	svc := New(m, Capabilities{}, WithCache(cache, swrcache.Scope{Endpoint: "https://d0.test/api", User: "1"}))

	for range 2 {
		if _, err := svc.List(context.Background()); err != nil {
			t.Fatalf("List: %v", err)
		}
	}
	if m.listCalls != 1 {
		t.Fatalf("list calls = %d, want 1 (second served from cache)", m.listCalls)
	}

	if out := svc.Delete(context.Background(), 1); out.Kind != dnsdomain.OutcomeApplied {
		t.Fatalf("Delete outcome = %v", out)
	}
	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if m.listCalls != 2 {
		t.Fatalf("list calls = %d, want 2 after invalidation", m.listCalls)
	}
}

func TestResolve(t *testing.T) {
	m := &mockAPI{domains: []domain.Domain{{ID: 1, Name: "example.com"}, {ID: 2, Name: "example.org"}}}
	svc := New(m, Capabilities{})

	for _, ref := range []string{"2", "example.org", "EXAMPLE.ORG."} {
		d, err := svc.Resolve(context.Background(), ref)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", ref, err)
		}
		if diff := cmp.Diff(int64(2), d.ID); diff != "" {
			t.Errorf("Resolve(%q) id (-want +got):\n%s", ref, diff)
		}
	}
	if _, err := svc.Resolve(context.Background(), "missing.net"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
