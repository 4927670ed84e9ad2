package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/domain"

	"github.com/google/go-cmp/cmp"
)

// --- Records ---

func TestListRecords(t *testing.T) {
	c, got := newServer(t, http.StatusOK, `{"status":200,"data":{"success":true,"result":[
		{"id":101,"name":"www","type":"A","content":"1.2.3.4","ttl":600},
		{"id":"abc","name":"mail","type":"MX","content":"mx.example.com","ttl":600,"priority":10}
	]}}`)

	records, err := c.ListRecords(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.method != http.MethodGet || got.path != "/api/v1/domain/3/dns" {
		t.Errorf("request = %s %s", got.method, got.path)
	}
	want := []dnsdomain.Record{
		{ID: "101", Name: "www", Type: dnsdomain.RecordTypeA, Content: "1.2.3.4", TTL: 600},
		{ID: "abc", Name: "mail", Type: dnsdomain.RecordTypeMX, Content: "mx.example.com", TTL: 600, Priority: 10},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("records (-want +got):\n%s", diff)
	}
}

func TestListRecords_Failures(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"envelope status", `{"status":500,"data":null,"errors":"vendor timeout"}`, "vendor timeout"},
		{"inner success false", `{"status":200,"data":{"success":false,"errors":[{"code":9103,"message":"bad key"}]}}`, "[9103] bad key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newServer(t, http.StatusOK, tt.body)

			_, err := c.ListRecords(context.Background(), 3)
			var derr *DomainError
			if !errors.As(err, &derr) {
				t.Fatalf("err = %v, want *DomainError", err)
			}
			if err.Error() != tt.want {
				t.Errorf("err = %q, want %q", err, tt.want)
			}
		})
	}
}

func TestListRecords_NullResultIsEmpty(t *testing.T) {
	c, _ := newServer(t, http.StatusOK, `{"status":200,"data":{"success":true,"result":null}}`)

	records, err := c.ListRecords(context.Background(), 3)
	if err != nil || records == nil || len(records) != 0 {
		t.Errorf("ListRecords() = %v, %v", records, err)
	}
}

func TestRecordMutations(t *testing.T) {
	tests := []struct {
		name       string
		call       func(*Client) (*Response, error)
		wantMethod string
		wantPath   string
		wantBody   string
	}{
		{
			name: "create",
			call: func(c *Client) (*Response, error) {
				return c.CreateRecord(context.Background(), 3, dnsdomain.RecordOpts{Name: "www", Type: "A", Content: "1.2.3.4", TTL: 600})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/v1/domain/3/dns",
			wantBody:   `{"name":"www","type":"A","content":"1.2.3.4","ttl":600,"priority":0}`,
		},
		{
			name: "update numeric id",
			call: func(c *Client) (*Response, error) {
				return c.UpdateRecord(context.Background(), 3, dnsdomain.Record{ID: "101", Name: "www", Type: "A", Content: "1.2.3.4", TTL: 600})
			},
			wantMethod: http.MethodPut,
			wantPath:   "/api/v1/domain/3/dns/101",
			wantBody:   `{"id":101,"name":"www","type":"A","content":"1.2.3.4","ttl":600,"priority":0}`,
		},
		{
			name: "delete",
			call: func(c *Client) (*Response, error) {
				return c.DeleteRecord(context.Background(), 3, "abc")
			},
			wantMethod: http.MethodDelete,
			wantPath:   "/api/v1/domain/3/dns/abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, got := newServer(t, http.StatusOK, `{"status":208,"data":"queued"}`)

			resp, err := tt.call(c)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !resp.Deferred() {
				t.Errorf("status = %d, want deferred", resp.Status)
			}
			if got.method != tt.wantMethod || got.path != tt.wantPath {
				t.Errorf("request = %s %s", got.method, got.path)
			}
			if got.body != tt.wantBody {
				t.Errorf("body = %s\nwant   %s", got.body, tt.wantBody)
			}
		})
	}
}

// --- Domains ---

func TestListDomains(t *testing.T) {
	c, got := newServer(t, http.StatusOK, `{"status":200,"data":[{"ID":3,"Name":"example.com","vendor":"cloudflare","ICP_reg":1}]}`)

	domains, err := c.ListDomains(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.path != "/api/v1/domain" {
		t.Errorf("path = %s", got.path)
	}
	if len(domains) != 1 || domains[0].Name != "example.com" || !domains[0].HasICP() {
		t.Errorf("domains = %+v", domains)
	}
}

func TestGetDomain_EnvelopeFailure(t *testing.T) {
	c, _ := newServer(t, http.StatusOK, `{"status":404,"data":null,"errors":"no such domain"}`)

	_, err := c.GetDomain(context.Background(), 9)
	if err == nil || !strings.Contains(err.Error(), "no such domain") {
		t.Errorf("err = %v", err)
	}
}

func TestDomainMutations(t *testing.T) {
	c, got := newServer(t, http.StatusOK, `{"status":200,"data":null}`)

	if _, err := c.UpdateDomain(context.Background(), 3, domain.UpdateDomainOpts{APIID: "key"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.method != http.MethodPut || got.path != "/api/v1/domain/3" || got.body != `{"api_id":"key"}` {
		t.Errorf("update request = %s %s %s", got.method, got.path, got.body)
	}

	if _, err := c.DeleteDomain(context.Background(), 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.method != http.MethodDelete || got.path != "/api/v1/domain/3" {
		t.Errorf("delete request = %s %s", got.method, got.path)
	}
}

// --- Access ---

func TestAccessCalls(t *testing.T) {
	c, got := newServer(t, http.StatusOK, `{"status":200,"data":null}`)

	if _, err := c.GrantAccess(context.Background(), 3, 9, domain.AccessManager); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.method != http.MethodPost || got.path != "/api/v1/domain/3/user" || got.body != `{"user_id":9,"role":2}` {
		t.Errorf("grant request = %s %s %s", got.method, got.path, got.body)
	}

	if _, err := c.RevokeAccess(context.Background(), 3, 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.method != http.MethodDelete || got.path != "/api/v1/domain/3/user/9" {
		t.Errorf("revoke request = %s %s", got.method, got.path)
	}
}

// --- Changes ---

func TestListPendingChanges(t *testing.T) {
	c, got := newServer(t, http.StatusOK, `{"status":200,"data":[{"ID":11,"DomainId":3,"UserId":7,"ActionType":1,"ActionStatus":0,"Operation":"{}"}]}`)

	list, err := c.ListPendingChanges(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.path != "/api/v1/domain/change/myapprove" {
		t.Errorf("path = %s", got.path)
	}
	if len(list) != 1 || list[0].ID != 11 || list[0].ActionType != domain.ActionEditDNS {
		t.Errorf("list = %+v", list)
	}
}

func TestDecideChange(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"accepted", `{"status":200,"data":null}`, false},
		{"refused", `{"status":400,"data":null,"errors":"already decided"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, got := newServer(t, http.StatusOK, tt.body)

			err := c.DecideChange(context.Background(), 11, DecisionReject)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got.method != http.MethodPut || got.path != "/api/v1/domain/change/11" || got.query.Get("opt") != "reject" {
				t.Errorf("request = %s %s?%s", got.method, got.path, got.query.Encode())
			}
		})
	}
}

// --- Users ---

func TestLogin(t *testing.T) {
	c, got := newServer(t, http.StatusOK, `{"status":200,"data":"jwt-token"}`)

	token, err := c.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "jwt-token" {
		t.Errorf("token = %q", token)
	}
	if got.header.Get("Authorization") != "" {
		t.Error("login must be unauthenticated")
	}
	if got.header.Get("Content-Type") != "application/x-www-form-urlencoded" || got.body != "pass=s3cret&user=alice" {
		t.Errorf("login body = %s (%s)", got.body, got.header.Get("Content-Type"))
	}
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"bad credentials", 200, `{"status":401,"data":null,"errors":"wrong password"}`, "login failed: wrong password"},
		{"empty token", 200, `{"status":200,"data":""}`, "login failed: empty token in response"},
		{"http error", 500, ``, "login failed: Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newServer(t, tt.status, tt.body)

			_, err := c.Login(context.Background(), "alice", "x")
			if err == nil || err.Error() != tt.want {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestListUsers(t *testing.T) {
	c, got := newServer(t, http.StatusOK, `{"status":200,"data":[{"ID":7,"Email":"a@b.c","Name":"alice","StuId":{"String":"2021","Valid":true},"Role":2}]}`)

	users, err := c.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.method != http.MethodGet || got.path != "/api/v1/user" {
		t.Errorf("request = %s %s", got.method, got.path)
	}
	want := []domain.User{{ID: 7, Email: "a@b.c", Name: "alice", StudentID: domain.NullString{String: "2021", Valid: true}, Role: domain.RoleAdmin}}
	if diff := cmp.Diff(want, users); diff != "" {
		t.Errorf("users mismatch (-want +got):\n%s", diff)
	}
}

func TestUserMutations(t *testing.T) {
	c, got := newServer(t, http.StatusOK, `{"status":200,"data":null}`)

	role := domain.RoleNormal
	if _, err := c.UpdateUser(context.Background(), 7, domain.UpdateUserOpts{Email: "x@y.z", Role: &role}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.method != http.MethodPut || got.path != "/api/v1/user/7" || got.body != `{"email":"x@y.z","role":0}` {
		t.Errorf("update request = %s %s %s", got.method, got.path, got.body)
	}

	if _, err := c.DeleteUser(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.method != http.MethodDelete || got.path != "/api/v1/user/7" {
		t.Errorf("delete request = %s %s", got.method, got.path)
	}
}
