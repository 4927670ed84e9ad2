package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"domain0/d0ctl/cmd/commands/cmdtest"
	"domain0/d0ctl/internal/deferrals"
	"domain0/d0ctl/internal/dns/vendors"
	"domain0/d0ctl/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func seed(t *testing.T) *cmdtest.Harness {
	t.Helper()
	vendors.RegisterBuiltins()
	h := cmdtest.Setup(t)
	h.Login(t)
	h.API.Domains = []domain.Domain{
		{ID: 3, Name: "example.com", Vendor: domain.VendorCloudflare, ICPReg: 1},
		{ID: 4, Name: "example.org", Vendor: domain.VendorAliyun},
	}
	h.API.Grants[3] = []domain.AccessGrant{
		{DomainID: 3, UserID: 42, Username: "alice", Email: "alice@example.com", Role: domain.AccessOwner},
		{DomainID: 3, UserID: 7, Username: "bob", Role: domain.AccessReadOnly},
	}
	return h
}

func TestListCommand_Table(t *testing.T) {
	seed(t)

	res := cmdtest.Run(t, NewCommand(), "list")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	cmdtest.AssertContainsAll(t, res.Stdout, "list",
		"ID", "NAME", "VENDOR", "ICP",
		"example.com", "Cloudflare", "yes",
		"example.org", "Aliyun DNS",
	)
}

func TestListCommand_JSON(t *testing.T) {
	h := seed(t)

	res := cmdtest.Run(t, NewCommand(), "list", "-o", "json")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	var got []domain.Domain
	if err := json.Unmarshal([]byte(res.Stdout), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, res.Stdout)
	}
	if diff := cmp.Diff(h.API.Domains, got); diff != "" {
		t.Errorf("domains (-want +got):\n%s", diff)
	}
}

func TestListCommand_Empty(t *testing.T) {
	h := cmdtest.Setup(t)
	h.Login(t)

	res := cmdtest.Run(t, NewCommand(), "list")
	if !strings.Contains(res.Stdout, "No domains found") {
		t.Errorf("expected 'No domains found' in output:\n%s", res.Stdout)
	}
}

func TestShowCommand_IncludesAccess(t *testing.T) {
	seed(t)

	res := cmdtest.Run(t, NewCommand(), "show", "example.com")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	cmdtest.AssertContainsAll(t, res.Stdout, "show",
		"Name:", "example.com", "ICP registered:", "yes",
		"USER ID", "alice", "Owner", "bob", "ReadOnly",
	)
}

func TestShowCommand_JSON(t *testing.T) {
	seed(t)

	res := cmdtest.Run(t, NewCommand(), "show", "4", "-o", "json")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	var got detail
	if err := json.Unmarshal([]byte(res.Stdout), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, res.Stdout)
	}
	if got.Domain == nil || got.Domain.Name != "example.org" {
		t.Errorf("domain = %+v", got.Domain)
	}
	if got.Access == nil || len(got.Access) != 0 {
		t.Errorf("access = %#v, want an empty list", got.Access)
	}
}

func TestShowCommand_UnknownDomain(t *testing.T) {
	seed(t)

	res := cmdtest.Run(t, NewCommand(), "show", "nope.example")
	if res.Err == nil || !strings.Contains(res.Err.Error(), `"nope.example"`) {
		t.Errorf("err = %v", res.Err)
	}
}

func TestCreateCommand_SecretFromStdin(t *testing.T) {
	h := seed(t)

	res := cmdtest.RunWithInput(t, NewCommand(), "s3cret\n",
		"create", "New.Example.NET", "--vendor", "DNSPod", "--api-id", "1234")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	cmdtest.AssertContainsAll(t, res.Stdout, "create", "Registered new.example.net.")

	last := h.API.Domains[len(h.API.Domains)-1]
	if last.Name != "new.example.net" || last.Vendor != domain.VendorDNSPod {
		t.Errorf("created domain = %+v", last)
	}
}

func TestCreateCommand_Validation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing name",
			args:    []string{"create", "--vendor", "dnspod", "--api-id", "1", "--api-secret", "x"},
			wantErr: "a domain name is required",
		},
		{
			name:    "missing vendor",
			args:    []string{"create", "a.example", "--api-id", "1", "--api-secret", "x"},
			wantErr: "--vendor is required",
		},
		{
			name:    "unknown vendor",
			args:    []string{"create", "a.example", "--vendor", "route53", "--api-id", "1", "--api-secret", "x"},
			wantErr: `unsupported vendor "route53"`,
		},
		{
			name:    "icp needs admin",
			args:    []string{"create", "a.example", "--vendor", "dnspod", "--api-id", "1", "--api-secret", "x", "--icp"},
			wantErr: "requires the Admin role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := seed(t)

			res := cmdtest.Run(t, NewCommand(), tt.args...)
			if res.Err == nil || !strings.Contains(res.Err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want it to contain %q", res.Err, tt.wantErr)
			}
			if len(h.API.Domains) != 2 {
				t.Errorf("a rejected create reached the API: %v", h.API.Calls)
			}
		})
	}
}

func TestCreateCommand_AdminMayFlagICP(t *testing.T) {
	h := cmdtest.Setup(t)
	h.API.User.Role = domain.RoleAdmin
	h.Login(t)

	res := cmdtest.Run(t, NewCommand(), "create", "icp.example", "--vendor", "aliyun", "--api-id", "1", "--api-secret", "x", "--icp")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(h.API.Domains) != 1 || !h.API.Domains[0].HasICP() {
		t.Errorf("domains = %+v", h.API.Domains)
	}
}

func TestUpdateCommand(t *testing.T) {
	h := seed(t)

	res := cmdtest.Run(t, NewCommand(), "update", "example.org", "--vendor", "cloudflare")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	cmdtest.AssertContainsAll(t, res.Stdout, "update", "Updated example.org.")
	if got := h.API.Domains[1].Vendor; got != domain.VendorCloudflare {
		t.Errorf("vendor = %q", got)
	}
}

func TestUpdateCommand_NothingToUpdate(t *testing.T) {
	seed(t)

	res := cmdtest.Run(t, NewCommand(), "update", "example.org")
	if res.Err == nil || !strings.Contains(res.Err.Error(), "nothing to update") {
		t.Errorf("err = %v", res.Err)
	}
}

func TestDeleteCommand(t *testing.T) {
	h := seed(t)

	res := cmdtest.Run(t, NewCommand(), "delete", "example.org")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	cmdtest.AssertContainsAll(t, res.Stdout, "delete", "Deleted example.org.")
	if len(h.API.Domains) != 1 {
		t.Errorf("domains = %+v", h.API.Domains)
	}
}

func TestDeleteCommand_DeferredIsJournalled(t *testing.T) {
	h := seed(t)
	h.API.DeferMessage = "an owner must approve"

	res := cmdtest.Run(t, NewCommand(), "delete", "3")
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	cmdtest.AssertContainsAll(t, res.Stdout, "delete", "Submitted for approval: an owner must approve")
	if len(h.API.Domains) != 2 {
		t.Error("a deferred delete must not remove the domain")
	}

	journal, err := deferrals.Open()
	if err != nil {
		t.Fatal(err)
	}
	defer journal.Close()
	entries, err := journal.Find(deferrals.Query{Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("journal entries = %d, want 1", len(entries))
	}
	got := entries[0]
	if got.Kind != deferrals.KindDomain || got.Action != "delete" || got.DomainID != 3 || got.Message != "an owner must approve" {
		t.Errorf("entry = %+v", got)
	}
}
