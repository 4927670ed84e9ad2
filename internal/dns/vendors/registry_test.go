package vendors

import (
	"testing"

	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func TestRegisterBuiltins(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	RegisterBuiltins()
	RegisterBuiltins()

	want := []domain.Vendor{domain.VendorAliyun, domain.VendorCloudflare, domain.VendorDNSPod}
	if diff := cmp.Diff(want, List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}

	cf := Get("Cloudflare")
	if len(cf.Columns) != 1 || cf.Columns[0].Header != "PROXIED" {
		t.Fatalf("cloudflare columns = %+v", cf.Columns)
	}
	on, off := true, false
	for _, tt := range []struct {
		rec  dnsdomain.Record
		want string
	}{
		{dnsdomain.Record{Proxied: &on}, "yes"},
		{dnsdomain.Record{Proxied: &off}, "no"},
		{dnsdomain.Record{}, "-"},
	} {
		if got := cf.Columns[0].Value(tt.rec); got != tt.want {
			t.Errorf("proxied column = %q, want %q", got, tt.want)
		}
	}

	if cols := Get(domain.VendorDNSPod).Columns; len(cols) != 0 {
		t.Errorf("dnspod should add no columns, got %d", len(cols))
	}
}

func TestGet_UnknownVendor(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	e := Get("route53")
	if e.DisplayName != "route53" || len(e.Columns) != 0 {
		t.Errorf("unexpected fallback entry %+v", e)
	}
}

func TestRegister_Panics(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	tests := []struct {
		name string
		run  func()
	}{
		{"empty tag", func() { Register(Entry{}) }},
		{"nil column value", func() { Register(Entry{Tag: "x", Columns: []Column{{Header: "X"}}}) }},
		{"duplicate", func() {
			Register(Entry{Tag: "dup"})
			Register(Entry{Tag: "DUP"})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.run()
		})
	}
}
