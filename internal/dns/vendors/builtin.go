package vendors

import (
	"sync"

	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/domain"
)

var builtins sync.Once

// RegisterBuiltins registers the vendors the API supports. It is safe to
// call more than once.
func RegisterBuiltins() {
	builtins.Do(func() {
		Register(Entry{
			Tag:         domain.VendorCloudflare,
			DisplayName: "Cloudflare",
			Proxyable:   true,
			Columns: []Column{{
				Header: "PROXIED",
				Width:  8,
				Value:  proxied,
			}},
		})
		Register(Entry{Tag: domain.VendorDNSPod, DisplayName: "DNSPod"})
		Register(Entry{Tag: domain.VendorAliyun, DisplayName: "Aliyun DNS"})
	})
}

func proxied(r dnsdomain.Record) string {
	switch {
	case r.Proxied == nil:
		return "-"
	case *r.Proxied:
		return "yes"
	}
	return "no"
}
