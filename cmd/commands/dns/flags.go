package dns

import (
	"fmt"
	"strings"

	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/dns/vendors"
	"domain0/d0ctl/internal/domain"

	"github.com/spf13/cobra"
)

func addRecordFlags(cmd *cobra.Command) {
	cmd.Flags().String("type", "", "Record type (A, AAAA, CNAME, MX, TXT, NS, SRV, CAA, SPF)")
	cmd.Flags().String("name", "", "Host name (@ for the apex, * for a wildcard)")
	cmd.Flags().String("content", "", "Record content (IP address, hostname, text value, etc.)")
	cmd.Flags().Int("ttl", 0, "Time-to-live in seconds (default: 600)")
	cmd.Flags().Int("priority", 0, "Record priority (for MX, SRV)")
	cmd.Flags().String("comment", "", "Optional comment, at most 200 characters")
	cmd.Flags().Bool("proxied", false, "Proxy traffic through the vendor (Cloudflare only)")
}

// applyRecordFlags overlays the flags the user set onto draft. It reports
// whether any flag was set.
func applyRecordFlags(cmd *cobra.Command, d *domain.Domain, draft *dnsdomain.RecordOpts) (bool, error) {
	flags := cmd.Flags()
	changed := false

	if flags.Changed("type") {
		v, _ := flags.GetString("type")
		draft.Type = dnsdomain.RecordType(strings.ToUpper(v))
		changed = true
	}
	if flags.Changed("name") {
		draft.Name, _ = flags.GetString("name")
		changed = true
	}
	if flags.Changed("content") {
		draft.Content, _ = flags.GetString("content")
		changed = true
	}
	if flags.Changed("ttl") {
		draft.TTL, _ = flags.GetInt("ttl")
		changed = true
	}
	if flags.Changed("priority") {
		draft.Priority, _ = flags.GetInt("priority")
		changed = true
	}
	if flags.Changed("comment") {
		draft.Comment, _ = flags.GetString("comment")
		changed = true
	}
	if flags.Changed("proxied") {
		entry := vendors.Get(d.Vendor)
		if !entry.Proxyable {
			return false, fmt.Errorf("%s does not support proxied records", entry.DisplayName)
		}
		v, _ := flags.GetBool("proxied")
		draft.Proxied = &v
		changed = true
	}
	return changed, nil
}

// splitRecordArgs reads "[domain] <record>".
func splitRecordArgs(args []string) (domainRef, recordRef string) {
	if len(args) == 2 {
		return args[0], args[1]
	}
	return "", args[0]
}
