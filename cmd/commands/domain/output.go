package domain

import (
	"fmt"
	"text/tabwriter"

	"domain0/d0ctl/internal/dns/vendors"
	"domain0/d0ctl/internal/domain"

	"github.com/spf13/cobra"
)

// detail is the JSON shape of "domain show".
type detail struct {
	Domain *domain.Domain       `json:"domain"`
	Access []domain.AccessGrant `json:"access"`
}

func printDomainTable(cmd *cobra.Command, domains []domain.Domain) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVENDOR\tICP\tCREATED")
	fmt.Fprintln(w, "--\t----\t------\t---\t-------")
	for _, d := range domains {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			d.ID,
			d.Name,
			vendorName(d),
			yesNo(d.HasICP()),
			formatDate(d),
		)
	}
	w.Flush()
}

// printDomainDetail prints a vertical key-value table followed by the
// domain's access grants.
func printDomainDetail(cmd *cobra.Command, d *domain.Domain, grants []domain.AccessGrant) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  ID:\t%d\n", d.ID)
	fmt.Fprintf(w, "  Name:\t%s\n", d.Name)
	fmt.Fprintf(w, "  Vendor:\t%s\n", vendorName(*d))
	fmt.Fprintf(w, "  ICP registered:\t%s\n", yesNo(d.HasICP()))
	if !d.CreatedAt.IsZero() {
		fmt.Fprintf(w, "  Created:\t%s\n", d.CreatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	}
	if !d.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "  Updated:\t%s\n", d.UpdatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	}
	w.Flush()

	fmt.Fprintln(cmd.OutOrStdout())
	if len(grants) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No access grants.")
		return
	}
	w = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "USER ID\tUSERNAME\tEMAIL\tROLE")
	fmt.Fprintln(w, "-------\t--------\t-----\t----")
	for _, g := range grants {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", g.UserID, dash(g.Username), dash(g.Email), g.Role)
	}
	w.Flush()
}

func vendorName(d domain.Domain) string {
	if d.Vendor == "" {
		return "-"
	}
	return vendors.Get(d.Vendor).DisplayName
}

func formatDate(d domain.Domain) string {
	if d.CreatedAt.IsZero() {
		return "-"
	}
	return d.CreatedAt.Local().Format("2006-01-02")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
