package dns

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"domain0/d0ctl/cmd/commands/cmdutil"
	dnsdomain "domain0/d0ctl/internal/dns/domain"
	dnstui "domain0/d0ctl/internal/dns/tui"
	"domain0/d0ctl/internal/dns/vendors"
	"domain0/d0ctl/internal/domain"

	"github.com/spf13/cobra"
)

// ListCommand returns the "dns list" subcommand.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [domain]",
		Short: "List DNS records for a domain",
		Long: `List all DNS records for a domain.

In a terminal this opens the record editor, starting from the domain list
when no domain is given. Piped output or --output prints a table or JSON.

Examples:
  d0ctl dns list
  d0ctl dns list example.com
  d0ctl dns list example.com --type A -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runList,
	}

	cmd.Flags().String("type", "", "Filter records by type (A, AAAA, CNAME, MX, TXT, etc.)")
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ref := cmdutil.ArgOrEmpty(args, 0)
	typeFilter, _ := cmd.Flags().GetString("type")

	if cmdutil.Interactive() && !cmd.Flags().Changed("output") && typeFilter == "" {
		return runListTUI(cmd, ref)
	}

	t, err := openTarget(cmd, ref)
	if err != nil {
		return err
	}
	defer t.Close()

	format, err := cmdutil.OutputFormat(cmd, t.env.Config)
	if err != nil {
		return err
	}

	records, err := t.records.ListRecords(cmd.Context(), t.domain.ID)
	if err != nil {
		return fmt.Errorf("listing records of %s: %w", t.domain.Name, err)
	}

	if typeFilter != "" {
		filtered := records[:0]
		for _, r := range records {
			if strings.EqualFold(string(r.Type), typeFilter) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	if format == "json" {
		if records == nil {
			records = []dnsdomain.Record{}
		}
		return cmdutil.PrintJSON(cmd, records)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No records found.")
		return nil
	}
	printRecords(cmd, t.domain, records)
	return nil
}

func runListTUI(cmd *cobra.Command, ref string) error {
	env, err := cmdutil.Load()
	if err != nil {
		return err
	}
	defer env.Close()

	claims, err := env.Claims()
	if err != nil {
		return err
	}
	svc, err := env.Domains()
	if err != nil {
		return err
	}

	if ref == "" {
		ref = env.Config.DefaultDomain
	}
	var initial *domain.Domain
	if ref != "" {
		if initial, err = svc.Resolve(cmd.Context(), ref); err != nil {
			return err
		}
	}

	if _, err := dnstui.RunDNSApp(svc, env.Records(), claims.Name, initial); err != nil {
		return fmt.Errorf("running record editor: %w", err)
	}
	return nil
}

func printRecords(cmd *cobra.Command, d *domain.Domain, records []dnsdomain.Record) {
	extra := vendors.Get(d.Vendor).Columns

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	header := []string{"ID", "NAME", "TYPE", "CONTENT", "TTL", "PRIORITY"}
	for _, col := range extra {
		header = append(header, col.Header)
	}
	header = append(header, "COMMENT")
	fmt.Fprintln(w, strings.Join(header, "\t"))
	fmt.Fprintln(w, strings.Join(underline(header), "\t"))

	for _, r := range records {
		prio := ""
		if r.Priority > 0 {
			prio = fmt.Sprintf("%d", r.Priority)
		}
		cells := []string{r.ID, r.Name, string(r.Type), r.Content, fmt.Sprintf("%d", r.TTL), prio}
		for _, col := range extra {
			cells = append(cells, col.Value(r))
		}
		cells = append(cells, r.Comment)
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}

	w.Flush()
}

func underline(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.Repeat("-", len(h))
	}
	return out
}
