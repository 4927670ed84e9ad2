package audit

import (
	"fmt"
	"text/tabwriter"
	"time"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/auditlog"
	"domain0/d0ctl/internal/config"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit entries",
		Long: `List recent audit entries stored locally, newest first. Filters combine.

Examples:
  d0ctl audit list
  d0ctl audit list --limit 50
  d0ctl audit list --command "d0ctl dns create" --domain example.com
  d0ctl audit list --pending --since 7d
  d0ctl audit list --user alice -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	f := cmd.Flags()
	f.Int("limit", 25, "Number of entries to display")
	f.String("command", "", "Only this exact command path")
	f.String("domain", "", "Only runs that touched this domain")
	f.String("user", "", "Only runs by this user")
	f.String("since", "", "Only runs newer than this age (e.g. 7d, 12h)")
	f.Bool("pending", false, "Only runs submitted for approval")
	f.Bool("failed", false, "Only runs that failed")
	cmd.MarkFlagsMutuallyExclusive("pending", "failed")
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func filterFromFlags(cmd *cobra.Command) (auditlog.Filter, error) {
	f := cmd.Flags()
	var filter auditlog.Filter
	filter.Limit, _ = f.GetInt("limit")
	if filter.Limit <= 0 {
		return filter, fmt.Errorf("--limit must be greater than 0")
	}
	filter.Command, _ = f.GetString("command")
	filter.Domain, _ = f.GetString("domain")
	filter.User, _ = f.GetString("user")

	if since, _ := f.GetString("since"); since != "" {
		age, err := parseAge(since)
		if err != nil {
			return filter, fmt.Errorf("--since: %w", err)
		}
		filter.Since = time.Now().Add(-age)
	}
	if pending, _ := f.GetBool("pending"); pending {
		filter.Outcome = auditlog.OutcomePending
	}
	if failed, _ := f.GetBool("failed"); failed {
		filter.Outcome = auditlog.OutcomeError
	}
	return filter, nil
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	cfg, _ := config.Load()
	output, err := cmdutil.OutputFormat(cmd, cfg)
	if err != nil {
		return err
	}

	repo, err := auditlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	entries, err := repo.Find(filter)
	if err != nil {
		return err
	}
	if output == "json" {
		if entries == nil {
			entries = []auditlog.AuditEntry{}
		}
		return cmdutil.PrintJSON(cmd, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit entries found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tUSER\tCOMMAND\tOUTCOME\tTOOK\tDOMAIN\tRESOURCE\tDETAIL")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			dash(e.User),
			e.Command,
			e.Outcome,
			took(e.DurationMs),
			dash(e.Domain),
			e.Resource(),
			dash(e.Detail),
		)
	}
	return w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// took renders a run duration at a precision that suits its size.
func took(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", ms)
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}
