package change

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/deferrals"

	"github.com/spf13/cobra"
)

// JournalCommand returns the "change journal" subcommand.
func JournalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List mutations this machine submitted for approval",
		Long: `List the local journal of mutations the server deferred for approval.

The server does not say which change request a deferred mutation became;
the journal keeps what was asked for and the server's message. Match it
against 'd0ctl change mine'.

Examples:
  d0ctl change journal
  d0ctl change journal --domain 3 --limit 10
  d0ctl change journal --kind access
  d0ctl change journal --domain example.com -o json`,
		Args: cobra.NoArgs,
		RunE: runJournal,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().String("domain", "", "Only show one domain (ID, or name when logged in)")
	cmd.Flags().String("kind", "", "Only show one kind: record, access or domain")
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runJournal(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}
	domainRef, _ := cmd.Flags().GetString("domain")
	switch kind, _ := cmd.Flags().GetString("kind"); deferrals.Kind(kind) {
	case "", deferrals.KindRecord, deferrals.KindAccess, deferrals.KindDomain:
	default:
		return fmt.Errorf("unknown kind %q: use record, access or domain", kind)
	}

	env, err := cmdutil.Load()
	if err != nil {
		return err
	}
	defer env.Close()

	format, err := cmdutil.OutputFormat(cmd, env.Config)
	if err != nil {
		return err
	}

	var domainID int64
	if domainRef != "" {
		if domainID, err = strconv.ParseInt(domainRef, 10, 64); err != nil {
			svc, err := env.Domains()
			if err != nil {
				return err
			}
			d, err := svc.Resolve(cmd.Context(), domainRef)
			if err != nil {
				return err
			}
			domainID = d.ID
		}
	}

	repo, err := deferrals.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	kind, _ := cmd.Flags().GetString("kind")
	entries, err := repo.Find(deferrals.Query{DomainID: domainID, Kind: deferrals.Kind(kind), Limit: limit})
	if err != nil {
		return err
	}

	if format == "json" {
		if entries == nil {
			entries = []deferrals.Entry{}
		}
		return cmdutil.PrintJSON(cmd, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No deferred mutations recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tDOMAIN\tKIND\tACTION\tRESOURCE\tMESSAGE")
	fmt.Fprintln(w, "----\t------\t----\t------\t--------\t-------")
	for _, e := range entries {
		domainCol := "-"
		if e.DomainID > 0 {
			domainCol = fmt.Sprintf("#%d", e.DomainID)
		}
		resource := e.Resource
		if resource == "" {
			resource = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			domainCol,
			e.Kind,
			e.Action,
			resource,
			e.Message,
		)
	}
	w.Flush()
	return nil
}
