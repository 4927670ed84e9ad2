package change

import (
	"fmt"
	"text/tabwriter"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/changerequest"
	"domain0/d0ctl/internal/domain"

	"github.com/spf13/cobra"
)

// ShowCommand returns the "change show" subcommand.
func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one change request and its operation",
		Long: `Display a change request you submitted or one awaiting your review,
including the operation it would perform.

Examples:
  d0ctl change show 12
  d0ctl change show 12 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseChangeID(args[0])
	if err != nil {
		return err
	}

	env, err := cmdutil.Load()
	if err != nil {
		return err
	}
	defer env.Close()

	if _, err := env.Claims(); err != nil {
		return err
	}
	format, err := cmdutil.OutputFormat(cmd, env.Config)
	if err != nil {
		return err
	}

	lists, err := env.Changes().Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading change requests: %w", err)
	}
	cr, ok := find(lists, id)
	if !ok {
		return fmt.Errorf("change request #%d: %w", id, domain.ErrNotFound)
	}

	if format == "json" {
		return cmdutil.PrintJSON(cmd, cr)
	}

	names := domainNames(cmd.Context(), env)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  ID:\t%d\n", cr.ID)
	fmt.Fprintf(w, "  Domain:\t%s\n", domainLabel(names, cr.DomainID))
	fmt.Fprintf(w, "  Requested by:\tuser %d\n", cr.UserID)
	fmt.Fprintf(w, "  Action:\t%s\n", cr.ActionType)
	fmt.Fprintf(w, "  Status:\t%s\n", cr.ActionStatus)
	if cr.Reason != "" {
		fmt.Fprintf(w, "  Reason:\t%s\n", cr.Reason)
	}
	if !cr.CreatedAt.IsZero() {
		fmt.Fprintf(w, "  Created:\t%s\n", cr.CreatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	}
	w.Flush()

	if cr.Operation != "" {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), "Operation:")
		fmt.Fprintln(cmd.OutOrStdout(), changerequest.PrettyOperation(cr.Operation))
	}
	return nil
}

// find looks in the actionable list first: it carries the freshest status.
func find(lists changerequest.Lists, id int64) (domain.ChangeRequest, bool) {
	for _, list := range [][]domain.ChangeRequest{lists.Pending, lists.Applied} {
		for _, cr := range list {
			if cr.ID == id {
				return cr, true
			}
		}
	}
	return domain.ChangeRequest{}, false
}
