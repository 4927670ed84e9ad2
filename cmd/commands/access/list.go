package access

import (
	"fmt"
	"text/tabwriter"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/domain"

	"github.com/spf13/cobra"
)

// ListCommand returns the "access list" subcommand.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [domain]",
		Short: "List the access grants of a domain",
		Long: `List every user with access to a domain and their role.

Examples:
  d0ctl access list example.com
  d0ctl access list example.com -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runList,
	}

	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	t, err := openTarget(cmd, cmdutil.ArgOrEmpty(args, 0))
	if err != nil {
		return err
	}
	defer t.Close()

	format, err := cmdutil.OutputFormat(cmd, t.env.Config)
	if err != nil {
		return err
	}

	grants, err := t.access.List(cmd.Context(), t.domain.ID)
	if err != nil {
		return fmt.Errorf("listing access of %s: %w", t.domain.Name, err)
	}

	if format == "json" {
		if grants == nil {
			grants = []domain.AccessGrant{}
		}
		return cmdutil.PrintJSON(cmd, grants)
	}
	if len(grants) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No access grants on %s.\n", t.domain.Name)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "USER ID\tUSERNAME\tEMAIL\tROLE")
	fmt.Fprintln(w, "-------\t--------\t-----\t----")
	for _, g := range grants {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", g.UserID, orDash(g.Username), orDash(g.Email), g.Role)
	}
	w.Flush()
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
