package change

import (
	"fmt"

	"domain0/d0ctl/cmd/commands/cmdutil"
	changetui "domain0/d0ctl/internal/changerequest/tui"

	"github.com/spf13/cobra"
)

// ReviewCommand returns the "change review" subcommand.
func ReviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review the change requests awaiting your decision",
		Long: `Review change requests awaiting your decision.

In a terminal this opens the review console, where requests can be
accepted or rejected. Piped output or --output prints the list.

Examples:
  d0ctl change review
  d0ctl change review -o json`,
		Args: cobra.NoArgs,
		RunE: runReview,
	}

	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runReview(cmd *cobra.Command, args []string) error {
	env, err := cmdutil.Load()
	if err != nil {
		return err
	}
	defer env.Close()

	claims, err := env.Claims()
	if err != nil {
		return err
	}
	bridge := env.Changes()

	if cmdutil.Interactive() && !cmd.Flags().Changed("output") {
		if err := changetui.RunChangeApp(bridge, claims.Name, domainNames(cmd.Context(), env)); err != nil {
			return fmt.Errorf("running review console: %w", err)
		}
		return nil
	}

	list, err := bridge.Pending(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing changes to review: %w", err)
	}
	return printList(cmd, env, list, "Nothing awaits your review.")
}
