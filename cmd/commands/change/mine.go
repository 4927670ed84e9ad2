package change

import (
	"fmt"

	"domain0/d0ctl/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

// MineCommand returns the "change mine" subcommand.
func MineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List the change requests you submitted",
		Long: `List the change requests you submitted, newest first, with their
review status.

Examples:
  d0ctl change mine
  d0ctl change mine -o json`,
		Args: cobra.NoArgs,
		RunE: runMine,
	}

	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runMine(cmd *cobra.Command, args []string) error {
	env, err := cmdutil.Load()
	if err != nil {
		return err
	}
	defer env.Close()

	if _, err := env.Claims(); err != nil {
		return err
	}
	list, err := env.Changes().Applied(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing submitted changes: %w", err)
	}
	return printList(cmd, env, list, "You have not submitted any change requests.")
}
