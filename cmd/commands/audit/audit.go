package audit

import "github.com/spf13/cobra"

// NewCommand returns the "audit" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "View and manage audit history",
		Long: "View a local audit trail of mutating d0ctl commands and prune old entries.\n\n" +
			"Every run records its outcome: success, pending (submitted for approval)\n" +
			"or error. Audit history is stored locally in ~/.config/d0ctl/d0ctl.db.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}
