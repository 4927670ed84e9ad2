package domain

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the top-level "domain" Cobra command with all subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domain",
		Short: "Manage the domains registered with the server",
		Long: `List, inspect, register, update and delete domains.

A domain is addressed by its numeric ID or its name. Registering a domain
needs the DNS vendor's API credentials. Setting the ICP flag requires the
Admin role.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(CreateCommand())
	cmd.AddCommand(UpdateCommand())
	cmd.AddCommand(DeleteCommand())

	return cmd
}
