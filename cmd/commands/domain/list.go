package domain

import (
	"fmt"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/domain"

	"github.com/spf13/cobra"
)

// ListCommand returns the "domain list" subcommand.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the domains you can access",
		Long: `List the domains the logged-in user can access. The list is cached
per user and refreshed in the background; set D0CTL_DISABLE_CACHE=1 to
always fetch it.

Examples:
  d0ctl domain list
  d0ctl domain list -o json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := cmdutil.Load()
	if err != nil {
		return err
	}
	defer env.Close()

	format, err := cmdutil.OutputFormat(cmd, env.Config)
	if err != nil {
		return err
	}
	svc, err := env.Domains()
	if err != nil {
		return err
	}

	domains, err := svc.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing domains: %w", err)
	}

	if format == "json" {
		if domains == nil {
			domains = []domain.Domain{}
		}
		return cmdutil.PrintJSON(cmd, domains)
	}
	if len(domains) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No domains found.")
		return nil
	}
	printDomainTable(cmd, domains)
	return nil
}
