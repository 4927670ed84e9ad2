package domain

import (
	"fmt"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/auditlog"

	"github.com/spf13/cobra"
)

// DeleteCommand returns the "domain delete" subcommand.
func DeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <domain>",
		Short: "Delete a domain",
		Long: `Delete a domain and all of its records from the server. In a terminal
confirmation is asked unless --yes is given.

Examples:
  d0ctl domain delete example.com
  d0ctl domain delete 3 --yes`,
		Args:        cobra.ExactArgs(1),
		Annotations: cmdutil.Audited(),
		RunE:        runDelete,
	}

	cmdutil.AddYesFlag(cmd)

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	env, err := cmdutil.Load()
	if err != nil {
		return err
	}
	defer env.Close()

	svc, err := env.Domains()
	if err != nil {
		return err
	}
	d, err := cmdutil.ResolveDomain(cmd, env, svc, args[0])
	if err != nil {
		return err
	}
	cmdutil.Annotate(cmd, auditlog.Metadata{ResourceType: "domain", ResourceID: fmt.Sprint(d.ID), ResourceName: d.Name})

	ok, err := cmdutil.Confirm(cmd,
		fmt.Sprintf("Domain %s (ID %d)", d.Name, d.ID),
		"Every record of the domain is removed with it.",
		"Delete this domain?")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Delete cancelled.")
		return nil
	}

	outcome := svc.Delete(cmd.Context(), d.ID)
	return cmdutil.Report(cmd, fmt.Sprintf("Deleted %s", d.Name), outcome)
}
