package access

import (
	"fmt"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/auditlog"

	"github.com/spf13/cobra"
)

// RevokeCommand returns the "access revoke" subcommand.
func RevokeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revoke [domain] --user <id>",
		Short: "Revoke a user's access to a domain",
		Long: `Remove a user's grant on a domain. In a terminal confirmation is asked
unless --yes is given.

Examples:
  d0ctl access revoke example.com --user 7
  d0ctl access revoke example.com --user 7 --yes`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: cmdutil.Audited(),
		RunE:        runRevoke,
	}

	cmd.Flags().String("user", "", "ID of the user to revoke [required]")
	cmd.MarkFlagRequired("user")
	cmdutil.AddYesFlag(cmd)

	return cmd
}

func runRevoke(cmd *cobra.Command, args []string) error {
	userFlag, _ := cmd.Flags().GetString("user")
	userID, err := parseUserID(userFlag)
	if err != nil {
		return err
	}

	t, err := openTarget(cmd, cmdutil.ArgOrEmpty(args, 0))
	if err != nil {
		return err
	}
	defer t.Close()

	cmdutil.Annotate(cmd, auditlog.Metadata{ResourceType: "access", ResourceID: fmt.Sprint(userID)})

	ok, err := cmdutil.Confirm(cmd,
		fmt.Sprintf("Access to %s", t.domain.Name),
		fmt.Sprintf("User %d loses every role on the domain.", userID),
		"Revoke this access?")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Revoke cancelled.")
		return nil
	}

	outcome := t.access.Revoke(cmd.Context(), t.domain.ID, userID)
	return cmdutil.Report(cmd, fmt.Sprintf("Revoked access of user %d to %s", userID, t.domain.Name), outcome)
}
