package access

import (
	"errors"
	"fmt"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/auditlog"
	"domain0/d0ctl/internal/domain"
	"domain0/d0ctl/internal/tui"

	"github.com/spf13/cobra"
)

// GrantCommand returns the "access grant" subcommand.
func GrantCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grant [domain]",
		Short: "Grant a user a role on a domain",
		Long: `Give a user a role on a domain, replacing any role they already hold.

In a terminal without --user, an interactive form asks for the user and role.

Examples:
  d0ctl access grant example.com --user 7 --role ReadWrite
  d0ctl access grant example.com --user 7 --role 2`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: cmdutil.Audited(),
		RunE:        runGrant,
	}

	cmd.Flags().String("user", "", "ID of the user to grant")
	cmd.Flags().String("role", "ReadOnly", "Role: ReadOnly, ReadWrite, Manager or Owner")

	return cmd
}

func runGrant(cmd *cobra.Command, args []string) error {
	userFlag, _ := cmd.Flags().GetString("user")
	roleFlag, _ := cmd.Flags().GetString("role")

	role, err := domain.ParseAccessRole(roleFlag)
	if err != nil {
		return err
	}

	t, err := openTarget(cmd, cmdutil.ArgOrEmpty(args, 0))
	if err != nil {
		return err
	}
	defer t.Close()

	var userID int64
	switch {
	case userFlag != "":
		if userID, err = parseUserID(userFlag); err != nil {
			return err
		}
	case cmdutil.Interactive():
		opts, err := tui.GrantForm(t.domain.Name, tui.GrantOpts{Role: role})
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), "Grant cancelled.")
				return nil
			}
			return err
		}
		userID, role = opts.UserID, opts.Role
	default:
		return fmt.Errorf("--user is required")
	}

	cmdutil.Annotate(cmd, auditlog.Metadata{ResourceType: "access", ResourceID: fmt.Sprint(userID), ResourceName: role.String()})
	outcome := t.access.Grant(cmd.Context(), t.domain.ID, userID, role)
	return cmdutil.Report(cmd, fmt.Sprintf("Granted %s on %s to user %d", role, t.domain.Name, userID), outcome)
}
