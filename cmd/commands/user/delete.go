package user

import (
	"fmt"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/auditlog"

	"github.com/spf13/cobra"
)

// DeleteCommand returns the "user delete" subcommand.
func DeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user account",
		Long: `Delete an account. Requires the Admin role; your own account cannot be
deleted. In a terminal confirmation is asked unless --yes is given.

Examples:
  d0ctl user delete 7
  d0ctl user delete 7 --yes`,
		Args:        cobra.ExactArgs(1),
		Annotations: cmdutil.Audited(),
		RunE:        runDelete,
	}

	cmdutil.AddYesFlag(cmd)

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.userID(args)
	if err != nil {
		return err
	}

	u, err := s.users.Get(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	cmdutil.Annotate(cmd, auditlog.Metadata{ResourceType: "user", ResourceID: fmt.Sprint(id), ResourceName: u.Email})

	ok, err := cmdutil.Confirm(cmd,
		fmt.Sprintf("User %d (%s)", u.ID, orDash(u.Email)),
		"The account and its access grants are removed.",
		"Delete this user?")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Delete cancelled.")
		return nil
	}

	outcome := s.users.Delete(cmd.Context(), id)
	return cmdutil.Report(cmd, fmt.Sprintf("Deleted user %d", id), outcome)
}
