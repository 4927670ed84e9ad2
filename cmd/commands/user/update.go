package user

import (
	"fmt"
	"strings"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/auditlog"
	"domain0/d0ctl/internal/domain"

	"github.com/spf13/cobra"
)

// UpdateCommand returns the "user update" subcommand.
func UpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [id|me]",
		Short: "Update a user account",
		Long: `Change the fields of an account that are given as flags. Without an ID,
updates your own account, where only --email and --password are allowed.

--password - prompts for the new password, without echo in a terminal.

Examples:
  d0ctl user update --email me@example.com
  d0ctl user update --password -
  d0ctl user update 7 --name alice --role Contributor`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: cmdutil.Audited(),
		RunE:        runUpdate,
	}

	cmd.Flags().String("name", "", "New display name")
	cmd.Flags().String("email", "", "New email address")
	cmd.Flags().String("stuid", "", "New student ID")
	cmd.Flags().String("role", "", "New role: Normal, Contributor, Admin or SysAdmin")
	cmd.Flags().String("password", "", "New password, or - to prompt for it")

	return cmd
}

// promptPassword is the --password value that asks for the password.
const promptPassword = "-"

func runUpdate(cmd *cobra.Command, args []string) error {
	opts, err := updateOpts(cmd)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.userID(args)
	if err != nil {
		return err
	}
	if opts.Password == promptPassword {
		if opts.Password, err = cmdutil.ReadSecret(cmd, "", "New password: "); err != nil {
			return err
		}
		if opts.Password == "" {
			return fmt.Errorf("password cannot be empty")
		}
	}

	cmdutil.Annotate(cmd, auditlog.Metadata{ResourceType: "user", ResourceID: fmt.Sprint(id), ResourceName: changedFields(opts)})
	outcome := s.users.Update(cmd.Context(), id, opts)
	return cmdutil.Report(cmd, fmt.Sprintf("Updated user %d", id), outcome)
}

func updateOpts(cmd *cobra.Command) (domain.UpdateUserOpts, error) {
	var opts domain.UpdateUserOpts
	opts.Name, _ = cmd.Flags().GetString("name")
	opts.Email, _ = cmd.Flags().GetString("email")
	opts.StudentID, _ = cmd.Flags().GetString("stuid")
	opts.Password, _ = cmd.Flags().GetString("password")
	if cmd.Flags().Changed("role") {
		s, _ := cmd.Flags().GetString("role")
		role, err := domain.ParseUserRole(s)
		if err != nil {
			return opts, err
		}
		opts.Role = &role
	}
	if opts.IsEmpty() {
		return opts, fmt.Errorf("nothing to update; pass at least one of --name, --email, --stuid, --role or --password")
	}
	return opts, nil
}

// changedFields names the updated fields without their values.
func changedFields(opts domain.UpdateUserOpts) string {
	var fields []string
	if opts.Name != "" {
		fields = append(fields, "name")
	}
	if opts.Email != "" {
		fields = append(fields, "email")
	}
	if opts.StudentID != "" {
		fields = append(fields, "stuid")
	}
	if opts.Role != nil {
		fields = append(fields, "role="+opts.Role.String())
	}
	if opts.Password != "" {
		fields = append(fields, "password")
	}
	return strings.Join(fields, ",")
}
