package user

import (
	"fmt"
	"text/tabwriter"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/domain"

	"github.com/spf13/cobra"
)

// ListCommand returns the "user list" subcommand.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every user account",
		Long: `List every account with its role. Requires the Admin role.

Examples:
  d0ctl user list
  d0ctl user list -o json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	format, err := cmdutil.OutputFormat(cmd, s.env.Config)
	if err != nil {
		return err
	}

	list, err := s.users.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}

	if format == "json" {
		if list == nil {
			list = []domain.User{}
		}
		return cmdutil.PrintJSON(cmd, list)
	}
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No users found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSTUDENT ID\tROLE")
	fmt.Fprintln(w, "--\t----\t-----\t----------\t----")
	for _, u := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, orDash(u.Name), orDash(u.Email), orDash(studentID(u)), u.Role)
	}
	w.Flush()
	return nil
}

func studentID(u domain.User) string {
	if !u.StudentID.Valid {
		return ""
	}
	return u.StudentID.String
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
