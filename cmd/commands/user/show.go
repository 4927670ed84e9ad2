package user

import (
	"fmt"
	"text/tabwriter"

	"domain0/d0ctl/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

// ShowCommand returns the "user show" subcommand.
func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id|me]",
		Short: "Show a user account",
		Long: `Show one account. Without an ID, shows your own.

Examples:
  d0ctl user show
  d0ctl user show 7 -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShow,
	}

	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	format, err := cmdutil.OutputFormat(cmd, s.env.Config)
	if err != nil {
		return err
	}
	id, err := s.userID(args)
	if err != nil {
		return err
	}

	u, err := s.users.Get(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("showing user %d: %w", id, err)
	}
	if format == "json" {
		return cmdutil.PrintJSON(cmd, u)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%d\n", u.ID)
	fmt.Fprintf(w, "Name:\t%s\n", orDash(u.Name))
	fmt.Fprintf(w, "Email:\t%s\n", orDash(u.Email))
	fmt.Fprintf(w, "Student ID:\t%s\n", orDash(studentID(*u)))
	fmt.Fprintf(w, "Role:\t%s\n", u.Role)
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Created:\t%s\n", u.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
