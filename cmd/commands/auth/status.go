package auth

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/services/auth"
	"domain0/d0ctl/internal/tui"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		Long: `Show whether a session is stored for the configured endpoint and who
it belongs to.

Example:
  d0ctl auth status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cmdutil.Load()
			if err != nil {
				return err
			}
			defer env.Close()

			// Use TUI in interactive terminal.
			if cmdutil.Interactive() {
				if err := tui.RunAuthStatus(env.Session); err != nil {
					return fmt.Errorf("auth status failed: %w", err)
				}
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Endpoint:\t%s\n", env.Session.Endpoint())

			claims, err := env.Session.Claims()
			switch {
			case err == nil:
				fmt.Fprintf(w, "Status:\tlogged in\n")
				for _, f := range tui.SessionFields(claims) {
					fmt.Fprintf(w, "%s:\t%s\n", f.Label, f.Value)
				}
			case errors.Is(err, auth.ErrTokenNotFound):
				fmt.Fprintf(w, "Status:\tnot logged in\n")
			case errors.Is(err, auth.ErrTokenExpired):
				fmt.Fprintf(w, "Status:\tsession expired\n")
			default:
				fmt.Fprintf(w, "Status:\terror (%v)\n", err)
			}
			return w.Flush()
		},
	}

	return cmd
}
