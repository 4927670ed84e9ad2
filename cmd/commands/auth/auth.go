package auth

import (
	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in to a Domain0 server and manage the session",
		Long: `Log in to a Domain0 server and manage the stored session.

The session token is kept in the OS keychain, keyed by the API endpoint.
An expired token is treated as no session at all.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(RegisterCommand())
	cmd.AddCommand(LogoutCommand())
	cmd.AddCommand(StatusCommand())

	return cmd
}
