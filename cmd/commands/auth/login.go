package auth

import (
	"fmt"
	"strings"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/auditlog"
	"domain0/d0ctl/internal/services/auth"
	"domain0/d0ctl/internal/tui"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Long: `Log in to the configured Domain0 endpoint.

In a terminal without flags, an interactive login screen is shown.
Otherwise --user is required and the password is read from --password,
a hidden prompt, or one line of stdin.

Examples:
  d0ctl auth login
  d0ctl auth login --user alice
  echo "$PASS" | d0ctl auth login --user alice`,
		Args:        cobra.NoArgs,
		Annotations: cmdutil.Audited(),
		RunE:        runLogin,
	}

	cmd.Flags().StringP("user", "u", "", "Username or email")
	cmd.Flags().String("password", "", "Password (prefer the prompt or stdin)")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	env, err := cmdutil.Load()
	if err != nil {
		return err
	}
	defer env.Close()

	user, _ := cmd.Flags().GetString("user")
	password, _ := cmd.Flags().GetString("password")
	user = strings.TrimSpace(user)

	cmdutil.Annotate(cmd, auditlog.Metadata{ResourceType: "session", ResourceName: user})

	var claims *auth.Claims
	if user == "" && password == "" && cmdutil.Interactive() {
		result, err := tui.RunAuthLogin(env.Session, env.API, "")
		if err != nil {
			return err
		}
		if result == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Login cancelled.")
			return nil
		}
		claims = result.Claims
	} else {
		if user == "" {
			return fmt.Errorf("--user is required")
		}
		password, err = cmdutil.ReadSecret(cmd, password, "Password: ")
		if err != nil {
			return err
		}
		if password == "" {
			return fmt.Errorf("password cannot be empty")
		}
		claims, err = env.Session.Login(cmd.Context(), env.API, user, password)
		if err != nil {
			return err
		}
	}

	cmdutil.Annotate(cmd, auditlog.Metadata{ResourceID: claims.UserID(), ResourceName: claims.Name})
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s as %s (%s).\n", env.Session.Endpoint(), displayUser(claims), claims.Role)
	return nil
}

func displayUser(c *auth.Claims) string {
	if c.Name != "" {
		return c.Name
	}
	if c.Email != "" {
		return c.Email
	}
	return "user " + c.UserID()
}
