package auth

import (
	"errors"
	"fmt"
	"strings"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/auditlog"
	"domain0/d0ctl/internal/tui"

	"github.com/spf13/cobra"
)

func RegisterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Long: `Create an account on the configured Domain0 endpoint and store its
session token.

Examples:
  d0ctl auth register
  d0ctl auth register --email alice@example.com`,
		Args:        cobra.NoArgs,
		Annotations: cmdutil.Audited(),
		RunE:        runRegister,
	}

	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Password (prefer the prompt or stdin)")

	return cmd
}

func runRegister(cmd *cobra.Command, args []string) error {
	env, err := cmdutil.Load()
	if err != nil {
		return err
	}
	defer env.Close()

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	email = strings.TrimSpace(email)

	if email == "" && cmdutil.Interactive() {
		email, password, err = tui.RegisterForm(email)
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registration cancelled.")
			return nil
		}
		if err != nil {
			return err
		}
	}
	if email == "" {
		return fmt.Errorf("--email is required")
	}
	cmdutil.Annotate(cmd, auditlog.Metadata{ResourceType: "session", ResourceName: email})

	password, err = cmdutil.ReadSecret(cmd, password, "Password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	claims, err := env.Session.Register(cmd.Context(), env.API, email, password)
	if err != nil {
		return err
	}

	cmdutil.Annotate(cmd, auditlog.Metadata{ResourceID: claims.UserID()})
	fmt.Fprintf(cmd.OutOrStdout(), "Registered %s and logged in to %s.\n", email, env.Session.Endpoint())
	return nil
}
