package user

import (
	"fmt"
	"strconv"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/services/users"

	"github.com/spf13/cobra"
)

// NewCommand returns the top-level "user" Cobra command with all subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
		Long: `List, show, update and delete user accounts.

Roles, from least to most privileged: Normal, Contributor, Admin, SysAdmin.
Any user can show and update their own email and password. Admins can
manage every account and assign roles below their own.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(UpdateCommand())
	cmd.AddCommand(DeleteCommand())

	return cmd
}

// session is a loaded env and its account service. Callers must Close it.
type session struct {
	env   *cmdutil.Env
	users *users.Service
}

func openSession() (*session, error) {
	env, err := cmdutil.Load()
	if err != nil {
		return nil, err
	}
	svc, err := env.Users()
	if err != nil {
		env.Close()
		return nil, err
	}
	return &session{env: env, users: svc}, nil
}

func (s *session) Close() { s.env.Close() }

// userID parses args[0], defaulting to the caller when absent.
func (s *session) userID(args []string) (int64, error) {
	ref := cmdutil.ArgOrEmpty(args, 0)
	if ref == "" || ref == "me" {
		return s.users.Caller().ID, nil
	}
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("user ID must be a positive number, got %q", ref)
	}
	return id, nil
}
