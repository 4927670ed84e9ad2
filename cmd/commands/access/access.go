package access

import (
	"fmt"
	"strconv"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/domain"
	"domain0/d0ctl/internal/services/access"

	"github.com/spf13/cobra"
)

// NewCommand returns the top-level "access" Cobra command with all subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "access",
		Short: "Manage who can access a domain",
		Long: `List, grant and revoke per-domain access.

Roles, from least to most privileged: ReadOnly, ReadWrite, Manager, Owner.
Grants and revocations may be submitted for approval instead of applied.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(GrantCommand())
	cmd.AddCommand(RevokeCommand())

	return cmd
}

// target is the resolved domain of an access command. Callers must Close it.
type target struct {
	env    *cmdutil.Env
	access *access.Service
	domain *domain.Domain
}

func openTarget(cmd *cobra.Command, ref string) (*target, error) {
	env, err := cmdutil.Load()
	if err != nil {
		return nil, err
	}
	svc, err := env.Domains()
	if err != nil {
		env.Close()
		return nil, err
	}
	d, err := cmdutil.ResolveDomain(cmd, env, svc, ref)
	if err != nil {
		env.Close()
		return nil, err
	}
	return &target{env: env, access: env.Access(), domain: d}, nil
}

func (t *target) Close() { t.env.Close() }

func parseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("user ID must be a positive number, got %q", s)
	}
	return id, nil
}
