package domain

import (
	"fmt"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/domain"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ShowCommand returns the "domain show" subcommand.
func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [domain]",
		Short: "Show a domain and who can access it",
		Long: `Display a domain's details together with its access grants.

Examples:
  d0ctl domain show example.com
  d0ctl domain show 3 -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShow,
	}

	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	env, err := cmdutil.Load()
	if err != nil {
		return err
	}
	defer env.Close()

	format, err := cmdutil.OutputFormat(cmd, env.Config)
	if err != nil {
		return err
	}
	svc, err := env.Domains()
	if err != nil {
		return err
	}
	ref, err := cmdutil.ResolveDomain(cmd, env, svc, cmdutil.ArgOrEmpty(args, 0))
	if err != nil {
		return err
	}

	// The list entry may come from the cache; fetch the domain itself and
	// its grants side by side.
	var (
		d      *domain.Domain
		grants []domain.AccessGrant
		access = env.Access()
	)
	g, gctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		d, err = svc.Get(gctx, ref.ID)
		return err
	})
	g.Go(func() error {
		var err error
		grants, err = access.List(gctx, ref.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetching %s: %w", ref.Name, err)
	}

	if format == "json" {
		if grants == nil {
			grants = []domain.AccessGrant{}
		}
		return cmdutil.PrintJSON(cmd, detail{Domain: d, Access: grants})
	}
	printDomainDetail(cmd, d, grants)
	return nil
}
