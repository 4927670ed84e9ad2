package domain

import (
	"errors"
	"fmt"
	"strings"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/auditlog"
	"domain0/d0ctl/internal/domain"
	"domain0/d0ctl/internal/tui"
	"domain0/d0ctl/internal/util"

	"github.com/spf13/cobra"
)

// CreateCommand returns the "domain create" subcommand.
func CreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Register a domain",
		Long: `Register a domain with its DNS vendor credentials.

In a terminal without a name, an interactive form collects the options.
Otherwise --vendor and --api-id are required and the secret is read from
--api-secret, a hidden prompt, or one line of stdin.

Examples:
  d0ctl domain create
  d0ctl domain create example.com --vendor cloudflare --api-id zone-id
  echo "$SECRET" | d0ctl domain create example.com --vendor dnspod --api-id 1234`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: cmdutil.Audited(),
		RunE:        runCreate,
	}

	cmd.Flags().String("vendor", "", "DNS vendor (cloudflare, dnspod, aliyun)")
	cmd.Flags().String("api-id", "", "Vendor API ID or zone ID")
	cmd.Flags().String("api-secret", "", "Vendor API secret (prefer the prompt or stdin)")
	cmd.Flags().Bool("icp", false, "Mark the domain as ICP registered (Admin only)")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	env, err := cmdutil.Load()
	if err != nil {
		return err
	}
	defer env.Close()

	svc, err := env.Domains()
	if err != nil {
		return err
	}

	vendor, _ := cmd.Flags().GetString("vendor")
	apiID, _ := cmd.Flags().GetString("api-id")
	secret, _ := cmd.Flags().GetString("api-secret")
	icp, _ := cmd.Flags().GetBool("icp")

	opts := domain.CreateDomainOpts{
		Name:      strings.TrimSpace(cmdutil.ArgOrEmpty(args, 0)),
		Vendor:    domain.Vendor(util.NormalizeKey(vendor)),
		APIID:     strings.TrimSpace(apiID),
		APISecret: secret,
	}
	if icp {
		opts.ICPReg = 1
	}

	if opts.Name == "" && cmdutil.Interactive() {
		filled, err := tui.CreateDomainForm(opts, svc.Capabilities().EditICP)
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), "Domain registration cancelled.")
				return nil
			}
			return err
		}
		opts = *filled
	} else {
		switch {
		case opts.Name == "":
			return fmt.Errorf("a domain name is required")
		case opts.Vendor == "":
			return fmt.Errorf("--vendor is required")
		case opts.APIID == "":
			return fmt.Errorf("--api-id is required")
		}
		if opts.APISecret, err = cmdutil.ReadSecret(cmd, opts.APISecret, "Vendor API secret: "); err != nil {
			return err
		}
	}

	cmdutil.Annotate(cmd, auditlog.Metadata{Domain: opts.Name, ResourceType: "domain", ResourceName: opts.Name})
	outcome := svc.Create(cmd.Context(), opts)
	return cmdutil.Report(cmd, fmt.Sprintf("Registered %s", strings.ToLower(opts.Name)), outcome)
}
