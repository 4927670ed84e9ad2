package domain

import (
	"fmt"
	"strings"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/auditlog"
	"domain0/d0ctl/internal/domain"
	"domain0/d0ctl/internal/util"

	"github.com/spf13/cobra"
)

// UpdateCommand returns the "domain update" subcommand.
func UpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [domain]",
		Short: "Update a domain",
		Long: `Change a domain's name, vendor or vendor credentials. Only the flags
given are changed. The ICP flag cannot be changed after registration.

Examples:
  d0ctl domain update example.com --api-id new-zone-id --api-secret "$SECRET"
  d0ctl domain update 3 --vendor dnspod`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: cmdutil.Audited(),
		RunE:        runUpdate,
	}

	cmd.Flags().String("name", "", "New domain name")
	cmd.Flags().String("vendor", "", "New DNS vendor (cloudflare, dnspod, aliyun)")
	cmd.Flags().String("api-id", "", "New vendor API ID")
	cmd.Flags().String("api-secret", "", "New vendor API secret")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	vendor, _ := cmd.Flags().GetString("vendor")
	apiID, _ := cmd.Flags().GetString("api-id")
	secret, _ := cmd.Flags().GetString("api-secret")

	opts := domain.UpdateDomainOpts{
		Name:      util.CanonicalDomain(name),
		Vendor:    domain.Vendor(util.NormalizeKey(vendor)),
		APIID:     strings.TrimSpace(apiID),
		APISecret: secret,
	}
	if opts.IsEmpty() {
		return fmt.Errorf("nothing to update; pass at least one of --name, --vendor, --api-id, --api-secret")
	}

	env, err := cmdutil.Load()
	if err != nil {
		return err
	}
	defer env.Close()

	svc, err := env.Domains()
	if err != nil {
		return err
	}
	d, err := cmdutil.ResolveDomain(cmd, env, svc, cmdutil.ArgOrEmpty(args, 0))
	if err != nil {
		return err
	}

	cmdutil.Annotate(cmd, auditlog.Metadata{ResourceType: "domain", ResourceID: fmt.Sprint(d.ID), ResourceName: d.Name})
	outcome := svc.Update(cmd.Context(), d.ID, opts)
	return cmdutil.Report(cmd, fmt.Sprintf("Updated %s", d.Name), outcome)
}
