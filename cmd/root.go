package cmd

import (
	"os"
	"time"

	"domain0/d0ctl/cmd/commands/access"
	"domain0/d0ctl/cmd/commands/audit"
	"domain0/d0ctl/cmd/commands/auth"
	"domain0/d0ctl/cmd/commands/change"
	"domain0/d0ctl/cmd/commands/cmdutil"
	cfgcmd "domain0/d0ctl/cmd/commands/config"
	"domain0/d0ctl/cmd/commands/dns"
	domaincmd "domain0/d0ctl/cmd/commands/domain"
	"domain0/d0ctl/cmd/commands/user"
	"domain0/d0ctl/internal/auditlog"
	"domain0/d0ctl/internal/config"
	"domain0/d0ctl/internal/dns/vendors"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "d0ctl",
		Short: "A CLI and terminal console for the Domain0 DNS service",
		Long: `d0ctl manages domains, DNS records, access grants and change requests
on a Domain0 server. Mutations that need approval are submitted as change
requests; d0ctl reports them as pending rather than failed.

Quick start:
  d0ctl config set api-url https://d0.example.com/api
  d0ctl auth login                 # Log in and store the session token
  d0ctl domain list                # Domains you can access
  d0ctl dns list example.com       # Edit records in the terminal console
  d0ctl change review              # Decide change requests awaiting you`,
		SilenceUsage: true,
	}

	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(audit.NewCommand())
	cmd.AddCommand(domaincmd.NewCommand())
	cmd.AddCommand(dns.NewCommand())
	cmd.AddCommand(access.NewCommand())
	cmd.AddCommand(change.NewCommand())
	cmd.AddCommand(user.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	vendors.RegisterBuiltins()

	start := time.Now()
	executed, err := rootCmd().ExecuteC()
	recordAudit(executed, os.Args[1:], err, start)
	if err != nil {
		os.Exit(1)
	}
}

// recordAudit writes the audit entry of an annotated command. Auditing is
// best effort and never changes the exit status.
func recordAudit(cmd *cobra.Command, args []string, err error, start time.Time) {
	if !cmdutil.IsAudited(cmd) {
		return
	}
	var endpoint string
	if cfg, cfgErr := config.Load(); cfgErr == nil {
		endpoint = cfg.Endpoint()
	}

	entry := auditlog.MetadataFromContext(cmd.Context()).Entry(cmd.CommandPath(), args, err)
	entry.Endpoint = endpoint
	entry.User = cmdutil.SessionUser(endpoint)
	auditlog.RecordBestEffort(entry, start)
}
