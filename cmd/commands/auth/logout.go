package auth

import (
	"fmt"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/auditlog"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "logout",
		Short:       "Remove the stored session token",
		Long:        `Remove the stored session token of the configured endpoint and drop its cached lists.`,
		Args:        cobra.NoArgs,
		Annotations: cmdutil.Audited(),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cmdutil.Load()
			if err != nil {
				return err
			}
			defer env.Close()

			cmdutil.Annotate(cmd, auditlog.Metadata{ResourceType: "session"})
			if err := env.Session.Logout(); err != nil {
				return err
			}
			_ = cmdutil.InvalidateEndpointCache(env.Session.Endpoint())

			fmt.Fprintf(cmd.OutOrStdout(), "Logged out of %s.\n", env.Session.Endpoint())
			return nil
		},
	}

	return cmd
}
