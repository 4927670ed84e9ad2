package config

import (
	"fmt"

	"domain0/d0ctl/internal/config"

	"github.com/spf13/cobra"
)

// UnsetCommand returns the "config unset" command.
func UnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Clear a configuration value",
		Long: "Remove a stored configuration value so its default applies again.\n\n" +
			config.KeysHelp(),
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKey,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := lookupKey(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			spec.Unset(cfg)
			if err := cfg.Save(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s cleared, now %s\n", spec.Name, describe(*spec, cfg))
			warnOverride(cmd, spec)
			return nil
		},
	}
}
