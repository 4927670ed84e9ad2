package config

import (
	"fmt"
	"strings"

	"domain0/d0ctl/internal/config"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  d0ctl config set api-url https://d0.example.com/api\n" +
			"  d0ctl config set default-domain example.com",
		Args:              cobra.ExactArgs(2),
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
			if err := spec.Set(cfg, strings.TrimSpace(args[1])); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, spec.Get(cfg))
			warnOverride(cmd, spec)
			return nil
		},
	}
}
