package config

import (
	"fmt"
	"strings"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/config"
	"domain0/d0ctl/internal/tui"

	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value",
		Long: "Get a persistent configuration value.\n\n" +
			"If no key is provided and running in a terminal, opens an interactive\n" +
			"config viewer where you can browse and edit all settings.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  d0ctl config get                  # interactive viewer\n" +
			"  d0ctl config get default-domain   # print a single value",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeKey,
		RunE:              runGet,
		SilenceUsage:      true,
	}

	cmd.Flags().String("key", "", "Configuration key to fetch (same as the positional argument)")

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	keyArg, _ := cmd.Flags().GetString("key")
	if len(args) > 0 {
		keyArg = args[0]
	}
	keyArg = strings.TrimSpace(keyArg)

	// No key: open interactive config viewer.
	if keyArg == "" {
		if cmdutil.Interactive() {
			if err := tui.RunConfigView(); err != nil {
				return fmt.Errorf("config view failed: %w", err)
			}
			return nil
		}

		// Non-interactive: list all values.
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		for _, spec := range config.Keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", spec.Name, describe(spec, cfg))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "effective endpoint: %s\n", cfg.Endpoint())
		return nil
	}

	spec, err := lookupKey(keyArg)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	value := spec.Get(cfg)
	if value == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "not set")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), value)
	}
	return nil
}

// describe renders the effective value of a key and where it comes from.
func describe(spec config.KeySpec, cfg *config.Config) string {
	value, src := spec.Resolve(cfg)
	switch src {
	case config.SourceUnset:
		return "(not set)"
	case config.SourceEnv:
		return fmt.Sprintf("%s (from $%s)", value, spec.Env)
	case config.SourceDefault:
		return value + " (default)"
	}
	return value
}
