package config

import (
	"fmt"
	"strings"

	"domain0/d0ctl/internal/config"
	"domain0/d0ctl/internal/util"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage d0ctl configuration",
		Long: "View and modify persistent d0ctl settings.\n\n" +
			"Configuration is stored at ~/.config/d0ctl/config.json.\n" +
			"$" + config.EnvAPIURL + " overrides api-url.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand(), GetCommand(), UnsetCommand())
	return cmd
}

// lookupKey resolves a user-typed key name or explains which keys exist.
func lookupKey(name string) (*config.KeySpec, error) {
	spec := config.Lookup(util.NormalizeKey(name))
	if spec == nil {
		return nil, fmt.Errorf("unknown configuration key %q (valid: %s)", name, strings.Join(config.KeyNames(), ", "))
	}
	return spec, nil
}

// completeKey offers key names for the first positional argument.
func completeKey(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(config.Keys))
	for _, k := range config.Keys {
		names = append(names, k.Name+"\t"+k.Description)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// loadConfig wraps config.Load with the message every subcommand uses.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// warnOverride notes on stderr when an environment variable shadows the
// value just written.
func warnOverride(cmd *cobra.Command, spec *config.KeySpec) {
	if spec.Overridden() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: $%s still overrides %s.\n", spec.Env, spec.Name)
	}
}
