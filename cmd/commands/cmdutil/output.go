package cmdutil

import (
	"encoding/json"
	"fmt"
	"strings"

	"domain0/d0ctl/internal/auditlog"
	"domain0/d0ctl/internal/config"
	dnsdomain "domain0/d0ctl/internal/dns/domain"

	"github.com/spf13/cobra"
)

// AuditAnnotation marks a command whose runs are written to the audit log.
const AuditAnnotation = "d0ctl/audit"

// Audited returns the annotations of an audited command.
func Audited() map[string]string {
	return map[string]string{AuditAnnotation: "true"}
}

// IsAudited reports whether cmd carries the audit annotation.
func IsAudited(cmd *cobra.Command) bool {
	return cmd != nil && cmd.Annotations[AuditAnnotation] == "true"
}

// AddOutputFlag registers -o/--output.
func AddOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output format: table or json (default from config, else table)")
}

// OutputFormat resolves the output format from the flag, then the config.
func OutputFormat(cmd *cobra.Command, cfg *config.Config) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	if format == "" && cfg != nil {
		format = cfg.Output
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "":
		return "table", nil
	case "table", "json":
		return format, nil
	}
	return "", fmt.Errorf("unsupported output format %q", format)
}

// PrintJSON encodes v as indented JSON to the command's stdout.
func PrintJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Annotate merges audit metadata into the command's context.
func Annotate(cmd *cobra.Command, meta auditlog.Metadata) {
	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), meta))
}

// Report prints a mutation outcome. Applied prints success, pending prints
// the server's message and flags the run as deferred, rejected is returned
// as the command's error.
func Report(cmd *cobra.Command, what string, outcome dnsdomain.Outcome) error {
	switch outcome.Kind {
	case dnsdomain.OutcomeApplied:
		fmt.Fprintf(cmd.OutOrStdout(), "%s.\n", what)
		return nil
	case dnsdomain.OutcomePending:
		Annotate(cmd, auditlog.Metadata{Deferred: true})
		msg := outcome.Message
		if msg == "" {
			msg = "awaiting approval"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Submitted for approval: %s\n", msg)
		fmt.Fprintln(cmd.OutOrStdout(), "Track it with 'd0ctl change mine'.")
		if outcome.Warning != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", outcome.Warning)
		}
		return nil
	}
	if outcome.Err != nil {
		return outcome.Err
	}
	return fmt.Errorf("request failed")
}
