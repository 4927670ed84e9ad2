package dns

import (
	"fmt"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/auditlog"

	"github.com/spf13/cobra"
)

// CommentCommand returns the "dns comment" subcommand.
func CommentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment [domain] <record> --text <comment>",
		Short: "Set or clear the comment of a DNS record",
		Long: `Change only the comment of a record. An empty --text clears it.

Examples:
  d0ctl dns comment example.com www/A --text "load balancer"
  d0ctl dns comment example.com 106926659 --text ""`,
		Args:        cobra.RangeArgs(1, 2),
		Annotations: cmdutil.Audited(),
		RunE:        runComment,
	}

	cmd.Flags().String("text", "", "The new comment (empty clears it)")
	cmd.MarkFlagRequired("text")

	return cmd
}

func runComment(cmd *cobra.Command, args []string) error {
	domainRef, recordRef := splitRecordArgs(args)
	text, _ := cmd.Flags().GetString("text")

	t, err := openTarget(cmd, domainRef)
	if err != nil {
		return err
	}
	defer t.Close()

	c, err := t.coordinator(cmd.Context())
	if err != nil {
		return err
	}
	id, err := findRecord(c, recordRef)
	if err != nil {
		return err
	}
	row, _ := c.Row(id)
	rec := *row.Origin

	cmdutil.Annotate(cmd, auditlog.Metadata{ResourceType: "record", ResourceID: rec.ID, ResourceName: rec.Name})
	outcome := t.records.UpdateComment(cmd.Context(), t.domain.ID, rec, text)

	what := fmt.Sprintf("Updated comment of %s", rec.Name)
	if text == "" {
		what = fmt.Sprintf("Cleared comment of %s", rec.Name)
	}
	return cmdutil.Report(cmd, what, outcome)
}
