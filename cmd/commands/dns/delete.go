package dns

import (
	"fmt"

	"domain0/d0ctl/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

// DeleteCommand returns the "dns delete" subcommand.
func DeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [domain] <record>",
		Short: "Delete a DNS record",
		Long: `Delete a DNS record by its ID, name, or name/TYPE. In a terminal the
record is shown and confirmation is asked unless --yes is given.

Examples:
  d0ctl dns delete example.com 106926659
  d0ctl dns delete example.com www/CNAME --yes`,
		Args:        cobra.RangeArgs(1, 2),
		Annotations: cmdutil.Audited(),
		RunE:        runDelete,
	}

	cmdutil.AddYesFlag(cmd)

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	domainRef, recordRef := splitRecordArgs(args)

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
	rec := row.Fields

	ok, err := cmdutil.Confirm(cmd,
		fmt.Sprintf("Record %s on %s", rec.ID, t.domain.Name),
		fmt.Sprintf("%s %s %s (TTL %d)", rec.Name, rec.Type, rec.Content, rec.TTL),
		"Delete this record?")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Delete cancelled.")
		return nil
	}

	if err := c.ArmDelete(id); err != nil {
		return err
	}
	call, err := c.ConfirmDelete(id)
	if err != nil {
		return err
	}
	return save(cmd, c, call)
}
