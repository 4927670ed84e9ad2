package dns

import (
	"fmt"

	"domain0/d0ctl/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

// UpdateCommand returns the "dns update" subcommand.
func UpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [domain] <record>",
		Short: "Update a DNS record",
		Long: `Update an existing DNS record. The record is addressed by its ID, its
name, or name/TYPE. Only the flags given are changed.

Examples:
  d0ctl dns update example.com 106926659 --content 5.6.7.8
  d0ctl dns update example.com www/A --content 5.6.7.8 --ttl 3600`,
		Args:        cobra.RangeArgs(1, 2),
		Annotations: cmdutil.Audited(),
		RunE:        runUpdate,
	}

	addRecordFlags(cmd)

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
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

	if err := c.Edit(id); err != nil {
		return err
	}
	draft, err := c.Draft(id)
	if err != nil {
		return err
	}
	changed, err := applyRecordFlags(cmd, t.domain, &draft)
	if err != nil {
		return err
	}
	if !changed {
		return fmt.Errorf("nothing to update; pass at least one of --type, --name, --content, --ttl, --priority, --comment, --proxied")
	}
	if err := c.SetDraft(id, draft); err != nil {
		return err
	}

	call, err := c.PrepareSave(id)
	if err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}
	return save(cmd, c, call)
}
