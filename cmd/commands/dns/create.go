package dns

import (
	"fmt"

	"domain0/d0ctl/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

// CreateCommand returns the "dns create" subcommand.
func CreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [domain]",
		Short: "Create a DNS record",
		Long: `Create a new DNS record for a domain.

Examples:
  d0ctl dns create example.com --type A --name www --content 1.2.3.4
  d0ctl dns create example.com --type MX --name @ --content mail.example.com --priority 10
  d0ctl dns create example.com --type TXT --name _dmarc --content "v=DMARC1; p=none"`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: cmdutil.Audited(),
		RunE:        runCreate,
	}

	addRecordFlags(cmd)
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("content")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	t, err := openTarget(cmd, cmdutil.ArgOrEmpty(args, 0))
	if err != nil {
		return err
	}
	defer t.Close()

	c, err := t.coordinator(cmd.Context())
	if err != nil {
		return err
	}

	id := c.Add()
	draft, err := c.Draft(id)
	if err != nil {
		return err
	}
	if _, err := applyRecordFlags(cmd, t.domain, &draft); err != nil {
		return err
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
