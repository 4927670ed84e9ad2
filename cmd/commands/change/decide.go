package change

import (
	"errors"
	"fmt"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/auditlog"
	"domain0/d0ctl/internal/changerequest"
	"domain0/d0ctl/internal/domain"
	"domain0/d0ctl/internal/tui"

	"github.com/spf13/cobra"
)

// AcceptCommand returns the "change accept" subcommand.
func AcceptCommand() *cobra.Command {
	return decideCommand(true)
}

// RejectCommand returns the "change reject" subcommand.
func RejectCommand() *cobra.Command {
	return decideCommand(false)
}

func decideCommand(accept bool) *cobra.Command {
	verb, past, short := "reject", "Rejected", "Reject a change request awaiting your review"
	if accept {
		verb, past, short = "accept", "Accepted", "Accept a change request awaiting your review"
	}

	cmd := &cobra.Command{
		Use:   verb + " <id>",
		Short: short,
		Long: fmt.Sprintf(`Submit a decision on a change request awaiting your review. In a
terminal the request is shown and confirmation is asked unless --yes is
given. A request that has already been decided is refused without
contacting the server.

Examples:
  d0ctl change %[1]s 12
  d0ctl change %[1]s 12 --yes`, verb),
		Args:        cobra.ExactArgs(1),
		Annotations: cmdutil.Audited(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecide(cmd, args, accept, past)
		},
	}

	cmdutil.AddYesFlag(cmd)

	return cmd
}

func runDecide(cmd *cobra.Command, args []string, accept bool, past string) error {
	id, err := parseChangeID(args[0])
	if err != nil {
		return err
	}

	env, err := cmdutil.Load()
	if err != nil {
		return err
	}
	defer env.Close()

	if _, err := env.Claims(); err != nil {
		return err
	}

	bridge := env.Changes()
	pending, err := bridge.Pending(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing changes to review: %w", err)
	}
	var cr *domain.ChangeRequest
	for i := range pending {
		if pending[i].ID == id {
			cr = &pending[i]
			break
		}
	}
	if cr == nil {
		return fmt.Errorf("change request #%d is not awaiting your review", id)
	}
	cmdutil.Annotate(cmd, auditlog.Metadata{ResourceType: "change", ResourceID: fmt.Sprint(id), ResourceName: cr.ActionType.String()})
	if cr.Decided() {
		return fmt.Errorf("change #%d is %s: %w", id, cr.ActionStatus, changerequest.ErrAlreadyDecided)
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes && cmdutil.Interactive() {
		ok, err := tui.ConfirmDecision(*cr, accept)
		if err != nil && !errors.Is(err, tui.ErrAborted) {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Decision cancelled.")
			return nil
		}
	}

	decide := bridge.Reject
	if accept {
		decide = bridge.Accept
	}
	remaining, err := decide(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s change #%d.\n", past, id)
	switch n := changerequest.Counts(remaining)[domain.StatusReviewing]; n {
	case 0:
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing else awaits your review.")
	case 1:
		fmt.Fprintln(cmd.OutOrStdout(), "1 more change awaits your review.")
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%d more changes await your review.\n", n)
	}
	return nil
}
