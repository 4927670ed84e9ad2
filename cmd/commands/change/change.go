package change

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/domain"

	"github.com/spf13/cobra"
)

// NewCommand returns the top-level "change" Cobra command with all subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "change",
		Short: "Track and decide change requests",
		Long: `Mutations on domains that need an approver's sign-off become change
requests. Track the ones you submitted, review the ones awaiting you, and
accept or reject them.`,
	}

	cmd.AddCommand(MineCommand())
	cmd.AddCommand(ReviewCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(AcceptCommand())
	cmd.AddCommand(RejectCommand())
	cmd.AddCommand(JournalCommand())

	return cmd
}

// domainNames maps domain ids to names for display. A failed lookup
// yields an empty map; the tables then show ids.
func domainNames(ctx context.Context, env *cmdutil.Env) map[int64]string {
	names := map[int64]string{}
	svc, err := env.Domains()
	if err != nil {
		return names
	}
	list, err := svc.List(ctx)
	if err != nil {
		return names
	}
	for _, d := range list {
		names[d.ID] = d.Name
	}
	return names
}

func domainLabel(names map[int64]string, id int64) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

func parseChangeID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("change request ID must be a positive number, got %q", s)
	}
	return id, nil
}

func printChanges(cmd *cobra.Command, list []domain.ChangeRequest, names map[int64]string) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tDOMAIN\tACTION\tSTATUS\tREQUESTED BY\tCREATED\tREASON")
	fmt.Fprintln(w, "--\t------\t------\t------\t------------\t-------\t------")
	for _, cr := range list {
		created := "-"
		if !cr.CreatedAt.IsZero() {
			created = cr.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		reason := cr.Reason
		if reason == "" {
			reason = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\tuser %d\t%s\t%s\n",
			cr.ID,
			domainLabel(names, cr.DomainID),
			cr.ActionType,
			cr.ActionStatus,
			cr.UserID,
			created,
			reason,
		)
	}
	w.Flush()
}

func printList(cmd *cobra.Command, env *cmdutil.Env, list []domain.ChangeRequest, empty string) error {
	format, err := cmdutil.OutputFormat(cmd, env.Config)
	if err != nil {
		return err
	}
	if format == "json" {
		if list == nil {
			list = []domain.ChangeRequest{}
		}
		return cmdutil.PrintJSON(cmd, list)
	}
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), empty)
		return nil
	}
	printChanges(cmd, list, domainNames(cmd.Context(), env))
	return nil
}
