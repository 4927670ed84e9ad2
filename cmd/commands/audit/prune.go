package audit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"domain0/d0ctl/internal/auditlog"
	"domain0/d0ctl/internal/deferrals"

	"github.com/spf13/cobra"
)

func PruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete audit entries older than an age",
		Long: `Delete audit entries older than an age. With --journal, entries of the
local deferral journal are pruned as well.

Examples:
  d0ctl audit prune --older-than 30d
  d0ctl audit prune --older-than 72h --journal`,
		RunE:         runPrune,
		SilenceUsage: true,
	}

	cmd.Flags().String("older-than", "", "Remove entries older than this age (e.g. 30d, 72h)")
	cmd.Flags().Bool("journal", false, "Also prune the deferral journal")
	_ = cmd.MarkFlagRequired("older-than")

	return cmd
}

func runPrune(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetString("older-than")
	age, err := parseAge(raw)
	if err != nil {
		return fmt.Errorf("--older-than: %w", err)
	}

	repo, err := auditlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	removed, err := repo.Prune(age)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d audit %s.\n", removed, entries(removed))

	if withJournal, _ := cmd.Flags().GetBool("journal"); !withJournal {
		return nil
	}
	journal, err := deferrals.Open()
	if err != nil {
		return err
	}
	defer journal.Close()

	removed, err = journal.Prune(age)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d journal %s.\n", removed, entries(removed))
	return nil
}

func entries(n int64) string {
	if n == 1 {
		return "entry"
	}
	return "entries"
}

// parseAge accepts Go durations plus a whole-day "Nd" form.
func parseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("an age is required")
	}
	var (
		d   time.Duration
		err error
	)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		var n int
		n, err = strconv.Atoi(days)
		d = time.Duration(n) * 24 * time.Hour
	} else {
		d, err = time.ParseDuration(s)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid age %q", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("age must be positive, got %q", s)
	}
	return d, nil
}
