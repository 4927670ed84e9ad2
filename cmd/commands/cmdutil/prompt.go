package cmdutil

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"domain0/d0ctl/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ReadSecret returns the flag value when set. Otherwise it prompts on a
// terminal without echo, or reads one line from the command's stdin.
func ReadSecret(cmd *cobra.Command, flagValue, prompt string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	if in, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(in.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		bytes, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(bytes), "\r\n"), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("no %s given", strings.TrimSuffix(strings.ToLower(strings.TrimSpace(prompt)), ":"))
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// AddYesFlag registers -y/--yes on a destructive command.
func AddYesFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

// Confirm asks before a destructive action. --yes and non-interactive runs
// skip the question. A cancelled prompt is a "no".
func Confirm(cmd *cobra.Command, title, description, question string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes || !Interactive() {
		return true, nil
	}
	ok, err := tui.Confirm(title, description, question)
	if errors.Is(err, tui.ErrAborted) {
		return false, nil
	}
	return ok, err
}
