package cmdutil

import (
	"fmt"
	"os"
	"strings"

	"domain0/d0ctl/internal/auditlog"
	"domain0/d0ctl/internal/domain"
	"domain0/d0ctl/internal/services/domains"
	"domain0/d0ctl/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Interactive reports whether stdout is a terminal. Tests replace it to
// force plain output.
var Interactive = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ResolveDomain finds the domain a command targets: ref, then the
// default-domain config key, then a picker when running in a terminal.
// The chosen domain is recorded in the command's audit metadata.
func ResolveDomain(cmd *cobra.Command, env *Env, svc *domains.Service, ref string) (*domain.Domain, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" && env.Config != nil {
		ref = env.Config.DefaultDomain
	}

	var (
		d   *domain.Domain
		err error
	)
	switch {
	case ref != "":
		d, err = svc.Resolve(cmd.Context(), ref)
	case Interactive():
		d, err = tui.SelectDomain(svc, "Select a domain")
	default:
		return nil, fmt.Errorf("a domain is required; pass it as an argument or run 'd0ctl config set default-domain <name>'")
	}
	if err != nil {
		return nil, err
	}

	Annotate(cmd, auditlog.Metadata{Domain: d.Name})
	return d, nil
}

// ArgOrEmpty returns args[i], or "" when absent.
func ArgOrEmpty(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
