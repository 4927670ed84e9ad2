package dns

import (
	"context"
	"fmt"

	"domain0/d0ctl/cmd/commands/cmdutil"
	"domain0/d0ctl/internal/auditlog"
	"domain0/d0ctl/internal/dns/coordinator"
	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/dns/services"
	"domain0/d0ctl/internal/domain"

	"github.com/spf13/cobra"
)

// NewCommand returns the top-level "dns" Cobra command with all subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dns",
		Short: "Manage the DNS records of a domain",
		Long: `List, create, update, comment on and delete DNS records.

The domain is taken from the first argument, else from the default-domain
config key, else picked interactively. Mutations on domains that need an
approver's sign-off are submitted as change requests.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(CreateCommand())
	cmd.AddCommand(UpdateCommand())
	cmd.AddCommand(CommentCommand())
	cmd.AddCommand(DeleteCommand())

	return cmd
}

// target is the resolved domain of a record command and the services
// bound to it. Callers must Close it.
type target struct {
	env     *cmdutil.Env
	records *services.Service
	domain  *domain.Domain
}

func openTarget(cmd *cobra.Command, ref string) (*target, error) {
	env, err := cmdutil.Load()
	if err != nil {
		return nil, err
	}
	svc, err := env.Domains()
	if err != nil {
		env.Close()
		return nil, err
	}
	d, err := cmdutil.ResolveDomain(cmd, env, svc, ref)
	if err != nil {
		env.Close()
		return nil, err
	}
	return &target{env: env, records: env.Records(), domain: d}, nil
}

func (t *target) Close() { t.env.Close() }

// coordinator loads the domain's records into a fresh coordinator.
func (t *target) coordinator(ctx context.Context) (*coordinator.Coordinator, error) {
	c := coordinator.New(t.records, t.domain.ID)
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// save runs a prepared call through the coordinator and reports its outcome.
func save(cmd *cobra.Command, c *coordinator.Coordinator, call coordinator.Call) error {
	annotateCall(cmd, call)
	res := c.Execute(cmd.Context(), call)
	n, _ := c.Apply(res)
	what := n.Message
	if rec := res.Outcome.Record; rec != nil {
		cmdutil.Annotate(cmd, auditlog.Metadata{ResourceID: rec.ID})
		what = fmt.Sprintf("%s (id %s)", what, rec.ID)
	}
	return cmdutil.Report(cmd, what, res.Outcome)
}

func annotateCall(cmd *cobra.Command, call coordinator.Call) {
	meta := auditlog.Metadata{ResourceType: "record"}
	switch call.Kind {
	case coordinator.CallCreate:
		meta.ResourceName = call.Opts.Name
	default:
		meta.ResourceID = call.Record.ID
		meta.ResourceName = call.Record.Name
	}
	cmdutil.Annotate(cmd, meta)
}

// findRecord resolves ref to a persisted row.
func findRecord(c *coordinator.Coordinator, ref string) (dnsdomain.Identity, error) {
	id, ok := c.Find(ref)
	if !ok {
		return dnsdomain.Identity{}, fmt.Errorf("no record matches %q; use an id, a name, or name/TYPE", ref)
	}
	return id, nil
}
