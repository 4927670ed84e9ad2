package tui

import (
	"fmt"
	"time"

	"domain0/d0ctl/internal/auditlog"
	"domain0/d0ctl/internal/dns/coordinator"
	dnsdomain "domain0/d0ctl/internal/dns/domain"
)

// recordAudit writes a best-effort audit entry for a mutation started
// from the record table. The call id ties the entry to the notification
// the user saw.
func recordAudit(domainName string, res coordinator.Result, start time.Time) {
	call := res.Call
	entry := &auditlog.AuditEntry{
		Command:      "d0ctl dns tui " + call.Kind.String(),
		Domain:       domainName,
		ResourceType: "record",
		ResourceID:   call.Record.ID,
		ResourceName: auditName(call),
		Outcome:      auditlog.OutcomeSuccess,
		Detail:       "call " + call.ID.String(),
	}

	switch res.Outcome.Kind {
	case dnsdomain.OutcomePending:
		entry.Outcome = auditlog.OutcomePending
		entry.Detail = fmt.Sprintf("%s: %s", entry.Detail, res.Outcome.Message)
	case dnsdomain.OutcomeRejected:
		entry.Outcome = auditlog.OutcomeError
		if res.Outcome.Err != nil {
			entry.Detail = fmt.Sprintf("%s: %v", entry.Detail, res.Outcome.Err)
		}
	}
	if res.Outcome.Warning != nil {
		entry.Detail = fmt.Sprintf("%s (%v)", entry.Detail, res.Outcome.Warning)
	}
	if rec := res.Outcome.Record; rec != nil && rec.ID != "" {
		entry.ResourceID = rec.ID
	}

	auditlog.RecordBestEffort(entry, start)
}

func auditName(call coordinator.Call) string {
	if call.Kind == coordinator.CallCreate {
		return call.Opts.Name
	}
	return call.Record.Name
}
