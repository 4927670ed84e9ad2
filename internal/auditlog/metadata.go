package auditlog

import (
	"cmp"
	"context"
	"strings"
)

// Metadata describes what a command touched. Commands attach it to their
// context; the root command reads it back when recording the audit entry.
type Metadata struct {
	Domain       string
	ResourceType string
	ResourceID   string
	ResourceName string

	// Deferred is set when the API captured the mutation as a change request.
	Deferred bool
}

type metadataKey struct{}

// WithMetadata attaches audit metadata to a context. Non-empty fields of
// meta replace those already attached; Deferred is sticky.
func WithMetadata(ctx context.Context, meta Metadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, metadataKey{}, MetadataFromContext(ctx).merge(meta))
}

// MetadataFromContext returns audit metadata stored in the context.
func MetadataFromContext(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	meta, _ := ctx.Value(metadataKey{}).(Metadata)
	return meta
}

func (m Metadata) merge(next Metadata) Metadata {
	return Metadata{
		Domain:       cmp.Or(next.Domain, m.Domain),
		ResourceType: cmp.Or(next.ResourceType, m.ResourceType),
		ResourceID:   cmp.Or(next.ResourceID, m.ResourceID),
		ResourceName: cmp.Or(next.ResourceName, m.ResourceName),
		Deferred:     next.Deferred || m.Deferred,
	}
}

// Entry builds the audit row of a finished command. args are sanitized
// before they are stored.
func (m Metadata) Entry(command string, args []string, err error) *AuditEntry {
	entry := &AuditEntry{
		Command:      command,
		Args:         strings.Join(SanitizeArgs(args), " "),
		Domain:       m.Domain,
		ResourceType: m.ResourceType,
		ResourceID:   m.ResourceID,
		ResourceName: m.ResourceName,
		Outcome:      Outcome(err, m.Deferred),
	}
	if err != nil {
		entry.Detail = err.Error()
	}
	return entry
}

// Outcome classifies a finished command. A nil error is a success unless
// the command flagged a deferred mutation in its metadata.
func Outcome(err error, deferred bool) string {
	switch {
	case err != nil:
		return OutcomeError
	case deferred:
		return OutcomePending
	}
	return OutcomeSuccess
}
