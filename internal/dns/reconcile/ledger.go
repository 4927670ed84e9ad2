package reconcile

import (
	"slices"
	"sort"
	"time"

	dnsdomain "domain0/d0ctl/internal/dns/domain"
)

// update is one pendingUpdates entry.
type update struct {
	view dnsdomain.RecordView

	// priors lists every identity the record held before, oldest first.
	priors []dnsdomain.Identity

	// promoted marks a create that was applied after the last fetch and
	// therefore has no base row yet. seq orders promoted rows.
	promoted bool
	seq      uint64
}

func (u *update) hasPrior(id dnsdomain.Identity) bool {
	return slices.Contains(u.priors, id)
}

// Ledger holds the last fetched record snapshot plus the local overlays
// applied on top of it: pending creates, pending updates keyed by current
// identity, and tombstones.
//
// A Ledger is not safe for concurrent use. It is meant to be owned by a
// single event loop; when two results for the same identity are applied,
// the last one wins.
type Ledger struct {
	base       []dnsdomain.Record
	creates    []dnsdomain.RecordView
	updates    map[dnsdomain.Identity]*update
	tombstones map[dnsdomain.Identity]struct{}

	generation uint64
	counter    uint64
	seq        uint64
	now        func() time.Time
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithClock replaces the clock used to stamp tentative identities.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) { l.now = now }
}

// NewLedger returns an empty ledger at generation zero.
func NewLedger(opts ...LedgerOption) *Ledger {
	l := &Ledger{
		updates:    map[dnsdomain.Identity]*update{},
		tombstones: map[dnsdomain.Identity]struct{}{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Generation identifies the current base snapshot. Results computed
// against an older generation must be discarded.
func (l *Ledger) Generation() uint64 { return l.generation }

// ResetFromFetch replaces the base snapshot and drops every overlay.
// Mutations that have not round-tripped yet are forgotten; their server
// side effect, if any, shows up in the next fetch.
func (l *Ledger) ResetFromFetch(base []dnsdomain.Record) {
	l.base = append([]dnsdomain.Record(nil), base...)
	l.creates = nil
	l.updates = map[dnsdomain.Identity]*update{}
	l.tombstones = map[dnsdomain.Identity]struct{}{}
	l.generation++
}

// PendingCount returns the number of overlay entries of each kind.
func (l *Ledger) PendingCount() (creates, updates, tombstones int) {
	return len(l.creates), len(l.updates), len(l.tombstones)
}

// BeginCreate appends an editable new row with a fresh tentative identity
// and default field values.
func (l *Ledger) BeginCreate() dnsdomain.RecordView {
	l.counter++
	id := dnsdomain.NewTentative(l.counter, l.now().UnixMilli())
	fields := dnsdomain.DefaultOpts().Apply(dnsdomain.Record{})
	view := dnsdomain.RecordView{
		Identity: id,
		Fields:   fields,
		Editing:  true,
		IsNew:    true,
	}
	l.creates = append(l.creates, view)
	return cloneView(view)
}

// CancelCreate drops an unsaved row. It reports false when the row is no
// longer pending, for example after promotion.
func (l *Ledger) CancelCreate(id dnsdomain.Identity) bool {
	i := l.createIndex(id)
	if i < 0 {
		return false
	}
	l.creates = append(l.creates[:i], l.creates[i+1:]...)
	return true
}

// ApplyCreateResult settles a pending create. Applied promotes the row to
// the stable identity the server issued. Pending removes the row: nothing
// was created. Rejected keeps the row editable. It reports false when the
// row is no longer pending.
func (l *Ledger) ApplyCreateResult(id dnsdomain.Identity, outcome dnsdomain.Outcome) bool {
	i := l.createIndex(id)
	if i < 0 {
		return false
	}

	switch outcome.Kind {
	case dnsdomain.OutcomeApplied:
		l.creates = append(l.creates[:i], l.creates[i+1:]...)
		if outcome.Record == nil {
			return true
		}
		rec := *outcome.Record
		l.seq++
		l.updates[rec.Identity()] = &update{
			view:     dnsdomain.ViewOf(rec),
			promoted: true,
			seq:      l.seq,
		}
	case dnsdomain.OutcomePending:
		l.creates = append(l.creates[:i], l.creates[i+1:]...)
	default:
		l.creates[i].Editing = true
	}
	return true
}

// BeginEdit puts a row into edit mode without touching its fields.
func (l *Ledger) BeginEdit(id dnsdomain.Identity) bool { return l.setEditing(id, true) }

// CancelEdit leaves edit mode without touching the row's fields.
func (l *Ledger) CancelEdit(id dnsdomain.Identity) bool { return l.setEditing(id, false) }

// ApplyUpdateResult settles an update of a persisted row.
//
// Applied stores the server record under the identity it carries; when
// that differs from id, id is appended to the entry's prior identities so
// the base row it replaces is retired. Pending leaves edit mode and keeps
// the last persisted fields. Rejected stays in edit mode.
func (l *Ledger) ApplyUpdateResult(id dnsdomain.Identity, outcome dnsdomain.Outcome) bool {
	switch outcome.Kind {
	case dnsdomain.OutcomeApplied:
		if outcome.Record == nil {
			return l.setEditing(id, false)
		}
		rec := *outcome.Record
		next := rec.Identity()
		entry := &update{view: dnsdomain.ViewOf(rec)}
		if prev, ok := l.updates[id]; ok {
			entry.priors = slices.Clone(prev.priors)
			entry.promoted = prev.promoted
			entry.seq = prev.seq
		}
		if next != id {
			entry.priors = append(entry.priors, id)
			delete(l.updates, id)
			if existing, ok := l.updates[next]; ok {
				entry.priors = slices.Concat(existing.priors, entry.priors)
				if existing.promoted {
					entry.promoted = true
					entry.seq = existing.seq
				}
			}
		}
		l.updates[next] = entry
		return true
	case dnsdomain.OutcomePending:
		return l.setEditing(id, false)
	default:
		return l.setEditing(id, true)
	}
}

// MarkDeleted tombstones an identity. The row disappears from the view.
func (l *Ledger) MarkDeleted(id dnsdomain.Identity) {
	l.tombstones[id] = struct{}{}
}

// Lookup returns the merged row for id.
func (l *Ledger) Lookup(id dnsdomain.Identity) (dnsdomain.RecordView, bool) {
	for _, v := range l.MergedView() {
		if v.Identity == id {
			return v, true
		}
	}
	return dnsdomain.RecordView{}, false
}

// MergedView renders the ledger: pending creates, then creates promoted
// since the last fetch, then base rows in order with their updates
// overlaid. An update keyed by a base row's own identity wins over one
// that lists it as a prior identity. Tombstoned identities never appear.
//
// The result depends only on the ledger contents and shares no memory
// with it.
func (l *Ledger) MergedView() []dnsdomain.RecordView {
	views := make([]dnsdomain.RecordView, 0, len(l.creates)+len(l.base))
	for _, v := range l.creates {
		if l.isTombstoned(v.Identity) {
			continue
		}
		views = append(views, cloneView(v))
	}

	baseIDs := make(map[dnsdomain.Identity]struct{}, len(l.base))
	for _, rec := range l.base {
		baseIDs[rec.Identity()] = struct{}{}
	}

	rows := make([]dnsdomain.RecordView, 0, len(l.base))
	matched := map[dnsdomain.Identity]struct{}{}
	for _, rec := range l.base {
		id := rec.Identity()
		if l.isTombstoned(id) {
			continue
		}

		if entry, ok := l.updates[id]; ok {
			matched[id] = struct{}{}
			if !l.deleted(id, entry) {
				rows = append(rows, cloneView(entry.view))
			}
			continue
		}

		key, entry := l.priorEntry(id)
		if entry == nil {
			rows = append(rows, cloneView(dnsdomain.ViewOf(rec)))
			continue
		}
		if _, inBase := baseIDs[key]; inBase {
			// The record moved to an identity that has its own base row;
			// this row is retired.
			continue
		}
		if _, seen := matched[key]; seen || l.deleted(key, entry) {
			continue
		}
		matched[key] = struct{}{}
		rows = append(rows, cloneView(entry.view))
	}

	var promoted []*update
	for key, entry := range l.updates {
		if _, seen := matched[key]; seen || !entry.promoted || l.deleted(key, entry) {
			continue
		}
		if _, inBase := baseIDs[key]; inBase {
			continue
		}
		promoted = append(promoted, entry)
	}
	sort.Slice(promoted, func(i, j int) bool { return promoted[i].seq < promoted[j].seq })
	for _, entry := range promoted {
		views = append(views, cloneView(entry.view))
	}

	return append(views, rows...)
}

func (l *Ledger) isTombstoned(id dnsdomain.Identity) bool {
	_, ok := l.tombstones[id]
	return ok
}

// deleted reports whether the update stored under key, or any identity
// it held before, has been tombstoned.
func (l *Ledger) deleted(key dnsdomain.Identity, entry *update) bool {
	if l.isTombstoned(key) {
		return true
	}
	return slices.ContainsFunc(entry.priors, l.isTombstoned)
}

// priorEntry finds the update that lists id as a prior identity.
func (l *Ledger) priorEntry(id dnsdomain.Identity) (dnsdomain.Identity, *update) {
	for key, entry := range l.updates {
		if entry.hasPrior(id) {
			return key, entry
		}
	}
	return dnsdomain.Identity{}, nil
}

func (l *Ledger) createIndex(id dnsdomain.Identity) int {
	for i, v := range l.creates {
		if v.Identity == id {
			return i
		}
	}
	return -1
}

// setEditing toggles edit mode on whichever overlay currently holds id,
// creating an update entry for a plain base row.
func (l *Ledger) setEditing(id dnsdomain.Identity, editing bool) bool {
	if i := l.createIndex(id); i >= 0 {
		l.creates[i].Editing = editing
		return true
	}
	if entry, ok := l.updates[id]; ok {
		entry.view.Editing = editing
		return true
	}
	if key, _ := l.priorEntry(id); !key.IsZero() {
		return false
	}
	for _, rec := range l.base {
		if rec.Identity() == id {
			view := dnsdomain.ViewOf(rec)
			view.Editing = editing
			l.updates[id] = &update{view: view}
			return true
		}
	}
	return false
}

func cloneView(v dnsdomain.RecordView) dnsdomain.RecordView {
	if v.Origin != nil {
		origin := cloneRecord(*v.Origin)
		v.Origin = &origin
	}
	v.Fields = cloneRecord(v.Fields)
	return v
}

func cloneRecord(r dnsdomain.Record) dnsdomain.Record {
	if r.Proxied != nil {
		proxied := *r.Proxied
		r.Proxied = &proxied
	}
	return r
}
