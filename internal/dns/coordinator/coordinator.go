// Package coordinator drives per-row record mutations.
//
// Each row of the record table moves through a small state machine:
//
//	Viewing → Editing → Saving → Viewing | Editing
//	Viewing → DeletePending → removed | Viewing
//
// Row behaviour is looked up by identity on every call. A save or delete
// is split into three steps so a UI can run the network call off its
// update loop: PrepareSave or ConfirmDelete returns a Call, Execute
// performs it, and Apply folds the Result back into the ledger. Save and
// Delete run all three synchronously.
//
// A Coordinator is not safe for concurrent use. Calls for different rows
// may be in flight at the same time; results are applied in arrival order
// and the last one for an identity wins.
package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/dns/reconcile"
	"domain0/d0ctl/internal/dns/services"
)

var (
	ErrUnknownRow = errors.New("no such row")
	ErrBusy       = errors.New("a save is already in progress for this row")
	ErrNotEditing = errors.New("row is not being edited")
	ErrNotArmed   = errors.New("delete has not been armed")
	ErrNotViewing = errors.New("row is busy")
)

// State is the mutation state of one row.
type State int

const (
	StateViewing State = iota
	StateEditing
	StateSaving
	StateDeletePending
)

func (s State) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	case StateDeletePending:
		return "deleting"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// CallKind selects the provider operation a Call performs.
type CallKind int

const (
	CallCreate CallKind = iota + 1
	CallUpdate
	CallDelete
)

func (k CallKind) String() string {
	switch k {
	case CallCreate:
		return "create"
	case CallUpdate:
		return "update"
	case CallDelete:
		return "delete"
	}
	return fmt.Sprintf("CallKind(%d)", int(k))
}

// Call is one prepared mutation. Generation is the ledger generation the
// call was prepared against.
type Call struct {
	ID         uuid.UUID
	Identity   dnsdomain.Identity
	Generation uint64
	Kind       CallKind
	DomainID   int64

	// Opts is the create payload.
	Opts dnsdomain.RecordOpts

	// Record is the full record for an update, or the record being deleted.
	Record dnsdomain.Record
}

func (c Call) name() string {
	if c.Kind == CallCreate {
		return c.Opts.Name
	}
	if c.Record.Name != "" {
		return c.Record.Name
	}
	return c.Record.ID
}

// Result pairs a call with its classified outcome.
type Result struct {
	Call    Call
	Outcome dnsdomain.Outcome
}

// Validator checks a draft before any network call is made.
type Validator interface {
	Validate(dnsdomain.RecordOpts) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(dnsdomain.RecordOpts) error

func (f ValidatorFunc) Validate(opts dnsdomain.RecordOpts) error { return f(opts) }

// Row is a merged ledger row annotated with its mutation state.
type Row struct {
	dnsdomain.RecordView
	State State
	Armed bool
}

type row struct {
	state State
	draft dnsdomain.RecordOpts
	armed bool
}

// Coordinator owns the ledger of one domain's records.
type Coordinator struct {
	provider  dnsdomain.Provider
	domainID  int64
	ledger    *reconcile.Ledger
	validator Validator
	notifier  Notifier
	rows      map[dnsdomain.Identity]*row
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithValidator replaces the draft validator.
func WithValidator(v Validator) Option {
	return func(c *Coordinator) { c.validator = v }
}

// WithNotifier registers a receiver for result notifications.
func WithNotifier(n Notifier) Option {
	return func(c *Coordinator) { c.notifier = n }
}

// WithLedger supplies the ledger, for example one with a fixed clock.
func WithLedger(l *reconcile.Ledger) Option {
	return func(c *Coordinator) { c.ledger = l }
}

// New returns a coordinator for the records of domainID.
func New(provider dnsdomain.Provider, domainID int64, opts ...Option) *Coordinator {
	c := &Coordinator{
		provider:  provider,
		domainID:  domainID,
		validator: ValidatorFunc(services.CheckDraft),
		rows:      map[dnsdomain.Identity]*row{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ledger == nil {
		c.ledger = reconcile.NewLedger()
	}
	return c
}

// DomainID returns the domain whose records are coordinated.
func (c *Coordinator) DomainID() int64 { return c.domainID }

// Generation returns the current ledger generation.
func (c *Coordinator) Generation() uint64 { return c.ledger.Generation() }

// Reset re-seeds the ledger from a fetch. In-flight results become stale.
func (c *Coordinator) Reset(records []dnsdomain.Record) {
	c.ledger.ResetFromFetch(records)
	c.rows = map[dnsdomain.Identity]*row{}
}

// Reload fetches the domain's records and resets the ledger.
func (c *Coordinator) Reload(ctx context.Context) error {
	records, err := c.provider.ListRecords(ctx, c.domainID)
	if err != nil {
		return err
	}
	c.Reset(records)
	return nil
}

// Rows returns the merged view with each row's state.
func (c *Coordinator) Rows() []Row {
	views := c.ledger.MergedView()
	out := make([]Row, 0, len(views))
	for _, v := range views {
		r := Row{RecordView: v, State: StateViewing}
		if st, ok := c.rows[v.Identity]; ok {
			r.State = st.state
			r.Armed = st.armed
		} else if v.Editing {
			r.State = StateEditing
		}
		out = append(out, r)
	}
	return out
}

// Row returns one merged row.
func (c *Coordinator) Row(id dnsdomain.Identity) (Row, bool) {
	for _, r := range c.Rows() {
		if r.Identity == id {
			return r, true
		}
	}
	return Row{}, false
}

// State returns the state of a row. Unknown rows report Viewing.
func (c *Coordinator) State(id dnsdomain.Identity) State {
	if r, ok := c.rows[id]; ok {
		return r.state
	}
	return StateViewing
}

// Add appends a new editable row and returns its tentative identity.
func (c *Coordinator) Add() dnsdomain.Identity {
	view := c.ledger.BeginCreate()
	c.rows[view.Identity] = &row{state: StateEditing, draft: dnsdomain.DefaultOpts()}
	return view.Identity
}

// Edit enters edit mode, snapshotting the row's fields into its draft.
// Editing a row that is already being edited keeps the draft.
func (c *Coordinator) Edit(id dnsdomain.Identity) error {
	view, ok := c.ledger.Lookup(id)
	if !ok {
		return ErrUnknownRow
	}
	st := c.entry(id)
	switch st.state {
	case StateEditing:
		return nil
	case StateSaving:
		return ErrBusy
	case StateDeletePending:
		return ErrNotViewing
	}
	if !c.ledger.BeginEdit(id) {
		return ErrUnknownRow
	}
	st.state = StateEditing
	st.armed = false
	st.draft = dnsdomain.OptsFromRecord(view.Fields)
	return nil
}

// Draft returns the form buffer of a row being edited.
func (c *Coordinator) Draft(id dnsdomain.Identity) (dnsdomain.RecordOpts, error) {
	st, ok := c.rows[id]
	if !ok || (st.state != StateEditing && st.state != StateSaving) {
		return dnsdomain.RecordOpts{}, ErrNotEditing
	}
	return st.draft, nil
}

// SetDraft replaces the form buffer of a row being edited.
func (c *Coordinator) SetDraft(id dnsdomain.Identity, draft dnsdomain.RecordOpts) error {
	st, ok := c.rows[id]
	if !ok {
		return ErrNotEditing
	}
	switch st.state {
	case StateEditing:
		st.draft = draft
		return nil
	case StateSaving:
		return ErrBusy
	}
	return ErrNotEditing
}

// Cancel leaves edit mode. A new row is discarded.
func (c *Coordinator) Cancel(id dnsdomain.Identity) error {
	st, ok := c.rows[id]
	if !ok || st.state != StateEditing {
		if ok && st.state == StateSaving {
			return ErrBusy
		}
		return ErrNotEditing
	}
	if id.IsTentative() {
		c.ledger.CancelCreate(id)
	} else {
		c.ledger.CancelEdit(id)
	}
	delete(c.rows, id)
	return nil
}

// PrepareSave validates the draft and moves the row to Saving. The
// returned call creates a new row or updates a persisted one, never both.
func (c *Coordinator) PrepareSave(id dnsdomain.Identity) (Call, error) {
	view, ok := c.ledger.Lookup(id)
	if !ok {
		return Call{}, ErrUnknownRow
	}
	st, ok := c.rows[id]
	if !ok {
		return Call{}, ErrNotEditing
	}
	switch st.state {
	case StateSaving:
		return Call{}, ErrBusy
	case StateEditing:
	default:
		return Call{}, ErrNotEditing
	}
	if err := c.validator.Validate(st.draft); err != nil {
		return Call{}, err
	}

	call := c.newCall(id)
	if view.IsNew {
		call.Kind = CallCreate
		call.Opts = st.draft
	} else {
		call.Kind = CallUpdate
		call.Record = st.draft.Apply(*view.Origin)
	}
	st.state = StateSaving
	return call, nil
}

// ArmDelete arms the two-step delete of a persisted row.
func (c *Coordinator) ArmDelete(id dnsdomain.Identity) error {
	view, ok := c.ledger.Lookup(id)
	if !ok {
		return ErrUnknownRow
	}
	if view.IsNew {
		return ErrNotViewing
	}
	st := c.entry(id)
	if st.state != StateViewing {
		return ErrNotViewing
	}
	st.armed = true
	return nil
}

// Blur disarms a row. It is a no-op for rows that are not armed.
func (c *Coordinator) Blur(id dnsdomain.Identity) {
	st, ok := c.rows[id]
	if !ok {
		return
	}
	st.armed = false
	if st.state == StateViewing {
		delete(c.rows, id)
	}
}

// ConfirmDelete moves an armed row to DeletePending and returns the call.
func (c *Coordinator) ConfirmDelete(id dnsdomain.Identity) (Call, error) {
	view, ok := c.ledger.Lookup(id)
	if !ok {
		return Call{}, ErrUnknownRow
	}
	st, ok := c.rows[id]
	if !ok || !st.armed {
		return Call{}, ErrNotArmed
	}
	if st.state != StateViewing {
		return Call{}, ErrNotViewing
	}
	st.armed = false
	st.state = StateDeletePending

	call := c.newCall(id)
	call.Kind = CallDelete
	call.Record = *view.Origin
	return call, nil
}

// Execute performs the provider call. It is never retried and may run on
// any goroutine.
func (c *Coordinator) Execute(ctx context.Context, call Call) Result {
	return Execute(ctx, c.provider, call)
}

// Execute performs call against provider.
func Execute(ctx context.Context, provider dnsdomain.Provider, call Call) Result {
	var outcome dnsdomain.Outcome
	switch call.Kind {
	case CallCreate:
		outcome = provider.CreateRecord(ctx, call.DomainID, call.Opts)
	case CallUpdate:
		outcome = provider.UpdateRecord(ctx, call.DomainID, call.Record)
	case CallDelete:
		outcome = provider.DeleteRecord(ctx, call.DomainID, call.Record.ID)
	default:
		outcome = dnsdomain.Rejected(fmt.Errorf("unknown call kind %v", call.Kind))
	}
	return Result{Call: call, Outcome: outcome}
}

// Apply folds a result into the ledger and notifies. It reports false for
// a stale result, one prepared before the last Reset, which is dropped.
func (c *Coordinator) Apply(res Result) (Notification, bool) {
	call := res.Call
	if call.Generation != c.ledger.Generation() {
		return Notification{}, false
	}

	id := call.Identity
	outcome := res.Outcome
	switch call.Kind {
	case CallCreate:
		c.ledger.ApplyCreateResult(id, outcome)
		c.settleSave(id, outcome)
	case CallUpdate:
		c.ledger.ApplyUpdateResult(id, outcome)
		c.settleSave(id, outcome)
	case CallDelete:
		if outcome.Kind == dnsdomain.OutcomeApplied {
			c.ledger.MarkDeleted(id)
		}
		delete(c.rows, id)
	}

	n := notificationFor(call, outcome)
	if c.notifier != nil {
		c.notifier.Notify(n)
	}
	return n, true
}

// Save validates, executes and applies a save synchronously.
func (c *Coordinator) Save(ctx context.Context, id dnsdomain.Identity) (Notification, error) {
	call, err := c.PrepareSave(id)
	if err != nil {
		return Notification{}, err
	}
	n, _ := c.Apply(c.Execute(ctx, call))
	return n, nil
}

// Delete arms, confirms, executes and applies a delete synchronously.
func (c *Coordinator) Delete(ctx context.Context, id dnsdomain.Identity) (Notification, error) {
	if err := c.ArmDelete(id); err != nil {
		return Notification{}, err
	}
	call, err := c.ConfirmDelete(id)
	if err != nil {
		return Notification{}, err
	}
	n, _ := c.Apply(c.Execute(ctx, call))
	return n, nil
}

// Find returns the identity of the first row matching id, name or
// name/type. It serves CLI commands that address records by text.
func (c *Coordinator) Find(ref string) (dnsdomain.Identity, bool) {
	for _, r := range c.Rows() {
		if r.Identity.Value() == ref {
			return r.Identity, true
		}
	}
	for _, r := range c.Rows() {
		if r.Fields.Name == ref || r.Fields.Name+"/"+string(r.Fields.Type) == ref {
			return r.Identity, true
		}
	}
	return dnsdomain.Identity{}, false
}

// settleSave moves a saving row to its next state.
func (c *Coordinator) settleSave(id dnsdomain.Identity, outcome dnsdomain.Outcome) {
	st, ok := c.rows[id]
	if !ok {
		return
	}
	if outcome.Kind == dnsdomain.OutcomeRejected {
		st.state = StateEditing
		return
	}
	delete(c.rows, id)
}

func (c *Coordinator) entry(id dnsdomain.Identity) *row {
	st, ok := c.rows[id]
	if !ok {
		st = &row{state: StateViewing}
		c.rows[id] = st
	}
	return st
}

func (c *Coordinator) newCall(id dnsdomain.Identity) Call {
	return Call{
		ID:         uuid.New(),
		Identity:   id,
		Generation: c.ledger.Generation(),
		DomainID:   c.domainID,
	}
}
