package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/dns/reconcile"
	"domain0/d0ctl/internal/dns/services"

	"github.com/google/go-cmp/cmp"
)

// fakeProvider records calls and replies with scripted outcomes.
type fakeProvider struct {
	mu      sync.Mutex
	records []dnsdomain.Record
	listErr error

	createOutcome dnsdomain.Outcome
	updateOutcome dnsdomain.Outcome
	deleteOutcome dnsdomain.Outcome

	creates []dnsdomain.RecordOpts
	updates []dnsdomain.Record
	deletes []string
}

func (f *fakeProvider) ListRecords(_ context.Context, _ int64) ([]dnsdomain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]dnsdomain.Record(nil), f.records...), nil
}

func (f *fakeProvider) CreateRecord(_ context.Context, _ int64, opts dnsdomain.RecordOpts) dnsdomain.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, opts)
	return f.createOutcome
}

func (f *fakeProvider) UpdateRecord(_ context.Context, _ int64, rec dnsdomain.Record) dnsdomain.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, rec)
	return f.updateOutcome
}

func (f *fakeProvider) DeleteRecord(_ context.Context, _ int64, id string) dnsdomain.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.deleteOutcome
}

type collector struct{ got []Notification }

func (c *collector) Notify(n Notification) { c.got = append(c.got, n) }

func wwwRecord() dnsdomain.Record {
	return dnsdomain.Record{ID: "1", Name: "www", Type: dnsdomain.RecordTypeA, Content: "1.1.1.1", TTL: 600}
}

func newCoordinator(t *testing.T, p *fakeProvider) (*Coordinator, *collector) {
	t.Helper()
	notes := &collector{}
	ledger := reconcile.NewLedger(reconcile.WithClock(func() time.Time { return time.UnixMilli(1700000000000) }))
	c := New(p, 7, WithNotifier(notes), WithLedger(ledger))
	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	return c, notes
}

func TestCoordinator_UpdateApplied(t *testing.T) {
	updated := wwwRecord()
	updated.Content = "2.2.2.2"
	p := &fakeProvider{
		records:       []dnsdomain.Record{wwwRecord()},
		updateOutcome: dnsdomain.Applied(&updated),
	}
	c, notes := newCoordinator(t, p)
	id := dnsdomain.Stable("1")

	if err := c.Edit(id); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	draft, err := c.Draft(id)
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if draft.Content != "1.1.1.1" {
		t.Fatalf("draft not snapshotted from origin: %+v", draft)
	}
	draft.Content = "2.2.2.2"
	if err := c.SetDraft(id, draft); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}

	n, err := c.Save(context.Background(), id)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n.Level != LevelSuccess {
		t.Errorf("level = %v, want success", n.Level)
	}
	if len(p.updates) != 1 || len(p.creates) != 0 {
		t.Fatalf("expected exactly one update call, got %d updates %d creates", len(p.updates), len(p.creates))
	}
	if p.updates[0].ID != "1" || p.updates[0].Content != "2.2.2.2" {
		t.Errorf("update payload = %+v", p.updates[0])
	}

	rows := c.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].State != StateViewing || rows[0].Editing {
		t.Errorf("row should be back to viewing: %+v", rows[0])
	}
	if rows[0].Fields.Content != "2.2.2.2" {
		t.Errorf("content = %q, want 2.2.2.2", rows[0].Fields.Content)
	}
	if len(notes.got) != 1 {
		t.Errorf("expected 1 notification, got %d", len(notes.got))
	}
}

func TestCoordinator_UpdatePendingReverts(t *testing.T) {
	p := &fakeProvider{
		records:       []dnsdomain.Record{wwwRecord()},
		updateOutcome: dnsdomain.PendingApproval("需审批"),
	}
	c, _ := newCoordinator(t, p)
	id := dnsdomain.Stable("1")

	_ = c.Edit(id)
	draft, _ := c.Draft(id)
	draft.Content = "2.2.2.2"
	_ = c.SetDraft(id, draft)

	n, err := c.Save(context.Background(), id)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n.Level != LevelInfo || n.Message != "需审批" {
		t.Errorf("notification = %+v, want info with server message", n)
	}

	row, ok := c.Row(id)
	if !ok {
		t.Fatal("row missing")
	}
	if row.State != StateViewing || row.Editing {
		t.Errorf("row should leave edit mode: %+v", row)
	}
	if row.Fields.Content != "1.1.1.1" {
		t.Errorf("content = %q, want last persisted 1.1.1.1", row.Fields.Content)
	}
}

func TestCoordinator_UpdateRejectedStaysEditable(t *testing.T) {
	p := &fakeProvider{
		records:       []dnsdomain.Record{wwwRecord()},
		updateOutcome: dnsdomain.Rejected(errors.New("invalid content")),
	}
	c, notes := newCoordinator(t, p)
	id := dnsdomain.Stable("1")

	_ = c.Edit(id)
	draft, _ := c.Draft(id)
	draft.Content = "2.2.2.2"
	_ = c.SetDraft(id, draft)

	n, err := c.Save(context.Background(), id)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n.Level != LevelError || n.Message != "invalid content" {
		t.Errorf("notification = %+v", n)
	}
	if len(notes.got) != 1 || notes.got[0].Level != LevelError {
		t.Errorf("expected an error notification, got %+v", notes.got)
	}

	row, _ := c.Row(id)
	if row.State != StateEditing || !row.Editing {
		t.Errorf("row should stay editable: %+v", row)
	}
	if row.Origin.Content != "1.1.1.1" {
		t.Errorf("origin = %q, want 1.1.1.1", row.Origin.Content)
	}
	kept, _ := c.Draft(id)
	if kept.Content != "2.2.2.2" {
		t.Errorf("draft lost after rejection: %+v", kept)
	}
}

func TestCoordinator_CreateLifecycle(t *testing.T) {
	created := dnsdomain.Record{ID: "99", Name: "api", Type: dnsdomain.RecordTypeA, Content: "3.3.3.3", TTL: 600}

	tests := []struct {
		name      string
		outcome   dnsdomain.Outcome
		wantLevel Level
		wantRows  []string
		wantState State
	}{
		{
			name:      "applied promotes to stable identity",
			outcome:   dnsdomain.Applied(&created),
			wantLevel: LevelSuccess,
			wantRows:  []string{"99", "1"},
		},
		{
			name:      "pending removes the row",
			outcome:   dnsdomain.PendingApproval("需审批"),
			wantLevel: LevelInfo,
			wantRows:  []string{"1"},
		},
		{
			name:      "rejected keeps the row editable",
			outcome:   dnsdomain.Rejected(errors.New("duplicate")),
			wantLevel: LevelError,
			wantRows:  []string{"tmp-1-1700000000000", "1"},
			wantState: StateEditing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{records: []dnsdomain.Record{wwwRecord()}, createOutcome: tt.outcome}
			c, _ := newCoordinator(t, p)

			id := c.Add()
			if !id.IsTentative() {
				t.Fatalf("expected tentative identity, got %v", id)
			}
			draft, _ := c.Draft(id)
			draft.Name = "api"
			draft.Content = "3.3.3.3"
			_ = c.SetDraft(id, draft)

			n, err := c.Save(context.Background(), id)
			if err != nil {
				t.Fatalf("Save: %v", err)
			}
			if n.Level != tt.wantLevel {
				t.Errorf("level = %v, want %v", n.Level, tt.wantLevel)
			}
			if len(p.creates) != 1 || len(p.updates) != 0 {
				t.Fatalf("expected exactly one create call")
			}

			var got []string
			for _, r := range c.Rows() {
				got = append(got, r.Identity.Value())
			}
			if diff := cmp.Diff(tt.wantRows, got); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
			if tt.wantState == StateEditing && c.State(id) != StateEditing {
				t.Errorf("state = %v, want editing", c.State(id))
			}
		})
	}
}

func TestCoordinator_ValidationBlocksNetwork(t *testing.T) {
	p := &fakeProvider{records: []dnsdomain.Record{wwwRecord()}}
	c, notes := newCoordinator(t, p)

	id := c.Add()
	_, err := c.PrepareSave(id)

	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "name" {
		t.Errorf("field = %q, want name", verr.Field)
	}
	if len(p.creates) != 0 {
		t.Error("validation failure must not reach the provider")
	}
	if len(notes.got) != 0 {
		t.Error("validation failure must not notify")
	}
	if c.State(id) != StateEditing {
		t.Errorf("state = %v, want editing", c.State(id))
	}
}

func TestCoordinator_SecondSaveRefused(t *testing.T) {
	p := &fakeProvider{records: []dnsdomain.Record{wwwRecord()}}
	c, _ := newCoordinator(t, p)
	id := dnsdomain.Stable("1")

	_ = c.Edit(id)
	if _, err := c.PrepareSave(id); err != nil {
		t.Fatalf("first PrepareSave: %v", err)
	}
	if _, err := c.PrepareSave(id); !errors.Is(err, ErrBusy) {
		t.Fatalf("second PrepareSave err = %v, want ErrBusy", err)
	}
	if err := c.SetDraft(id, dnsdomain.RecordOpts{}); !errors.Is(err, ErrBusy) {
		t.Fatalf("SetDraft while saving err = %v, want ErrBusy", err)
	}
	if got := c.State(id); got != StateSaving {
		t.Errorf("state = %v, want saving", got)
	}
}

func TestCoordinator_StaleResultDiscarded(t *testing.T) {
	updated := wwwRecord()
	updated.Content = "9.9.9.9"
	p := &fakeProvider{records: []dnsdomain.Record{wwwRecord()}, updateOutcome: dnsdomain.Applied(&updated)}
	c, notes := newCoordinator(t, p)
	id := dnsdomain.Stable("1")

	_ = c.Edit(id)
	call, err := c.PrepareSave(id)
	if err != nil {
		t.Fatalf("PrepareSave: %v", err)
	}
	res := c.Execute(context.Background(), call)

	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if _, applied := c.Apply(res); applied {
		t.Fatal("stale result should be discarded")
	}
	if len(notes.got) != 0 {
		t.Error("stale result must not notify")
	}
	row, _ := c.Row(id)
	if row.Fields.Content != "1.1.1.1" {
		t.Errorf("stale result leaked into ledger: %+v", row.Fields)
	}
}

func TestCoordinator_DeleteRequiresArming(t *testing.T) {
	p := &fakeProvider{records: []dnsdomain.Record{wwwRecord()}, deleteOutcome: dnsdomain.Applied(nil)}
	c, _ := newCoordinator(t, p)
	id := dnsdomain.Stable("1")

	if _, err := c.ConfirmDelete(id); !errors.Is(err, ErrNotArmed) {
		t.Fatalf("unarmed confirm err = %v, want ErrNotArmed", err)
	}

	if err := c.ArmDelete(id); err != nil {
		t.Fatalf("ArmDelete: %v", err)
	}
	if row, _ := c.Row(id); !row.Armed {
		t.Error("row should report armed")
	}
	c.Blur(id)
	if _, err := c.ConfirmDelete(id); !errors.Is(err, ErrNotArmed) {
		t.Fatalf("confirm after blur err = %v, want ErrNotArmed", err)
	}
	if len(p.deletes) != 0 {
		t.Fatal("no delete call should be issued without confirmation")
	}
}

func TestCoordinator_DeleteOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		outcome   dnsdomain.Outcome
		wantRows  int
		wantLevel Level
	}{
		{"applied removes the row", dnsdomain.Applied(nil), 0, LevelSuccess},
		{"pending keeps the row", dnsdomain.PendingApproval("需审批"), 1, LevelInfo},
		{"rejected keeps the row", dnsdomain.Rejected(errors.New("forbidden")), 1, LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{records: []dnsdomain.Record{wwwRecord()}, deleteOutcome: tt.outcome}
			c, _ := newCoordinator(t, p)
			id := dnsdomain.Stable("1")

			if err := c.ArmDelete(id); err != nil {
				t.Fatalf("ArmDelete: %v", err)
			}
			call, err := c.ConfirmDelete(id)
			if err != nil {
				t.Fatalf("ConfirmDelete: %v", err)
			}
			if c.State(id) != StateDeletePending {
				t.Errorf("state = %v, want deleting", c.State(id))
			}

			n, ok := c.Apply(c.Execute(context.Background(), call))
			if !ok {
				t.Fatal("result unexpectedly stale")
			}
			if n.Level != tt.wantLevel {
				t.Errorf("level = %v, want %v", n.Level, tt.wantLevel)
			}
			rows := c.Rows()
			if len(rows) != tt.wantRows {
				t.Fatalf("rows = %d, want %d", len(rows), tt.wantRows)
			}
			if tt.wantRows == 1 && (rows[0].State != StateViewing || rows[0].Armed) {
				t.Errorf("row should be viewing and disarmed: %+v", rows[0])
			}
		})
	}
}

func TestCoordinator_CancelDiscardsNewRow(t *testing.T) {
	p := &fakeProvider{records: []dnsdomain.Record{wwwRecord()}}
	c, _ := newCoordinator(t, p)

	id := c.Add()
	if len(c.Rows()) != 2 {
		t.Fatalf("expected new row to be listed")
	}
	if err := c.Cancel(id); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(c.Rows()) != 1 {
		t.Fatalf("expected new row to be discarded")
	}
	if err := c.Cancel(id); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("second Cancel err = %v, want ErrNotEditing", err)
	}
}

func TestCoordinator_RowsAreIndependent(t *testing.T) {
	mail := dnsdomain.Record{ID: "2", Name: "mail", Type: dnsdomain.RecordTypeA, Content: "4.4.4.4", TTL: 600}
	p := &fakeProvider{records: []dnsdomain.Record{wwwRecord(), mail}}
	c, _ := newCoordinator(t, p)

	_ = c.Edit(dnsdomain.Stable("1"))
	_ = c.Edit(dnsdomain.Stable("2"))
	if _, err := c.PrepareSave(dnsdomain.Stable("1")); err != nil {
		t.Fatalf("PrepareSave: %v", err)
	}

	want := map[string]State{"1": StateSaving, "2": StateEditing}
	for _, r := range c.Rows() {
		if r.State != want[r.Identity.Value()] {
			t.Errorf("row %s state = %v, want %v", r.Identity, r.State, want[r.Identity.Value()])
		}
	}
}

func TestCoordinator_Find(t *testing.T) {
	p := &fakeProvider{records: []dnsdomain.Record{wwwRecord()}}
	c, _ := newCoordinator(t, p)

	for _, ref := range []string{"1", "www", "www/A"} {
		id, ok := c.Find(ref)
		if !ok || id != dnsdomain.Stable("1") {
			t.Errorf("Find(%q) = %v, %v", ref, id, ok)
		}
	}
	if _, ok := c.Find("nope"); ok {
		t.Error("Find should miss unknown refs")
	}
}

func TestNotificationFor_PendingWithWarning(t *testing.T) {
	call := Call{Identity: dnsdomain.Stable("1"), Kind: CallUpdate}

	n := notificationFor(call, dnsdomain.PendingApproval("queued"))
	if n.Level != LevelInfo || n.Message != "queued" || n.Err != nil {
		t.Errorf("plain pending = %+v", n)
	}

	lost := errors.New("not journalled")
	out := dnsdomain.PendingApproval("queued")
	out.Warning = lost
	n = notificationFor(call, out)
	if n.Level != LevelError || !errors.Is(n.Err, lost) {
		t.Errorf("pending with warning = %+v", n)
	}
	if n.Message != "queued (not journalled)" {
		t.Errorf("Message = %q", n.Message)
	}
}
