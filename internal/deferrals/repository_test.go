package deferrals

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func tempRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	r, err := OpenAt(filepath.Join(t.TempDir(), "d0ctl.db"))
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSave_AssignsIDAndTimestamp(t *testing.T) {
	r := tempRepo(t)

	entry := &Entry{DomainID: 3, Kind: KindRecord, Action: "create", Resource: "www", Message: "需审批"}
	entry.SetPayload(map[string]string{"name": "www"})

	if err := r.Save(entry); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if entry.ID == 0 || entry.CreatedAt.IsZero() {
		t.Fatalf("Save did not fill ID/CreatedAt: %+v", entry)
	}
	if entry.Payload != `{"name":"www"}` {
		t.Errorf("payload = %q", entry.Payload)
	}

	got, err := r.Find(Query{})
	if err != nil || len(got) != 1 {
		t.Fatalf("Find = %v, %v", got, err)
	}
	if got[0].Message != "需审批" || got[0].Resource != "www" {
		t.Errorf("round trip lost fields: %+v", got[0])
	}
}

func TestFind(t *testing.T) {
	r := tempRepo(t)
	now := time.Now()
	for i, e := range []Entry{
		{DomainID: 1, Kind: KindRecord, Action: "create"},
		{DomainID: 2, Kind: KindAccess, Action: "grant"},
		{DomainID: 1, Kind: KindRecord, Action: "delete"},
		{DomainID: 1, Kind: KindDomain, Action: "update"},
	} {
		e.CreatedAt = now.Add(time.Duration(i) * time.Second)
		if err := r.Save(&e); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"all newest first", Query{}, []string{"update", "delete", "grant", "create"}},
		{"limit", Query{Limit: 2}, []string{"update", "delete"}},
		{"domain", Query{DomainID: 1}, []string{"update", "delete", "create"}},
		{"domain and kind", Query{DomainID: 1, Kind: KindRecord}, []string{"delete", "create"}},
		{"no match", Query{DomainID: 9}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := r.Find(tt.query)
			if err != nil {
				t.Fatalf("Find: %v", err)
			}
			var got []string
			for _, e := range entries {
				got = append(got, e.Action)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestPrune(t *testing.T) {
	r := tempRepo(t)
	for _, age := range []time.Duration{48 * time.Hour, time.Hour} {
		if err := r.Save(&Entry{DomainID: 1, Kind: KindRecord, CreatedAt: time.Now().Add(-age)}); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := r.Prune(24 * time.Hour)
	if err != nil || removed != 1 {
		t.Fatalf("Prune = %d, %v; want 1", removed, err)
	}
}

func TestRecord(t *testing.T) {
	if err := Record(nil, &Entry{Kind: KindRecord, Action: "create"}); err != nil {
		t.Errorf("nil journal: %v", err)
	}

	repo := tempRepo(t)
	if err := Record(repo, &Entry{DomainID: 3, Kind: KindRecord, Action: "create", Message: "queued"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got, _ := repo.Find(Query{}); len(got) != 1 {
		t.Errorf("journal holds %d entries, want 1", len(got))
	}

	locked := errors.New("database is locked")
	err := Record(Unavailable{Err: locked}, &Entry{Kind: KindAccess, Action: "grant"})
	if !errors.Is(err, locked) {
		t.Fatalf("err = %v, want it to wrap %v", err, locked)
	}
	if want := "deferred access grant was not journalled"; !strings.Contains(err.Error(), want) {
		t.Errorf("err = %q, want it to mention %q", err, want)
	}
}
