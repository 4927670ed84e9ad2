// Package deferrals keeps a local journal of mutations that the API
// deferred for approval. It lives in the shared d0ctl database next to
// the audit log.
package deferrals

import (
	"database/sql"
	"fmt"
	"time"

	"domain0/d0ctl/internal/database"
)

// Journal records deferred mutations.
type Journal interface {
	Save(entry *Entry) error
}

// Record saves entry to j and wraps a failure with what was lost. A nil
// journal records nothing.
func Record(j Journal, entry *Entry) error {
	if j == nil {
		return nil
	}
	if err := j.Save(entry); err != nil {
		return fmt.Errorf("deferred %s %s was not journalled: %w", entry.Kind, entry.Action, err)
	}
	return nil
}

// Unavailable is a Journal whose every Save fails with Err. It stands in
// for a journal that could not be opened.
type Unavailable struct{ Err error }

func (u Unavailable) Save(*Entry) error { return u.Err }

// Query selects journal entries. Zero fields match everything.
type Query struct {
	DomainID int64
	Kind     Kind
	Limit    int
}

var migrations = []database.Migration{
	{Version: 1, SQL: `
		CREATE TABLE IF NOT EXISTS deferrals (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			domain_id  INTEGER NOT NULL,
			kind       TEXT    NOT NULL,
			action     TEXT    NOT NULL DEFAULT '',
			resource   TEXT    NOT NULL DEFAULT '',
			payload    TEXT    NOT NULL DEFAULT '',
			message    TEXT    NOT NULL DEFAULT '',
			created_at TEXT    NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_deferrals_domain ON deferrals(domain_id, created_at);`},
}

// SQLiteRepository is the journal in the shared d0ctl database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open opens the journal in the default database.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("deferrals: %w", err)
	}
	return OpenAt(path)
}

// OpenAt opens the journal in the database at path, migrating it.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("deferrals: %w", err)
	}
	if err := database.Migrate(db, "deferrals", migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("deferrals: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Save inserts entry, assigning its ID and, if unset, its CreatedAt.
func (r *SQLiteRepository) Save(entry *Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	res, err := r.db.Exec(`INSERT INTO deferrals
		(domain_id, kind, action, resource, payload, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.DomainID, string(entry.Kind), entry.Action, entry.Resource, entry.Payload, entry.Message,
		database.Timestamp(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("deferrals: save: %w", err)
	}
	if entry.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("deferrals: save: %w", err)
	}
	return nil
}

// Find returns the entries matching q, newest first.
func (r *SQLiteRepository) Find(q Query) ([]Entry, error) {
	query, args := database.From("deferrals",
		"id", "domain_id", "kind", "action", "resource", "payload", "message", "created_at").
		Where("domain_id = ?", q.DomainID).
		Where("kind = ?", string(q.Kind)).
		OrderBy("created_at DESC, id DESC").
		Limit(q.Limit).
		Build()

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("deferrals: find: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			kind, ts string
		)
		if err := rows.Scan(&e.ID, &e.DomainID, &kind, &e.Action, &e.Resource, &e.Payload, &e.Message, &ts); err != nil {
			return nil, fmt.Errorf("deferrals: find: %w", err)
		}
		e.Kind = Kind(kind)
		e.CreatedAt = database.ParseTimestamp(ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes entries older than olderThan and reports how many.
func (r *SQLiteRepository) Prune(olderThan time.Duration) (int64, error) {
	cutoff := database.Timestamp(time.Now().Add(-olderThan))
	res, err := r.db.Exec(`DELETE FROM deferrals WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deferrals: prune: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
