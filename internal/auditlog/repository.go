package auditlog

import (
	"database/sql"
	"fmt"
	"time"

	"domain0/d0ctl/internal/database"
)

// Repository stores audit entries.
type Repository interface {
	Save(entry *AuditEntry) error
	Find(f Filter) ([]AuditEntry, error)
	Prune(olderThan time.Duration) (int64, error)
	Close() error
}

var migrations = []database.Migration{
	{Version: 1, SQL: `
		CREATE TABLE IF NOT EXISTS audit_log (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     TEXT    NOT NULL,
			command       TEXT    NOT NULL,
			args          TEXT    NOT NULL DEFAULT '',
			endpoint      TEXT    NOT NULL DEFAULT '',
			domain        TEXT    NOT NULL DEFAULT '',
			resource_type TEXT    NOT NULL DEFAULT '',
			resource_id   TEXT    NOT NULL DEFAULT '',
			resource_name TEXT    NOT NULL DEFAULT '',
			outcome       TEXT    NOT NULL DEFAULT '',
			detail        TEXT    NOT NULL DEFAULT '',
			duration_ms   INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp);
		CREATE INDEX IF NOT EXISTS idx_audit_log_domain ON audit_log(domain);`},
	{Version: 2, SQL: `
		ALTER TABLE audit_log ADD COLUMN user_name TEXT NOT NULL DEFAULT '';
		CREATE INDEX IF NOT EXISTS idx_audit_log_outcome ON audit_log(outcome, timestamp);`},
}

var columns = []string{
	"id", "timestamp", "command", "args", "endpoint", "user_name", "domain",
	"resource_type", "resource_id", "resource_name", "outcome", "detail", "duration_ms",
}

// SQLiteRepository is the Repository in the shared d0ctl database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open opens the audit log in the default database.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	return OpenAt(path)
}

// OpenAt opens the audit log in the database at path, migrating it.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	if err := database.Migrate(db, "audit_log", migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Save inserts entry, assigning its ID and, if unset, its timestamp.
func (r *SQLiteRepository) Save(entry *AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	res, err := r.db.Exec(`INSERT INTO audit_log
		(timestamp, command, args, endpoint, user_name, domain, resource_type, resource_id, resource_name, outcome, detail, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		database.Timestamp(entry.Timestamp), entry.Command, entry.Args, entry.Endpoint, entry.User, entry.Domain,
		entry.ResourceType, entry.ResourceID, entry.ResourceName, entry.Outcome, entry.Detail, entry.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("auditlog: save: %w", err)
	}
	if entry.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("auditlog: save: %w", err)
	}
	return nil
}

// Find returns the entries matching f, newest first.
func (r *SQLiteRepository) Find(f Filter) ([]AuditEntry, error) {
	q := database.From("audit_log", columns...).
		Where("command = ?", f.Command).
		Where("domain = ?", f.Domain).
		Where("outcome = ?", f.Outcome).
		Where("user_name = ?", f.User).
		OrderBy("timestamp DESC, id DESC").
		Limit(f.Limit)
	if !f.Since.IsZero() {
		q.Where("timestamp >= ?", database.Timestamp(f.Since))
	}

	query, args := q.Build()
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("auditlog: find: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var (
			e  AuditEntry
			ts string
		)
		if err := rows.Scan(&e.ID, &ts, &e.Command, &e.Args, &e.Endpoint, &e.User, &e.Domain,
			&e.ResourceType, &e.ResourceID, &e.ResourceName, &e.Outcome, &e.Detail, &e.DurationMs); err != nil {
			return nil, fmt.Errorf("auditlog: find: %w", err)
		}
		e.Timestamp = database.ParseTimestamp(ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes entries older than olderThan and reports how many.
func (r *SQLiteRepository) Prune(olderThan time.Duration) (int64, error) {
	cutoff := database.Timestamp(time.Now().Add(-olderThan))
	res, err := r.db.Exec(`DELETE FROM audit_log WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("auditlog: prune: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
