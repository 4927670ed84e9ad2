// Package database opens the local SQLite file shared by the audit log
// and the deferral journal, and applies their schema migrations.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

var pathOverride string

// SetPath points DefaultPath at p. Tests use it to isolate the database.
func SetPath(p string) { pathOverride = p }

// ResetPath undoes SetPath.
func ResetPath() { pathOverride = "" }

// DefaultPath is d0ctl/d0ctl.db under the user config directory.
func DefaultPath() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("database: no config directory: %w", err)
	}
	return filepath.Join(base, "d0ctl", "d0ctl.db"), nil
}

// Open opens (creating if needed) the database at path. The audit hook
// and a running command may hold the file at once, so writers wait for
// the lock instead of failing with SQLITE_BUSY.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: open %s: %w", path, err)
	}
	return db, nil
}

// Migration is one forward-only schema step of a component.
type Migration struct {
	Version int
	SQL     string
}

// Migrate applies the steps of component newer than its recorded version,
// each in its own transaction. Versions must be strictly increasing.
func Migrate(db *sql.DB, component string, steps []Migration) error {
	const ddl = `CREATE TABLE IF NOT EXISTS schema_versions (
		component TEXT PRIMARY KEY,
		version   INTEGER NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	current, err := Version(db, component)
	if err != nil {
		return err
	}
	prev := 0
	for _, step := range steps {
		if step.Version <= prev {
			return fmt.Errorf("database: %s migration %d is out of order", component, step.Version)
		}
		prev = step.Version
		if step.Version <= current {
			continue
		}
		if err := apply(db, component, step); err != nil {
			return fmt.Errorf("database: %s migration %d: %w", component, step.Version, err)
		}
	}
	return nil
}

// Version is the schema version recorded for component, zero if none.
func Version(db *sql.DB, component string) (int, error) {
	var v int
	err := db.QueryRow(`SELECT version FROM schema_versions WHERE component = ?`, component).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("database: %w", err)
	}
	return v, nil
}

func apply(db *sql.DB, component string, step Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(step.SQL); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO schema_versions (component, version) VALUES (?, ?)
		ON CONFLICT(component) DO UPDATE SET version = excluded.version`, component, step.Version); err != nil {
		return err
	}
	return tx.Commit()
}

// Timestamp is the column encoding of t. It sorts lexically in time order.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
}

// ParseTimestamp decodes a Timestamp column. Unparseable values yield the
// zero time.
func ParseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
