package auditlog

import "time"

// RecordBestEffort opens the default repository and saves entry, stamping
// its duration from start. Failures are discarded: auditing never fails
// the command it describes.
func RecordBestEffort(entry *AuditEntry, start time.Time) {
	repo, err := Open()
	if err != nil {
		return
	}
	defer repo.Close()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = start.UTC()
	}
	entry.DurationMs = time.Since(start).Milliseconds()
	_ = repo.Save(entry)
}
