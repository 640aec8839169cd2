package database

import (
	"fmt"
)

// RawLogRepo handles the append-only raw fetch log
type RawLogRepo struct {
	db dbtx
}

func NewRawLogRepo(db dbtx) *RawLogRepo {
	return &RawLogRepo{db: db}
}

// Append bulk-inserts raw fetch log entries and returns the count.
func (r *RawLogRepo) Append(entries []RawLogEntry) (int, error) {
	for _, entry := range entries {
		_, err := r.db.Exec(`
			INSERT INTO notice_raw_logs (url, status, html, error)
			VALUES (?, ?, ?, ?)
		`, entry.URL, entry.Status, nullString(entry.HTML), nullString(entry.Error))
		if err != nil {
			return 0, fmt.Errorf("failed to append raw log entry: %w", err)
		}
	}
	return len(entries), nil
}

// GetLogCount returns the total number of raw log entries
func (r *RawLogRepo) GetLogCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM notice_raw_logs").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get raw log count: %w", err)
	}
	return count, nil
}
