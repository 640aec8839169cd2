package database

import (
	"fmt"
)

var _ SessionFactory = (*DB)(nil)

type session struct {
	tx       txHandle
	notices  *NoticeRepo
	rawLogs  *RawLogRepo
	finished bool
}

type txHandle interface {
	dbtx
	Commit() error
	Rollback() error
}

// BeginSession opens a transaction-backed session for one crawl run.
// Close rolls back unless Commit was called, so callers can defer it
// unconditionally.
func (db *DB) BeginSession() (Session, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin session: %w", err)
	}
	return &session{
		tx:      tx,
		notices: NewNoticeRepo(tx),
		rawLogs: NewRawLogRepo(tx),
	}, nil
}

func (s *session) Notices() NoticeRepository {
	return s.notices
}

func (s *session) RawLogs() RawLogRepository {
	return s.rawLogs
}

func (s *session) Commit() error {
	s.finished = true
	return s.tx.Commit()
}

func (s *session) Close() error {
	if s.finished {
		return nil
	}
	s.finished = true
	return s.tx.Rollback()
}
