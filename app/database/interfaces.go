package database

type NoticeRepository interface {
	Upsert(notice Notice) (UpsertResult, error)
	GetByURL(url string) (*Notice, error)
	GetRecent(limit int) ([]Notice, error)
	GetNoticeCount() (int, error)
}

type RawLogRepository interface {
	Append(entries []RawLogEntry) (int, error)
	GetLogCount() (int, error)
}

// Session is one crawl run's storage transaction: every upsert and the
// raw-log batch commit together at the end of the run.
type Session interface {
	Notices() NoticeRepository
	RawLogs() RawLogRepository
	Commit() error
	Close() error
}

// SessionFactory opens an independent storage session per seed run.
type SessionFactory interface {
	BeginSession() (Session, error)
}
