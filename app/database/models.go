package database

import (
	"time"
)

// Notice is the persisted unit: one crawled notice keyed by its URL.
// URLKey is carried for lookup/debugging; conflict resolution in the
// upsert is keyed on the raw URL.
type Notice struct {
	ID        int64      `json:"id"`
	URL       string     `json:"url"`
	URLKey    string     `json:"url_key"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Category  string     `json:"category,omitempty"`
	PostedAt  *time.Time `json:"posted_at"`
	Checksum  string     `json:"checksum"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RawLogEntry records one fetch/parse attempt, independent of whether
// the notice was persisted.
type RawLogEntry struct {
	URL    string
	Status string // "ok" or "error"
	HTML   string
	Error  string
}

// UpsertResult distinguishes a fresh insert from an overwrite, and an
// overwrite that changed content from an idempotent no-op.
type UpsertResult int

const (
	UpsertInserted UpsertResult = iota
	UpsertChanged
	UpsertUnchanged
)

func (r UpsertResult) String() string {
	switch r {
	case UpsertInserted:
		return "inserted"
	case UpsertChanged:
		return "changed"
	case UpsertUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}
