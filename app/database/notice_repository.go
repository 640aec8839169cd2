package database

import (
	"database/sql"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"
const timestampLayout = "2006-01-02 15:04:05"

// dbtx is satisfied by both *sql.DB and *sql.Tx, so the same
// repository serves direct reads and per-run transactional sessions.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// NoticeRepo handles database operations for notices
type NoticeRepo struct {
	db dbtx
}

func NewNoticeRepo(db dbtx) *NoticeRepo {
	return &NoticeRepo{db: db}
}

// Upsert inserts or updates a notice, keyed on its URL. Title, body
// and checksum are always overwritten; category and posted_at only
// when the incoming value is non-empty; updated_at is refreshed on
// every call. The result reports whether the row was inserted, changed
// content, or was an idempotent overwrite.
func (r *NoticeRepo) Upsert(notice Notice) (UpsertResult, error) {
	var id int64
	var storedChecksum string
	err := r.db.QueryRow(`
		SELECT id, checksum FROM notices WHERE url = ?
	`, notice.URL).Scan(&id, &storedChecksum)

	if err == sql.ErrNoRows {
		_, err = r.db.Exec(`
			INSERT INTO notices (url, url_key, title, body, category, posted_at, checksum)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, notice.URL, notice.URLKey, notice.Title, notice.Body,
			nullString(notice.Category), nullDate(notice.PostedAt), notice.Checksum)
		if err != nil {
			return 0, fmt.Errorf("failed to insert notice: %w", err)
		}
		return UpsertInserted, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to check existing notice: %w", err)
	}

	_, err = r.db.Exec(`
		UPDATE notices
		SET title = ?, body = ?,
		    category = COALESCE(?, category),
		    posted_at = COALESCE(?, posted_at),
		    checksum = ?, updated_at = datetime('now')
		WHERE id = ?
	`, notice.Title, notice.Body,
		nullString(notice.Category), nullDate(notice.PostedAt),
		notice.Checksum, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update notice: %w", err)
	}

	if storedChecksum == notice.Checksum {
		return UpsertUnchanged, nil
	}
	return UpsertChanged, nil
}

// GetByURL retrieves a notice by its raw URL
func (r *NoticeRepo) GetByURL(url string) (*Notice, error) {
	row := r.db.QueryRow(`
		SELECT id, url, url_key, title, body, COALESCE(category, ''),
		       posted_at, checksum, created_at, updated_at
		FROM notices
		WHERE url = ?
	`, url)

	notice, err := scanNotice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notice by URL: %w", err)
	}
	return notice, nil
}

// GetRecent returns the most recent notices, newest posted first;
// notices without a posted date sort last, by insertion order.
func (r *NoticeRepo) GetRecent(limit int) ([]Notice, error) {
	rows, err := r.db.Query(`
		SELECT id, url, url_key, title, body, COALESCE(category, ''),
		       posted_at, checksum, created_at, updated_at
		FROM notices
		ORDER BY posted_at IS NULL, posted_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent notices: %w", err)
	}
	defer rows.Close()

	var notices []Notice
	for rows.Next() {
		notice, err := scanNotice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notice row: %w", err)
		}
		notices = append(notices, *notice)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notice rows: %w", err)
	}

	return notices, nil
}

// GetNoticeCount returns the total number of stored notices
func (r *NoticeRepo) GetNoticeCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM notices").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get notice count: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotice(row rowScanner) (*Notice, error) {
	var notice Notice
	var postedAt, createdAt, updatedAt sql.NullString

	err := row.Scan(
		&notice.ID, &notice.URL, &notice.URLKey, &notice.Title, &notice.Body,
		&notice.Category, &postedAt, &notice.Checksum, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	notice.PostedAt = parseDate(postedAt)
	if t := parseTimestamp(createdAt); t != nil {
		notice.CreatedAt = *t
	}
	if t := parseTimestamp(updatedAt); t != nil {
		notice.UpdatedAt = *t
	}
	return &notice, nil
}

func parseDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func parseTimestamp(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(timestampLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}
