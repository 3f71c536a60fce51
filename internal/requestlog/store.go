package requestlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages the transcribe log backed by SQLite.
type Store struct {
	db            *sql.DB
	path          string
	maxFieldChars int
}

// Open initializes or connects to the log database and ensures the schema
// exists. maxFieldChars bounds stored response/error text.
func Open(path string, maxFieldChars int) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, maxFieldChars: maxFieldChars}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Insert appends one entry. Free-text fields are truncated to the configured
// cap before persisting.
func (s *Store) Insert(ctx context.Context, entry Entry) (int64, error) {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO transcribe_log (
            created_at, client_host, user_agent, filename, content_type,
            size_bytes, status, ok, duration_ms, response_json, error_detail
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		createdAt.UTC().Format(time.RFC3339Nano),
		entry.ClientHost,
		entry.UserAgent,
		entry.Filename,
		entry.ContentType,
		entry.SizeBytes,
		entry.Status,
		boolToInt(entry.OK),
		entry.DurationMS,
		Truncate(entry.ResponseJSON, s.maxFieldChars),
		Truncate(entry.ErrorDetail, s.maxFieldChars),
	)
	if err != nil {
		return 0, fmt.Errorf("insert log entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit entries, newest first. The limit is clamped to
// [1, 100].
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	limit = clampLimit(limit)

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, created_at, client_host, user_agent, filename, content_type,
                size_bytes, status, ok, duration_ms, response_json, error_detail
         FROM transcribe_log ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Count returns the total number of persisted entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM transcribe_log`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count log entries: %w", err)
	}
	return count, nil
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry       Entry
		createdRaw  string
		clientHost  sql.NullString
		userAgent   sql.NullString
		filename    sql.NullString
		contentType sql.NullString
		ok          int
		response    sql.NullString
		errDetail   sql.NullString
	)
	if err := scanner.Scan(
		&entry.ID,
		&createdRaw,
		&clientHost,
		&userAgent,
		&filename,
		&contentType,
		&entry.SizeBytes,
		&entry.Status,
		&ok,
		&entry.DurationMS,
		&response,
		&errDetail,
	); err != nil {
		return Entry{}, fmt.Errorf("scan log entry: %w", err)
	}

	entry.ClientHost = clientHost.String
	entry.UserAgent = userAgent.String
	entry.Filename = filename.String
	entry.ContentType = contentType.String
	entry.OK = ok != 0
	entry.ResponseJSON = response.String
	entry.ErrorDetail = errDetail.String
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		entry.CreatedAt = created
	}
	return entry, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
