package results

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithRetry sets the policy for writes that hit a locked database.
// Default: DefaultRetry.
func WithRetry(p RetryPolicy) SQLiteOption {
	return func(s *SQLiteStore) {
		s.retry = p
	}
}

// SQLiteStore persists results to a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
	retry  RetryPolicy
}

// NewSQLiteStore opens (creating if needed) the database at path.
// Use ":memory:" for a throwaway database.
func NewSQLiteStore(path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS histograms (
			run_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			bucket TEXT NOT NULL,
			entries INTEGER NOT NULL,
			saved_at TEXT NOT NULL,
			data BLOB NOT NULL,
			PRIMARY KEY (run_id, kind, bucket)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	s := &SQLiteStore{db: db, retry: DefaultRetry}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(runID string, rec Record) error {
	if err := validate(runID, rec); err != nil {
		return err
	}
	data, err := encode(rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	savedAt := time.Now().UTC().Format(time.RFC3339Nano)
	attempts, err := retryOnBusy(s.retry, func() error {
		_, err := s.db.Exec(`
			INSERT INTO histograms (run_id, kind, bucket, entries, saved_at, data)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_id, kind, bucket) DO UPDATE SET
				entries = excluded.entries,
				saved_at = excluded.saved_at,
				data = excluded.data
		`, runID, rec.Kind, rec.Bucket, rec.Histogram.Entries, savedAt, data)
		return err
	})
	if err != nil {
		return fmt.Errorf("save result (%d attempts): %w", attempts, err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(runID, kind, bucket string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Record{}, ErrStoreClosed
	}

	var data []byte
	err := s.db.QueryRow(`
		SELECT data FROM histograms
		WHERE run_id = ? AND kind = ? AND bucket = ?
	`, runID, kind, bucket).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("load result: %w", err)
	}
	return decode(data)
}

// List implements Store.
func (s *SQLiteStore) List(runID string) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT kind, bucket, entries, saved_at, LENGTH(data)
		FROM histograms
		WHERE run_id = ?
		ORDER BY kind, bucket
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	infos := []Info{}
	for rows.Next() {
		info := Info{RunID: runID}
		var savedAt string
		if err := rows.Scan(&info.Kind, &info.Bucket, &info.Entries, &savedAt, &info.Size); err != nil {
			return nil, fmt.Errorf("scan result info: %w", err)
		}
		info.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return infos, nil
}

// Runs implements Store.
func (s *SQLiteStore) Runs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`SELECT DISTINCT run_id FROM histograms ORDER BY run_id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return ids, nil
}

// DeleteRun implements Store.
func (s *SQLiteStore) DeleteRun(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := retryOnBusy(s.retry, func() error {
		_, err := s.db.Exec(`DELETE FROM histograms WHERE run_id = ?`, runID)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete run results: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
