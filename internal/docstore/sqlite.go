package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultPollInterval is how often SQLite subscriptions check for changes.
const DefaultPollInterval = 500 * time.Millisecond

// SQLite stores documents as JSON rows in a local database file. Subscriptions
// poll a per-collection version counter that every write bumps in the same
// transaction, so writers in other processes are observed too.
type SQLite struct {
	db       *sql.DB
	path     string
	interval time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string, pollInterval time.Duration) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	s := &SQLite{db: db, path: path, interval: pollInterval}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

func (s *SQLite) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		key TEXT NOT NULL,
		body TEXT NOT NULL,
		PRIMARY KEY (collection, key)
	);

	CREATE TABLE IF NOT EXISTS collection_versions (
		collection TEXT PRIMARY KEY,
		version INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLite) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *SQLite) Get(ctx context.Context, collection, key string) (Document, error) {
	if key == "" {
		return Document{}, ErrEmptyKey
	}
	if s.isClosed() {
		return Document{}, ErrClosed
	}
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND key = ?`,
		collection, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	fields, err := decodeBody([]byte(body))
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	return Document{Key: key, Fields: fields}, nil
}

func (s *SQLite) Set(ctx context.Context, collection, key string, fields map[string]any) error {
	if key == "" {
		return ErrEmptyKey
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, key, err)
	}
	return s.write(ctx, collection, func(tx *sql.Tx) (bool, error) {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO documents (collection, key, body) VALUES (?, ?, ?)
			 ON CONFLICT (collection, key) DO UPDATE SET body = excluded.body`,
			collection, key, string(body))
		return true, err
	})
}

// Delete removes key. Deleting a missing key succeeds.
func (s *SQLite) Delete(ctx context.Context, collection, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.write(ctx, collection, func(tx *sql.Tx) (bool, error) {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM documents WHERE collection = ? AND key = ?`, collection, key)
		if err != nil {
			return false, err
		}
		n, err := res.RowsAffected()
		return n > 0, err
	})
}

func (s *SQLite) write(ctx context.Context, collection string, fn func(*sql.Tx) (bool, error)) error {
	if s.isClosed() {
		return ErrClosed
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	changed, err := fn(tx)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("write %s: %w", collection, err)
	}
	if changed {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO collection_versions (collection, version) VALUES (?, 1)
			 ON CONFLICT (collection) DO UPDATE SET version = version + 1`,
			collection); err != nil {
			tx.Rollback()
			return fmt.Errorf("bump version %s: %w", collection, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", collection, err)
	}
	return nil
}

func (s *SQLite) Subscribe(ctx context.Context, collection string) (<-chan Update, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.wg.Add(1)
	s.mu.Unlock()

	out := make(chan Update, 1)
	go s.poll(ctx, collection, out)
	return out, nil
}

func (s *SQLite) poll(ctx context.Context, collection string, out chan Update) {
	defer s.wg.Done()
	defer close(out)

	limiter := newThrottle(s.interval / 2)
	last := int64(-1)

	emit := func() bool {
		if !limiter.wait(ctx) {
			return false
		}
		version, err := s.version(ctx, collection)
		if err == nil && version == last {
			return true
		}
		var snap Snapshot
		if err == nil {
			snap, err = s.snapshot(ctx, collection)
		}
		if ctx.Err() != nil || s.isClosed() {
			return false
		}
		if err != nil {
			return deliver(ctx, out, Update{Err: err})
		}
		last = version
		return deliver(ctx, out, Update{Snapshot: snap})
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.isClosed() || !emit() {
				return
			}
		}
	}
}

func (s *SQLite) version(ctx context.Context, collection string) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx,
		`SELECT version FROM collection_versions WHERE collection = ?`, collection).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read version %s: %w", collection, err)
	}
	return version, nil
}

func (s *SQLite) snapshot(ctx context.Context, collection string) (Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, body FROM documents WHERE collection = ? ORDER BY rowid`, collection)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	snap := Snapshot{Collection: collection, ReadAt: time.Now()}
	for rows.Next() {
		var key, body string
		if err := rows.Scan(&key, &body); err != nil {
			return Snapshot{}, fmt.Errorf("scan %s: %w", collection, err)
		}
		fields, err := decodeBody([]byte(body))
		if err != nil {
			return Snapshot{}, fmt.Errorf("decode %s/%s: %w", collection, key, err)
		}
		snap.Documents = append(snap.Documents, Document{Key: key, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("list %s: %w", collection, err)
	}
	return snap, nil
}

// Close stops every poller and closes the database.
func (s *SQLite) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
	return s.db.Close()
}

func decodeBody(body []byte) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
