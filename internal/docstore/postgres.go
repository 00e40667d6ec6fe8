package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotifyChannel is the LISTEN/NOTIFY channel writers signal on. The payload
// is the collection name.
const NotifyChannel = "docstore_changes"

const postgresSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id BIGSERIAL,
	collection TEXT NOT NULL,
	key TEXT NOT NULL,
	body JSONB NOT NULL,
	PRIMARY KEY (collection, key)
)`

// pgxQuerier is the subset of *pgxpool.Pool the store needs.
type pgxQuerier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// notificationSource is a connection dedicated to one LISTEN.
type notificationSource interface {
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Release()
}

type listenFunc func(ctx context.Context, channel string) (notificationSource, error)

// Postgres stores documents as JSONB rows and pushes changes with
// LISTEN/NOTIFY. Snapshots iterate in first-insertion order.
type Postgres struct {
	db     pgxQuerier
	listen listenFunc
	close  func()

	base   context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// OpenPostgres connects to dsn and ensures the documents table exists.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed parsing db config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed creating db pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	p := newPostgres(pool, poolListener(pool))
	p.close = pool.Close
	return p, nil
}

func newPostgres(db pgxQuerier, listen listenFunc) *Postgres {
	base, cancel := context.WithCancel(context.Background())
	return &Postgres{db: db, listen: listen, base: base, cancel: cancel}
}

type pooledListener struct {
	conn *pgxpool.Conn
}

func (l pooledListener) WaitForNotification(ctx context.Context) (*pgconn.Notification, error) {
	return l.conn.Conn().WaitForNotification(ctx)
}

func (l pooledListener) Release() {
	l.conn.Release()
}

func poolListener(pool *pgxpool.Pool) listenFunc {
	return func(ctx context.Context, channel string) (notificationSource, error) {
		conn, err := pool.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquire listener: %w", err)
		}
		if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
			conn.Release()
			return nil, fmt.Errorf("listen %s: %w", channel, err)
		}
		return pooledListener{conn: conn}, nil
	}
}

func (p *Postgres) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Postgres) Get(ctx context.Context, collection, key string) (Document, error) {
	if key == "" {
		return Document{}, ErrEmptyKey
	}
	if p.isClosed() {
		return Document{}, ErrClosed
	}
	var body []byte
	err := p.db.QueryRow(ctx,
		`SELECT body FROM documents WHERE collection = $1 AND key = $2`,
		collection, key).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	fields, err := decodeBody(body)
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	return Document{Key: key, Fields: fields}, nil
}

func (p *Postgres) Set(ctx context.Context, collection, key string, fields map[string]any) error {
	if key == "" {
		return ErrEmptyKey
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, key, err)
	}
	return p.write(ctx, collection, func(tx pgx.Tx) (bool, error) {
		_, err := tx.Exec(ctx,
			`INSERT INTO documents (collection, key, body) VALUES ($1, $2, $3)
			 ON CONFLICT (collection, key) DO UPDATE SET body = EXCLUDED.body`,
			collection, key, body)
		return true, err
	})
}

// Delete removes key. Deleting a missing key succeeds.
func (p *Postgres) Delete(ctx context.Context, collection, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return p.write(ctx, collection, func(tx pgx.Tx) (bool, error) {
		tag, err := tx.Exec(ctx,
			`DELETE FROM documents WHERE collection = $1 AND key = $2`, collection, key)
		if err != nil {
			return false, err
		}
		return tag.RowsAffected() > 0, nil
	})
}

func (p *Postgres) write(ctx context.Context, collection string, fn func(pgx.Tx) (bool, error)) error {
	if p.isClosed() {
		return ErrClosed
	}
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	changed, err := fn(tx)
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("write %s: %w", collection, err)
	}
	if changed {
		// delivered to listeners when the transaction commits
		if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, NotifyChannel, collection); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("notify %s: %w", collection, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (p *Postgres) Subscribe(ctx context.Context, collection string) (<-chan Update, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	p.wg.Add(1)
	p.mu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(p.base, cancel)

	src, err := p.listen(subCtx, NotifyChannel)
	if err != nil {
		stop()
		cancel()
		p.wg.Done()
		return nil, err
	}

	out := make(chan Update, 1)
	go func() {
		defer p.wg.Done()
		defer close(out)
		defer cancel()
		defer stop()
		defer src.Release()
		p.follow(subCtx, collection, src, out)
	}()
	return out, nil
}

func (p *Postgres) follow(ctx context.Context, collection string, src notificationSource, out chan Update) {
	emit := func() bool {
		snap, err := p.snapshot(ctx, collection)
		if ctx.Err() != nil {
			return false
		}
		if err != nil {
			return deliver(ctx, out, Update{Err: err})
		}
		return deliver(ctx, out, Update{Snapshot: snap})
	}

	if !emit() {
		return
	}
	for {
		n, err := src.WaitForNotification(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			// the listener connection is gone; report once and end
			deliver(ctx, out, Update{Err: fmt.Errorf("wait for notification: %w", err)})
			return
		}
		if n.Payload != collection {
			continue
		}
		if !emit() {
			return
		}
	}
}

func (p *Postgres) snapshot(ctx context.Context, collection string) (Snapshot, error) {
	rows, err := p.db.Query(ctx,
		`SELECT key, body FROM documents WHERE collection = $1 ORDER BY id`, collection)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	snap := Snapshot{Collection: collection, ReadAt: time.Now()}
	for rows.Next() {
		var key string
		var body []byte
		if err := rows.Scan(&key, &body); err != nil {
			return Snapshot{}, fmt.Errorf("scan %s: %w", collection, err)
		}
		fields, err := decodeBody(body)
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

// Close ends every subscription and closes the pool.
func (p *Postgres) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()
	p.cancel()
	p.wg.Wait()
	if p.close != nil {
		p.close()
	}
	return nil
}
