// Package docstore is the client side of the remote document store that
// backs the city list. A store holds named collections of documents keyed by
// string; subscribers receive the full contents of a collection every time it
// changes.
//
// Backends:
//   - Memory: in-process, used by tests and the demo backend.
//   - SQLite: a local file polled for changes (modernc.org/sqlite).
//   - Postgres: LISTEN/NOTIFY driven subscriptions (pgx).
//   - Firestore: Cloud Firestore through snapshot listeners.
//
// Every backend delivers snapshots in its own iteration order; callers must
// not assume a sort.
package docstore

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by Get when no document exists for the key.
	ErrNotFound = errors.New("document not found")
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")
	// ErrEmptyKey is returned when an operation is given a blank key.
	ErrEmptyKey = errors.New("document key is empty")
)

// Document is a single keyed record.
type Document struct {
	Key    string
	Fields map[string]any
}

// Snapshot is the full contents of a collection at a point in time.
type Snapshot struct {
	Collection string
	Documents  []Document
	ReadAt     time.Time
}

// Update is delivered to subscribers: either a snapshot or an error.
type Update struct {
	Snapshot Snapshot
	Err      error
}

// Subscriber opens live subscriptions. The returned channel is closed when
// ctx is cancelled or the subscription terminates.
type Subscriber interface {
	Subscribe(ctx context.Context, collection string) (<-chan Update, error)
}

// Mutator writes documents.
type Mutator interface {
	Set(ctx context.Context, collection, key string, fields map[string]any) error
	Delete(ctx context.Context, collection, key string) error
}

// Getter reads a single document.
type Getter interface {
	Get(ctx context.Context, collection, key string) (Document, error)
}

// Store is implemented by every backend.
type Store interface {
	Subscriber
	Mutator
	Getter
	Close() error
}

func cloneFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	dup := make(map[string]any, len(fields))
	for k, v := range fields {
		dup[k] = v
	}
	return dup
}

func cloneDocuments(docs []Document) []Document {
	if len(docs) == 0 {
		return nil
	}
	dup := make([]Document, len(docs))
	for i, doc := range docs {
		dup[i] = Document{Key: doc.Key, Fields: cloneFields(doc.Fields)}
	}
	return dup
}

// deliver replaces whatever is pending on a size-one channel with u. Snapshots
// are full replacements, so a slow reader only ever needs the latest one.
func deliver(ctx context.Context, ch chan Update, u Update) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case ch <- u:
			return true
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
