package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore adapts a Cloud Firestore client. Snapshot listeners end on the
// first error; there is no automatic resubscription.
type Firestore struct {
	client *firestore.Client

	base   context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// OpenFirestore creates a client for projectID. Credentials come from the
// environment unless opts override them (FIRESTORE_EMULATOR_HOST is honoured
// by the client library).
func OpenFirestore(ctx context.Context, projectID string, opts ...option.ClientOption) (*Firestore, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	base, cancel := context.WithCancel(context.Background())
	return &Firestore{client: client, base: base, cancel: cancel}, nil
}

func (f *Firestore) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Firestore) Get(ctx context.Context, collection, key string) (Document, error) {
	if key == "" {
		return Document{}, ErrEmptyKey
	}
	if f.isClosed() {
		return Document{}, ErrClosed
	}
	snap, err := f.client.Collection(collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	return Document{Key: snap.Ref.ID, Fields: snap.Data()}, nil
}

func (f *Firestore) Set(ctx context.Context, collection, key string, fields map[string]any) error {
	if key == "" {
		return ErrEmptyKey
	}
	if f.isClosed() {
		return ErrClosed
	}
	if _, err := f.client.Collection(collection).Doc(key).Set(ctx, fields); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key succeeds.
func (f *Firestore) Delete(ctx context.Context, collection, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if f.isClosed() {
		return ErrClosed
	}
	if _, err := f.client.Collection(collection).Doc(key).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, key, err)
	}
	return nil
}

func (f *Firestore) Subscribe(ctx context.Context, collection string) (<-chan Update, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrClosed
	}
	f.wg.Add(1)
	f.mu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(f.base, cancel)
	it := f.client.Collection(collection).Snapshots(subCtx)

	out := make(chan Update, 1)
	go func() {
		defer f.wg.Done()
		defer close(out)
		defer cancel()
		defer stop()
		defer it.Stop()

		for {
			qs, err := it.Next()
			if subCtx.Err() != nil {
				return
			}
			if err != nil {
				if !errors.Is(err, iterator.Done) {
					deliver(subCtx, out, Update{Err: fmt.Errorf("listen %s: %w", collection, err)})
				}
				return
			}
			docs, err := qs.Documents.GetAll()
			if err != nil {
				if !deliver(subCtx, out, Update{Err: fmt.Errorf("read %s: %w", collection, err)}) {
					return
				}
				continue
			}
			snap := Snapshot{Collection: collection, ReadAt: qs.ReadTime}
			if snap.ReadAt.IsZero() {
				snap.ReadAt = time.Now()
			}
			for _, doc := range docs {
				snap.Documents = append(snap.Documents, Document{Key: doc.Ref.ID, Fields: doc.Data()})
			}
			if !deliver(subCtx, out, Update{Snapshot: snap}) {
				return
			}
		}
	}()
	return out, nil
}

// Close ends every listener and closes the client.
func (f *Firestore) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.mu.Unlock()
	f.cancel()
	f.wg.Wait()
	return f.client.Close()
}
