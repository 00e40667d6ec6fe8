package docstore

import (
	"context"
	"sync"
	"time"
)

type memCollection struct {
	order []string
	docs  map[string]map[string]any
}

type memSub struct {
	ctx context.Context
	ch  chan Update
}

// Memory is an in-process store. Documents iterate in first-insertion order;
// overwriting a key keeps its position.
type Memory struct {
	mu          sync.Mutex
	closed      bool
	collections map[string]*memCollection
	subs        map[string][]*memSub
	wg          sync.WaitGroup
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]*memCollection),
		subs:        make(map[string][]*memSub),
	}
}

// Seed writes documents without validating keys; used to prime demos and tests.
func (m *Memory) Seed(collection string, docs ...Document) {
	m.mu.Lock()
	coll := m.collection(collection)
	for _, doc := range docs {
		coll.put(doc.Key, doc.Fields)
	}
	m.mu.Unlock()
	m.publish(collection)
}

func (m *Memory) Subscribe(ctx context.Context, collection string) (<-chan Update, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	sub := &memSub{ctx: ctx, ch: make(chan Update, 1)}
	m.subs[collection] = append(m.subs[collection], sub)
	sub.ch <- Update{Snapshot: m.snapshotLocked(collection)}
	m.mu.Unlock()

	out := make(chan Update)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer close(out)
		defer m.unsubscribe(collection, sub)
		for {
			select {
			case <-ctx.Done():
				return
			case u, ok := <-sub.ch:
				if !ok {
					return
				}
				select {
				case <-ctx.Done():
					return
				case out <- u:
				}
			}
		}
	}()
	return out, nil
}

func (m *Memory) Get(ctx context.Context, collection, key string) (Document, error) {
	if key == "" {
		return Document{}, ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return Document{}, ErrClosed
	}
	coll, ok := m.collections[collection]
	if !ok {
		return Document{}, ErrNotFound
	}
	fields, ok := coll.docs[key]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{Key: key, Fields: cloneFields(fields)}, nil
}

func (m *Memory) Set(ctx context.Context, collection, key string, fields map[string]any) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.collection(collection).put(key, fields)
	m.mu.Unlock()
	m.publish(collection)
	return nil
}

// Delete removes key. Deleting a missing key succeeds.
func (m *Memory) Delete(ctx context.Context, collection, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	changed := false
	if coll, ok := m.collections[collection]; ok {
		changed = coll.remove(key)
	}
	m.mu.Unlock()
	if changed {
		m.publish(collection)
	}
	return nil
}

// Close ends every subscription and waits for their goroutines.
func (m *Memory) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	for name, subs := range m.subs {
		for _, sub := range subs {
			close(sub.ch)
		}
		delete(m.subs, name)
	}
	m.mu.Unlock()
	m.wg.Wait()
	return nil
}

func (m *Memory) collection(name string) *memCollection {
	coll, ok := m.collections[name]
	if !ok {
		coll = &memCollection{docs: make(map[string]map[string]any)}
		m.collections[name] = coll
	}
	return coll
}

func (m *Memory) snapshotLocked(collection string) Snapshot {
	snap := Snapshot{Collection: collection, ReadAt: time.Now()}
	coll, ok := m.collections[collection]
	if !ok {
		return snap
	}
	snap.Documents = make([]Document, 0, len(coll.order))
	for _, key := range coll.order {
		snap.Documents = append(snap.Documents, Document{Key: key, Fields: cloneFields(coll.docs[key])})
	}
	return snap
}

func (m *Memory) publish(collection string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	subs := m.subs[collection]
	if len(subs) == 0 {
		return
	}
	snap := m.snapshotLocked(collection)
	for _, sub := range subs {
		deliver(sub.ctx, sub.ch, Update{Snapshot: Snapshot{
			Collection: snap.Collection,
			Documents:  cloneDocuments(snap.Documents),
			ReadAt:     snap.ReadAt,
		}})
	}
}

func (m *Memory) unsubscribe(collection string, target *memSub) {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := m.subs[collection]
	for i, sub := range subs {
		if sub == target {
			m.subs[collection] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

func (c *memCollection) put(key string, fields map[string]any) {
	if _, ok := c.docs[key]; !ok {
		c.order = append(c.order, key)
	}
	c.docs[key] = cloneFields(fields)
}

func (c *memCollection) remove(key string) bool {
	if _, ok := c.docs[key]; !ok {
		return false
	}
	delete(c.docs, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}
