package backend

import (
	"context"

	"github.com/atomicstack/listy-city/internal/docstore"
)

// Event conveys a collection snapshot or a subscription error.
type Event struct {
	Collection string
	Snapshot   docstore.Snapshot
	Err        error
}

// Watcher follows one collection subscription and republishes it as
// events for the UI loop.
type Watcher struct {
	source     docstore.Subscriber
	collection string
	cancel     context.CancelFunc
	events     chan Event
	done       chan struct{}
}

// NewWatcher subscribes to collection on source. A failure to subscribe is
// published as the first and only event.
func NewWatcher(source docstore.Subscriber, collection string) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		source:     source,
		collection: collection,
		cancel:     cancel,
		events:     make(chan Event, 16),
		done:       make(chan struct{}),
	}
	go w.follow(ctx)
	return w
}

// Events returns the event stream. It is closed once the subscription ends.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the subscription.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the subscription has ended and Events is closed.
func (w *Watcher) Wait() {
	<-w.done
}

func (w *Watcher) follow(ctx context.Context) {
	defer close(w.done)
	defer close(w.events)

	updates, err := w.source.Subscribe(ctx, w.collection)
	if err != nil {
		w.emit(ctx, Event{Err: err})
		return
	}
	// the source closes updates once it has seen the cancel
	defer func() {
		for range updates {
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if !w.emit(ctx, Event{Snapshot: u.Snapshot, Err: u.Err}) {
				return
			}
		}
	}
}

func (w *Watcher) emit(ctx context.Context, evt Event) bool {
	evt.Collection = w.collection
	select {
	case <-ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}
