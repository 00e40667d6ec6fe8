package dispatcher

import (
	"errors"
	"testing"
	"time"

	"github.com/atomicstack/listy-city/internal/backend"
	"github.com/atomicstack/listy-city/internal/city"
	"github.com/atomicstack/listy-city/internal/docstore"
	"github.com/atomicstack/listy-city/internal/state"
)

func snapshotEvent(docs ...docstore.Document) backend.Event {
	return backend.Event{
		Collection: "cities",
		Snapshot:   docstore.Snapshot{Collection: "cities", Documents: docs, ReadAt: time.Now()},
	}
}

func TestHandleRebuildsInDeliveryOrder(t *testing.T) {
	store := state.NewCityStore()
	d := New(store)

	res := d.Handle(snapshotEvent(
		docstore.Document{Key: "Regina", Fields: map[string]any{"name": "Regina", "province": "SK"}},
		docstore.Document{Key: "Calgary", Fields: map[string]any{"name": "Calgary", "province": "AB"}},
	))
	if !res.CitiesUpdated || res.Err != nil {
		t.Fatalf("unexpected result %+v", res)
	}
	got := store.Entries()
	want := []city.City{city.New("Regina", "SK"), city.New("Calgary", "AB")}
	if len(got) != len(want) {
		t.Fatalf("expected %d cities, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: want %+v got %+v", i, want[i], got[i])
		}
	}
}

func TestHandleReplacesWholeCache(t *testing.T) {
	store := state.NewCityStore()
	d := New(store)
	d.Handle(snapshotEvent(
		docstore.Document{Key: "A", Fields: map[string]any{"name": "A"}},
		docstore.Document{Key: "B", Fields: map[string]any{"name": "B"}},
	))
	d.Handle(snapshotEvent(docstore.Document{Key: "C", Fields: map[string]any{"name": "C"}}))
	if store.Len() != 1 {
		t.Fatalf("expected cache replaced, got %+v", store.Entries())
	}
}

func TestHandleMissingFieldsBecomeEmpty(t *testing.T) {
	store := state.NewCityStore()
	d := New(store)
	d.Handle(snapshotEvent(
		docstore.Document{Key: "x", Fields: map[string]any{"province": "ON"}},
		docstore.Document{Key: "y", Fields: map[string]any{"name": 42, "province": true}},
	))
	first, _ := store.At(0)
	second, _ := store.At(1)
	if first != city.New("", "ON") {
		t.Fatalf("unexpected first %+v", first)
	}
	if second != city.New("", "") {
		t.Fatalf("unexpected second %+v", second)
	}
}

func TestHandleErrorLeavesCache(t *testing.T) {
	store := state.NewCityStore()
	d := New(store)
	d.Handle(snapshotEvent(docstore.Document{Key: "A", Fields: map[string]any{"name": "A"}}))

	boom := errors.New("denied")
	res := d.Handle(backend.Event{Err: boom})
	if res.CitiesUpdated || !errors.Is(res.Err, boom) {
		t.Fatalf("unexpected result %+v", res)
	}
	if store.Len() != 1 {
		t.Fatalf("cache should be untouched, got %+v", store.Entries())
	}
}

func TestHandleEmptySnapshotClears(t *testing.T) {
	store := state.NewCityStore()
	d := New(store)
	d.Handle(snapshotEvent(docstore.Document{Key: "A", Fields: map[string]any{"name": "A"}}))
	res := d.Handle(snapshotEvent())
	if !res.CitiesUpdated || store.Len() != 0 {
		t.Fatalf("expected empty cache, got %+v", store.Entries())
	}
}
