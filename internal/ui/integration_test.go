package ui

import (
	"context"
	"testing"
	"time"

	"github.com/atomicstack/listy-city/internal/backend"
	"github.com/atomicstack/listy-city/internal/city"
	"github.com/atomicstack/listy-city/internal/docstore"
	tea "github.com/charmbracelet/bubbletea"
)

const pumpTimeout = 2 * time.Second

// TestAddSwipeRoundTrip drives the model against a live memory store: every
// change reaches the list only through the subscription.
func TestAddSwipeRoundTrip(t *testing.T) {
	store := docstore.NewMemory()
	store.Seed(testCollection, docFor(city.New("Edmonton", "AB")))
	w := backend.NewWatcher(store, testCollection)
	t.Cleanup(func() {
		w.Stop()
		w.Wait()
		_ = store.Close()
	})

	m := NewModel(Options{Collection: testCollection, Store: store, Width: 60, Height: 30})
	h := NewHarness(m)
	if !h.Pump(w, pumpTimeout) {
		t.Fatalf("expected initial snapshot")
	}
	if got := len(h.Model().stack[0].Items); got != 1 {
		t.Fatalf("expected 1 row, got %d", got)
	}

	h.Send(tea.KeyMsg{Type: tea.KeyCtrlN})
	h.Send(runes("Calgary"))
	h.Send(tea.KeyMsg{Type: tea.KeyTab})
	h.Send(runes("AB"))
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if !h.Pump(w, pumpTimeout) {
		t.Fatalf("expected snapshot after add")
	}
	root := h.Model().stack[0]
	if len(root.Items) != 2 {
		t.Fatalf("expected 2 rows after add, got %d", len(root.Items))
	}
	if cities := h.Model().Controller().Cities(); cities[1].Name != "Calgary" {
		t.Fatalf("expected Calgary appended, got %#v", cities)
	}

	// row 2 on screen holds Edmonton
	h.Send(press(40, 2))
	h.Send(drag(5, 2))
	h.Send(release(5, 2))
	if !h.Pump(w, pumpTimeout) {
		t.Fatalf("expected snapshot after swipe")
	}
	cities := h.Model().Controller().Cities()
	if len(cities) != 1 || cities[0].Name != "Calgary" {
		t.Fatalf("expected only Calgary left, got %#v", cities)
	}
	if _, err := store.Get(context.Background(), testCollection, "Edmonton"); err == nil {
		t.Fatalf("expected Edmonton removed from the store")
	}
}
