package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/listy-city/internal/backend"
	"github.com/atomicstack/listy-city/internal/city"
	"github.com/atomicstack/listy-city/internal/docstore"
	tea "github.com/charmbracelet/bubbletea"
)

const testCollection = "cities"

func newTestModel(t *testing.T, width, height int) (*Model, *docstore.Memory) {
	t.Helper()
	store := docstore.NewMemory()
	t.Cleanup(func() { _ = store.Close() })
	m := NewModel(Options{
		Collection: testCollection,
		Store:      store,
		Width:      width,
		Height:     height,
	})
	return m, store
}

func docFor(c city.City) docstore.Document {
	return docstore.Document{Key: c.Name, Fields: c.Fields()}
}

// seedAndPush stores cities and delivers the matching snapshot.
func seedAndPush(h *Harness, store *docstore.Memory, cities ...city.City) {
	docs := make([]docstore.Document, len(cities))
	for i, c := range cities {
		docs[i] = docFor(c)
	}
	store.Seed(testCollection, docs...)
	h.Send(pushMsg(cities...))
}

func pushMsg(cities ...city.City) backendEventMsg {
	docs := make([]docstore.Document, len(cities))
	for i, c := range cities {
		docs[i] = docFor(c)
	}
	return backendEventMsg{event: backend.Event{
		Collection: testCollection,
		Snapshot:   docstore.Snapshot{Collection: testCollection, Documents: docs, ReadAt: time.Now()},
	}}
}

func prairies() []city.City {
	return []city.City{
		city.New("Edmonton", "AB"),
		city.New("Calgary", "AB"),
		city.New("Regina", "SK"),
	}
}

func TestNewModelShowsLoadingList(t *testing.T) {
	m, _ := newTestModel(t, 60, 12)
	if got := m.menuHeader(); got != testCollection {
		t.Fatalf("expected header %q, got %q", testCollection, got)
	}
	view := m.View()
	if !strings.Contains(view, "Loading cities…") {
		t.Fatalf("expected loading placeholder, got:\n%s", view)
	}
	if !strings.Contains(view, addButtonLabel) {
		t.Fatalf("expected add button, got:\n%s", view)
	}
}

func TestBackendEventRendersRowsInPushOrder(t *testing.T) {
	m, store := newTestModel(t, 60, 12)
	h := NewHarness(m)
	seedAndPush(h, store, prairies()...)

	root := h.Model().stack[0]
	if len(root.Items) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(root.Items))
	}
	for i, want := range []string{"Edmonton", "Calgary", "Regina"} {
		if !strings.HasPrefix(root.Items[i].Label, want) {
			t.Fatalf("row %d = %q, want prefix %q", i, root.Items[i].Label, want)
		}
		if root.Items[i].Index != i {
			t.Fatalf("row %d carries index %d", i, root.Items[i].Index)
		}
	}
	if view := h.View(); !strings.Contains(view, "Regina") {
		t.Fatalf("expected Regina in view, got:\n%s", view)
	}
}

func TestBackendErrorKeepsRows(t *testing.T) {
	m, store := newTestModel(t, 60, 12)
	h := NewHarness(m)
	seedAndPush(h, store, prairies()...)

	h.Send(backendEventMsg{event: backend.Event{Collection: testCollection, Err: errors.New("permission denied")}})
	if got := len(h.Model().stack[0].Items); got != 3 {
		t.Fatalf("expected rows kept after error, got %d", got)
	}
	if h.Model().errMsg != "" {
		t.Fatalf("listener errors should not surface, got %q", h.Model().errMsg)
	}
}

func TestEmptySnapshotShowsEmptyList(t *testing.T) {
	m, _ := newTestModel(t, 60, 12)
	h := NewHarness(m)
	h.Send(pushMsg())
	if view := h.View(); !strings.Contains(view, "(no cities yet)") {
		t.Fatalf("expected empty list message, got:\n%s", view)
	}
}

func TestPushWhileFilteredKeepsFilter(t *testing.T) {
	m, store := newTestModel(t, 60, 12)
	h := NewHarness(m)
	seedAndPush(h, store, prairies()...)
	h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("reg")})

	root := h.Model().stack[0]
	if len(root.Items) != 1 || root.Items[0].Index != 2 {
		t.Fatalf("expected only Regina, got %#v", root.Items)
	}
	h.Send(pushMsg(city.New("Saskatoon", "SK"), city.New("Regina", "SK")))
	if len(root.Items) != 1 || root.Items[0].Index != 1 {
		t.Fatalf("expected Regina at its new cache index, got %#v", root.Items)
	}
}

func TestNotifySetsInfo(t *testing.T) {
	m, _ := newTestModel(t, 60, 12)
	m.Notify("hello")
	if m.currentInfo() != "hello" {
		t.Fatalf("expected info hello, got %q", m.currentInfo())
	}
	m.infoExpire = time.Now().Add(-time.Second)
	if m.currentInfo() != "" {
		t.Fatalf("expected info to expire")
	}
}

func TestBackendDoneDropsWatcher(t *testing.T) {
	m, _ := newTestModel(t, 60, 12)
	m.handleBackendDoneMsg(backendDoneMsg{})
	if m.backend != nil {
		t.Fatalf("expected watcher cleared")
	}
}
