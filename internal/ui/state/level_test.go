package state

import (
	"testing"

	"github.com/atomicstack/listy-city/internal/menu"
)

func newTestLevel(ids ...string) *Level {
	items := make([]menu.Item, len(ids))
	for i, id := range ids {
		items[i] = menu.Item{ID: id, Label: id, Index: i}
	}
	return NewLevel("test", "Test", items, nil)
}

func TestNewLevelStartsAtTop(t *testing.T) {
	l := newTestLevel("a", "b", "c")
	if l.Cursor != 0 {
		t.Fatalf("expected cursor 0, got %d", l.Cursor)
	}
	item, ok := l.CursorItem()
	if !ok || item.ID != "a" {
		t.Fatalf("expected cursor on a, got %#v", item)
	}
}

func TestUpdateItemsClampsCursor(t *testing.T) {
	l := newTestLevel("a", "b", "c")
	l.Cursor = 2
	l.UpdateItems([]menu.Item{{ID: "a", Label: "a"}})
	if l.Cursor != 0 {
		t.Fatalf("expected cursor clamped to 0, got %d", l.Cursor)
	}
	l.UpdateItems(nil)
	if _, ok := l.CursorItem(); ok {
		t.Fatalf("expected no cursor item on empty level")
	}
}

func TestUpdateItemsReappliesFilter(t *testing.T) {
	l := newTestLevel("alpha", "beta")
	l.EditFilter(func(q *Query) bool { return q.Insert("gam") })
	l.UpdateItems([]menu.Item{{ID: "gamma", Label: "gamma"}, {ID: "beta", Label: "beta"}})
	if len(l.Items) != 1 || l.Items[0].ID != "gamma" {
		t.Fatalf("expected filter to apply to new items, got %#v", l.Items)
	}
}

func TestItemAtRowUsesViewport(t *testing.T) {
	l := newTestLevel("a", "b", "c", "d", "e")
	l.ViewportOffset = 2
	item, ok := l.ItemAtRow(1)
	if !ok || item.ID != "d" {
		t.Fatalf("expected d, got %#v", item)
	}
	if _, ok := l.ItemAtRow(3); ok {
		t.Fatalf("expected no item past the end")
	}
	if _, ok := l.ItemAtRow(-1); ok {
		t.Fatalf("expected no item for negative row")
	}
}

func TestScrollClampsToEnds(t *testing.T) {
	l := newTestLevel("a", "b", "c", "d", "e")
	if !l.Scroll(1, 3) || l.ViewportOffset != 1 {
		t.Fatalf("expected offset 1, got %d", l.ViewportOffset)
	}
	if l.Cursor != 1 {
		t.Fatalf("expected cursor dragged to 1, got %d", l.Cursor)
	}
	l.Scroll(10, 3)
	if l.ViewportOffset != 2 {
		t.Fatalf("expected offset clamped to 2, got %d", l.ViewportOffset)
	}
	l.Scroll(-10, 3)
	if l.ViewportOffset != 0 {
		t.Fatalf("expected offset clamped to 0, got %d", l.ViewportOffset)
	}
	if l.Cursor != 2 {
		t.Fatalf("expected cursor kept at last visible row, got %d", l.Cursor)
	}
	if l.Scroll(1, 10) {
		t.Fatalf("expected no scroll when everything fits")
	}
}

func TestIndexOfMatchesLastSegment(t *testing.T) {
	l := newTestLevel("edit", "delete")
	if got := l.IndexOf("city:delete"); got != 1 {
		t.Fatalf("expected namespaced id to match, got %d", got)
	}
	if got := l.IndexOf("missing"); got != -1 {
		t.Fatalf("expected -1 for unknown id, got %d", got)
	}
}
