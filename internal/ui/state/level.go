package state

import (
	"slices"
	"strings"

	"github.com/atomicstack/listy-city/internal/menu"
)

// Level is one entry of the menu stack: its rows, the filter narrowing them,
// the cursor and the scroll window.
type Level struct {
	ID    string
	Title string
	Node  *menu.Node
	// Items holds the rows left after filtering; Full holds every row.
	Items          []menu.Item
	Full           []menu.Item
	Cursor         int
	ViewportOffset int
	// LastCursor remembers the cursor while a child level is open.
	LastCursor int

	query       Query
	cursorSaved int
}

// NewLevel constructs a Level using the provided items and menu node.
func NewLevel(id, title string, items []menu.Item, node *menu.Node) *Level {
	l := &Level{
		ID:          id,
		Title:       title,
		Node:        node,
		LastCursor:  -1,
		cursorSaved: -1,
	}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the visible index of the item with id. A namespaced id
// such as "city:delete" also matches its last segment.
func (l *Level) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	byID := func(want string) int {
		return slices.IndexFunc(l.Items, func(item menu.Item) bool { return item.ID == want })
	}
	if idx := byID(id); idx >= 0 {
		return idx
	}
	if cut := strings.LastIndex(id, ":"); cut >= 0 {
		return byID(id[cut+1:])
	}
	return -1
}

// UpdateItems replaces the rows, re-applying the current filter. Cursor and
// scroll offset survive when still in range.
func (l *Level) UpdateItems(items []menu.Item) {
	l.Full = slices.Clone(items)
	l.applyFilter()
}

// CursorItem returns the item under the cursor.
func (l *Level) CursorItem() (menu.Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return menu.Item{}, false
	}
	return l.Items[l.Cursor], true
}

// ItemAtRow returns the item drawn on the given visible row.
func (l *Level) ItemAtRow(row int) (menu.Item, bool) {
	if row < 0 {
		return menu.Item{}, false
	}
	idx := l.ViewportOffset + row
	if idx >= len(l.Items) {
		return menu.Item{}, false
	}
	return l.Items[idx], true
}

// Scroll shifts the viewport by delta rows without moving past either end.
// The cursor is dragged along so it stays inside the viewport.
func (l *Level) Scroll(delta, maxVisible int) bool {
	if maxVisible <= 0 || len(l.Items) <= maxVisible {
		return false
	}
	old := l.ViewportOffset
	l.ViewportOffset = clamp(l.ViewportOffset+delta, 0, len(l.Items)-maxVisible)
	l.Cursor = clamp(l.Cursor, l.ViewportOffset, l.ViewportOffset+maxVisible-1)
	return l.ViewportOffset != old
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
