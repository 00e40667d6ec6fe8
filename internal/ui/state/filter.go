package state

import (
	"strings"

	"github.com/atomicstack/listy-city/internal/menu"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Filter returns the filter text.
func (l *Level) Filter() string { return l.query.String() }

// FilterPos returns the filter cursor as a rune offset.
func (l *Level) FilterPos() int { return l.query.Pos() }

// EditFilter applies edit to the filter and re-matches the rows when the text
// changed. Typing into an empty filter remembers the cursor; clearing the
// filter restores it.
func (l *Level) EditFilter(edit func(*Query) bool) bool {
	before := strings.TrimSpace(l.query.String())
	if !edit(&l.query) {
		return false
	}
	after := strings.TrimSpace(l.query.String())
	if after == before {
		return true
	}
	if before == "" {
		l.cursorSaved = l.Cursor
	}
	l.applyFilter()
	switch {
	case after != "":
		if best := bestMatch(l.Items, after); best >= 0 {
			l.Cursor = best
		}
	case l.cursorSaved >= 0:
		l.Cursor = clamp(l.cursorSaved, 0, max(len(l.Items)-1, 0))
		l.cursorSaved = -1
	}
	return true
}

// ClearFilter empties the filter.
func (l *Level) ClearFilter() bool {
	return l.EditFilter((*Query).Clear)
}

func (l *Level) applyFilter() {
	l.Items = matchItems(l.Full, strings.TrimSpace(l.query.String()))
	if len(l.Items) == 0 {
		l.Cursor, l.ViewportOffset = 0, 0
		return
	}
	l.Cursor = clamp(l.Cursor, 0, len(l.Items)-1)
	if l.ViewportOffset >= len(l.Items) {
		l.ViewportOffset = 0
	}
}

// matchItems keeps the rows whose label fuzzily contains query, in their
// original order.
func matchItems(items []menu.Item, query string) []menu.Item {
	if query == "" {
		return append([]menu.Item(nil), items...)
	}
	out := make([]menu.Item, 0, len(items))
	for _, item := range items {
		if fuzzy.MatchNormalizedFold(query, item.Label) {
			out = append(out, item)
		}
	}
	return out
}

// bestMatch returns the index of the row closest to query: an exact label
// first, then a label prefix, then the smallest fuzzy distance.
func bestMatch(items []menu.Item, query string) int {
	if len(items) == 0 {
		return -1
	}
	best, bestScore := 0, -1
	lower := strings.ToLower(query)
	for i, item := range items {
		label := strings.ToLower(strings.TrimSpace(item.Label))
		var score int
		switch {
		case label == lower:
			return i
		case strings.HasPrefix(label, lower):
			score = 0
		default:
			score = 1 + fuzzy.RankMatchNormalizedFold(query, item.Label)
		}
		if bestScore < 0 || score < bestScore {
			best, bestScore = i, score
		}
	}
	return best
}
