package state

import "unicode"

// Query is a single editable line with a rune cursor. Every editing method
// reports whether it changed the text or moved the cursor.
type Query struct {
	text []rune
	pos  int
}

func (q Query) String() string { return string(q.text) }

// Pos returns the cursor as a rune offset.
func (q Query) Pos() int { return q.pos }

// Empty reports whether the query holds no text.
func (q Query) Empty() bool { return len(q.text) == 0 }

// Clear removes all text.
func (q *Query) Clear() bool {
	if len(q.text) == 0 && q.pos == 0 {
		return false
	}
	q.text, q.pos = nil, 0
	return true
}

// Insert adds s at the cursor.
func (q *Query) Insert(s string) bool {
	add := []rune(s)
	if len(add) == 0 {
		return false
	}
	text := make([]rune, 0, len(q.text)+len(add))
	text = append(text, q.text[:q.pos]...)
	text = append(text, add...)
	text = append(text, q.text[q.pos:]...)
	q.text = text
	q.pos += len(add)
	return true
}

// Backspace removes the rune before the cursor.
func (q *Query) Backspace() bool {
	return q.cut(q.pos - 1)
}

// DeleteWord removes the word before the cursor along with any spaces
// between it and the cursor.
func (q *Query) DeleteWord() bool {
	return q.cut(wordLeft(q.text, q.pos))
}

func (q *Query) Home() bool      { return q.moveTo(0) }
func (q *Query) End() bool       { return q.moveTo(len(q.text)) }
func (q *Query) Left() bool      { return q.moveTo(q.pos - 1) }
func (q *Query) Right() bool     { return q.moveTo(q.pos + 1) }
func (q *Query) WordLeft() bool  { return q.moveTo(wordLeft(q.text, q.pos)) }
func (q *Query) WordRight() bool { return q.moveTo(wordRight(q.text, q.pos)) }

// cut deletes the runes between from and the cursor.
func (q *Query) cut(from int) bool {
	if from < 0 || from >= q.pos {
		return false
	}
	q.text = append(q.text[:from:from], q.text[q.pos:]...)
	q.pos = from
	return true
}

func (q *Query) moveTo(pos int) bool {
	pos = clamp(pos, 0, len(q.text))
	if pos == q.pos {
		return false
	}
	q.pos = pos
	return true
}

func wordLeft(text []rune, pos int) int {
	for pos > 0 && unicode.IsSpace(text[pos-1]) {
		pos--
	}
	for pos > 0 && !unicode.IsSpace(text[pos-1]) {
		pos--
	}
	return pos
}

func wordRight(text []rune, pos int) int {
	for pos < len(text) && !unicode.IsSpace(text[pos]) {
		pos++
	}
	for pos < len(text) && unicode.IsSpace(text[pos]) {
		pos++
	}
	return pos
}
