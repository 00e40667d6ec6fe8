package state

// Step moves the cursor delta rows, wrapping around either end.
func (l *Level) Step(delta int) bool {
	n := len(l.Items)
	if n == 0 {
		return false
	}
	next := ((l.Cursor+delta)%n + n) % n
	return l.moveTo(next)
}

// Page moves the cursor one screen up (dir < 0) or down without wrapping.
func (l *Level) Page(dir, maxVisible int) bool {
	size := maxVisible
	if size <= 0 || size > len(l.Items) {
		size = len(l.Items)
	}
	if dir < 0 {
		size = -size
	}
	return l.moveTo(l.Cursor + size)
}

// Home moves the cursor to the first row.
func (l *Level) Home() bool { return l.moveTo(0) }

// End moves the cursor to the last row.
func (l *Level) End() bool { return l.moveTo(len(l.Items) - 1) }

func (l *Level) moveTo(idx int) bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = clamp(idx, 0, len(l.Items)-1)
	return l.Cursor != old
}

// Reveal clamps the cursor to the rows and scrolls just enough for it to be
// inside a window of maxVisible rows. A non-positive maxVisible means every
// row fits.
func (l *Level) Reveal(maxVisible int) {
	if len(l.Items) == 0 {
		l.Cursor, l.ViewportOffset = 0, 0
		return
	}
	l.Cursor = clamp(l.Cursor, 0, len(l.Items)-1)
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	top := clamp(l.ViewportOffset, 0, max(len(l.Items)-maxVisible, 0))
	switch {
	case l.Cursor < top:
		top = l.Cursor
	case l.Cursor >= top+maxVisible:
		top = l.Cursor - maxVisible + 1
	}
	l.ViewportOffset = top
}
