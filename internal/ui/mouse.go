package ui

import (
	"github.com/atomicstack/listy-city/internal/gesture"
	"github.com/atomicstack/listy-city/internal/logging/events"
	"github.com/atomicstack/listy-city/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

const wheelStep = 3

// pressState remembers where the left button went down.
type pressState struct {
	active   bool
	levelID  string
	row      int
	pos      int
	onButton bool
}

// handleMouseMsg turns mouse input into taps, swipes and wheel scrolling.
// Cells are converted to pixels before reaching the gesture tracker.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	if m.mode != ModeMenu {
		return nil
	}
	switch {
	case ev.Button == tea.MouseButtonWheelUp:
		return m.handleWheel(ev, -wheelStep)
	case ev.Button == tea.MouseButtonWheelDown:
		return m.handleWheel(ev, wheelStep)
	case ev.Action == tea.MouseActionPress && ev.Button == tea.MouseButtonLeft:
		m.pointerDown(ev)
	case ev.Action == tea.MouseActionMotion:
		m.pointerMove(ev)
	case ev.Action == tea.MouseActionRelease:
		return m.pointerUp(ev)
	}
	return nil
}

func (m *Model) handleWheel(ev tea.MouseMsg, delta int) tea.Cmd {
	if m.controller.Swiping() {
		return nil
	}
	if m.hasSidePanel() && ev.X >= m.listWidth() {
		m.scrollDocument(delta)
		return nil
	}
	current := m.currentLevel()
	if current == nil {
		return nil
	}
	if !current.Scroll(delta, m.maxVisibleItems()) {
		return nil
	}
	events.UI.Scroll(current.ID, current.ViewportOffset)
	return m.refreshDocument()
}

// itemAtScreenRow maps a terminal row onto the visible item drawn there.
func (m *Model) itemAtScreenRow(current *level, y int) (menu.Item, int, bool) {
	row := y - m.listTop()
	if row < 0 {
		return menu.Item{}, row, false
	}
	if maxItems := m.maxVisibleItems(); maxItems > 0 && row >= maxItems {
		return menu.Item{}, row, false
	}
	item, ok := current.ItemAtRow(row)
	return item, row, ok
}

func (m *Model) pointerDown(ev tea.MouseMsg) {
	current := m.currentLevel()
	if current == nil || m.loading {
		return
	}
	if m.controller.Tracking() {
		m.controller.PointerCancel("repress")
	}
	item, row, ok := m.itemAtScreenRow(current, ev.Y)
	m.press = pressState{
		active:   true,
		levelID:  current.ID,
		row:      row,
		pos:      gesture.NoPosition,
		onButton: ev.Y == m.addButtonRow(),
	}
	if m.press.onButton || current.ID != "root" {
		return
	}
	if ok {
		m.press.pos = item.Index
	}
	m.controller.PointerDown(ev.X*m.cellWidthPx, ev.Y*m.cellHeightPx, m.press.pos)
}

func (m *Model) pointerMove(ev tea.MouseMsg) {
	if !m.press.active || !m.controller.Tracking() {
		return
	}
	m.controller.PointerMove(ev.X*m.cellWidthPx, ev.Y*m.cellHeightPx)
}

func (m *Model) pointerUp(ev tea.MouseMsg) tea.Cmd {
	press := m.press
	m.press = pressState{}
	if !press.active {
		return nil
	}
	if press.onButton {
		if ev.Y == m.addButtonRow() {
			return m.openAddForm()
		}
		return nil
	}
	if m.controller.Tracking() {
		if op, consumed := m.controller.PointerUp(); consumed {
			return runOp(op)
		}
	}
	current := m.currentLevel()
	if current == nil || current.ID != press.levelID {
		return nil
	}
	_, row, ok := m.itemAtScreenRow(current, ev.Y)
	if !ok || row != press.row {
		return nil
	}
	current.Cursor = current.ViewportOffset + row
	events.UI.Tap(current.ID, row, current.Cursor)
	return m.handleEnterKey()
}

func (m *Model) handleBlurMsg(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tea.BlurMsg); !ok {
		return nil
	}
	if m.controller.Tracking() {
		m.controller.PointerCancel("blur")
	}
	m.press = pressState{}
	return nil
}

// swipingRow reports whether item is the row under an active swipe.
func (m *Model) swipingRow(current *level, item menu.Item) bool {
	if !m.press.active || current.ID != m.press.levelID {
		return false
	}
	return m.controller.Swiping() && item.Index == m.press.pos
}
