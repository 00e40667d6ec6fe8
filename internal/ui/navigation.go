package ui

import (
	"fmt"

	"github.com/atomicstack/listy-city/internal/logging/events"
	"github.com/atomicstack/listy-city/internal/menu"
	"github.com/atomicstack/listy-city/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.mode != ModeMenu {
		return nil
	}
	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "ctrl+n":
		return m.openAddForm()
	case "f1":
		return m.openNode("help")
	}
	// a swipe owns the list until it ends
	if m.controller.Swiping() {
		return nil
	}
	if handled, cmd := m.handleTextInput(keyMsg); handled {
		return cmd
	}
	switch keyMsg.String() {
	case "esc":
		return m.handleEscapeKey()
	case "enter":
		return m.handleEnterKey()
	case "up":
		m.moveCursor(func(l *level) bool { return l.Step(-1) })
	case "down":
		m.moveCursor(func(l *level) bool { return l.Step(1) })
	case "pgup":
		m.moveCursor(func(l *level) bool { return l.Page(-1, m.maxVisibleItems()) })
	case "pgdown":
		m.moveCursor(func(l *level) bool { return l.Page(1, m.maxVisibleItems()) })
	case "home":
		m.moveCursor((*level).Home)
	case "end":
		m.moveCursor((*level).End)
	default:
		return nil
	}
	return m.refreshDocument()
}

// moveCursor applies move to the current level and keeps the cursor on screen.
func (m *Model) moveCursor(move func(*level) bool) {
	current := m.currentLevel()
	if current == nil {
		return
	}
	if move(current) {
		events.UI.MenuCursor(current.ID, current.Cursor)
	}
	m.syncViewport(current)
}

// handleEscapeKey closes the top level, or quits from the city list.
func (m *Model) handleEscapeKey() tea.Cmd {
	if len(m.stack) <= 1 {
		return tea.Quit
	}
	closed := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	m.restoreCursor(m.currentLevel(), closed.ID)
	if len(m.stack) == 1 {
		m.clearSelection()
	}
	m.errMsg = ""
	m.forceClearInfo()
	return m.refreshDocument()
}

// popToRoot closes every level above the city list.
func (m *Model) popToRoot() {
	if len(m.stack) == 0 {
		return
	}
	m.stack = m.stack[:1]
	m.restoreCursor(m.stack[0], "")
	m.clearSelection()
}

// restoreCursor puts the cursor of l back on the row it was on when a level
// was opened above it, falling back to the entry with childID.
func (m *Model) restoreCursor(l *level, childID string) {
	switch {
	case l.LastCursor >= 0 && l.LastCursor < len(l.Items):
		l.Cursor = l.LastCursor
	case childID != "":
		if idx := l.IndexOf(childID); idx >= 0 {
			l.Cursor = idx
		}
	}
	l.LastCursor = -1
	m.syncViewport(l)
}

func (m *Model) clearSelection() {
	m.selected = nil
	m.selectedIndex = -1
}

func (m *Model) handleEnterKey() tea.Cmd {
	current := m.currentLevel()
	if m.loading || current == nil {
		return nil
	}
	item, ok := current.CursorItem()
	if !ok {
		return nil
	}
	events.UI.MenuEnter(current.ID, item.ID, item.Label, current.Filter())
	if current.ClearFilter() {
		m.filterCursorDirty = true
		if idx := current.IndexOf(item.ID); idx >= 0 {
			current.Cursor = idx
		}
	}
	node := current.Node
	if node == nil {
		node, _ = m.registry.Find(current.ID)
	}
	if node != nil {
		if child, ok := node.Children[item.ID]; ok {
			switch {
			case child.Loader != nil:
				return m.openLevel(child, item.Label)
			case child.Action != nil:
				return m.execute(child, item)
			}
		}
		if node.Action != nil {
			return m.execute(node, item)
		}
	}
	m.setInfo(fmt.Sprintf("Selected %s (no action defined yet)", item.Label))
	return nil
}

func (m *Model) openAddForm() tea.Cmd {
	return m.openNode("add")
}

// openNode runs a registry node directly, outside of item selection.
func (m *Model) openNode(id string) tea.Cmd {
	node, ok := m.registry.Find(id)
	if m.loading || !ok {
		return nil
	}
	switch {
	case node.Loader != nil:
		return m.openLevel(node, id)
	case node.Action != nil:
		return m.execute(node, menu.Item{ID: node.ID, Label: node.ID, Index: menu.NoIndex})
	}
	return nil
}

// openLevel loads node as a new level above the current one. title is used
// when the node does not build its own.
func (m *Model) openLevel(node *menu.Node, title string) tea.Cmd {
	if node.Title != nil {
		title = node.Title(m.menuContext())
	}
	if current := m.currentLevel(); current != nil {
		current.LastCursor = current.Cursor
	}
	m.begin(node.ID, title)
	return m.loadMenuCmd(node.ID, title, node.Loader)
}

func (m *Model) execute(node *menu.Node, item menu.Item) tea.Cmd {
	m.begin(node.ID, item.Label)
	return m.bus.Dispatch(command.Request{Node: node.ID, Item: item, Context: m.menuContext(), Handler: node.Action})
}

// begin marks a level load or action as in flight. Input that would start
// another one is ignored until settle.
func (m *Model) begin(id, label string) {
	m.loading, m.pendingID, m.pendingLabel = true, id, label
	m.errMsg = ""
	m.forceClearInfo()
}

func (m *Model) settle() {
	m.loading, m.pendingID, m.pendingLabel = false, "", ""
}

func (m *Model) handleCategoryLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(categoryLoadedMsg)
	if !ok || loaded.id != m.pendingID {
		return nil
	}
	m.settle()
	if loaded.err != nil {
		m.errMsg = loaded.err.Error()
		return nil
	}
	node, _ := m.registry.Find(loaded.id)
	l := newLevel(loaded.id, loaded.title, loaded.items, node)
	m.stack = append(m.stack, l)
	m.syncViewport(l)
	if len(l.Items) == 0 {
		m.setInfo("No entries found.")
	} else {
		m.clearInfo()
	}
	return nil
}

func (m *Model) syncViewport(l *level) {
	if l != nil {
		l.Reveal(m.maxVisibleItems())
	}
}

func (m *Model) currentLevel() *level {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}
