package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/atomicstack/listy-city/internal/docstore"
	"github.com/atomicstack/listy-city/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	// document lines shown under the list, title excluded
	inlineDocumentLines = 20
	panelMinWidth       = 40
	panelShare          = 0.6
)

// docPanel holds the stored document behind the highlighted city. Only the
// city list has one.
type docPanel struct {
	key     string
	label   string
	lines   []string
	err     string
	loading bool
	seq     int
	offset  int
}

type documentLoadedMsg struct {
	seq   int
	key   string
	lines []string
	err   error
}

// empty reports whether the panel has nothing worth drawing.
func (d *docPanel) empty() bool {
	return d == nil || (d.err == "" && len(d.lines) == 0 && !d.loading)
}

func (d *docPanel) title() string {
	label := strings.TrimSpace(d.label)
	if label == "" {
		label = d.key
	}
	if d.loading && d.err == "" {
		return "Document: " + label + " (loading…)"
	}
	return "Document: " + label
}

// window returns up to rows lines starting at the scroll offset, pulling the
// offset back when the panel has grown taller than the document.
func (d *docPanel) window(rows int) []string {
	if rows < 1 {
		rows = 1
	}
	d.offset = clampInt(d.offset, 0, max(len(d.lines)-rows, 0))
	return d.lines[d.offset:min(d.offset+rows, len(d.lines))]
}

// refreshDocument fetches the document under the list cursor unless the
// panel already shows or is fetching it. Other levels keep the last panel
// for when the user comes back.
func (m *Model) refreshDocument() tea.Cmd {
	current := m.currentLevel()
	if current == nil || current.ID != "root" {
		return nil
	}
	item, ok := current.CursorItem()
	if !ok || m.store == nil {
		m.doc = nil
		return nil
	}
	cty, ok := m.controller.Cache().At(item.Index)
	if !ok {
		m.doc = nil
		return nil
	}
	key := cty.Key()
	if m.doc != nil && m.doc.key == key {
		return nil
	}
	m.docSeq++
	m.doc = &docPanel{key: key, label: cty.Label(), loading: true, seq: m.docSeq}
	return fetchDocument(m.store, m.collection, key, m.docSeq)
}

func fetchDocument(store Store, collection, key string, seq int) tea.Cmd {
	return func() tea.Msg {
		events.Store.Fetch(collection, key)
		doc, err := store.Get(context.Background(), collection, key)
		if err != nil {
			return documentLoadedMsg{seq: seq, key: key, err: err}
		}
		return documentLoadedMsg{seq: seq, key: key, lines: documentLines(doc)}
	}
}

func (m *Model) handleDocumentLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(documentLoadedMsg)
	if !ok || m.doc == nil {
		return nil
	}
	if m.doc.seq != loaded.seq || m.doc.key != loaded.key {
		return nil
	}
	m.doc.loading = false
	m.doc.offset = 0
	m.doc.lines, m.doc.err = loaded.lines, ""
	if loaded.err != nil {
		m.doc.lines, m.doc.err = nil, loaded.err.Error()
	}
	// the inline panel changes how many rows the list gets
	m.syncViewport(m.currentLevel())
	return nil
}

// documentLines renders a document as its key followed by sorted fields.
func documentLines(doc docstore.Document) []string {
	names := make([]string, 0, len(doc.Fields))
	for name := range doc.Fields {
		names = append(names, name)
	}
	slices.Sort(names)
	lines := []string{"key: " + doc.Key, ""}
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s: %v", name, doc.Fields[name]))
	}
	if len(names) == 0 {
		lines = append(lines, "(no fields)")
	}
	return lines
}

// visibleDocument returns the panel when the current level shows one.
func (m *Model) visibleDocument() *docPanel {
	current := m.currentLevel()
	if current == nil || current.ID != "root" || m.doc.empty() {
		return nil
	}
	return m.doc
}

// panelWidth is the width of the side panel, or 0 when the terminal is too
// narrow and the document goes below the list instead.
func (m *Model) panelWidth() int {
	w := int(float64(m.width) * panelShare)
	if m.width <= 0 || w < panelMinWidth {
		return 0
	}
	return w
}

func (m *Model) listWidth() int {
	return m.width - m.panelWidth()
}

// hasSidePanel reports whether the list is drawn beside the document panel.
func (m *Model) hasSidePanel() bool {
	current := m.currentLevel()
	return current != nil && current.ID == "root" && m.panelWidth() > 0
}

// inlineDocument returns the rows drawn under the list on narrow terminals.
// The panel only gets the rows the list does not need, and is dropped when
// that leaves no room for a line of the document.
func (m *Model) inlineDocument() []styledLine {
	doc := m.visibleDocument()
	if doc == nil || m.hasSidePanel() {
		return nil
	}
	room := inlineDocumentLines + 2
	if m.height > 0 {
		room = min(room, m.height-m.chromeRows()-m.listRowsWanted())
	}
	if room < 3 {
		return nil
	}
	lines := []styledLine{{}, {text: doc.title(), style: styles.PanelTitle}}
	switch {
	case doc.err != "":
		return append(lines, styledLine{text: doc.err, style: styles.PanelError})
	case len(doc.lines) == 0:
		return append(lines, styledLine{text: "Loading document…", style: styles.PanelBody})
	}
	for _, line := range doc.lines[:min(len(doc.lines), room-len(lines))] {
		lines = append(lines, styledLine{text: line, style: styles.PanelBody})
	}
	return lines
}

// renderPanel draws the bordered side panel at exactly width by height cells.
func (m *Model) renderPanel(width, height int) string {
	innerW, innerH := max(width-2, 1), max(height-2, 1)
	doc := m.visibleDocument()
	var (
		title = "Document"
		body  = []string{"(nothing selected)"}
		style = styles.PanelBody
	)
	if doc != nil {
		title = doc.title()
		switch {
		case doc.err != "":
			body, style = []string{doc.err}, styles.PanelError
		case len(doc.lines) > 0:
			body = doc.window(innerH - 1)
			title += fmt.Sprintf("  %d/%d", doc.offset+len(body), len(doc.lines))
		default:
			body = []string{"Loading…"}
		}
	}
	rows := make([]string, 0, innerH)
	rows = append(rows, styles.PanelTitle.Render(fitCells(title, innerW)))
	for _, line := range body {
		if len(rows) == innerH {
			break
		}
		rows = append(rows, style.Render(fitCells(line, innerW)))
	}
	return styles.PanelBorder.
		Width(innerW).
		Height(innerH).
		MaxHeight(height).
		Render(strings.Join(rows, "\n"))
}

// scrollDocument moves the side panel by delta lines.
func (m *Model) scrollDocument(delta int) bool {
	doc := m.visibleDocument()
	if doc == nil || doc.loading {
		return false
	}
	old := doc.offset
	doc.offset += delta
	doc.window(m.height - bottomBarRows - 3)
	return doc.offset != old
}

// fitCells cuts s to width display cells, marking the cut with an ellipsis.
func fitCells(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(max(width, 0)), "…")
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
