package ui

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	infoDuration = 5 * time.Second

	// status line and filter prompt
	bottomBarRows = 2

	rowMarker = "▌"
)

// styledLine is one screen row. The marker, when set, is drawn ahead of the
// text in its own style.
type styledLine struct {
	marker      string
	markerStyle *lipgloss.Style
	text        string
	style       *lipgloss.Style
}

func (l styledLine) render() string {
	text := renderStyled(l.style, l.text)
	if l.marker == "" {
		return text
	}
	return renderStyled(l.markerStyle, l.marker) + text
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.mode == ModeCityForm && m.cityForm != nil {
		return m.viewCityFormWithHeader(m.menuHeader())
	}
	if m.hasSidePanel() {
		return m.viewSplit()
	}
	width := m.width
	lines := clipLines(m.bodyLines(width), m.height-bottomBarRows, width)
	return renderLines(append(lines, m.bottomBar()...))
}

// viewSplit draws the list on the left and the document panel on the right,
// with the bottom bar spanning both.
func (m *Model) viewSplit() string {
	listW, height := m.listWidth(), max(m.height-bottomBarRows, 1)
	body := clipLines(m.bodyLines(listW), height, listW)
	for len(body) < height {
		body = append(body, styledLine{})
	}
	left := lipgloss.NewStyle().Width(listW).MaxWidth(listW).Render(renderLines(body))
	split := lipgloss.JoinHorizontal(lipgloss.Top, left, m.renderPanel(m.panelWidth(), height))
	return split + "\n" + renderLines(m.bottomBar())
}

// bodyLines is everything above the bottom bar.
func (m *Model) bodyLines(width int) []styledLine {
	lines := m.listLines(width)
	lines = append(lines, m.inlineDocument()...)
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{}, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{}, styledLine{text: m.footerText(), style: styles.Footer})
	}
	return lines
}

// listLines renders the header, the add button on the city list and the
// rows inside the viewport.
func (m *Model) listLines(width int) []styledLine {
	var lines []styledLine
	if header := m.menuHeader(); header != "" {
		lines = append(lines, styledLine{text: header, style: styles.Header})
	}
	current := m.currentLevel()
	if current == nil {
		return lines
	}
	if m.showsAddButton() {
		lines = append(lines, styledLine{text: addButtonLabel, style: styles.Button})
	}
	if len(current.Items) == 0 {
		return append(lines, styledLine{text: m.emptyListText(current), style: styles.Info})
	}
	m.syncViewport(current)
	first, last := current.ViewportOffset, len(current.Items)
	if n := m.maxVisibleItems(); n > 0 {
		last = min(first+n, last)
	}
	for idx := first; idx < last; idx++ {
		lines = append(lines, m.itemLine(current, idx, width))
	}
	return lines
}

// itemLine draws row idx. The text is padded to width so the highlight
// covers the whole column.
func (m *Model) itemLine(current *level, idx, width int) styledLine {
	item := current.Items[idx]
	line := styledLine{
		marker:      rowMarker,
		markerStyle: styles.ItemIndicator,
		text:        " " + item.Label,
		style:       styles.Item,
	}
	if idx == current.Cursor {
		line.markerStyle, line.style = styles.SelectedItemIndicator, styles.SelectedItem
	}
	if m.swipingRow(current, item) {
		line.text, line.style = " ✕ "+item.Label, styles.Swipe
	}
	if pad := width - lipgloss.Width(rowMarker+line.text); width > 0 && pad > 0 {
		line.text += strings.Repeat(" ", pad)
	}
	return line
}

func (m *Model) emptyListText(current *level) string {
	switch {
	case current.Filter() != "":
		return fmt.Sprintf("No matches for %q", current.Filter())
	case current.ID != "root":
		return "(no entries)"
	case !m.controller.Cache().Synced():
		return "Loading cities…"
	default:
		return "(no cities yet)"
	}
}

// showsAddButton reports whether the add button row is drawn.
func (m *Model) showsAddButton() bool {
	current := m.currentLevel()
	return current != nil && current.ID == "root"
}

// listTop returns the screen row of the first list item.
func (m *Model) listTop() int {
	top := 0
	if m.menuHeader() != "" {
		top++
	}
	if m.showsAddButton() {
		top++
	}
	return top
}

// addButtonRow returns the screen row of the add button, or -1.
func (m *Model) addButtonRow() int {
	if !m.showsAddButton() {
		return -1
	}
	return m.listTop() - 1
}

func (m *Model) footerText() string {
	if m.showsAddButton() {
		return "enter edit/delete  ctrl+n add  drag ←/→ delete  f1 keys  esc quit"
	}
	return "↑/↓ move  enter select  esc back  ctrl+c quit"
}

// bottomBar renders the status line and the filter prompt.
func (m *Model) bottomBar() []styledLine {
	status := styledLine{}
	switch {
	case m.errMsg != "":
		status = styledLine{text: "Error: " + m.errMsg, style: styles.Error}
	case m.loading && m.pendingLabel != "":
		status = styledLine{text: "Loading " + m.pendingLabel + "…", style: styles.Loading}
	}
	return fitWidth([]styledLine{status, {text: m.filterPrompt()}}, m.width)
}

// menuHeader joins the collection name with a segment per open level, for
// example "cities→Calgary (AB)".
func (m *Model) menuHeader() string {
	if len(m.stack) == 0 {
		return ""
	}
	segments := []string{cmp.Or(strings.TrimSpace(m.rootTitle), defaultRootTitle)}
	for _, l := range m.stack[1:] {
		if segment := headerSegmentForLevel(l); segment != "" {
			segments = append(segments, segment)
		}
	}
	return strings.Join(segments, menuHeaderSeparator)
}

// headerSegmentForLevel uses the title of levels whose node builds one and
// otherwise the last part of the level ID.
func headerSegmentForLevel(l *level) string {
	if l == nil {
		return ""
	}
	if title := strings.TrimSpace(l.Title); title != "" && l.Node != nil && l.Node.Title != nil {
		return title
	}
	name := cmp.Or(strings.TrimSpace(l.ID), strings.TrimSpace(l.Title))
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	return strings.Join(strings.Fields(strings.ToLower(headerSegmentCleaner.Replace(name))), " ")
}

// maxVisibleItems is the number of list rows that fit, or -1 before the
// terminal size is known.
func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	return max(m.height-m.chromeRows()-len(m.inlineDocument()), 1)
}

// chromeRows counts the rows that are neither list rows nor document.
func (m *Model) chromeRows() int {
	used := bottomBarRows
	if m.menuHeader() != "" {
		used++
	}
	if m.showsAddButton() {
		used++
	}
	if m.currentInfo() != "" {
		used += 2
	}
	if m.showFooter {
		used += 2
	}
	return used
}

// listRowsWanted is the number of rows the current level needs to show
// every item. An empty level still takes a row for its placeholder.
func (m *Model) listRowsWanted() int {
	current := m.currentLevel()
	if current == nil {
		return 0
	}
	return max(len(current.Items), 1)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if m.controller.Tracking() {
		m.controller.PointerCancel("resize")
		m.press = pressState{}
	}
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	m.syncViewport(m.currentLevel())
	return nil
}

func (m *Model) setInfo(message string) {
	m.infoMsg, m.infoExpire = message, time.Now().Add(infoDuration)
}

// clearInfo drops the info line once it has expired.
func (m *Model) clearInfo() {
	if m.infoMsg != "" && !time.Now().Before(m.infoExpire) {
		m.forceClearInfo()
	}
}

func (m *Model) forceClearInfo() {
	m.infoMsg, m.infoExpire = "", time.Time{}
}

func (m *Model) currentInfo() string {
	m.clearInfo()
	return m.infoMsg
}

// clipLines keeps at most height rows, replacing the last kept row with an
// ellipsis when rows were dropped, and fits every row to width.
func clipLines(lines []styledLine, height, width int) []styledLine {
	if height > 0 && len(lines) > height {
		lines = append(lines[:height-1:height-1], styledLine{text: "…"})
	}
	return fitWidth(lines, width)
}

func fitWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	fitted := make([]styledLine, len(lines))
	for i, line := range lines {
		line.text = fitCells(line.text, width-lipgloss.Width(line.marker))
		fitted[i] = line
	}
	return fitted
}

func renderLines(lines []styledLine) string {
	rows := make([]string, len(lines))
	for i, line := range lines {
		rows[i] = line.render()
	}
	return strings.Join(rows, "\n")
}
