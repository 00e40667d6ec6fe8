package ui

import (
	"strings"
	"unicode"

	"github.com/atomicstack/listy-city/internal/logging/events"
	uistate "github.com/atomicstack/listy-city/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// filterEdits maps keys to filter line edits. Printable input is handled
// separately by typedText.
var filterEdits = map[string]func(*uistate.Query) bool{
	"ctrl+u":        (*uistate.Query).Clear,
	"ctrl+w":        (*uistate.Query).DeleteWord,
	"alt+backspace": (*uistate.Query).DeleteWord,
	"backspace":     (*uistate.Query).Backspace,
	"ctrl+h":        (*uistate.Query).Backspace,
	"ctrl+a":        (*uistate.Query).Home,
	"ctrl+e":        (*uistate.Query).End,
	"left":          (*uistate.Query).Left,
	"right":         (*uistate.Query).Right,
	"alt+b":         (*uistate.Query).WordLeft,
	"alt+f":         (*uistate.Query).WordRight,
}

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

// handleTextInput applies msg to the filter of the current level. It reports
// false when the key is not a filter edit or changed nothing, leaving it to
// the navigation keys.
func (m *Model) handleTextInput(msg tea.KeyMsg) (bool, tea.Cmd) {
	current := m.currentLevel()
	if m.loading || current == nil {
		return false, nil
	}
	name := msg.String()
	edit, ok := filterEdits[name]
	if !ok {
		text, typed := typedText(msg)
		if !typed {
			return false, nil
		}
		edit = func(q *uistate.Query) bool { return q.Insert(text) }
	}
	return m.editFilter(current, name, edit)
}

func (m *Model) editFilter(l *level, key string, edit func(*uistate.Query) bool) (bool, tea.Cmd) {
	before, pos := l.Filter(), l.FilterPos()
	if !l.EditFilter(edit) {
		return false, nil
	}
	if l.FilterPos() != pos {
		m.filterCursorDirty = true
	}
	events.Filter.Edit(l.ID, key, l.Filter(), l.FilterPos())
	if l.Filter() == before {
		return true, nil
	}
	m.forceClearInfo()
	m.errMsg = ""
	m.syncViewport(l)
	return true, m.refreshDocument()
}

// typedText returns the printable text carried by msg.
func typedText(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeySpace:
		return " ", true
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return "", false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return "", false
			}
		}
		return string(msg.Runes), true
	}
	return "", false
}

// filterPrompt renders the prompt line: the filter with a caret, or the
// placeholder with the caret on its first rune.
func (m *Model) filterPrompt() string {
	prompt := "» "
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	current := m.currentLevel()
	if current == nil {
		return prompt
	}
	text, pos, style := []rune(current.Filter()), current.FilterPos(), styles.Filter
	if len(text) == 0 {
		text, pos, style = []rune(m.filterPlaceholder(current)), 0, styles.FilterPlaceholder
	}
	caret, rest := " ", ""
	if pos < len(text) {
		caret, rest = string(text[pos]), string(text[pos+1:])
	}
	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString(renderStyled(style, string(text[:pos])))
	b.WriteString(m.renderFilterCursor(caret, style))
	b.WriteString(renderStyled(style, rest))
	return b.String()
}

func renderStyled(style *lipgloss.Style, value string) string {
	if style == nil || value == "" {
		return value
	}
	return style.Render(value)
}

// renderFilterCursor draws char as the caret. While the blink is in its off
// phase the character is drawn in the surrounding text style.
func (m *Model) renderFilterCursor(char string, text *lipgloss.Style) string {
	base := lipgloss.NewStyle()
	if text != nil {
		base = *text
	}
	base = base.Inline(true)
	if m.filterCursor.Blink {
		return base.Render(char)
	}
	if styles.Cursor != nil {
		return base.Inherit(styles.Cursor.Inline(true)).Blink(false).Render(char)
	}
	return base.Reverse(true).Render(char)
}

func (m *Model) filterPlaceholder(l *level) string {
	if l != nil && l.ID == "root" {
		return "(type to filter cities)"
	}
	return "(type to search)"
}
