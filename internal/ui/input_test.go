package ui

import (
	"strings"
	"testing"

	"github.com/atomicstack/listy-city/internal/city"
	"github.com/atomicstack/listy-city/internal/menu"
	uistate "github.com/atomicstack/listy-city/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

func setFilter(l *level, text string) {
	l.EditFilter(func(q *uistate.Query) bool { return q.Insert(text) })
}

func TestHandleTextInputAppendsRunes(t *testing.T) {
	m := NewModel(Options{})
	current := m.currentLevel()
	current.UpdateItems(menu.CityItems([]city.City{city.New("Regina", "SK")}))
	handled, _ := m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")})
	if !handled {
		t.Fatalf("expected key press to be handled")
	}
	if current.Filter() != "abc" {
		t.Fatalf("expected filter 'abc', got %q", current.Filter())
	}
	if pos := current.FilterPos(); pos != 3 {
		t.Fatalf("expected cursor at end, got %d", pos)
	}
}

func TestHandleTextInputCursorMovement(t *testing.T) {
	m := NewModel(Options{})
	current := m.currentLevel()
	current.UpdateItems(menu.CityItems([]city.City{city.New("Regina", "SK")}))
	setFilter(current, "abc")

	if handled, _ := m.handleTextInput(tea.KeyMsg{Type: tea.KeyLeft}); !handled {
		t.Fatalf("expected left arrow to be handled")
	}
	if pos := current.FilterPos(); pos != 2 {
		t.Fatalf("expected cursor at 2 after left, got %d", pos)
	}
	if handled, _ := m.handleTextInput(tea.KeyMsg{Type: tea.KeyRight}); !handled {
		t.Fatalf("expected right arrow to be handled")
	}
	if pos := current.FilterPos(); pos != 3 {
		t.Fatalf("expected cursor back at 3, got %d", pos)
	}
}

func TestHandleTextInputClearsFilter(t *testing.T) {
	m := NewModel(Options{})
	current := m.currentLevel()
	current.UpdateItems(menu.CityItems([]city.City{city.New("Regina", "SK"), city.New("Brandon", "MB")}))
	setFilter(current, "reg")
	if len(current.Items) != 1 {
		t.Fatalf("expected filter to narrow rows, got %d", len(current.Items))
	}
	if handled, _ := m.handleTextInput(tea.KeyMsg{Type: tea.KeyCtrlU}); !handled {
		t.Fatalf("expected ctrl+u to be handled")
	}
	if current.Filter() != "" || len(current.Items) != 2 {
		t.Fatalf("expected filter cleared, got %q with %d rows", current.Filter(), len(current.Items))
	}
}

func TestHandleTextInputIgnoredWhileLoading(t *testing.T) {
	m := NewModel(Options{})
	m.loading = true
	if handled, _ := m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}); handled {
		t.Fatalf("expected input ignored while loading")
	}
}

func TestFilterPromptPlaceholder(t *testing.T) {
	m := NewModel(Options{})
	prompt := m.filterPrompt()
	if !strings.Contains(prompt, "type to filter cities") {
		t.Fatalf("expected root placeholder in prompt, got %q", prompt)
	}
	m.stack = append(m.stack, newLevel("city", "Regina (SK)", nil, nil))
	prompt = m.filterPrompt()
	if !strings.Contains(prompt, "type to search") {
		t.Fatalf("expected generic placeholder in prompt, got %q", prompt)
	}
}

func TestFilterNoMatchesMessage(t *testing.T) {
	m, store := newTestModel(t, 60, 12)
	h := NewHarness(m)
	seedAndPush(h, store, prairies()...)
	h.Send(runes("zzz"))
	if view := h.View(); !strings.Contains(view, `No matches for "zzz"`) {
		t.Fatalf("expected no-match message, got:\n%s", view)
	}
}

func TestHandleTextInputSpaceAndWordDelete(t *testing.T) {
	m := NewModel(Options{})
	current := m.currentLevel()
	current.UpdateItems(menu.CityItems([]city.City{city.New("Red Deer", "AB")}))
	m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("red")})
	if handled, _ := m.handleTextInput(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}); !handled {
		t.Fatalf("expected space to be handled")
	}
	m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("de")})
	if current.Filter() != "red de" {
		t.Fatalf("expected filter 'red de', got %q", current.Filter())
	}
	if handled, _ := m.handleTextInput(tea.KeyMsg{Type: tea.KeyCtrlW}); !handled {
		t.Fatalf("expected ctrl+w to be handled")
	}
	if current.Filter() != "red " {
		t.Fatalf("expected last word removed, got %q", current.Filter())
	}
}

func TestHandleTextInputLeavesArrowsAtEdges(t *testing.T) {
	m := NewModel(Options{})
	if handled, _ := m.handleTextInput(tea.KeyMsg{Type: tea.KeyLeft}); handled {
		t.Fatalf("expected left arrow on an empty filter to fall through")
	}
	if handled, _ := m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true}); handled {
		t.Fatalf("expected alt+x to fall through")
	}
}
