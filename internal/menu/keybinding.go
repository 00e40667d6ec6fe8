package menu

import (
	"github.com/atomicstack/listy-city/internal/format/table"
	tea "github.com/charmbracelet/bubbletea"
)

// Binding documents one key or mouse gesture.
type Binding struct {
	Keys string
	Help string
}

// Bindings lists the key and mouse bindings of the list screen.
var Bindings = []Binding{
	{"enter / click", "open Edit/Delete for the row"},
	{"ctrl+n / [ + Add city ]", "add a city"},
	{"drag left/right", "delete the row"},
	{"up/down, pgup/pgdown", "move the cursor"},
	{"type", "filter rows"},
	{"esc", "back / quit"},
	{"f1", "show this help"},
	{"ctrl+c", "quit"},
}

func loadKeyHelp(Context) ([]Item, error) {
	rows := make([][]string, len(Bindings))
	for i, b := range Bindings {
		rows[i] = []string{b.Keys, b.Help}
	}
	labels := table.Format(rows, []table.Alignment{table.AlignRight, table.AlignLeft})
	items := make([]Item, len(labels))
	for i, label := range labels {
		items[i] = Item{ID: Bindings[i].Keys, Label: label, Index: NoIndex}
	}
	return items, nil
}

// KeyHelpAction closes the help level.
func KeyHelpAction(Context, Item) tea.Cmd {
	return func() tea.Msg { return ActionResult{} }
}
