package menu

import (
	"github.com/atomicstack/listy-city/internal/city"
	tea "github.com/charmbracelet/bubbletea"
)

// NoIndex marks an item that does not correspond to a cached city.
const NoIndex = -1

// Item represents a selectable menu entry.
type Item struct {
	ID    string
	Label string
	// Index is the cache position of the city the item renders, or NoIndex.
	Index int
}

// Context carries runtime data needed by loader functions.
type Context struct {
	Cities   []city.City
	// Selected is the city the chooser was opened for.
	Selected *city.City
}

// SelectedCity returns the chooser's city, if any.
func (c Context) SelectedCity() (city.City, bool) {
	if c.Selected == nil {
		return city.City{}, false
	}
	return *c.Selected, true
}

// Loader populates submenu entries on demand.
type Loader func(Context) ([]Item, error)

type Action func(Context, Item) tea.Cmd

// ActionResult communicates the outcome of executing a menu action.
type ActionResult struct {
	Info string
	Err  error
}

// CityPrompt requests the edit dialog. Original is nil when creating.
type CityPrompt struct {
	Action   string
	Original *city.City
}

// ChooserPrompt requests the Edit/Delete chooser for a row.
type ChooserPrompt struct {
	City  city.City
	Index int
}

// DeleteRequest asks for city to be deleted by name.
type DeleteRequest struct {
	City city.City
}
