package menu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atomicstack/listy-city/internal/city"
	"github.com/atomicstack/listy-city/internal/format/table"
	"github.com/atomicstack/listy-city/internal/logging/events"
	"github.com/atomicstack/listy-city/internal/screen"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	ActionAdd  = "city:add"
	ActionEdit = "city:edit"
)

// rowIDPrefix keeps list row IDs clear of registry child keys.
const rowIDPrefix = "row-"

// RowID returns the item ID used for the city at cache index i.
func RowID(i int) string {
	return rowIDPrefix + strconv.Itoa(i)
}

// CityItems renders cities as aligned name/province rows.
func CityItems(cities []city.City) []Item {
	if len(cities) == 0 {
		return nil
	}
	rows := make([][]string, len(cities))
	for i, c := range cities {
		rows[i] = []string{c.Name, c.Province}
	}
	labels := table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft})
	items := make([]Item, len(cities))
	for i := range cities {
		items[i] = Item{ID: RowID(i), Label: strings.TrimRight(labels[i], " "), Index: i}
	}
	return items
}

func loadCityList(ctx Context) ([]Item, error) {
	return CityItems(ctx.Cities), nil
}

func loadCityChooser(ctx Context) ([]Item, error) {
	if _, ok := ctx.SelectedCity(); !ok {
		return nil, fmt.Errorf("no city selected")
	}
	return []Item{
		{ID: "edit", Label: "Edit", Index: NoIndex},
		{ID: "delete", Label: "Delete", Index: NoIndex},
	}, nil
}

func loadDeleteConfirm(ctx Context) ([]Item, error) {
	if _, ok := ctx.SelectedCity(); !ok {
		return nil, fmt.Errorf("no city selected")
	}
	return []Item{
		{ID: "confirm", Label: "Delete", Index: NoIndex},
		{ID: "cancel", Label: "Cancel", Index: NoIndex},
	}, nil
}

func chooserTitle(ctx Context) string {
	if c, ok := ctx.SelectedCity(); ok {
		return screen.ChooserTitle(c)
	}
	return "City"
}

func confirmTitle(ctx Context) string {
	if c, ok := ctx.SelectedCity(); ok {
		return screen.ConfirmText(c)
	}
	return "Delete?"
}

// CityChooseAction opens the Edit/Delete chooser for a list row.
func CityChooseAction(ctx Context, item Item) tea.Cmd {
	if item.Index < 0 || item.Index >= len(ctx.Cities) {
		return func() tea.Msg {
			return ActionResult{Err: fmt.Errorf("row %q is no longer in the list", item.ID)}
		}
	}
	selected := ctx.Cities[item.Index]
	index := item.Index
	return func() tea.Msg {
		events.City.Choose(selected.Name, selected.Province)
		return ChooserPrompt{City: selected, Index: index}
	}
}

func CityAddAction(ctx Context, _ Item) tea.Cmd {
	return func() tea.Msg {
		events.City.AddPrompt(len(ctx.Cities))
		return CityPrompt{Action: ActionAdd}
	}
}

func CityEditAction(ctx Context, _ Item) tea.Cmd {
	selected, ok := ctx.SelectedCity()
	if !ok {
		return func() tea.Msg { return ActionResult{Err: fmt.Errorf("no city selected")} }
	}
	return func() tea.Msg {
		events.City.EditPrompt(selected.Name)
		return CityPrompt{Action: ActionEdit, Original: &selected}
	}
}

func CityDeleteConfirmAction(ctx Context, _ Item) tea.Cmd {
	selected, ok := ctx.SelectedCity()
	if !ok {
		return func() tea.Msg { return ActionResult{Err: fmt.Errorf("no city selected")} }
	}
	return func() tea.Msg {
		events.City.ConfirmDelete(selected.Name)
		return DeleteRequest{City: selected}
	}
}

func CityDeleteCancelAction(Context, Item) tea.Cmd {
	return func() tea.Msg {
		events.City.Cancel(events.CityReasonEscape)
		return ActionResult{}
	}
}

// cityNodes lists the levels and actions below the city list.
func cityNodes() []Node {
	return []Node{
		{ID: "add", Action: CityAddAction},
		{ID: "city", Loader: loadCityChooser, Title: chooserTitle},
		{ID: "city:edit", Action: CityEditAction},
		{ID: "city:delete", Loader: loadDeleteConfirm, Title: confirmTitle},
		{ID: "city:delete:confirm", Action: CityDeleteConfirmAction},
		{ID: "city:delete:cancel", Action: CityDeleteCancelAction},
		{ID: "help", Loader: loadKeyHelp, Action: KeyHelpAction, Title: func(Context) string { return "Keys" }},
	}
}

const cityFormFields = 2

// CityForm collects a name and province for create and edit.
type CityForm struct {
	name     textinput.Model
	province textinput.Model
	focus    int
	action   string
	original *city.City
	title    string
	help     string
}

// NewCityForm builds a form seeded empty or from prompt.Original.
func NewCityForm(prompt CityPrompt) *CityForm {
	name := textinput.New()
	name.Prompt = "Name: "
	name.Placeholder = "city"
	name.CharLimit = 128
	province := textinput.New()
	province.Prompt = "Province: "
	province.Placeholder = "province"
	province.CharLimit = 128
	// steady caret; the form stays open only briefly
	name.Cursor.SetMode(cursor.CursorStatic)
	province.Cursor.SetMode(cursor.CursorStatic)

	form := &CityForm{
		name:     name,
		province: province,
		action:   prompt.Action,
		help:     "Tab to switch fields. Enter to save. Esc to cancel.",
	}
	if prompt.Original != nil {
		orig := *prompt.Original
		form.original = &orig
		form.action = ActionEdit
		form.name.SetValue(orig.Name)
		form.province.SetValue(orig.Province)
	} else if form.action == "" {
		form.action = ActionAdd
	}
	form.title = "Add City"
	if form.action == ActionEdit {
		form.title = "Edit City"
	}
	form.name.Focus()
	return form
}

func (f *CityForm) Title() string { return f.title }
func (f *CityForm) Help() string  { return f.help }
func (f *CityForm) IsEdit() bool  { return f.original != nil }

// Original returns the city being edited, nil in create mode.
func (f *CityForm) Original() *city.City {
	if f.original == nil {
		return nil
	}
	orig := *f.original
	return &orig
}

// Values returns the raw field contents.
func (f *CityForm) Values() (string, string) {
	return f.name.Value(), f.province.Value()
}

// Focused returns 0 for the name field and 1 for the province field.
func (f *CityForm) Focused() int { return f.focus }

func (f *CityForm) NameView() string     { return f.name.View() }
func (f *CityForm) ProvinceView() string { return f.province.View() }

// Submission is produced when the form is confirmed.
type Submission struct {
	Original *city.City
	Name     string
	Province string
}

// Update handles a message. done reports a confirmed form, cancel a dismissed
// one; when done the caller reads Submit.
func (f *CityForm) Update(msg tea.Msg) (tea.Cmd, bool, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			events.City.Cancel(events.CityReasonEscape)
			return nil, false, true
		case "enter":
			return nil, true, false
		case "tab", "down":
			f.setFocus((f.focus + 1) % cityFormFields)
			return nil, false, false
		case "shift+tab", "up":
			f.setFocus((f.focus + cityFormFields - 1) % cityFormFields)
			return nil, false, false
		case "ctrl+u":
			f.active().SetValue("")
			f.active().CursorStart()
			return nil, false, false
		}
	}
	var cmd tea.Cmd
	if f.focus == 0 {
		f.name, cmd = f.name.Update(msg)
	} else {
		f.province, cmd = f.province.Update(msg)
	}
	return cmd, false, false
}

// Submit returns the raw values entered. No validation happens here.
func (f *CityForm) Submit() Submission {
	name, province := f.Values()
	return Submission{Original: f.Original(), Name: name, Province: province}
}

func (f *CityForm) active() *textinput.Model {
	if f.focus == 0 {
		return &f.name
	}
	return &f.province
}

func (f *CityForm) setFocus(idx int) {
	f.focus = idx
	if idx == 0 {
		f.name.Focus()
		f.province.Blur()
		return
	}
	f.province.Focus()
	f.name.Blur()
}
