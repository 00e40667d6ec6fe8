package ui

import (
	"reflect"
	"strings"
	"time"

	"github.com/atomicstack/listy-city/internal/backend"
	"github.com/atomicstack/listy-city/internal/city"
	"github.com/atomicstack/listy-city/internal/docstore"
	"github.com/atomicstack/listy-city/internal/menu"
	"github.com/atomicstack/listy-city/internal/screen"
	"github.com/atomicstack/listy-city/internal/state"
	"github.com/atomicstack/listy-city/internal/theme"
	"github.com/atomicstack/listy-city/internal/ui/command"
	uistate "github.com/atomicstack/listy-city/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

type level = uistate.Level

type Mode int

const (
	ModeMenu Mode = iota
	ModeCityForm
)

const (
	menuHeaderSeparator = "→"
	defaultRootTitle    = "cities"
	addButtonLabel      = "[ + Add city ]"

	defaultCellWidthPx  = 10
	defaultCellHeightPx = 20
)

var styles = theme.Default()

var headerSegmentCleaner = strings.NewReplacer("_", " ", "-", " ")

type msgHandler func(tea.Msg) tea.Cmd

func newLevel(id, title string, items []menu.Item, node *menu.Node) *level {
	return uistate.NewLevel(id, title, items, node)
}

// Store is the part of the document store the UI talks to directly.
type Store interface {
	docstore.Mutator
	docstore.Getter
}

// Options configures a Model.
type Options struct {
	Collection string
	Store      Store
	Watcher    *backend.Watcher
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	// CellWidthPx and CellHeightPx convert terminal cells into the pixel
	// units the swipe thresholds are expressed in.
	CellWidthPx  int
	CellHeightPx int
}

// Model implements the Bubble Tea model for the city list.
type Model struct {
	stack             []*level
	loading           bool
	pendingID         string
	pendingLabel      string
	errMsg            string
	infoMsg           string
	infoExpire        time.Time
	width             int
	height            int
	fixedWidth        bool
	fixedHeight       bool
	backend           *backend.Watcher
	showFooter        bool
	verbose           bool
	cityForm          *menu.CityForm
	filterCursor      cursor.Model
	filterCursorDirty bool

	handlers map[reflect.Type]msgHandler

	registry   *menu.Registry
	bus        *command.Bus
	mode       Mode
	rootTitle  string
	collection string
	store      Store
	controller *screen.Controller

	selected      *city.City
	selectedIndex int

	doc    *docPanel
	docSeq int

	cellWidthPx  int
	cellHeightPx int
	press        pressState
}

// NewModel initialises the UI state with an empty city list.
func NewModel(opts Options) *Model {
	registry := menu.BuildRegistry()
	collection := strings.TrimSpace(opts.Collection)
	if collection == "" {
		collection = defaultRootTitle
	}
	root := newLevel("root", collection, nil, registry.Root())
	m := &Model{
		stack:         []*level{root},
		registry:      registry,
		bus:           command.New(),
		backend:       opts.Watcher,
		showFooter:    opts.ShowFooter,
		verbose:       opts.Verbose,
		mode:          ModeMenu,
		rootTitle:     collection,
		collection:    collection,
		store:         opts.Store,
		selectedIndex: -1,
		cellWidthPx:   opts.CellWidthPx,
		cellHeightPx:  opts.CellHeightPx,
	}
	if m.cellWidthPx <= 0 {
		m.cellWidthPx = defaultCellWidthPx
	}
	if m.cellHeightPx <= 0 {
		m.cellHeightPx = defaultCellHeightPx
	}
	m.controller = screen.New(collection, opts.Store, state.NewCityStore(), m, m)
	m.syncViewport(root)
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	// only the blink phase is used; filterPrompt draws the caret itself
	m.filterCursor = cursor.New()
	m.registerHandlers()
	return m
}

// Controller exposes the screen controller driving the list.
func (m *Model) Controller() *screen.Controller {
	return m.controller
}

// Refresh redraws the list rows from the cache.
func (m *Model) Refresh(cities []city.City) {
	if len(m.stack) == 0 {
		return
	}
	root := m.stack[0]
	root.UpdateItems(menu.CityItems(cities))
	m.syncViewport(root)
	m.doc = nil
}

// Notify shows message as a transient info line.
func (m *Model) Notify(message string) {
	m.setInfo(message)
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	var wait tea.Cmd
	if m.backend != nil {
		wait = waitForBackendEvent(m.backend)
	}
	return tea.Batch(wait, m.filterCursor.Focus())
}

// Update routes msg to the open form first and then to the handler
// registered for its type.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.updateFilterCursorModel(msg)}
	if m.mode == ModeCityForm {
		handled, cmd := m.handleCityForm(msg)
		cmds = append(cmds, cmd)
		if handled {
			return m, m.finishUpdate(cmds)
		}
	}
	if handler, ok := m.handlers[reflect.TypeOf(msg)]; ok {
		cmds = append(cmds, handler(msg))
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):         m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):       m.handleMouseMsg,
		reflect.TypeOf(tea.BlurMsg{}):        m.handleBlurMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):  m.handleWindowSizeMsg,
		reflect.TypeOf(categoryLoadedMsg{}):  m.handleCategoryLoadedMsg,
		reflect.TypeOf(menu.ActionResult{}):  m.handleActionResultMsg,
		reflect.TypeOf(menu.ChooserPrompt{}): m.handleChooserPromptMsg,
		reflect.TypeOf(menu.CityPrompt{}):    m.handleCityPromptMsg,
		reflect.TypeOf(menu.DeleteRequest{}): m.handleDeleteRequestMsg,
		reflect.TypeOf(opResultMsg{}):        m.handleOpResultMsg,
		reflect.TypeOf(documentLoadedMsg{}):  m.handleDocumentLoadedMsg,
		reflect.TypeOf(backendEventMsg{}):    m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):     m.handleBackendDoneMsg,
	}
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	// a moved caret is shown solid before blinking again
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		cmds = append(cmds, m.filterCursor.BlinkCmd())
	}
	return tea.Batch(cmds...)
}
