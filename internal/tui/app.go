// Package tui is the interactive terminal front end of the catalog.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/bookshelf/internal/form"
	"github.com/lepinkainen/bookshelf/internal/listview"
	"github.com/lepinkainen/bookshelf/internal/navigation"
	"github.com/lepinkainen/bookshelf/internal/row"
	"github.com/lepinkainen/bookshelf/internal/store"
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

// Catalog is the store surface the UI drives.
type Catalog interface {
	form.Catalog
	Subscribe() (<-chan store.State, func())
	Delete(id int)
}

// Options configures the UI.
type Options struct {
	// CacheSize bounds the derived-view memo; zero uses the default.
	CacheSize int
	// StartPath is the route shown first, e.g. "/books/3".
	StartPath string
	// Params is the initial search and sort.
	Params listview.Params
}

type stateMsg store.State

type unsubscribedMsg struct{}

func waitForState(updates <-chan store.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-updates
		if !ok {
			return unsubscribedMsg{}
		}
		return stateMsg(st)
	}
}

// Model is the root bubbletea model.
type Model struct {
	catalog     Catalog
	updates     <-chan store.State
	unsubscribe func()

	router *navigation.Router
	view   *listview.Model
	rows   *row.Set
	state  store.State

	list      list.Model
	search    textinput.Model
	searching bool

	editor        *editor
	confirmDelete int

	status   string
	width    int
	height   int
	quitting bool
}

// New builds the UI over catalog and subscribes to its snapshots.
func New(catalog Catalog, opts Options) *Model {
	size := opts.CacheSize
	if size <= 0 {
		size = listview.DefaultCacheSize
	}

	m := &Model{
		catalog: catalog,
		view:    listview.NewModel(size),
		rows:    row.NewSet(),
		list:    newBookList(),
		search:  newSearchInput(),
	}
	m.router = navigation.NewRouter(m.onNavigate)
	m.updates, m.unsubscribe = catalog.Subscribe()

	p := opts.Params
	if p.SortKey != "" {
		m.view.SortBy(p.SortKey)
	}
	if p.Direction != "" {
		m.view.SetDirection(p.Direction)
	}
	if p.Query != "" {
		m.view.Search(p.Query)
		m.search.SetValue(p.Query)
	}

	m.applyState(catalog.Snapshot())
	if opts.StartPath != "" {
		if err := m.router.GoPath(opts.StartPath); err != nil {
			m.status = err.Error()
		}
	}
	return m
}

// Close stops listening to the catalog.
func (m *Model) Close() {
	m.unsubscribe()
}

// Route returns the screen being shown.
func (m *Model) Route() navigation.Route {
	return m.router.Current()
}

func (m *Model) onNavigate(from, to navigation.Route) {
	m.confirmDelete = 0
	m.editor = nil

	switch to.Screen {
	case navigation.ScreenAdd:
		m.editor = newEditor(form.New(m.catalog))
	case navigation.ScreenEdit:
		m.editor = newEditor(form.NewEdit(m.catalog, to.ID))
	case navigation.ScreenDetails:
		m.loadIfEmpty()
	case navigation.ScreenList:
		if from.Screen != navigation.ScreenList {
			m.loadIfEmpty()
		}
	}
}

func (m *Model) loadIfEmpty() {
	st := m.catalog.Snapshot()
	if len(st.Books) == 0 && !st.LoadingList {
		m.catalog.LoadAll()
	}
}

func (m *Model) applyState(st store.State) tea.Cmd {
	m.state = st
	m.rows.Sync(st.Books)
	cmd := m.refreshList()
	m.observeEditor()
	return cmd
}

func (m *Model) Init() tea.Cmd {
	if !m.catalog.Snapshot().LoadingList {
		m.catalog.LoadAll()
	}
	return tea.Batch(waitForState(m.updates), m.focusEditor())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		cmd := m.applyState(store.State(msg))
		return m, tea.Batch(cmd, waitForState(m.updates))
	case unsubscribedMsg:
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(clamp(defaultListWidth, msg.Width-4, 40), clamp(defaultListHeight, msg.Height-8, 5))
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.router.Current().Screen {
		case navigation.ScreenDetails:
			return m.updateDetails(msg)
		case navigation.ScreenAdd, navigation.ScreenEdit:
			return m.updateEditor(msg)
		default:
			return m.updateList(msg)
		}
	}

	if m.router.Current().Screen == navigation.ScreenList {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.router.Current().Screen {
	case navigation.ScreenDetails:
		return m.detailsView()
	case navigation.ScreenAdd, navigation.ScreenEdit:
		return m.editorView()
	default:
		return m.listView()
	}
}

// footer renders the delete prompt or status line followed by help.
func (m *Model) footer(help string) string {
	var out string
	switch {
	case m.confirmDelete != 0:
		title := fmt.Sprintf("book %d", m.confirmDelete)
		if b, ok := m.state.FindByID(m.confirmDelete); ok {
			title = b.Title
		}
		out = confirmStyle.Render(fmt.Sprintf(" Delete %q? y/n ", title))
	case m.state.ActionError && m.state.LastError != nil:
		out = statusStyle.Render("Error: " + m.state.LastError.Error())
	case m.state.LoadingAction:
		out = statusStyle.Render("Saving...")
	case m.status != "":
		out = statusStyle.Render(m.status)
	}
	if out == "" {
		return helpStyle.Render(help)
	}
	return out + "\n" + helpStyle.Render(help)
}

// Run shows the UI until the user quits.
func Run(catalog Catalog, opts Options) error {
	m := New(catalog, opts)
	defer m.Close()

	if _, err := runProgram(m); err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}
