package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bookshelf/internal/book"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

// bookItem is one list row: the canonical record plus the availability the
// row currently displays.
type bookItem struct {
	book      book.Book
	available bool
}

func (i bookItem) Title() string       { return i.book.Title }
func (i bookItem) FilterValue() string { return i.book.Title }

func (i bookItem) Description() string {
	parts := []string{}
	if i.book.CatalogNumber != "" {
		parts = append(parts, i.book.CatalogNumber)
	}
	parts = append(parts, i.book.Author)
	if d := i.book.PublicationDate.String(); d != "" {
		parts = append(parts, d)
	}
	if i.book.Genre != "" {
		parts = append(parts, i.book.Genre)
	}
	parts = append(parts, strconv.FormatFloat(i.book.Rating, 'f', 1, 64)+"/5")
	return strings.Join(parts, " | ")
}

type bookDelegate struct {
	styles itemStyles
}

func newDelegate() bookDelegate {
	return bookDelegate{styles: newItemStyles()}
}

func (d bookDelegate) Height() int                         { return 2 }
func (d bookDelegate) Spacing() int                        { return 1 }
func (d bookDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	bi, ok := item.(bookItem)
	if !ok {
		return
	}

	badge := d.styles.checkedOut.Render("[ ]")
	if bi.available {
		badge = d.styles.available.Render("[x]")
	}
	titleLine := badge + " " + d.styles.title.Render(truncate(bi.Title(), m.Width()-8))
	metadataLine := d.styles.metadata.Render(truncate(bi.Description(), m.Width()-4))

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(lipgloss.JoinVertical(lipgloss.Left, titleLine, metadataLine)))
}

func newBookList() list.Model {
	l := list.New(nil, newDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("244"))
	return l
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.Placeholder = "title"
	ti.CharLimit = 200
	return ti
}

// refreshList rebuilds the list items from the derived view and the row overrides.
func (m *Model) refreshList() tea.Cmd {
	derived := m.view.View(m.state.Revision, m.state.Books)
	items := make([]list.Item, len(derived))
	for i, b := range derived {
		available := b.IsAvailable
		if rs, ok := m.rows.Get(b.ID); ok {
			available = rs.Displayed()
		}
		items[i] = bookItem{book: b, available: available}
	}

	index := m.list.Index()
	cmd := m.list.SetItems(items)
	if index >= len(items) {
		index = len(items) - 1
	}
	if index >= 0 {
		m.list.Select(index)
	}
	return cmd
}

func (m *Model) selectedBook() (book.Book, bool) {
	item, ok := m.list.SelectedItem().(bookItem)
	if !ok {
		return book.Book{}, false
	}
	return item.book, true
}

// toggleSelected flips the selected row's displayed availability at once and
// asks the store to persist the flipped canonical value.
func (m *Model) toggleSelected() tea.Cmd {
	b, ok := m.selectedBook()
	if !ok {
		return nil
	}
	rs, ok := m.rows.Get(b.ID)
	if !ok {
		return nil
	}
	rs.Toggle()
	m.catalog.Update(rs.Book().WithAvailability(!rs.Book().IsAvailable))
	return m.refreshList()
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.SetValue("")
		m.view.Search("")
		m.search.Blur()
		m.searching = false
		return m, m.refreshList()
	case "enter":
		m.search.Blur()
		m.searching = false
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.view.Search(m.search.Value())
	m.list.Select(0)
	return m, tea.Batch(cmd, m.refreshList())
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.updateSearch(msg)
	}
	if m.confirmDelete != 0 {
		return m.updateConfirm(msg)
	}

	switch msg.String() {
	case "q":
		return m.quit()
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "s":
		m.view.SortBy(m.view.Params().SortKey.Next())
		return m, m.refreshList()
	case "o":
		m.view.ToggleDirection()
		return m, m.refreshList()
	case " ":
		return m, m.toggleSelected()
	case "enter":
		if b, ok := m.selectedBook(); ok {
			m.router.ToDetails(b.ID)
		}
		return m, nil
	case "e":
		if b, ok := m.selectedBook(); ok {
			m.router.ToEdit(b.ID)
		}
		return m, m.focusEditor()
	case "x":
		if b, ok := m.selectedBook(); ok {
			m.confirmDelete = b.ID
		}
		return m, nil
	case "a":
		m.router.ToAdd()
		return m, m.focusEditor()
	case "r":
		m.catalog.LoadAll()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) listView() string {
	p := m.view.Params()
	header := headerStyle.Render(fmt.Sprintf("Books (%d)  sort: %s %s", len(m.list.Items()), p.SortKey.Label(), p.Direction))

	sections := []string{header}
	if m.searching || m.search.Value() != "" {
		sections = append(sections, m.search.View())
	}
	switch {
	case m.state.LoadingList && len(m.state.Books) == 0:
		sections = append(sections, "  Loading books...")
	case m.state.ListError && len(m.state.Books) == 0:
		sections = append(sections, errorStyle.Render("  Failed to load books. Press r to retry."))
	default:
		sections = append(sections, m.list.View())
	}
	sections = append(sections, m.footer("/ search | s sort | o order | space toggle | enter details | e edit | x delete | a add | r reload | q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if width <= 0 || len(runes) <= width {
		return value
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
