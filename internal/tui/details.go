package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bookshelf/internal/book"
)

func (m *Model) detailsBook() (book.Book, bool) {
	return m.state.FindByID(m.router.Current().ID)
}

func (m *Model) updateDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmDelete != 0 {
		return m.updateConfirm(msg)
	}

	id := m.router.Current().ID
	switch msg.String() {
	case "q":
		return m.quit()
	case "esc", "backspace", "b":
		m.router.Back()
	case "e":
		if _, ok := m.detailsBook(); ok {
			m.router.ToEdit(id)
			return m, m.focusEditor()
		}
	case "x":
		if _, ok := m.detailsBook(); ok {
			m.confirmDelete = id
		}
	}
	return m, nil
}

// updateConfirm handles the y/n prompt shown before a delete.
func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.confirmDelete
		m.confirmDelete = 0
		m.catalog.Delete(id)
		m.router.ToList()
	case "n", "N", "esc":
		m.confirmDelete = 0
	}
	return m, nil
}

func (m *Model) detailsView() string {
	b, ok := m.detailsBook()
	if !ok {
		msg := "Book not found."
		if m.state.LoadingList {
			msg = "Loading book..."
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			headerStyle.Render(fmt.Sprintf("Book %d", m.router.Current().ID)),
			msg,
			m.footer("esc back | q quit"),
		)
	}

	available := "No"
	if b.IsAvailable {
		available = "Yes"
	}
	rows := [][2]string{
		{"Catalog Number", b.CatalogNumber},
		{"Author", b.Author},
		{"ISBN", b.ISBN},
		{"Publication Date", b.PublicationDate.String()},
		{"Genre", b.Genre},
		{"Pages", strconv.Itoa(b.Pages)},
		{"Rating", strconv.FormatFloat(b.Rating, 'f', -1, 64) + "/5"},
		{"Available", available},
		{"Publisher", b.Publisher},
		{"Language", b.Language},
		{"Location", b.Location},
		{"Description", b.Description},
	}

	lines := []string{headerStyle.Render(b.Title)}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(r[0]), valueStyle.Render(r[1])))
	}
	lines = append(lines, m.footer("e edit | x delete | esc back | q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
