package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lepinkainen/bookshelf/internal/book"
	errs "github.com/lepinkainen/bookshelf/internal/errors"
	"github.com/lepinkainen/bookshelf/internal/form"
	"github.com/lepinkainen/bookshelf/internal/listview"
	"github.com/lepinkainen/bookshelf/internal/row"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	tableCellStyle   = lipgloss.NewStyle().PaddingRight(2)
	fieldLabelStyle  = lipgloss.NewStyle().Bold(true).Width(18)
)

// ViewFlags are the search and sort options shared by list and browse.
type ViewFlags struct {
	Search string `short:"s" help:"Only show books whose title contains this text"`
	Sort   string `help:"Sort by none, author, publicationDate or catalogNumber" default:"none"`
	Desc   bool   `help:"Sort in descending order"`
}

// Params converts the flags into view parameters.
func (f ViewFlags) Params() (listview.Params, error) {
	key, err := listview.ParseSortKey(f.Sort)
	if err != nil {
		return listview.Params{}, err
	}
	dir := listview.Ascending
	if f.Desc {
		dir = listview.Descending
	}
	return listview.Params{Query: f.Search, SortKey: key, Direction: dir}, nil
}

// ListCmd represents the list command
type ListCmd struct {
	ViewFlags `embed:""`

	Offset int  `help:"Skip this many books of the result"`
	Limit  int  `short:"n" help:"Show at most this many books (0 shows all)"`
	JSON   bool `help:"Print the books as JSON"`
}

// ShowCmd represents the show command
type ShowCmd struct {
	ID   int  `arg:"" help:"Book id"`
	JSON bool `help:"Print the book as JSON"`
}

// BookFlags are the editable fields of a book. Empty values are left unset.
type BookFlags struct {
	Title           string `help:"Title"`
	Author          string `help:"Author"`
	ISBN            string `name:"isbn" help:"ISBN-10 or ISBN-13"`
	PublicationDate string `name:"published" help:"Publication date (YYYY-MM-DD)"`
	Genre           string `help:"Genre"`
	Pages           string `help:"Number of pages"`
	Rating          string `help:"Rating from 0 to 5"`
	Description     string `help:"Description"`
	Publisher       string `help:"Publisher"`
	Language        string `help:"Language"`
	Location        string `help:"Shelf location"`
}

func (f BookFlags) values() map[form.Field]string {
	return map[form.Field]string{
		form.FieldTitle:           f.Title,
		form.FieldAuthor:          f.Author,
		form.FieldISBN:            f.ISBN,
		form.FieldPublicationDate: f.PublicationDate,
		form.FieldGenre:           f.Genre,
		form.FieldPages:           f.Pages,
		form.FieldRating:          f.Rating,
		form.FieldDescription:     f.Description,
		form.FieldPublisher:       f.Publisher,
		form.FieldLanguage:        f.Language,
		form.FieldLocation:        f.Location,
	}
}

// apply copies the non-empty flags into the form.
func (f BookFlags) apply(fm *form.Form) {
	for field, value := range f.values() {
		if value != "" {
			fm.SetValue(field, value)
		}
	}
}

// AddCmd represents the add command
type AddCmd struct {
	BookFlags `embed:""`

	Unavailable bool `help:"Add the book as checked out"`
}

// EditCmd represents the edit command
type EditCmd struct {
	ID int `arg:"" help:"Book id"`

	BookFlags `embed:""`

	Available string `help:"Set availability (yes or no)"`
}

// DeleteCmd represents the delete command
type DeleteCmd struct {
	ID  int  `arg:"" help:"Book id"`
	Yes bool `short:"y" help:"Do not ask for confirmation"`
}

// ToggleCmd represents the toggle command
type ToggleCmd struct {
	ID int `arg:"" help:"Book id"`
}

func (l *ListCmd) Run() error {
	params, err := l.Params()
	if err != nil {
		return err
	}

	ctx := context.Background()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.load(ctx); err != nil {
		return err
	}

	books := listview.Derive(s.store.Books(), params)
	if l.Offset > 0 || l.Limit > 0 {
		size := l.Limit
		if size <= 0 {
			size = len(books)
		}
		books = listview.Window(books, l.Offset, size)
	}

	if l.JSON {
		return printJSON(books)
	}
	printTable(books)
	return nil
}

func (c *ShowCmd) Run() error {
	ctx := context.Background()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.load(ctx); err != nil {
		return err
	}
	b, err := s.find(c.ID)
	if err != nil {
		return err
	}

	if c.JSON {
		return printJSON(b)
	}
	printDetails(b)
	return nil
}

func (c *AddCmd) Run() error {
	ctx := context.Background()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.load(ctx); err != nil {
		return err
	}

	fm := form.New(s.store)
	c.apply(fm)
	fm.SetAvailable(!c.Unavailable)

	b, err := fm.Submit()
	if err != nil {
		return err
	}
	if err := s.settle(ctx, "add book"); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Added book %d (%s)\n", b.ID, b.CatalogNumber)
	return nil
}

func (c *EditCmd) Run() error {
	ctx := context.Background()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.load(ctx); err != nil {
		return err
	}
	if _, err := s.find(c.ID); err != nil {
		return err
	}

	fm := form.NewEdit(s.store, c.ID)
	c.apply(fm)
	switch strings.ToLower(c.Available) {
	case "":
	case "yes", "y", "true":
		fm.SetAvailable(true)
	case "no", "n", "false":
		fm.SetAvailable(false)
	default:
		return fmt.Errorf("invalid --available value %q (want yes or no)", c.Available)
	}

	b, err := fm.Submit()
	if err != nil {
		return err
	}
	if err := s.settle(ctx, "update book"); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Updated book %d\n", b.ID)
	return nil
}

func (c *DeleteCmd) Run() error {
	ctx := context.Background()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.load(ctx); err != nil {
		return err
	}
	b, err := s.find(c.ID)
	if err != nil {
		return err
	}

	if !c.Yes && !confirm(fmt.Sprintf("Delete %q by %s?", b.Title, b.Author)) {
		return errs.NewStopProcessingError("delete cancelled")
	}

	s.store.Delete(c.ID)
	if err := s.settle(ctx, "delete book"); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Deleted book %d\n", c.ID)
	return nil
}

func (c *ToggleCmd) Run() error {
	ctx := context.Background()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.load(ctx); err != nil {
		return err
	}
	b, err := s.find(c.ID)
	if err != nil {
		return err
	}

	r := row.New(b)
	r.Toggle()
	s.store.Update(b.WithAvailability(r.Displayed()))
	if err := s.settle(ctx, "toggle availability"); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Book %d is now %s\n", b.ID, availabilityLabel(r.Displayed()))
	return nil
}

func confirm(prompt string) bool {
	_, _ = fmt.Fprintf(stdout, "%s [y/N] ", prompt)
	answer, _ := bufio.NewReader(stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}

func printTable(books []book.Book) {
	columns := []struct {
		title string
		width int
		value func(book.Book) string
	}{
		{"ID", 5, func(b book.Book) string { return strconv.Itoa(b.ID) }},
		{"Title", 40, func(b book.Book) string { return b.Title }},
		{"Author", 24, func(b book.Book) string { return b.Author }},
		{"Published", 11, func(b book.Book) string { return b.PublicationDate.String() }},
		{"Available", 9, func(b book.Book) string { return availabilityLabel(b.IsAvailable) }},
	}

	cells := make([]string, len(columns))
	for i, col := range columns {
		cells[i] = tableCellStyle.Width(col.width + 2).Render(tableHeaderStyle.Render(col.title))
	}
	_, _ = fmt.Fprintln(stdout, lipgloss.JoinHorizontal(lipgloss.Top, cells...))

	for _, b := range books {
		for i, col := range columns {
			cells[i] = tableCellStyle.Width(col.width + 2).Render(clip(col.value(b), col.width))
		}
		_, _ = fmt.Fprintln(stdout, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	_, _ = fmt.Fprintf(stdout, "%d book(s)\n", len(books))
}

func printDetails(b book.Book) {
	lines := []struct{ label, value string }{
		{"Catalog Number", b.CatalogNumber},
		{"Title", b.Title},
		{"Author", b.Author},
		{"ISBN", b.ISBN},
		{"Published", b.PublicationDate.String()},
		{"Genre", b.Genre},
		{"Pages", strconv.Itoa(b.Pages)},
		{"Rating", strconv.FormatFloat(b.Rating, 'f', 1, 64)},
		{"Availability", availabilityLabel(b.IsAvailable)},
		{"Publisher", b.Publisher},
		{"Language", b.Language},
		{"Location", b.Location},
		{"Description", b.Description},
	}
	for _, l := range lines {
		if l.value == "" {
			continue
		}
		_, _ = fmt.Fprintln(stdout, fieldLabelStyle.Render(l.label)+l.value)
	}
}

func availabilityLabel(available bool) string {
	if available {
		return "Available"
	}
	return "Checked Out"
}

func clip(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
