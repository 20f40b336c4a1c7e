// Package listview derives the filtered and sorted projection of the catalog
// shown by the book list.
package listview

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lepinkainen/bookshelf/internal/book"
)

// SortKey selects the field the list is ordered by.
type SortKey string

const (
	SortNone            SortKey = "none"
	SortAuthor          SortKey = "author"
	SortPublicationDate SortKey = "publicationDate"
	SortCatalogNumber   SortKey = "catalogNumber"
)

// SortKeys lists the keys in the order the UI cycles through them.
var SortKeys = []SortKey{SortNone, SortAuthor, SortPublicationDate, SortCatalogNumber}

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Params are the transient view parameters. The zero value is treated as the defaults.
type Params struct {
	Query     string
	SortKey   SortKey
	Direction Direction
}

// DefaultParams returns an empty query, no sorting, ascending.
func DefaultParams() Params {
	return Params{SortKey: SortNone, Direction: Ascending}
}

func (p Params) normalized() Params {
	if p.SortKey == "" {
		p.SortKey = SortNone
	}
	if p.Direction == "" {
		p.Direction = Ascending
	}
	return p
}

// Label is the human readable name of the key.
func (k SortKey) Label() string {
	switch k {
	case SortAuthor:
		return "Author"
	case SortPublicationDate:
		return "Publication Date"
	case SortCatalogNumber:
		return "Catalog Number"
	default:
		return "None"
	}
}

// Next returns the key after k in SortKeys, wrapping around.
func (k SortKey) Next() SortKey {
	i := slices.Index(SortKeys, k)
	return SortKeys[(i+1)%len(SortKeys)]
}

// Toggle flips the direction.
func (d Direction) Toggle() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// ParseSortKey accepts the key names case-insensitively; "" means none.
func ParseSortKey(value string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "none":
		return SortNone, nil
	case "author":
		return SortAuthor, nil
	case "publicationdate", "publication-date", "date":
		return SortPublicationDate, nil
	case "catalognumber", "catalog-number", "id":
		return SortCatalogNumber, nil
	default:
		return SortNone, fmt.Errorf("unknown sort key %q (want none, author, publicationDate or catalogNumber)", value)
	}
}

// ParseDirection accepts asc/ascending and desc/descending; "" means ascending.
func ParseDirection(value string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("unknown sort direction %q (want asc or desc)", value)
	}
}

// Derive filters books by title and sorts them. It never modifies books and
// returns a new slice.
func Derive(books []book.Book, params Params) []book.Book {
	params = params.normalized()

	filtered := filterByTitle(books, params.Query)
	if params.SortKey == SortNone {
		return filtered
	}

	compare := comparator(params.SortKey)
	if params.Direction == Descending {
		asc := compare
		compare = func(a, b book.Book) int { return -asc(a, b) }
	}
	slices.SortStableFunc(filtered, compare)
	return filtered
}

func filterByTitle(books []book.Book, query string) []book.Book {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]book.Book, 0, len(books))
	for _, b := range books {
		if query == "" || strings.Contains(strings.ToLower(b.Title), query) {
			out = append(out, b)
		}
	}
	return out
}

func comparator(key SortKey) func(a, b book.Book) int {
	switch key {
	case SortAuthor:
		// Collators keep scratch buffers, so each derivation gets its own.
		col := collate.New(language.English)
		return func(a, b book.Book) int {
			return col.CompareString(a.Author, b.Author)
		}
	case SortPublicationDate:
		return func(a, b book.Book) int {
			return a.PublicationDate.Compare(b.PublicationDate)
		}
	case SortCatalogNumber:
		return func(a, b book.Book) int {
			return cmp.Compare(a.ID, b.ID)
		}
	default:
		return func(book.Book, book.Book) int { return 0 }
	}
}

// Window returns the visible slice of items starting at offset, at most size
// long. Offsets past the end yield an empty window.
func Window[T any](items []T, offset, size int) []T {
	if offset < 0 {
		offset = 0
	}
	if size <= 0 || offset >= len(items) {
		return items[:0:0]
	}
	end := offset + size
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// ScrollOffset returns the window offset that keeps cursor visible, moving
// the current offset as little as possible.
func ScrollOffset(current, cursor, size, total int) int {
	if size <= 0 || total <= size {
		return 0
	}
	if cursor < current {
		current = cursor
	}
	if cursor >= current+size {
		current = cursor - size + 1
	}
	if current > total-size {
		current = total - size
	}
	if current < 0 {
		current = 0
	}
	return current
}
