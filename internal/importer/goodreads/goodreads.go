// Package goodreads turns a Goodreads library export into catalog records.
package goodreads

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lepinkainen/bookshelf/internal/book"
	"github.com/lepinkainen/bookshelf/internal/csvutil"
)

// Books maps every entry to a catalog record.
func Books(entries []Entry) []book.Book {
	books := make([]book.Book, len(entries))
	for i, e := range entries {
		books[i] = e.Book()
	}
	return books
}

// Goodreads export column names.
const (
	colBookID        = "Book Id"
	colTitle         = "Title"
	colAuthor        = "Author"
	colISBN          = "ISBN"
	colISBN13        = "ISBN13"
	colMyRating      = "My Rating"
	colPublisher     = "Publisher"
	colPages         = "Number of Pages"
	colYear          = "Year Published"
	colOriginalYear  = "Original Publication Year"
	colBookshelves   = "Bookshelves"
	colExclusive     = "Exclusive Shelf"
	colReview        = "My Review"
	colOwnedCopies   = "Owned Copies"
	shelfCurrentRead = "currently-reading"
)

// DefaultGenre is used when no custom shelf names a genre.
const DefaultGenre = "Unsorted"

var statusShelves = map[string]bool{
	"read":           true,
	"to-read":        true,
	shelfCurrentRead: true,
	"did-not-finish": true,
	"owned":          true,
	"favorites":      true,
}

// Entry is one row of a Goodreads export.
type Entry struct {
	GoodreadsID             int
	Title                   string
	Author                  string
	ISBN                    string
	ISBN13                  string
	MyRating                float64
	Publisher               string
	NumberOfPages           int
	YearPublished           int
	OriginalPublicationYear int
	Bookshelves             []string
	ExclusiveShelf          string
	MyReview                string
	OwnedCopies             int
}

// Load reads a Goodreads export CSV.
func Load(path string) ([]Entry, error) {
	return csvutil.ProcessFile(path, parseEntry, csvutil.ProcessorOptions{
		RequiredColumns: []string{colBookID, colTitle, colAuthor},
		SkipInvalid:     true,
	})
}

func parseEntry(r csvutil.Record) (Entry, error) {
	id, err := strconv.Atoi(r.Get(colBookID))
	if err != nil {
		return Entry{}, fmt.Errorf("invalid book ID: %w", err)
	}

	return Entry{
		GoodreadsID:             id,
		Title:                   r.Get(colTitle),
		Author:                  r.Get(colAuthor),
		ISBN:                    sanitizeISBNValue(r.Get(colISBN)),
		ISBN13:                  sanitizeISBNValue(r.Get(colISBN13)),
		MyRating:                parseFloatField(r.Get(colMyRating)),
		Publisher:               r.Get(colPublisher),
		NumberOfPages:           parseIntField(r.Get(colPages)),
		YearPublished:           parseIntField(r.Get(colYear)),
		OriginalPublicationYear: parseIntField(r.Get(colOriginalYear)),
		Bookshelves:             splitString(r.Get(colBookshelves)),
		ExclusiveShelf:          r.Get(colExclusive),
		MyReview:                r.Get(colReview),
		OwnedCopies:             parseIntField(r.Get(colOwnedCopies)),
	}, nil
}

// Book maps the entry to a catalog record. The id and catalog number are
// left for the import plan to assign.
func (e Entry) Book() book.Book {
	b := book.Book{
		Title:       e.Title,
		Author:      e.Author,
		ISBN:        e.PreferredISBN(),
		Genre:       e.Genre(),
		Pages:       e.NumberOfPages,
		Rating:      e.MyRating,
		IsAvailable: e.ExclusiveShelf != shelfCurrentRead,
		Description: truncateRunes(e.MyReview, book.MaxDescriptionLen),
		Publisher:   e.Publisher,
	}
	if year := e.Year(); year > 0 {
		b.PublicationDate = book.NewDate(year, time.January, 1)
	}
	return b
}

// PreferredISBN returns the ISBN-13 when present, otherwise the ISBN-10.
func (e Entry) PreferredISBN() string {
	if e.ISBN13 != "" {
		return e.ISBN13
	}
	return e.ISBN
}

// Year prefers the original publication year over the edition's.
func (e Entry) Year() int {
	if e.OriginalPublicationYear > 0 {
		return e.OriginalPublicationYear
	}
	return e.YearPublished
}

// Genre is the first shelf that is not a reading-status shelf.
func (e Entry) Genre() string {
	for _, shelf := range e.Bookshelves {
		if shelf == "" || statusShelves[shelf] {
			continue
		}
		return truncateRunes(strings.ReplaceAll(shelf, "-", " "), book.MaxGenreLen)
	}
	return DefaultGenre
}

func parseIntField(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func parseFloatField(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

// sanitizeISBNValue strips the ="..." wrapper Goodreads puts around ISBNs.
func sanitizeISBNValue(value string) string {
	trimmed := strings.TrimSuffix(value, "\"")
	return strings.TrimPrefix(trimmed, "=\"")
}

func splitString(str string) []string {
	if str == "" {
		return nil
	}
	parts := strings.Split(str, ",")
	for i, s := range parts {
		parts[i] = strings.TrimSpace(s)
	}
	return parts
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
