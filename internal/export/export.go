// Package export writes the catalog to disk as JSON, YAML or one markdown
// note per book.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lepinkainen/bookshelf/internal/book"
	"github.com/lepinkainen/bookshelf/internal/fileutil"
)

// Format is an export file format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts the format names and common aliases.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, yaml or markdown)", value)
}

// Result counts the files an export wrote and skipped.
type Result struct {
	Written int
	Skipped int
}

// Write exports books to target. For JSON and YAML target is a file; for
// markdown it is a directory receiving one note per book. Existing files are
// kept unless overwrite is set.
func Write(books []book.Book, format Format, target string, overwrite bool) (Result, error) {
	switch format {
	case FormatJSON:
		return single(fileutil.WriteJSONFile(books, target, overwrite))
	case FormatYAML:
		return single(fileutil.WriteYAMLFile(books, target, overwrite))
	case FormatMarkdown:
		return writeNotes(books, target, overwrite)
	}
	return Result{}, fmt.Errorf("unknown export format %q", format)
}

func single(written bool, err error) (Result, error) {
	if err != nil {
		return Result{}, err
	}
	if written {
		return Result{Written: 1}, nil
	}
	return Result{Skipped: 1}, nil
}

func writeNotes(books []book.Book, dir string, overwrite bool) (Result, error) {
	var res Result
	for name, b := range noteNames(books) {
		written, err := fileutil.WriteFileWithOverwrite(fileutil.NoteFilePath(name, dir), []byte(Note(b)), 0o644, overwrite)
		if err != nil {
			return res, fmt.Errorf("failed to write note for book %d: %w", b.ID, err)
		}
		if written {
			res.Written++
		} else {
			res.Skipped++
		}
	}
	return res, nil
}

// noteNames assigns each book a file name, suffixing the id when titles repeat.
func noteNames(books []book.Book) map[string]book.Book {
	counts := make(map[string]int, len(books))
	for _, b := range books {
		counts[fileutil.SanitizeFilename(b.Title)]++
	}

	names := make(map[string]book.Book, len(books))
	for _, b := range books {
		name := fileutil.SanitizeFilename(b.Title)
		if name == "" || counts[name] > 1 {
			name = strings.TrimSpace(name + " " + strconv.Itoa(b.ID))
		}
		names[name] = b
	}
	return names
}

// Note renders b as a markdown note with frontmatter.
func Note(b book.Book) string {
	mb := fileutil.NewMarkdownBuilder().
		AddTitle(b.Title).
		AddField("id", b.ID).
		AddField("catalog_number", b.CatalogNumber).
		AddField("author", b.Author).
		AddField("isbn", b.ISBN).
		AddField("published", b.PublicationDate.String()).
		AddField("genre", b.Genre).
		AddField("pages", b.Pages).
		AddField("rating", b.Rating).
		AddField("available", b.IsAvailable).
		AddField("publisher", b.Publisher).
		AddField("language", b.Language).
		AddField("location", b.Location).
		AddTags("book", genreTag(b.Genre), decadeTag(b.PublicationDate))

	mb.AddHeading(b.Title).
		AddParagraph(b.Description).
		AddCallout("info", "Shelf", shelfDetails(b))
	return mb.Build()
}

func genreTag(genre string) string {
	if genre == "" {
		return ""
	}
	return "genre/" + fileutil.Slug(genre)
}

func decadeTag(d book.Date) string {
	if d.IsZero() {
		return ""
	}
	return fileutil.DecadeTag(d.Year())
}

func shelfDetails(b book.Book) string {
	status := "Checked out"
	if b.IsAvailable {
		status = "Available"
	}
	lines := []string{"Status: " + status}
	if b.Location != "" {
		lines = append(lines, "Location: "+b.Location)
	}
	if b.CatalogNumber != "" {
		lines = append(lines, "Catalog number: "+b.CatalogNumber)
	}
	return strings.Join(lines, "\n")
}
