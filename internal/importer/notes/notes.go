// Package notes reads markdown notes written by the markdown export back into
// catalog records.
package notes

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lepinkainen/bookshelf/internal/book"
	"github.com/lepinkainen/bookshelf/internal/frontmatter"
)

// Parse converts one note into a record. The id is not carried over.
func Parse(content []byte) (book.Book, error) {
	note, err := frontmatter.ParseMarkdown(content)
	if err != nil {
		return book.Book{}, err
	}
	if note.GetString("title") == "" {
		return book.Book{}, fmt.Errorf("note has no title")
	}

	b := book.Book{
		CatalogNumber: note.GetString("catalog_number"),
		Title:         note.GetString("title"),
		Author:        note.GetString("author"),
		ISBN:          note.GetString("isbn"),
		Genre:         note.GetString("genre"),
		Pages:         note.GetInt("pages"),
		Rating:        note.GetFloat("rating"),
		IsAvailable:   true,
		Description:   description(note.Body),
		Publisher:     note.GetString("publisher"),
		Language:      note.GetString("language"),
		Location:      note.GetString("location"),
	}
	if available, ok := note.GetBool("available"); ok {
		b.IsAvailable = available
	}
	if published := note.GetString("published"); published != "" {
		d, err := book.ParseDate(published)
		if err != nil {
			return book.Book{}, err
		}
		b.PublicationDate = d
	}
	return b, nil
}

// description is the body text between the heading and the first callout.
func description(body string) string {
	var paragraphs []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "# "):
			continue
		case strings.HasPrefix(trimmed, ">"):
			return strings.TrimSpace(strings.Join(paragraphs, "\n"))
		}
		paragraphs = append(paragraphs, line)
	}
	return strings.TrimSpace(strings.Join(paragraphs, "\n"))
}

// Load parses every .md file in dir, in file name order. Notes that cannot be
// parsed are logged and skipped.
func Load(dir string) ([]book.Book, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	sort.Strings(matches)

	books := make([]book.Book, 0, len(matches))
	for _, path := range matches {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		b, err := Parse(content)
		if err != nil {
			slog.Warn("Skipping note", "file", path, "error", err)
			continue
		}
		books = append(books, b)
	}
	return books, nil
}
