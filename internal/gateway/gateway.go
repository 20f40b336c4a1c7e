// Package gateway implements the data access layer the catalog store talks to.
//
// Every implementation satisfies Gateway. Failures are reported as
// *errors.TransportError so callers can treat them uniformly.
package gateway

import (
	"context"

	"github.com/lepinkainen/bookshelf/internal/book"
)

// Gateway performs CRUD calls against a remote or mock catalog source.
type Gateway interface {
	// FetchAll returns the full catalog in source order.
	FetchAll(ctx context.Context) ([]book.Book, error)

	// Create stores a new record and returns the confirmed copy.
	Create(ctx context.Context, b book.Book) (book.Book, error)

	// Replace overwrites the record with the same id and returns the confirmed copy.
	Replace(ctx context.Context, b book.Book) (book.Book, error)

	// Remove deletes the record with the given id and returns the confirmed id.
	Remove(ctx context.Context, id int) (int, error)
}

func cloneBooks(books []book.Book) []book.Book {
	if books == nil {
		return []book.Book{}
	}
	out := make([]book.Book, len(books))
	copy(out, books)
	return out
}
