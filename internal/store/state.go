package store

import "github.com/lepinkainen/bookshelf/internal/book"

// State is an immutable snapshot of the catalog store. Books is shared between
// snapshots and must not be modified by readers.
type State struct {
	Books []book.Book

	LoadingList bool
	ListError   bool

	LoadingAction bool
	ActionError   bool

	// LastError is the most recent gateway failure of either kind.
	LastError error
	// Pending counts operations issued but not yet resolved.
	Pending int
	// Revision increases with every applied patch.
	Revision uint64
}

// FindByID returns the book with id, if present.
func (s State) FindByID(id int) (book.Book, bool) {
	for _, b := range s.Books {
		if b.ID == id {
			return b, true
		}
	}
	return book.Book{}, false
}

// NextID returns 1 for an empty catalog, otherwise the largest id plus one.
func (s State) NextID() int {
	if len(s.Books) == 0 {
		return 1
	}
	maxID := s.Books[0].ID
	for _, b := range s.Books[1:] {
		if b.ID > maxID {
			maxID = b.ID
		}
	}
	return maxID + 1
}

// Idle reports whether no operation is in flight.
func (s State) Idle() bool {
	return s.Pending == 0
}

func appendBook(books []book.Book, b book.Book) []book.Book {
	next := make([]book.Book, 0, len(books)+1)
	next = append(next, books...)
	return append(next, b)
}

func replaceBook(books []book.Book, b book.Book) []book.Book {
	next := make([]book.Book, len(books))
	for i, existing := range books {
		if existing.ID == b.ID {
			next[i] = b
		} else {
			next[i] = existing
		}
	}
	return next
}

func removeBook(books []book.Book, id int) []book.Book {
	next := make([]book.Book, 0, len(books))
	for _, b := range books {
		if b.ID != id {
			next = append(next, b)
		}
	}
	return next
}
