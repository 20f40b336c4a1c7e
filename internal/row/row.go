// Package row holds the presentation state of a single book row.
package row

import "github.com/lepinkainen/bookshelf/internal/book"

// State shadows a book's availability with a local optimistic override.
// The override is set by Toggle and survives SetBook; only Reset clears it.
type State struct {
	book     book.Book
	override *bool
}

// New returns the state for b with no override.
func New(b book.Book) *State {
	return &State{book: b}
}

// Book returns the current input record.
func (s *State) Book() book.Book {
	return s.book
}

// SetBook replaces the input record. The override, if any, is kept.
func (s *State) SetBook(b book.Book) {
	s.book = b
}

// Displayed returns the override if one is set, else the record's availability.
func (s *State) Displayed() bool {
	if s.override != nil {
		return *s.override
	}
	return s.book.IsAvailable
}

// Overridden reports whether a local override is set.
func (s *State) Overridden() bool {
	return s.override != nil
}

// Toggle flips the displayed availability and returns the book id as the
// intent for the container. It does not call the store.
func (s *State) Toggle() int {
	next := !s.Displayed()
	s.override = &next
	return s.book.ID
}

// Reset drops the override so the canonical value shows again.
func (s *State) Reset() {
	s.override = nil
}

// Set keeps one State per book id so overrides survive list re-derivations.
type Set struct {
	rows map[int]*State
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{rows: make(map[int]*State)}
}

// Sync feeds fresh records to their rows, creating rows on first sight and
// dropping rows whose book left the catalog.
func (s *Set) Sync(books []book.Book) {
	seen := make(map[int]struct{}, len(books))
	for _, b := range books {
		seen[b.ID] = struct{}{}
		if r, ok := s.rows[b.ID]; ok {
			r.SetBook(b)
			continue
		}
		s.rows[b.ID] = New(b)
	}
	for id := range s.rows {
		if _, ok := seen[id]; !ok {
			delete(s.rows, id)
		}
	}
}

// Get returns the row for id.
func (s *Set) Get(id int) (*State, bool) {
	r, ok := s.rows[id]
	return r, ok
}

// Len returns the number of tracked rows.
func (s *Set) Len() int {
	return len(s.rows)
}
