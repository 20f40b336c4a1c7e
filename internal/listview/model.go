package listview

import (
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lepinkainen/bookshelf/internal/book"
)

// DefaultCacheSize is the number of memoised derivations a Model keeps.
const DefaultCacheSize = 32

type cacheKey struct {
	revision uint64
	params   Params
}

// Model holds the list screen's view parameters and memoises derived views by
// (catalog revision, params). It is not safe for concurrent use.
type Model struct {
	params Params
	cache  *lru.Cache[cacheKey, []book.Book]
}

// NewModel returns a model with default params. A non-positive cacheSize uses DefaultCacheSize.
func NewModel(cacheSize int) *Model {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, []book.Book](cacheSize)
	if err != nil {
		// Only possible for a non-positive size, which is excluded above.
		slog.Error("Failed to create view cache", "error", err)
	}
	return &Model{params: DefaultParams(), cache: cache}
}

// Params returns the current view parameters.
func (m *Model) Params() Params {
	return m.params
}

// SortBy selects the sort key.
func (m *Model) SortBy(key SortKey) {
	m.params.SortKey = key
}

// SetDirection sets the sort direction.
func (m *Model) SetDirection(dir Direction) {
	m.params.Direction = dir
}

// ToggleDirection flips between ascending and descending.
func (m *Model) ToggleDirection() {
	m.params.Direction = m.params.Direction.Toggle()
}

// Search sets the title query.
func (m *Model) Search(query string) {
	m.params.Query = query
}

// View derives the list for books at the given catalog revision. Results for
// a revision/params pair are computed once. Callers must not modify the result.
func (m *Model) View(revision uint64, books []book.Book) []book.Book {
	key := cacheKey{revision: revision, params: m.params.normalized()}
	if m.cache != nil {
		if cached, ok := m.cache.Get(key); ok {
			return cached
		}
	}
	derived := Derive(books, m.params)
	if m.cache != nil {
		m.cache.Add(key, derived)
	}
	return derived
}
