package listview

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bookshelf/internal/book"
)

func testBooks() []book.Book {
	return []book.Book{
		{ID: 1, Title: "Test Book A", Author: "Author B", PublicationDate: book.NewDate(2023, time.January, 1)},
		{ID: 2, Title: "Test Book B", Author: "Author A", PublicationDate: book.NewDate(2022, time.June, 15)},
	}
}

func titles(books []book.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func authors(books []book.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Author
	}
	return out
}

func ids(books []book.Book) []int {
	out := make([]int, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestDeriveNoParamsKeepsOrder(t *testing.T) {
	got := Derive(testBooks(), DefaultParams())
	assert.Equal(t, testBooks(), got)
}

func TestDeriveZeroParamsMeansDefaults(t *testing.T) {
	assert.Equal(t, Derive(testBooks(), DefaultParams()), Derive(testBooks(), Params{}))
}

func TestDeriveEmptyCollection(t *testing.T) {
	got := Derive(nil, Params{Query: "x", SortKey: SortAuthor})
	assert.Empty(t, got)
}

func TestDeriveFiltersByTitleCaseInsensitive(t *testing.T) {
	got := Derive(testBooks(), Params{Query: "book a"})
	assert.Equal(t, []string{"Test Book A"}, titles(got))

	got = Derive(testBooks(), Params{Query: "  TEST BOOK  "})
	assert.Len(t, got, 2, "query is trimmed")
}

func TestDeriveQueryMatchingNothing(t *testing.T) {
	got := Derive(testBooks(), Params{Query: "dune"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDeriveSortByAuthor(t *testing.T) {
	asc := Derive(testBooks(), Params{SortKey: SortAuthor, Direction: Ascending})
	assert.Equal(t, []string{"Author A", "Author B"}, authors(asc))

	desc := Derive(testBooks(), Params{SortKey: SortAuthor, Direction: Descending})
	assert.Equal(t, []string{"Author B", "Author A"}, authors(desc))
}

func TestDeriveSortByAuthorIsLocaleAware(t *testing.T) {
	books := []book.Book{
		{ID: 1, Author: "Zola"},
		{ID: 2, Author: "émile"},
		{ID: 3, Author: "Eco"},
		{ID: 4, Author: "adams"},
	}

	got := Derive(books, Params{SortKey: SortAuthor})
	assert.Equal(t, []string{"adams", "Eco", "émile", "Zola"}, authors(got))
}

func TestDeriveSortByPublicationDate(t *testing.T) {
	got := Derive(testBooks(), Params{SortKey: SortPublicationDate})
	require.Len(t, got, 2)
	assert.Equal(t, "2022-06-15", got[0].PublicationDate.String())
	assert.Equal(t, "2023-01-01", got[1].PublicationDate.String())
}

func TestDeriveSortByCatalogNumberNumeric(t *testing.T) {
	books := []book.Book{{ID: 10}, {ID: 9}, {ID: 100}, {ID: 1}}

	assert.Equal(t, []int{1, 9, 10, 100}, ids(Derive(books, Params{SortKey: SortCatalogNumber})))
	assert.Equal(t, []int{100, 10, 9, 1}, ids(Derive(books, Params{SortKey: SortCatalogNumber, Direction: Descending})))
}

func TestDeriveSortByCatalogNumberExtremeIDs(t *testing.T) {
	books := []book.Book{{ID: math.MaxInt}, {ID: math.MinInt + 1}, {ID: 0}}

	assert.Equal(t, []int{math.MinInt + 1, 0, math.MaxInt}, ids(Derive(books, Params{SortKey: SortCatalogNumber})))
	assert.Equal(t, []int{math.MaxInt, 0, math.MinInt + 1}, ids(Derive(books, Params{SortKey: SortCatalogNumber, Direction: Descending})))
}

func TestDeriveSortIsStable(t *testing.T) {
	books := []book.Book{
		{ID: 1, Author: "Same"},
		{ID: 2, Author: "Other"},
		{ID: 3, Author: "Same"},
	}

	asc := Derive(books, Params{SortKey: SortAuthor})
	assert.Equal(t, []int{2, 1, 3}, ids(asc))

	desc := Derive(books, Params{SortKey: SortAuthor, Direction: Descending})
	assert.Equal(t, []int{1, 3, 2}, ids(desc), "ties keep their original order in both directions")
}

func TestDeriveDoesNotModifyInput(t *testing.T) {
	books := testBooks()
	_ = Derive(books, Params{SortKey: SortAuthor})
	assert.Equal(t, testBooks(), books)
}

func TestDeriveIsIdempotent(t *testing.T) {
	params := Params{Query: "book", SortKey: SortPublicationDate, Direction: Descending}
	assert.Equal(t, Derive(testBooks(), params), Derive(testBooks(), params))
}

func TestParseSortKey(t *testing.T) {
	testCases := []struct {
		input   string
		want    SortKey
		wantErr bool
	}{
		{"", SortNone, false},
		{"none", SortNone, false},
		{"Author", SortAuthor, false},
		{"publicationDate", SortPublicationDate, false},
		{"date", SortPublicationDate, false},
		{"catalogNumber", SortCatalogNumber, false},
		{"id", SortCatalogNumber, false},
		{"rating", SortNone, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseSortKey(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, Descending, d)

	d, err = ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, Ascending, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}

func TestSortKeyNextCycles(t *testing.T) {
	key := SortNone
	seen := []SortKey{}
	for range SortKeys {
		key = key.Next()
		seen = append(seen, key)
	}
	assert.Equal(t, []SortKey{SortAuthor, SortPublicationDate, SortCatalogNumber, SortNone}, seen)
	assert.Equal(t, "Publication Date", SortPublicationDate.Label())
}

func TestWindow(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	assert.Equal(t, []int{0, 1, 2}, Window(items, 0, 3))
	assert.Equal(t, []int{8, 9}, Window(items, 8, 5))
	assert.Empty(t, Window(items, 10, 3))
	assert.Empty(t, Window(items, 0, 0))
	assert.Equal(t, []int{0, 1}, Window(items, -4, 2))
}

func TestScrollOffset(t *testing.T) {
	testCases := []struct {
		name                         string
		current, cursor, size, total int
		want                         int
	}{
		{"fits entirely", 3, 5, 10, 8, 0},
		{"cursor inside window", 2, 4, 5, 20, 2},
		{"cursor above window", 5, 3, 5, 20, 3},
		{"cursor below window", 0, 7, 5, 20, 3},
		{"clamped to end", 18, 19, 5, 20, 15},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ScrollOffset(tc.current, tc.cursor, tc.size, tc.total))
		})
	}
}
