package notes

import (
	"testing"

	"github.com/lepinkainen/bookshelf/internal/book"
	"github.com/lepinkainen/bookshelf/internal/export"
	"github.com/lepinkainen/bookshelf/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() book.Book {
	return book.Book{
		ID:              5,
		CatalogNumber:   "CAT-0005",
		Title:           "Beloved",
		Author:          "Toni Morrison",
		ISBN:            "978-1-4000-3341-6",
		PublicationDate: book.MustParseDate("1987-09-02"),
		Genre:           "Literary Fiction",
		Pages:           324,
		Rating:          4.8,
		IsAvailable:     false,
		Description:     "A ghost story.\nAnd a history.",
		Publisher:       "Knopf",
		Language:        "English",
		Location:        "Shelf B2",
	}
}

func TestParseRoundTripsExportedNote(t *testing.T) {
	want := sample()

	got, err := Parse([]byte(export.Note(want)))
	require.NoError(t, err)

	want.ID = 0
	assert.Equal(t, want, got)
}

func TestParseDefaults(t *testing.T) {
	got, err := Parse([]byte("---\ntitle: \"Bare\"\n---\n"))
	require.NoError(t, err)
	assert.Equal(t, "Bare", got.Title)
	assert.True(t, got.IsAvailable)
	assert.True(t, got.PublicationDate.IsZero())
	assert.Empty(t, got.Description)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("no frontmatter"))
	assert.Error(t, err)

	_, err = Parse([]byte("---\nauthor: \"Nobody\"\n---\n"))
	assert.ErrorContains(t, err, "no title")

	_, err = Parse([]byte("---\ntitle: \"X\"\npublished: \"someday\"\n---\n"))
	assert.ErrorContains(t, err, "invalid date")
}

func TestLoad(t *testing.T) {
	env := testutil.NewTestEnv(t)
	_, err := export.Write([]book.Book{sample(), {ID: 1, Title: "Another", Author: "A"}}, export.FormatMarkdown, env.Path("notes"), false)
	require.NoError(t, err)
	env.WriteFileString("notes/broken.md", "not a note")
	env.WriteFileString("notes/readme.txt", "ignored")

	books, err := Load(env.Path("notes"))
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Another", books[0].Title)
	assert.Equal(t, "Beloved", books[1].Title)
}
