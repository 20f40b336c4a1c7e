package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/bookshelf/internal/book"
	"github.com/lepinkainen/bookshelf/internal/config"
	errs "github.com/lepinkainen/bookshelf/internal/errors"
	"github.com/lepinkainen/bookshelf/internal/gateway"
	"github.com/lepinkainen/bookshelf/internal/listview"
	"github.com/lepinkainen/bookshelf/internal/testutil"
	"github.com/lepinkainen/bookshelf/internal/tui"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetCmdState(t *testing.T) (*testutil.TestEnv, *bytes.Buffer) {
	t.Helper()

	env := testutil.NewTestEnv(t)
	testutil.SetTestConfig(t, env)

	out := &bytes.Buffer{}
	origStdout, origStdin := stdout, stdin
	origGateway, origUI := newGateway, runUI
	stdout = out
	t.Cleanup(func() {
		stdout, stdin = origStdout, origStdin
		newGateway, runUI = origGateway, origUI
	})

	return env, out
}

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	originalArgs := os.Args
	os.Args = append([]string{"bookshelf"}, args...)
	t.Cleanup(func() { os.Args = originalArgs })

	cli := &CLI{}
	opts := append(kongOptions(), kong.Exit(func(code int) {
		t.Fatalf("unexpected Kong exit %d", code)
	}))
	ctx := kong.Parse(cli, opts...)

	return cli, ctx
}

func run(t *testing.T, args ...string) error {
	t.Helper()

	cli, ctx := parseCLI(t, args...)
	updateGlobalConfig(cli)
	return ctx.Run()
}

func useSQLite(t *testing.T) {
	t.Helper()
	viper.Set(config.KeyGatewayKind, config.GatewaySQLite)
}

func TestUpdateGlobalConfig(t *testing.T) {
	resetCmdState(t)

	cli := &CLI{
		Gateway: "http",
		BaseURL: "http://books.example",
		Token:   "secret",
		Latency: "10ms",
		RPS:     2,
	}
	updateGlobalConfig(cli)

	assert.Equal(t, "http", viper.GetString(config.KeyGatewayKind))
	assert.Equal(t, "http://books.example", viper.GetString(config.KeyHTTPBaseURL))
	assert.Equal(t, "secret", viper.GetString(config.KeyHTTPToken))
	assert.Equal(t, "10ms", viper.GetString(config.KeyGatewayLatency))
	assert.Equal(t, 2.0, viper.GetFloat64(config.KeyGatewayRPS))
}

func TestUpdateGlobalConfigKeepsConfiguredValues(t *testing.T) {
	env, _ := resetCmdState(t)

	updateGlobalConfig(&CLI{})

	assert.Equal(t, config.GatewayMock, viper.GetString(config.KeyGatewayKind))
	assert.Equal(t, env.Path("bookshelf.db"), viper.GetString(config.KeySQLiteDBFile))
	assert.Equal(t, "0s", viper.GetString(config.KeyGatewayLatency))
}

func TestCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "list", "--search", "dune", "--sort", "author", "--desc", "--offset", "2", "-n", "5")
	assert.Equal(t, "dune", cli.List.Search)
	assert.Equal(t, "author", cli.List.Sort)
	assert.True(t, cli.List.Desc)
	assert.Equal(t, 2, cli.List.Offset)
	assert.Equal(t, 5, cli.List.Limit)

	cli, _ = parseCLI(t, "edit", "3", "--title", "New Title", "--available", "no")
	assert.Equal(t, 3, cli.Edit.ID)
	assert.Equal(t, "New Title", cli.Edit.Title)
	assert.Equal(t, "no", cli.Edit.Available)

	cli, ctx := parseCLI(t)
	assert.True(t, strings.HasPrefix(ctx.Command(), "browse"), ctx.Command())
	assert.Equal(t, "/books", cli.Browse.Path)
}

func TestViewFlagsParams(t *testing.T) {
	params, err := ViewFlags{Search: "rose", Sort: "publicationDate", Desc: true}.Params()
	require.NoError(t, err)
	assert.Equal(t, listview.Params{Query: "rose", SortKey: listview.SortPublicationDate, Direction: listview.Descending}, params)

	_, err = ViewFlags{Sort: "pages"}.Params()
	assert.Error(t, err)
}

func TestListCommand(t *testing.T) {
	_, out := resetCmdState(t)

	require.NoError(t, run(t, "list", "--search", "earth"))

	assert.Contains(t, out.String(), "A Wizard of Earthsea")
	assert.NotContains(t, out.String(), "Dune")
	assert.Contains(t, out.String(), "1 book(s)")
}

func TestListCommandJSONWindow(t *testing.T) {
	_, out := resetCmdState(t)

	require.NoError(t, run(t, "list", "--sort", "author", "--limit", "2", "--json"))

	var books []book.Book
	require.NoError(t, json.Unmarshal(out.Bytes(), &books))
	require.Len(t, books, 2)
	assert.Equal(t, "Chinua Achebe", books[0].Author)
	assert.Equal(t, "Elias Lönnrot", books[1].Author)
}

func TestListCommandLoadFailure(t *testing.T) {
	resetCmdState(t)

	newGateway = func(ctx context.Context, s config.Settings) (gateway.Gateway, func() error, error) {
		gw := gateway.NewMockGateway(gateway.DefaultSeed(), gateway.WithLatency(0))
		gw.FailNext(errs.OpFetchAll, 1)
		return gw, nil, nil
	}

	err := run(t, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load catalog")
	assert.True(t, errs.IsTransportError(err))
}

func TestShowCommand(t *testing.T) {
	_, out := resetCmdState(t)

	require.NoError(t, run(t, "show", "2"))
	assert.Contains(t, out.String(), "Frank Herbert")
	assert.Contains(t, out.String(), "Catalog Number")

	err := run(t, "show", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "book 99 not found")
}

func TestAddEditToggleDeleteWithSQLite(t *testing.T) {
	_, out := resetCmdState(t)
	useSQLite(t)

	require.NoError(t, run(t, "add",
		"--title", "Solaris",
		"--author", "Stanisław Lem",
		"--isbn", "978-0-15-602760-1",
		"--published", "1961-06-01",
		"--genre", "Science Fiction",
		"--pages", "204",
		"--rating", "4.5",
	))
	assert.Contains(t, out.String(), "Added book 13 (CAT-0013)")

	require.NoError(t, run(t, "edit", "13", "--rating", "5", "--available", "no"))
	out.Reset()
	require.NoError(t, run(t, "show", "13", "--json"))
	var b book.Book
	require.NoError(t, json.Unmarshal(out.Bytes(), &b))
	assert.Equal(t, 5.0, b.Rating)
	assert.False(t, b.IsAvailable)
	assert.Equal(t, "Solaris", b.Title)
	assert.Equal(t, "CAT-0013", b.CatalogNumber)

	out.Reset()
	require.NoError(t, run(t, "toggle", "13"))
	assert.Contains(t, out.String(), "Book 13 is now Available")

	require.NoError(t, run(t, "delete", "13", "--yes"))
	err := run(t, "show", "13")
	require.Error(t, err)
}

func TestAddCommandValidation(t *testing.T) {
	resetCmdState(t)

	err := run(t, "add", "--title", "Only a title")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Author is required")
}

func TestEditCommandRejectsBadAvailability(t *testing.T) {
	resetCmdState(t)

	err := run(t, "edit", "1", "--available", "maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --available value")
}

func TestDeleteCommandDeclined(t *testing.T) {
	_, out := resetCmdState(t)
	stdin = strings.NewReader("n\n")

	err := run(t, "delete", "1")
	require.Error(t, err)
	assert.True(t, errs.IsStopProcessingError(err))
	assert.Contains(t, out.String(), `Delete "The Left Hand of Darkness" by Ursula K. Le Guin?`)
}

func TestExportCommand(t *testing.T) {
	env, _ := resetCmdState(t)

	require.NoError(t, run(t, "export", env.Path("catalog.json"), "--sort", "catalogNumber"))
	env.RequireFileExists("catalog.json")
	env.AssertFileContains("catalog.json", `"title": "Dune"`)

	require.NoError(t, run(t, "export", env.Path("notes")))
	env.RequireFileExists("notes/Dune.md")
}

func TestInferFormat(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"books.json", "json"},
		{"books.yml", "yaml"},
		{"books.md", "markdown"},
		{"notes", "markdown"},
	}
	for _, tt := range tests {
		got, err := inferFormat(tt.output)
		require.NoError(t, err, tt.output)
		assert.Equal(t, tt.want, string(got), tt.output)
	}

	_, err := inferFormat("books.csv")
	assert.Error(t, err)
}

const goodreadsCSV = `Book Id,Title,Author,ISBN,ISBN13,My Rating,Publisher,Number of Pages,Year Published,Original Publication Year,Bookshelves,Exclusive Shelf
1,Dune,Frank Herbert,"=""0441172717""","=""9780441172719""",5,Ace,896,1990,1965,,read
2,Solaris,Stanisław Lem,"=""0156027607""","=""9780156027601""",4,Harvest,204,2002,1961,science-fiction,read
`

func TestImportGoodreadsDryRun(t *testing.T) {
	env, out := resetCmdState(t)
	env.WriteFileString("export.csv", goodreadsCSV)

	require.NoError(t, run(t, "import", "goodreads", env.Path("export.csv"), "--dry-run"))

	assert.Contains(t, out.String(), "Would add 13: Solaris by Stanisław Lem")
	assert.Contains(t, out.String(), "1 to add, 1 skipped")
}

func TestImportGoodreadsWithSQLite(t *testing.T) {
	env, out := resetCmdState(t)
	useSQLite(t)
	env.WriteFileString("export.csv", goodreadsCSV)

	require.NoError(t, run(t, "import", "goodreads", env.Path("export.csv")))
	assert.Contains(t, out.String(), "Imported 1 books, skipped 1")

	out.Reset()
	require.NoError(t, run(t, "show", "13"))
	assert.Contains(t, out.String(), "Solaris")
	assert.Contains(t, out.String(), "science fiction")
}

func TestBrowseCommandRunsUI(t *testing.T) {
	env, _ := resetCmdState(t)

	var got tui.Options
	runUI = func(c tui.Catalog, opts tui.Options) error {
		got = opts
		return nil
	}

	require.NoError(t, run(t, "browse", "/books/2", "--sort", "author"))

	assert.Equal(t, "/books/2", got.StartPath)
	assert.Equal(t, listview.SortAuthor, got.Params.SortKey)
	assert.Equal(t, 32, got.CacheSize)
	env.RequireFileExists("bookshelf.log")
}

func TestImportNotesRoundTrip(t *testing.T) {
	env, out := resetCmdState(t)
	useSQLite(t)

	require.NoError(t, run(t, "export", env.Path("notes")))
	env.WriteFileString("notes/Solaris.md", `---
title: "Solaris"
author: "Stanisław Lem"
isbn: "978-0-15-602760-1"
published: "1961-06-01"
genre: "Science Fiction"
pages: 204
rating: 4.5
available: true
---

# Solaris

A planet-wide ocean.
`)

	require.NoError(t, run(t, "import", "notes", env.Path("notes")))
	assert.Contains(t, out.String(), "Imported 1 books, skipped 12")

	out.Reset()
	require.NoError(t, run(t, "show", "13", "--json"))
	var b book.Book
	require.NoError(t, json.Unmarshal(out.Bytes(), &b))
	assert.Equal(t, "Solaris", b.Title)
	assert.Equal(t, "CAT-0013", b.CatalogNumber)
	assert.Equal(t, "A planet-wide ocean.", b.Description)
}

func TestInitConfigWritesDefaultsAndReadsDotEnv(t *testing.T) {
	env, _ := resetCmdState(t)
	viper.Reset()
	env.Chdir(".")

	const key = "BOOKSHELF_GATEWAY_KIND"
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
	env.WriteFileString(".env", key+"=sqlite\n")

	initConfig()

	env.RequireFileExists("config.yaml")
	assert.Equal(t, config.GatewaySQLite, viper.GetString(config.KeyGatewayKind))
	assert.Equal(t, "./bookshelf.db", viper.GetString(config.KeySQLiteDBFile))
}
