package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/bookshelf/internal/book"
	"github.com/lepinkainen/bookshelf/internal/importer"
	"github.com/lepinkainen/bookshelf/internal/importer/goodreads"
	"github.com/lepinkainen/bookshelf/internal/importer/notes"
)

// ImportCmd represents the import command and its subcommands
type ImportCmd struct {
	Goodreads GoodreadsCmd `cmd:"" help:"Import books from a Goodreads library export"`
	Notes     NotesCmd     `cmd:"" help:"Import books from markdown notes written by export"`
}

// GoodreadsCmd represents the goodreads import command
type GoodreadsCmd struct {
	Input  string `arg:"" help:"Path to Goodreads library export CSV file" type:"existingfile"`
	DryRun bool   `help:"Show what would be imported without changing the catalog"`
}

// NotesCmd represents the notes import command
type NotesCmd struct {
	Dir    string `arg:"" help:"Directory of markdown notes" type:"existingdir"`
	DryRun bool   `help:"Show what would be imported without changing the catalog"`
}

func (g *GoodreadsCmd) Run() error {
	entries, err := goodreads.Load(g.Input)
	if err != nil {
		return err
	}
	return importBooks(goodreads.Books(entries), g.DryRun)
}

func (n *NotesCmd) Run() error {
	books, err := notes.Load(n.Dir)
	if err != nil {
		return err
	}
	return importBooks(books, n.DryRun)
}

// importBooks adds the candidates that are new to the catalog and valid.
func importBooks(candidates []book.Book, dryRun bool) error {
	ctx := context.Background()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.load(ctx); err != nil {
		return err
	}

	plan := importer.NewPlan(candidates, s.store.Books(), s.store.NextID())
	for _, skip := range plan.Skipped {
		slog.Warn("Skipping book", "title", skip.Book.Title, "reason", skip.Reason)
	}

	if dryRun {
		for _, b := range plan.Books {
			_, _ = fmt.Fprintf(stdout, "Would add %d: %s by %s\n", b.ID, b.Title, b.Author)
		}
		_, _ = fmt.Fprintf(stdout, "%d to add, %d skipped\n", len(plan.Books), len(plan.Skipped))
		return nil
	}

	// One at a time so a failure stops the run before later ids are used.
	for i, b := range plan.Books {
		s.store.Add(b)
		if err := s.settle(ctx, "import "+b.Title); err != nil {
			return fmt.Errorf("imported %d of %d books: %w", i, len(plan.Books), err)
		}
	}

	_, _ = fmt.Fprintf(stdout, "Imported %d books, skipped %d\n", len(plan.Books), len(plan.Skipped))
	return nil
}
