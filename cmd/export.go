package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/lepinkainen/bookshelf/internal/config"
	"github.com/lepinkainen/bookshelf/internal/export"
	"github.com/lepinkainen/bookshelf/internal/listview"
)

// ExportCmd represents the export command
type ExportCmd struct {
	Output string `arg:"" help:"File (json, yaml) or directory (markdown) to write" type:"path"`

	Format    string `short:"f" help:"json, yaml or markdown (inferred from the output name when empty)"`
	Overwrite bool   `help:"Replace existing files"`
	Sort      string `help:"Order books by none, author, publicationDate or catalogNumber" default:"none"`
}

// inferFormat picks the format from the output path's extension; paths
// without one are markdown note directories.
func inferFormat(output string) (export.Format, error) {
	ext := filepath.Ext(output)
	if ext == "" {
		return export.FormatMarkdown, nil
	}
	return export.ParseFormat(ext[1:])
}

func (e *ExportCmd) Run() error {
	var (
		format export.Format
		err    error
	)
	if e.Format != "" {
		format, err = export.ParseFormat(e.Format)
	} else {
		format, err = inferFormat(e.Output)
	}
	if err != nil {
		return err
	}

	key, err := listview.ParseSortKey(e.Sort)
	if err != nil {
		return err
	}

	ctx := context.Background()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.load(ctx); err != nil {
		return err
	}

	books := listview.Derive(s.store.Books(), listview.Params{SortKey: key})
	res, err := export.Write(books, format, e.Output, e.Overwrite || config.OverwriteFiles)
	if err != nil {
		return fmt.Errorf("failed to export catalog: %w", err)
	}

	slog.Info("Exported catalog", "format", format, "output", e.Output, "written", res.Written, "skipped", res.Skipped)
	return nil
}
