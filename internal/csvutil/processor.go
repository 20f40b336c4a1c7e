// Package csvutil reads header-keyed CSV files into typed records.
package csvutil

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ErrEmpty is returned for input without a header row.
var ErrEmpty = errors.New("CSV input is empty")

// ProcessorOptions configures CSV processing behavior.
type ProcessorOptions struct {
	// RequiredColumns must all appear in the header.
	RequiredColumns []string

	// SkipInvalid logs and skips records the parser rejects instead of
	// failing the whole run.
	SkipInvalid bool
}

// Record is one CSV row addressed by header name.
type Record struct {
	Line   int
	header map[string]int
	fields []string
}

// Get returns the trimmed value of column, or "" if the column is missing.
func (r Record) Get(column string) string {
	i, ok := r.header[column]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// Has reports whether the header contains column.
func (r Record) Has(column string) bool {
	_, ok := r.header[column]
	return ok
}

// Process reads CSV from r and converts every record with parser.
func Process[T any](r io.Reader, parser func(Record) (T, error), opts ProcessorOptions) ([]T, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	header := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		header[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range opts.RequiredColumns {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	var items []T
	line := 1
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			slog.Warn("Error reading record", "line", line, "error", err)
			continue
		}

		item, err := parser(Record{Line: line, header: header, fields: fields})
		if err != nil {
			if opts.SkipInvalid {
				slog.Warn("Skipping invalid record", "line", line, "error", err)
				continue
			}
			return nil, fmt.Errorf("invalid record on line %d: %w", line, err)
		}
		items = append(items, item)
	}

	return items, nil
}

// ProcessFile is Process over the named file.
func ProcessFile[T any](filename string, parser func(Record) (T, error), opts ProcessorOptions) ([]T, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = f.Close() }()

	items, err := Process(f, parser, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return items, nil
}
