package gateway

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/bookshelf/internal/book"
)

//go:embed data/books.json
var defaultSeed []byte

// DefaultSeed returns the bundled sample catalog.
func DefaultSeed() []book.Book {
	books, err := decodeJSONSeed(defaultSeed)
	if err != nil {
		panic(fmt.Sprintf("bundled seed is invalid: %v", err))
	}
	return books
}

// LoadSeed reads a catalog from a JSON or YAML file. An empty path returns the bundled seed.
func LoadSeed(path string) ([]book.Book, error) {
	if path == "" {
		return DefaultSeed(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAMLSeed(data)
	case ".json", "":
		return decodeJSONSeed(data)
	default:
		return nil, fmt.Errorf("unsupported seed format %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

func decodeJSONSeed(data []byte) ([]book.Book, error) {
	var books []book.Book
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&books); err != nil {
		return nil, fmt.Errorf("failed to decode JSON seed: %w", err)
	}
	return checkUniqueIDs(books)
}

func decodeYAMLSeed(data []byte) ([]book.Book, error) {
	var books []book.Book
	if err := yaml.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("failed to decode YAML seed: %w", err)
	}
	return checkUniqueIDs(books)
}

func checkUniqueIDs(books []book.Book) ([]book.Book, error) {
	seen := make(map[int]struct{}, len(books))
	for _, b := range books {
		if _, ok := seen[b.ID]; ok {
			return nil, fmt.Errorf("duplicate book id %d in seed", b.ID)
		}
		seen[b.ID] = struct{}{}
	}
	if books == nil {
		books = []book.Book{}
	}
	return books, nil
}
