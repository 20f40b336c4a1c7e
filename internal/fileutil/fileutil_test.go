package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/bookshelf/internal/testutil"
)

type record struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

func TestSanitizeFilename(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "normal text", input: "Normal Text", expected: "Normal Text"},
		{name: "colon", input: "Dune: Messiah", expected: "Dune - Messiah"},
		{name: "slash", input: "Either/Or", expected: "Either-Or"},
		{name: "backslash", input: "A\\B", expected: "A-B"},
		{name: "surrounding space", input: "  Title ", expected: "Title"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizeFilename(tc.input))
		})
	}
}

func TestNoteFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("notes", "Dune - Messiah.md"), NoteFilePath("Dune: Messiah", "notes"))
}

func TestFileExists(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFileString("present.txt", "x")

	assert.True(t, FileExists(env.Path("present.txt")))
	assert.False(t, FileExists(env.Path("absent.txt")))
	assert.False(t, FileExists(env.RootDir()))
}

func TestWriteFileWithOverwrite(t *testing.T) {
	env := testutil.NewTestEnv(t)

	testCases := []struct {
		name          string
		file          string
		overwrite     bool
		existing      string
		expectWritten bool
		expectData    string
	}{
		{name: "new file", file: "new.txt", expectWritten: true, expectData: "new content"},
		{name: "nested new file", file: "a/b/new.txt", expectWritten: true, expectData: "new content"},
		{name: "existing with overwrite", file: "over.txt", overwrite: true, existing: "old", expectWritten: true, expectData: "new content"},
		{name: "existing without overwrite", file: "keep.txt", existing: "old", expectWritten: false, expectData: "old"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.existing != "" {
				env.WriteFileString(tc.file, tc.existing)
			}

			written, err := WriteFileWithOverwrite(env.Path(tc.file), []byte("new content"), 0o644, tc.overwrite)
			require.NoError(t, err)
			assert.Equal(t, tc.expectWritten, written)
			assert.Equal(t, tc.expectData, env.ReadFileString(tc.file))
		})
	}
}

func TestWriteJSONFile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("out", "books.json")
	data := []record{{ID: 1, Name: "One"}, {ID: 2, Name: "Two"}}

	written, err := WriteJSONFile(data, path, false)
	require.NoError(t, err)
	assert.True(t, written)

	var got []record
	require.NoError(t, json.Unmarshal(env.ReadFile("out/books.json"), &got))
	assert.Equal(t, data, got)

	written, err = WriteJSONFile([]record{}, path, false)
	require.NoError(t, err)
	assert.False(t, written)
	require.NoError(t, json.Unmarshal(env.ReadFile("out/books.json"), &got))
	assert.Len(t, got, 2)

	written, err = WriteJSONFile([]record{}, path, true)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, "[]\n", env.ReadFileString("out/books.json"))
}

func TestWriteJSONFileInvalidData(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("bad.json")

	written, err := WriteJSONFile(make(chan int), path, true)
	require.Error(t, err)
	assert.False(t, written)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteYAMLFile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("books.yaml")
	data := []record{{ID: 3, Name: "Three"}}

	written, err := WriteYAMLFile(data, path, false)
	require.NoError(t, err)
	assert.True(t, written)

	var got []record
	require.NoError(t, yaml.Unmarshal(env.ReadFile("books.yaml"), &got))
	assert.Equal(t, data, got)

	written, err = WriteYAMLFile(data, path, false)
	require.NoError(t, err)
	assert.False(t, written)
}
