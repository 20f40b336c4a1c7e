package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
		check   func(*testing.T, *ParsedNote)
	}{
		{
			name: "valid frontmatter",
			content: `---
title: "Dune"
id: 2
rating: 4.5
available: false
published: 1965-08-01
tags:
  - book
  - genre/science-fiction
---

# Dune

Body content here`,
			check: func(t *testing.T, note *ParsedNote) {
				assert.Equal(t, "Dune", note.GetString("title"))
				assert.Equal(t, 2, note.GetInt("id"))
				assert.Equal(t, 4.5, note.GetFloat("rating"))
				available, ok := note.GetBool("available")
				assert.True(t, ok)
				assert.False(t, available)
				assert.Equal(t, "1965-08-01", note.GetString("published"), "unquoted dates are formatted back")
				assert.Equal(t, []string{"book", "genre/science-fiction"}, note.GetStrings("tags"))
				assert.Equal(t, "# Dune\n\nBody content here", note.Body)
			},
		},
		{
			name:    "missing opening delimiter",
			content: `no frontmatter here`,
			wantErr: "missing opening",
		},
		{
			name: "missing closing delimiter",
			content: `---
title: Test
incomplete`,
			wantErr: "missing closing",
		},
		{
			name: "empty frontmatter",
			content: `---
---
Body only`,
			check: func(t *testing.T, note *ParsedNote) {
				assert.Equal(t, "Body only", note.Body)
				assert.False(t, note.Has("title"))
				assert.Empty(t, note.GetString("title"))
			},
		},
		{
			name: "invalid yaml",
			content: `---
title: [unclosed
---
`,
			wantErr: "failed to parse frontmatter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note, err := ParseMarkdown([]byte(tt.content))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, note)
		})
	}
}

func TestGetters(t *testing.T) {
	note := &ParsedNote{Frontmatter: map[string]any{
		"pages":  "320",
		"rating": "3.5",
		"flag":   "yes",
		"count":  int64(4),
		"list":   []any{"a", 1, "b"},
	}}

	assert.Equal(t, 320, note.GetInt("pages"))
	assert.Equal(t, 3.5, note.GetFloat("rating"))
	assert.Equal(t, 4, note.GetInt("count"))
	assert.Equal(t, "4", note.GetString("count"))
	_, ok := note.GetBool("flag")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, note.GetStrings("list"))
	assert.Zero(t, note.GetInt("missing"))
}
