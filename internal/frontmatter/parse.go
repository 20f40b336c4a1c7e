// Package frontmatter reads markdown notes that start with a YAML block.
package frontmatter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ParsedNote is a markdown note split into its frontmatter and body.
type ParsedNote struct {
	Frontmatter map[string]any
	Body        string
}

// ParseMarkdown splits content into YAML frontmatter and body.
func ParseMarkdown(content []byte) (*ParsedNote, error) {
	trimmed := bytes.TrimSpace(content)
	if !bytes.HasPrefix(trimmed, []byte(delimiter)) {
		return nil, fmt.Errorf("invalid markdown format: missing opening frontmatter delimiter")
	}

	parts := bytes.SplitN(trimmed, []byte(delimiter), 3)
	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid markdown format: missing closing frontmatter delimiter")
	}

	fm := map[string]any{}
	if err := yaml.Unmarshal(parts[1], &fm); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	return &ParsedNote{
		Frontmatter: fm,
		Body:        strings.TrimSpace(string(parts[2])),
	}, nil
}

// Has reports whether key is present.
func (p *ParsedNote) Has(key string) bool {
	_, ok := p.Frontmatter[key]
	return ok
}

// GetString returns key as a string. Scalars of other types are formatted;
// missing keys and collections give "".
func (p *ParsedNote) GetString(key string) string {
	switch v := p.Frontmatter[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case int, int64, float64, bool:
		return fmt.Sprint(v)
	case time.Time:
		return v.Format(time.DateOnly)
	}
	return ""
}

// GetInt returns key as an int, or 0.
func (p *ParsedNote) GetInt(key string) int {
	switch v := p.Frontmatter[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

// GetFloat returns key as a float64, or 0.
func (p *ParsedNote) GetFloat(key string) float64 {
	switch v := p.Frontmatter[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return 0
}

// GetBool returns key as a bool and whether it held one.
func (p *ParsedNote) GetBool(key string) (value, ok bool) {
	switch v := p.Frontmatter[key].(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	}
	return false, false
}

// GetStrings returns a list-valued key, skipping non-string items.
func (p *ParsedNote) GetStrings(key string) []string {
	items, ok := p.Frontmatter[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
