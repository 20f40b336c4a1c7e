package fileutil

import (
	"fmt"
	"strconv"
	"strings"
)

// MarkdownBuilder assembles a markdown note with YAML frontmatter.
type MarkdownBuilder struct {
	frontmatter strings.Builder
	content     strings.Builder
}

// NewMarkdownBuilder creates a new markdown builder
func NewMarkdownBuilder() *MarkdownBuilder {
	mb := &MarkdownBuilder{}
	mb.frontmatter.WriteString("---\n")
	return mb
}

// AddTitle adds a title field to the frontmatter
func (mb *MarkdownBuilder) AddTitle(title string) *MarkdownBuilder {
	fmt.Fprintf(&mb.frontmatter, "title: %s\n", strconv.Quote(title))
	return mb
}

// AddField adds a scalar field to the frontmatter. Empty strings and zero
// numbers are omitted; booleans are always written.
func (mb *MarkdownBuilder) AddField(key string, value any) *MarkdownBuilder {
	switch v := value.(type) {
	case string:
		if v != "" {
			fmt.Fprintf(&mb.frontmatter, "%s: %s\n", key, strconv.Quote(v))
		}
	case int:
		if v != 0 {
			fmt.Fprintf(&mb.frontmatter, "%s: %d\n", key, v)
		}
	case float64:
		if v > 0 {
			fmt.Fprintf(&mb.frontmatter, "%s: %s\n", key, strconv.FormatFloat(v, 'f', -1, 64))
		}
	case bool:
		fmt.Fprintf(&mb.frontmatter, "%s: %t\n", key, v)
	}
	return mb
}

// AddTags adds a tag list to the frontmatter, skipping empty tags.
func (mb *MarkdownBuilder) AddTags(tags ...string) *MarkdownBuilder {
	var kept []string
	for _, tag := range tags {
		if tag != "" {
			kept = append(kept, tag)
		}
	}
	if len(kept) == 0 {
		return mb
	}

	mb.frontmatter.WriteString("tags:\n")
	for _, tag := range kept {
		fmt.Fprintf(&mb.frontmatter, "  - %s\n", tag)
	}
	return mb
}

// AddHeading adds a level-one heading to the content.
func (mb *MarkdownBuilder) AddHeading(text string) *MarkdownBuilder {
	if text != "" {
		fmt.Fprintf(&mb.content, "# %s\n\n", text)
	}
	return mb
}

// AddParagraph adds a paragraph of text to the content
func (mb *MarkdownBuilder) AddParagraph(text string) *MarkdownBuilder {
	if text == "" {
		return mb
	}

	mb.content.WriteString(text)
	mb.content.WriteString("\n\n")
	return mb
}

// AddCallout adds an Obsidian-style callout; empty content adds nothing.
func (mb *MarkdownBuilder) AddCallout(calloutType, title, content string) *MarkdownBuilder {
	if content == "" {
		return mb
	}

	if title != "" {
		fmt.Fprintf(&mb.content, ">[!%s]- %s\n", calloutType, title)
	} else {
		fmt.Fprintf(&mb.content, ">[!%s]\n", calloutType)
	}
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(&mb.content, "> %s\n", line)
	}
	mb.content.WriteString("\n")
	return mb
}

// Build returns the complete markdown document as a string
func (mb *MarkdownBuilder) Build() string {
	var doc strings.Builder
	doc.WriteString(mb.frontmatter.String())
	doc.WriteString("---\n\n")
	doc.WriteString(mb.content.String())
	return doc.String()
}

// DecadeTag returns a tag such as "decade/1960s" for year.
func DecadeTag(year int) string {
	if year <= 0 {
		return ""
	}
	return fmt.Sprintf("decade/%ds", year/10*10)
}

// Slug lowercases value and joins its words with hyphens, for use in tags.
func Slug(value string) string {
	return strings.ToLower(strings.Join(strings.Fields(value), "-"))
}
