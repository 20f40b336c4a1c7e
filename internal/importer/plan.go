// Package importer merges records from outside sources into the catalog.
package importer

import (
	"strings"

	"github.com/lepinkainen/bookshelf/internal/book"
	"github.com/lepinkainen/bookshelf/internal/form"
)

// ReasonDuplicate is the skip reason for records whose ISBN is already known.
const ReasonDuplicate = "already in catalog"

// Skip records a candidate that was not imported.
type Skip struct {
	Book   book.Book
	Reason string
}

// Plan is the outcome of matching candidates against the catalog.
type Plan struct {
	Books   []book.Book
	Skipped []Skip
}

// NewPlan numbers candidates from firstID in order. Candidates whose ISBN is
// in existing (or earlier in candidates) are skipped, as are candidates that
// would not pass form validation. Candidates without a catalog number get the
// one for their new id.
func NewPlan(candidates, existing []book.Book, firstID int) Plan {
	seen := make(map[string]bool, len(existing)+len(candidates))
	for _, b := range existing {
		if key := ISBNKey(b.ISBN); key != "" {
			seen[key] = true
		}
	}

	var plan Plan
	next := firstID
	for _, b := range candidates {
		key := ISBNKey(b.ISBN)
		if key != "" && seen[key] {
			plan.Skipped = append(plan.Skipped, Skip{Book: b, Reason: ReasonDuplicate})
			continue
		}

		b.ID = next
		if b.CatalogNumber == "" {
			b.CatalogNumber = book.CatalogNumberFor(next)
		}
		if errs := form.Check(b); len(errs) > 0 {
			plan.Skipped = append(plan.Skipped, Skip{Book: b, Reason: errs[0].Message()})
			continue
		}

		seen[key] = true
		plan.Books = append(plan.Books, b)
		next++
	}
	return plan
}

// ISBNKey normalizes an ISBN for comparison by dropping hyphens and spaces.
func ISBNKey(isbn string) string {
	var sb strings.Builder
	for _, r := range isbn {
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == 'X' || r == 'x':
			sb.WriteByte('X')
		}
	}
	return sb.String()
}
