package form

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/lepinkainen/bookshelf/internal/book"
)

// Field names match the record's JSON keys.
type Field string

const (
	FieldTitle           Field = "title"
	FieldAuthor          Field = "author"
	FieldISBN            Field = "isbn"
	FieldPublicationDate Field = "publicationDate"
	FieldGenre           Field = "genre"
	FieldPages           Field = "pages"
	FieldRating          Field = "rating"
	FieldIsAvailable     Field = "isAvailable"
	FieldDescription     Field = "description"
	FieldPublisher       Field = "publisher"
	FieldLanguage        Field = "language"
	FieldLocation        Field = "location"
)

// Fields lists every form field in display order.
var Fields = []Field{
	FieldTitle, FieldAuthor, FieldISBN, FieldPublicationDate, FieldGenre, FieldPages,
	FieldRating, FieldIsAvailable, FieldDescription, FieldPublisher, FieldLanguage, FieldLocation,
}

// TextFields are the fields edited as free text (everything but availability).
var TextFields = []Field{
	FieldTitle, FieldAuthor, FieldISBN, FieldPublicationDate, FieldGenre, FieldPages,
	FieldRating, FieldDescription, FieldPublisher, FieldLanguage, FieldLocation,
}

var labels = map[Field]string{
	FieldTitle:           "Title",
	FieldAuthor:          "Author",
	FieldISBN:            "ISBN",
	FieldPublicationDate: "Publication Date",
	FieldGenre:           "Genre",
	FieldPages:           "Pages",
	FieldRating:          "Rating",
	FieldIsAvailable:     "Availability",
	FieldDescription:     "Description",
	FieldPublisher:       "Publisher",
	FieldLanguage:        "Language",
	FieldLocation:        "Location",
}

// Label returns the display label, or the raw name for unknown fields.
func (f Field) Label() string {
	if label, ok := labels[f]; ok {
		return label
	}
	return string(f)
}

// ErrorKind is a validation failure category. Lower values take priority
// when a field fails several rules.
type ErrorKind int

const (
	KindRequired ErrorKind = iota
	KindMinLength
	KindMaxLength
	KindMin
	KindMax
	KindPattern
	KindNumber
	KindDate
)

// FieldError is one failed rule on one field.
type FieldError struct {
	Field Field
	Kind  ErrorKind
	Param string
}

// Message renders the user-facing text for the failure.
func (e FieldError) Message() string {
	label := e.Field.Label()
	switch e.Kind {
	case KindRequired:
		return fmt.Sprintf("%s is required", label)
	case KindMinLength:
		return fmt.Sprintf("%s is too short", label)
	case KindMaxLength:
		return fmt.Sprintf("%s is too long", label)
	case KindMin:
		return fmt.Sprintf("%s must be at least %s", label, e.Param)
	case KindMax:
		return fmt.Sprintf("%s must be at most %s", label, e.Param)
	case KindPattern:
		return fmt.Sprintf("%s must be a valid ISBN (e.g., 978-1-4000-6885-7 or 0-306-40615-2)", label)
	case KindNumber:
		return fmt.Sprintf("%s must be a number", label)
	case KindDate:
		return fmt.Sprintf("%s must be a valid date (YYYY-MM-DD)", label)
	default:
		return ""
	}
}

func (e FieldError) Error() string {
	return e.Message()
}

type valueKind int

const (
	textValue valueKind = iota
	intValue
	floatValue
	dateValue
)

// rule is one validator tag and the error kind it maps to.
type rule struct {
	kind  ErrorKind
	tag   string
	param string
}

type fieldRules struct {
	value valueKind
	// required is checked on the raw text before any parsing.
	required bool
	// rules run against the text for textValue fields, the parsed number otherwise.
	rules []rule
}

const isbnTag = "catalog_isbn"

func maxLen(n int) rule {
	p := strconv.Itoa(n)
	return rule{kind: KindMaxLength, tag: "max=" + p, param: p}
}

func bound(kind ErrorKind, tag, param string) rule {
	return rule{kind: kind, tag: tag + "=" + param, param: param}
}

var rulesByField = map[Field]fieldRules{
	FieldTitle:           {value: textValue, required: true, rules: []rule{maxLen(book.MaxTitleLen)}},
	FieldAuthor:          {value: textValue, required: true, rules: []rule{maxLen(book.MaxAuthorLen)}},
	FieldISBN:            {value: textValue, required: true, rules: []rule{{kind: KindPattern, tag: isbnTag}}},
	FieldPublicationDate: {value: dateValue, required: true},
	FieldGenre:           {value: textValue, required: true, rules: []rule{maxLen(book.MaxGenreLen)}},
	FieldPages: {value: intValue, required: true, rules: []rule{
		bound(KindMin, "min", strconv.Itoa(book.MinPages)),
		bound(KindMax, "max", strconv.Itoa(book.MaxPages)),
	}},
	FieldRating: {value: floatValue, required: true, rules: []rule{
		bound(KindMin, "min", strconv.FormatFloat(book.MinRating, 'f', -1, 64)),
		bound(KindMax, "max", strconv.FormatFloat(book.MaxRating, 'f', -1, 64)),
	}},
	FieldDescription: {value: textValue, rules: []rule{maxLen(book.MaxDescriptionLen)}},
	FieldPublisher:   {value: textValue, rules: []rule{maxLen(book.MaxPublisherLen)}},
	FieldLanguage:    {value: textValue, rules: []rule{maxLen(book.MaxLanguageLen)}},
	FieldLocation:    {value: textValue, rules: []rule{maxLen(book.MaxLocationLen)}},
}

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation(isbnTag, func(fl validator.FieldLevel) bool {
		return book.ISBNPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", isbnTag, err))
	}
	return v
}

// check returns every rule field fails for the raw text value, in priority order.
func check(v *validator.Validate, field Field, raw string) []FieldError {
	fr, ok := rulesByField[field]
	if !ok {
		return nil
	}

	var failures []FieldError
	if raw == "" {
		if fr.required {
			failures = append(failures, FieldError{Field: field, Kind: KindRequired})
		}
		return failures
	}

	var subject any = raw
	switch fr.value {
	case intValue:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return []FieldError{{Field: field, Kind: KindNumber}}
		}
		subject = n
	case floatValue:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return []FieldError{{Field: field, Kind: KindNumber}}
		}
		subject = f
	case dateValue:
		if _, err := book.ParseDate(raw); err != nil {
			return []FieldError{{Field: field, Kind: KindDate}}
		}
	}

	for _, r := range fr.rules {
		if err := v.Var(subject, r.tag); err != nil {
			failures = append(failures, FieldError{Field: field, Kind: r.kind, Param: r.param})
		}
	}
	slices.SortStableFunc(failures, func(a, b FieldError) int {
		return cmp.Compare(a.Kind, b.Kind)
	})
	return failures
}
