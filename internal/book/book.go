// Package book defines the catalog record and its field constraints.
package book

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the wire format of publication dates.
const DateLayout = "2006-01-02"

// Field limits shared by validation and storage.
const (
	MaxTitleLen       = 200
	MaxAuthorLen      = 100
	MaxGenreLen       = 50
	MaxDescriptionLen = 1000
	MaxPublisherLen   = 100
	MaxLanguageLen    = 50
	MaxLocationLen    = 100

	MinPages  = 1
	MaxPages  = 10000
	MinRating = 0.0
	MaxRating = 5.0
)

// ISBNPattern accepts ISBN-10 and ISBN-13 with optional hyphens.
var ISBNPattern = regexp.MustCompile(`^(?:\d{9}[\dXx]|(?:\d{3}-?)?\d{1,5}-?\d{1,7}-?\d{1,7}-?[\dXx])$`)

// Book is a single catalog record. Values are replaced, never mutated in place.
type Book struct {
	ID              int     `json:"id" yaml:"id"`
	CatalogNumber   string  `json:"catalogNumber,omitempty" yaml:"catalogNumber,omitempty"`
	Title           string  `json:"title" yaml:"title"`
	Author          string  `json:"author" yaml:"author"`
	ISBN            string  `json:"isbn" yaml:"isbn"`
	PublicationDate Date    `json:"publicationDate" yaml:"publicationDate"`
	Genre           string  `json:"genre" yaml:"genre"`
	Pages           int     `json:"pages" yaml:"pages"`
	Rating          float64 `json:"rating" yaml:"rating"`
	IsAvailable     bool    `json:"isAvailable" yaml:"isAvailable"`
	Description     string  `json:"description,omitempty" yaml:"description,omitempty"`
	Publisher       string  `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Language        string  `json:"language,omitempty" yaml:"language,omitempty"`
	Location        string  `json:"location,omitempty" yaml:"location,omitempty"`
}

// WithAvailability returns a copy of b with IsAvailable set to available.
func (b Book) WithAvailability(available bool) Book {
	b.IsAvailable = available
	return b
}

// CatalogNumberFor formats the catalog number assigned to a new record.
func CatalogNumberFor(id int) string {
	return fmt.Sprintf("CAT-%04d", id)
}

// Date is a calendar date without a time of day.
type Date struct {
	time.Time
}

// NewDate returns the date for the given year, month and day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Longer ISO timestamps are truncated to the date part.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	if len(value) > len(DateLayout) && value[len(DateLayout)] == 'T' {
		value = value[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return Date{t}, nil
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(value string) Date {
	d, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Compare orders dates chronologically.
func (d Date) Compare(other Date) int {
	return d.Time.Compare(other.Time)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Unquoted dates arrive as timestamps,
// so the raw scalar value is parsed instead of decoding into a string.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("publication date must be a scalar, got kind %d", value.Kind)
	}
	s := value.Value
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
