// Package form maps the add/edit form to catalog records: it holds the raw
// field values, validates them and submits the resulting record.
package form

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lepinkainen/bookshelf/internal/book"
	"github.com/lepinkainen/bookshelf/internal/store"
)

// Catalog is the part of the store the form needs.
type Catalog interface {
	Snapshot() store.State
	LoadAll()
	Add(b book.Book)
	Update(b book.Book)
}

// Mode tells whether the form creates or edits a record.
type Mode int

const (
	ModeAdd Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "add"
}

// ValidationError is returned by Submit when any field fails validation.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message())
	}
	return "invalid form: " + strings.Join(msgs, "; ")
}

// Form holds the state of one add or edit form.
type Form struct {
	catalog  Catalog
	validate *validator.Validate
	mode     Mode
	id       int

	values    map[Field]string
	available bool
	touched   map[Field]bool
	dirty     map[Field]bool

	original   *book.Book
	populated  bool
	wasLoading bool
}

// New returns an empty add form.
func New(catalog Catalog) *Form {
	f := newForm(catalog, ModeAdd, 0)
	f.init()
	return f
}

// NewEdit returns an edit form for id. Fields are populated as soon as the
// record is present in the catalog; see Sync.
func NewEdit(catalog Catalog, id int) *Form {
	f := newForm(catalog, ModeEdit, id)
	f.init()
	return f
}

func newForm(catalog Catalog, mode Mode, id int) *Form {
	return &Form{
		catalog:   catalog,
		validate:  newValidator(),
		mode:      mode,
		id:        id,
		values:    make(map[Field]string, len(TextFields)),
		available: true,
		touched:   make(map[Field]bool),
		dirty:     make(map[Field]bool),
	}
}

func (f *Form) init() {
	if len(f.catalog.Snapshot().Books) == 0 {
		f.catalog.LoadAll()
	}
	f.Sync()
}

// Mode returns the form's mode.
func (f *Form) Mode() Mode {
	return f.mode
}

// ID returns the id being edited, or 0 in add mode.
func (f *Form) ID() int {
	return f.id
}

// Populated reports whether an edit form has been filled from its record.
func (f *Form) Populated() bool {
	return f.populated
}

// Sync fills an edit form from the catalog once the record is available.
// It does nothing after the first successful population, so later catalog
// changes never overwrite what the user typed.
func (f *Form) Sync() bool {
	if f.mode != ModeEdit || f.populated {
		return false
	}
	b, ok := f.catalog.Snapshot().FindByID(f.id)
	if !ok {
		return false
	}
	f.populate(b)
	return true
}

func (f *Form) populate(b book.Book) {
	f.original = &b
	f.values[FieldTitle] = b.Title
	f.values[FieldAuthor] = b.Author
	f.values[FieldISBN] = b.ISBN
	f.values[FieldPublicationDate] = b.PublicationDate.String()
	f.values[FieldGenre] = b.Genre
	f.values[FieldPages] = strconv.Itoa(b.Pages)
	f.values[FieldRating] = strconv.FormatFloat(b.Rating, 'f', -1, 64)
	f.values[FieldDescription] = b.Description
	f.values[FieldPublisher] = b.Publisher
	f.values[FieldLanguage] = b.Language
	f.values[FieldLocation] = b.Location
	f.available = b.IsAvailable
	f.populated = true
}

// Value returns the raw text of a field.
func (f *Form) Value(field Field) string {
	return f.values[field]
}

// SetValue replaces the text of a field and marks it dirty.
func (f *Form) SetValue(field Field, value string) {
	if field == FieldIsAvailable {
		return
	}
	f.values[field] = value
	f.dirty[field] = true
}

// Available returns the availability checkbox.
func (f *Form) Available() bool {
	return f.available
}

// SetAvailable sets the availability checkbox.
func (f *Form) SetAvailable(available bool) {
	f.available = available
	f.dirty[FieldIsAvailable] = true
}

// Touch marks a field as visited.
func (f *Form) Touch(field Field) {
	f.touched[field] = true
}

// MarkAllTouched marks every field as visited so all errors surface.
func (f *Form) MarkAllTouched() {
	for _, field := range Fields {
		f.touched[field] = true
	}
}

// Errors returns every failed rule for field, highest priority first.
func (f *Form) Errors(field Field) []FieldError {
	return check(f.validate, field, f.values[field])
}

// Valid reports whether every field passes validation.
func (f *Form) Valid() bool {
	return len(f.allErrors()) == 0
}

func (f *Form) allErrors() []FieldError {
	var out []FieldError
	for _, field := range TextFields {
		if errs := f.Errors(field); len(errs) > 0 {
			out = append(out, errs[0])
		}
	}
	return out
}

// Invalid reports whether field should be shown as invalid: it fails a rule
// and the user has changed or visited it.
func (f *Form) Invalid(field Field) bool {
	return len(f.Errors(field)) > 0 && (f.dirty[field] || f.touched[field])
}

// ErrorMessage returns the highest-priority message for field, or "".
func (f *Form) ErrorMessage(field Field) string {
	errs := f.Errors(field)
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Message()
}

// Record builds the record the form currently describes. It assumes the
// values are valid.
func (f *Form) Record(id int) book.Book {
	pages, _ := strconv.Atoi(f.values[FieldPages])
	rating, _ := strconv.ParseFloat(f.values[FieldRating], 64)
	date, _ := book.ParseDate(f.values[FieldPublicationDate])

	b := book.Book{
		ID:              id,
		Title:           f.values[FieldTitle],
		Author:          f.values[FieldAuthor],
		ISBN:            f.values[FieldISBN],
		PublicationDate: date,
		Genre:           f.values[FieldGenre],
		Pages:           pages,
		Rating:          rating,
		IsAvailable:     f.available,
		Description:     f.values[FieldDescription],
		Publisher:       f.values[FieldPublisher],
		Language:        f.values[FieldLanguage],
		Location:        f.values[FieldLocation],
	}
	if f.original != nil {
		b.CatalogNumber = f.original.CatalogNumber
	} else {
		b.CatalogNumber = book.CatalogNumberFor(id)
	}
	return b
}

// Check validates b as if it had been typed into an add form and returns
// the highest-priority failure of each invalid field.
func Check(b book.Book) []FieldError {
	f := newForm(nil, ModeAdd, 0)
	f.populate(b)
	return f.allErrors()
}

// Submit validates the form and sends the record to the catalog. Edit mode
// updates the record under its original id; add mode creates one under the
// next free id. Invalid forms call nothing and return a *ValidationError.
func (f *Form) Submit() (book.Book, error) {
	if errs := f.allErrors(); len(errs) > 0 {
		f.MarkAllTouched()
		return book.Book{}, &ValidationError{Errors: errs}
	}

	if f.mode == ModeEdit {
		b := f.Record(f.id)
		f.catalog.Update(b)
		return b, nil
	}

	b := f.Record(f.catalog.Snapshot().NextID())
	f.catalog.Add(b)
	return b, nil
}

// ObserveActionLoading feeds the catalog's action-loading flag into the form.
// It returns true exactly once per action, when a loading action finishes;
// the caller then leaves the form.
func (f *Form) ObserveActionLoading(loading bool) bool {
	finished := f.wasLoading && !loading
	f.wasLoading = loading
	return finished
}
