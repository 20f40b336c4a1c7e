package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bookshelf/internal/book"
	"github.com/lepinkainen/bookshelf/internal/form"
	"github.com/lepinkainen/bookshelf/internal/listview"
)

var charLimits = map[form.Field]int{
	form.FieldTitle:           book.MaxTitleLen,
	form.FieldAuthor:          book.MaxAuthorLen,
	form.FieldISBN:            17,
	form.FieldPublicationDate: len(book.DateLayout),
	form.FieldGenre:           book.MaxGenreLen,
	form.FieldPages:           5,
	form.FieldRating:          4,
	form.FieldDescription:     book.MaxDescriptionLen,
	form.FieldPublisher:       book.MaxPublisherLen,
	form.FieldLanguage:        book.MaxLanguageLen,
	form.FieldLocation:        book.MaxLocationLen,
}

var placeholders = map[form.Field]string{
	form.FieldISBN:            "978-1-4000-6885-7",
	form.FieldPublicationDate: "YYYY-MM-DD",
	form.FieldPages:           "1-10000",
	form.FieldRating:          "0-5",
}

// editor is the add/edit form screen: one text input per text field plus
// the availability checkbox.
type editor struct {
	form   *form.Form
	inputs map[form.Field]textinput.Model
	focus  int
	offset int
	// synced is set once the inputs show the populated record.
	synced    bool
	submitted bool
	// submitRevision is the store revision that carried the submit's
	// loading flag. Older snapshots say nothing about this action.
	submitRevision uint64
}

func newEditor(f *form.Form) *editor {
	e := &editor{
		form:   f,
		inputs: make(map[form.Field]textinput.Model, len(form.TextFields)),
	}
	for _, field := range form.TextFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = charLimits[field]
		ti.Placeholder = placeholders[field]
		e.inputs[field] = ti
	}
	e.sync()
	return e
}

func (e *editor) field() form.Field {
	return form.Fields[e.focus]
}

// sync copies the populated form values into the inputs, once.
func (e *editor) sync() {
	if e.synced || (e.form.Mode() == form.ModeEdit && !e.form.Populated()) {
		return
	}
	for field, ti := range e.inputs {
		ti.SetValue(e.form.Value(field))
		e.inputs[field] = ti
	}
	e.synced = true
}

// focusCurrent focuses the input under the cursor and blurs the rest.
func (e *editor) focusCurrent() tea.Cmd {
	var cmd tea.Cmd
	for field, ti := range e.inputs {
		if field == e.field() {
			cmd = ti.Focus()
		} else {
			ti.Blur()
		}
		e.inputs[field] = ti
	}
	return cmd
}

func (e *editor) move(delta int) tea.Cmd {
	e.form.Touch(e.field())
	e.focus = (e.focus + delta + len(form.Fields)) % len(form.Fields)
	return e.focusCurrent()
}

func (m *Model) focusEditor() tea.Cmd {
	if m.editor == nil {
		return nil
	}
	return m.editor.focusCurrent()
}

func (m *Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.editor
	if e == nil {
		m.router.ToList()
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.router.Back()
		return m, nil
	case "ctrl+s":
		m.submit()
		return m, nil
	case "tab", "down":
		return m, e.move(1)
	case "shift+tab", "up":
		return m, e.move(-1)
	}

	if e.field() == form.FieldIsAvailable {
		switch msg.String() {
		case " ", "x":
			e.form.SetAvailable(!e.form.Available())
		case "enter":
			return m, e.move(1)
		}
		return m, nil
	}
	if msg.String() == "enter" {
		return m, e.move(1)
	}

	field := e.field()
	ti, cmd := e.inputs[field].Update(msg)
	e.inputs[field] = ti
	if ti.Value() != e.form.Value(field) {
		e.form.SetValue(field, ti.Value())
	}
	return m, cmd
}

func (m *Model) submit() {
	e := m.editor
	b, err := e.form.Submit()
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		m.status = "Fix the highlighted fields before saving."
	case err != nil:
		m.status = err.Error()
	default:
		// The store applied the loading flag before Submit returned.
		e.form.ObserveActionLoading(true)
		e.submitted = true
		e.submitRevision = m.catalog.Snapshot().Revision
		m.status = "Saving " + b.Title + "..."
	}
}

// observeEditor leaves the form once a submitted action has finished.
func (m *Model) observeEditor() {
	e := m.editor
	if e == nil {
		return
	}
	if e.form.Sync() {
		e.sync()
	}
	if e.submitted && m.state.Revision < e.submitRevision {
		return
	}
	if e.form.ObserveActionLoading(m.state.LoadingAction) && e.submitted {
		if m.state.ActionError {
			m.status = "Saving failed."
		} else {
			m.status = "Saved."
		}
		m.router.ToList()
	}
}

func (m *Model) editorView() string {
	e := m.editor
	if e == nil {
		return ""
	}

	title := "Add Book"
	if e.form.Mode() == form.ModeEdit {
		title = "Edit Book"
	}
	lines := []string{headerStyle.Render(title)}
	if e.form.Mode() == form.ModeEdit && !e.form.Populated() {
		lines = append(lines, "Loading book...")
	}

	// Two lines per field: the input and its error.
	visible := (m.height - 8) / 2
	if m.height == 0 {
		visible = len(form.Fields)
	}
	e.offset = listview.ScrollOffset(e.offset, e.focus, visible, len(form.Fields))
	for i, field := range listview.Window(form.Fields, e.offset, max(visible, 1)) {
		lines = append(lines, e.fieldView(field, e.offset+i == e.focus))
	}

	lines = append(lines, m.footer("tab/shift+tab move | space toggle availability | ctrl+s save | esc cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (e *editor) fieldView(field form.Field, focused bool) string {
	label := labelStyle.Render(field.Label())
	if focused {
		label = labelStyle.Copy().Bold(true).Foreground(lipgloss.Color("214")).Render(field.Label())
	}

	var input string
	if field == form.FieldIsAvailable {
		input = "[ ] available"
		if e.form.Available() {
			input = "[x] available"
		}
	} else {
		input = e.inputs[field].View()
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top, label, input)
	if field != form.FieldIsAvailable && e.form.Invalid(field) {
		line = lipgloss.JoinVertical(lipgloss.Left, line, errorStyle.Render("  "+e.form.ErrorMessage(field)))
	}
	return line
}
