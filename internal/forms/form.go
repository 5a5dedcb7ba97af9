// Package forms binds and validates submitted HTML forms. Fields are
// exposed in declaration order so templates can render them generically.
package forms

import "strings"

// Getter reads one submitted value, e.g. fiber's Ctx.FormValue or url.Values.Get.
type Getter func(name string) string

const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

// Choice is one option of a select field.
type Choice struct {
	Value string
	Label string
}

// Field is a single form input with its current value and errors.
type Field struct {
	Name     string
	Label    string
	HelpText string
	Widget   string
	Required bool
	Value    string
	Errors   []string
	Choices  []Choice
}

// HasErrors is used by templates to style invalid inputs.
func (f *Field) HasErrors() bool {
	return len(f.Errors) > 0
}

// Form holds the fields shared by every concrete form.
type Form struct {
	Fields         []*Field
	IsBound        bool
	NonFieldErrors []string
	// Errors maps field name to its messages; "__all__" holds non-field ones.
	Errors map[string][]string
}

func newForm(fields ...*Field) Form {
	return Form{Fields: fields, Errors: map[string][]string{}}
}

// Field returns the named field or nil.
func (f *Form) Field(name string) *Field {
	for _, field := range f.Fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

// AddError attaches msg to the named field, or to the form when name is empty.
func (f *Form) AddError(name, msg string) {
	if name == "" {
		f.NonFieldErrors = append(f.NonFieldErrors, msg)
		f.Errors["__all__"] = append(f.Errors["__all__"], msg)
		return
	}
	if field := f.Field(name); field != nil {
		field.Errors = append(field.Errors, msg)
	}
	f.Errors[name] = append(f.Errors[name], msg)
}

func (f *Form) valid() bool {
	return f.IsBound && len(f.Errors) == 0
}

// bind copies submitted values onto the fields. Values are trimmed except
// for password inputs, and required fields left blank get an error.
func (f *Form) bind(get Getter) {
	f.IsBound = true
	f.NonFieldErrors = nil
	f.Errors = map[string][]string{}
	for _, field := range f.Fields {
		field.Errors = nil
		raw := get(field.Name)
		if field.Widget != "password" {
			raw = strings.TrimSpace(raw)
		}
		field.Value = raw
		if field.Required && strings.TrimSpace(raw) == "" {
			f.AddError(field.Name, msgRequired)
		}
	}
}
