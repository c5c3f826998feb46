package console

import (
	"strconv"
	"strings"

	"github.com/sipico/staff-console/internal/api"
	"github.com/sipico/staff-console/internal/auth"
)

// FieldKind tells the form how to edit a field.
type FieldKind int

const (
	Text FieldKind = iota
	LongText
	List        // comma-separated in the draft
	Number      // decimal integer in the draft
	Bool        // "true" or "false" in the draft
	Secret      // masked while typing
	Permissions // comma-separated permission tags
)

// Field describes one editable field of a resource.
type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
	// RequiredOnCreate fields may be left blank when editing.
	RequiredOnCreate bool
	// Default seeds the draft in create mode.
	Default     string
	Placeholder string
}

// Mode is the purpose of an open form.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Draft is an in-progress edit buffer: every field as plain text, keyed by
// field name.
type Draft map[string]string

// Clone returns an independent copy of d.
func (d Draft) Clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Resource describes one record type to the generic controller.
type Resource[T any] struct {
	// Key is the navigation key and collection name, e.g. "blogs".
	Key      string
	Title    string
	Singular string
	Plural   string

	ReadPermission   auth.Permission
	CreatePermission auth.Permission
	UpdatePermission auth.Permission
	DeletePermission auth.Permission

	Fields  []Field
	Columns []string

	ID  func(T) api.ID
	Row func(T) []string
	// ToDraft flattens a record into a draft for editing.
	ToDraft func(T) Draft
	// FromDraft rebuilds a record from a draft, validating it. Errors should
	// wrap ErrValidation.
	FromDraft func(d Draft, mode Mode) (T, error)
}

// EmptyDraft returns the create-mode draft: every field blank or at its default.
func (r *Resource[T]) EmptyDraft() Draft {
	d := make(Draft, len(r.Fields))
	for _, f := range r.Fields {
		d[f.Name] = f.Default
	}
	return d
}

func (r *Resource[T]) field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// checkRequired reports the first required field left blank.
func (r *Resource[T]) checkRequired(d Draft, mode Mode) error {
	for _, f := range r.Fields {
		need := f.Required || (f.RequiredOnCreate && mode == ModeCreate)
		if need && strings.TrimSpace(d[f.Name]) == "" {
			return invalid(f.Name, f.Label+" is required")
		}
	}
	return nil
}

// JoinList flattens a list field for editing.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// SplitList splits a comma-separated draft value, trimming whitespace and
// dropping empty entries. It never returns nil.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

// capitalize upper-cases the first letter of an ASCII word.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
