package tui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sipico/staff-console/internal/console"
)

// newInput returns a text input with a static cursor.
func newInput(placeholder string, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	in.CharLimit = 0
	in.Width = 48
	in.Cursor.SetMode(cursor.CursorStatic)
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return in
}

// inputGroup is an ordered set of inputs with one focused.
type inputGroup struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func (g *inputGroup) add(label string, in textinput.Model) {
	g.labels = append(g.labels, label)
	g.inputs = append(g.inputs, in)
}

func (g *inputGroup) focusAt(i int) {
	if len(g.inputs) == 0 {
		return
	}
	i = (i + len(g.inputs)) % len(g.inputs)
	g.inputs[g.focus].Blur()
	g.focus = i
	g.inputs[g.focus].Focus()
}

func (g *inputGroup) next() { g.focusAt(g.focus + 1) }
func (g *inputGroup) prev() { g.focusAt(g.focus - 1) }

// update feeds a key to the focused input. Cursor commands are dropped
// because the cursor does not blink.
func (g *inputGroup) update(msg tea.Msg) {
	if len(g.inputs) == 0 {
		return
	}
	g.inputs[g.focus], _ = g.inputs[g.focus].Update(msg)
}

func (g *inputGroup) value(i int) string { return g.inputs[i].Value() }

func (g *inputGroup) view(st styles) string {
	rows := make([]string, 0, len(g.inputs)*2)
	for i, in := range g.inputs {
		label := st.subtle.Render(g.labels[i])
		if i == g.focus {
			label = st.label.Render(g.labels[i])
		}
		rows = append(rows, label, in.View(), "")
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// loginForm is the email and password pair of the login screen.
type loginForm struct {
	inputGroup
}

func newLoginForm() loginForm {
	f := loginForm{}
	f.add("Email", newInput("admin@email.com", false))
	f.add("Password", newInput("", true))
	f.focusAt(0)
	return f
}

func (f *loginForm) email() string    { return f.value(0) }
func (f *loginForm) password() string { return f.value(1) }

// recordForm mirrors the draft of an open resource form.
type recordForm struct {
	inputGroup
	mode   console.Mode
	fields []console.Field
}

func newRecordForm(fields []console.Field, form *console.Form) *recordForm {
	f := &recordForm{mode: form.Mode, fields: fields}
	for _, field := range fields {
		label := field.Label
		if field.Required || (field.RequiredOnCreate && form.Mode == console.ModeCreate) {
			label += " *"
		}
		in := newInput(field.Placeholder, field.Kind == console.Secret)
		in.SetValue(form.Draft[field.Name])
		f.add(label, in)
	}
	f.focusAt(0)
	return f
}

// focusedField is the field under the cursor.
func (f *recordForm) focusedField() console.Field { return f.fields[f.focus] }
