package console

import (
	"context"

	"github.com/sipico/staff-console/internal/api"
)

// Row is one rendered list entry.
type Row struct {
	ID    api.ID
	Cells []string
}

// View is a type-free rendering of a controller's state.
type View struct {
	Key      string
	Title    string
	Singular string
	Phase    Phase
	Columns  []string
	Rows     []Row
	Fields   []Field
	Form     *Form
	Can      Affordances
	Notice   *Notification
}

// Screen is a Controller with its record type erased, so that one front end
// can drive every resource.
type Screen interface {
	Activate(ctx context.Context) error
	Deactivate()
	Reset()
	Load(ctx context.Context) error
	OpenCreate() error
	OpenEdit(id api.ID) error
	SetField(name, value string) error
	CloseForm()
	Submit(ctx context.Context) error
	Remove(ctx context.Context, id api.ID) error
	View() View
}

var (
	_ Screen = (*Controller[api.User])(nil)
	_ Screen = (*Controller[api.Blog])(nil)
	_ Screen = (*Controller[api.Portfolio])(nil)
	_ Screen = (*Controller[api.Testimonial])(nil)
)

// View renders the current state.
func (c *Controller[T]) View() View {
	st := c.Snapshot()
	rows := make([]Row, len(st.Records))
	for i, r := range st.Records {
		rows[i] = Row{ID: c.res.ID(r), Cells: c.res.Row(r)}
	}
	return View{
		Key:      c.res.Key,
		Title:    c.res.Title,
		Singular: c.res.Singular,
		Phase:    st.Phase,
		Columns:  c.res.Columns,
		Rows:     rows,
		Fields:   c.res.Fields,
		Form:     st.Form,
		Can:      st.Can,
		Notice:   st.Notice,
	}
}
