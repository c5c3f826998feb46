package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sipico/staff-console/internal/api"
	"github.com/sipico/staff-console/internal/auth"
	"github.com/sipico/staff-console/internal/logging"
	"github.com/sipico/staff-console/internal/metrics"
)

// Backend is the remote collection a controller manages. *api.Endpoint
// satisfies it.
type Backend[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, payload T) (*T, error)
	Update(ctx context.Context, id api.ID, payload T) (*T, error)
	Delete(ctx context.Context, id api.ID) error
}

var (
	_ Backend[api.User]        = (*api.Endpoint[api.User])(nil)
	_ Backend[api.Blog]        = (*api.Endpoint[api.Blog])(nil)
	_ Backend[api.Portfolio]   = (*api.Endpoint[api.Portfolio])(nil)
	_ Backend[api.Testimonial] = (*api.Endpoint[api.Testimonial])(nil)
)

// Phase is the list state of a screen.
type Phase int

const (
	Loading Phase = iota
	Ready
)

func (p Phase) String() string {
	if p == Loading {
		return "loading"
	}
	return "ready"
}

// Form is an open create or edit form.
type Form struct {
	Mode Mode
	// EditID identifies the record being edited; empty in create mode.
	EditID api.ID
	Draft  Draft
	// Submitting is set while the draft is being sent.
	Submitting bool
}

func (f *Form) clone() *Form {
	if f == nil {
		return nil
	}
	return &Form{Mode: f.Mode, EditID: f.EditID, Draft: f.Draft.Clone(), Submitting: f.Submitting}
}

// Affordances are the mutations the signed-in identity may perform.
type Affordances struct {
	Create bool
	Update bool
	Delete bool
}

// State is a point-in-time copy of a controller.
type State[T any] struct {
	Phase   Phase
	Active  bool
	Records []T
	// Form is nil when no form is open.
	Form   *Form
	Can    Affordances
	Notice *Notification
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	notifier  *Notifier
	confirmer Confirmer
	logger    *slog.Logger
}

// WithNotifier sets the notifier banners are raised on. Screens normally
// share one.
func WithNotifier(n *Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithConfirmer sets the confirmer asked before deletes. The default declines.
func WithConfirmer(c Confirmer) Option {
	return func(o *options) { o.confirmer = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Controller is the list screen of one resource: it loads the collection,
// holds the open form and its draft, and performs create, update and delete
// through the backend, refetching the whole list after every success.
type Controller[T any] struct {
	res       *Resource[T]
	backend   Backend[T]
	gate      auth.Gate
	notifier  *Notifier
	confirmer Confirmer
	logger    *slog.Logger

	mu      sync.Mutex
	active  bool
	gen     uint64
	phase   Phase
	records []T
	form    *Form
}

// NewController returns an inactive controller in the Loading phase.
func NewController[T any](res *Resource[T], backend Backend[T], gate auth.Gate, opts ...Option) *Controller[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.notifier == nil {
		o.notifier = NewNotifier(DefaultNoticeTTL)
	}
	if o.confirmer == nil {
		o.confirmer = Decline
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}
	return &Controller[T]{
		res:       res,
		backend:   backend,
		gate:      gate,
		notifier:  o.notifier,
		confirmer: o.confirmer,
		logger:    o.logger.With("resource", res.Key),
		phase:     Loading,
		records:   []T{},
	}
}

// Resource returns the descriptor.
func (c *Controller[T]) Resource() *Resource[T] { return c.res }

// Activate marks the screen visible and loads the list.
func (c *Controller[T]) Activate(ctx context.Context) error {
	c.mu.Lock()
	c.active = true
	c.mu.Unlock()
	return c.Load(ctx)
}

// Deactivate marks the screen hidden. The open form is discarded and any
// load still in flight is ignored when it completes.
func (c *Controller[T]) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
	c.gen++
	c.form = nil
}

// Reset forgets everything loaded for the previous identity: the list is
// emptied, the form discarded and the screen returns to Loading.
func (c *Controller[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
	c.gen++
	c.form = nil
	c.phase = Loading
	c.records = []T{}
}

// Load fetches the collection. The result is applied only if no newer load
// started meanwhile and the screen is still active; a discarded result
// returns nil. On failure the previous list is kept and an error banner is
// raised.
func (c *Controller[T]) Load(ctx context.Context) error {
	if err := auth.Require(c.gate, c.res.ReadPermission); err != nil {
		return err
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.phase = Loading
	c.mu.Unlock()

	records, err := c.backend.List(ctx)

	c.mu.Lock()
	if gen != c.gen || !c.active {
		c.mu.Unlock()
		c.logger.Debug("discarding stale list response", "generation", gen)
		return nil
	}
	c.phase = Ready
	if err == nil {
		c.records = records
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("list failed", "error", err)
		c.fail(err, "Failed to fetch "+c.res.Plural)
		return fmt.Errorf("loading %s: %w", c.res.Plural, err)
	}
	c.logger.Debug("list loaded", "count", len(records))
	return nil
}

// OpenCreate opens an empty form.
func (c *Controller[T]) OpenCreate() error {
	if err := c.allowed(c.res.CreatePermission, "create"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = &Form{Mode: ModeCreate, Draft: c.res.EmptyDraft()}
	return nil
}

// OpenEdit opens a form seeded from the listed record with the given id.
func (c *Controller[T]) OpenEdit(id api.ID) error {
	if err := c.allowed(c.res.UpdatePermission, "update"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	record, ok := c.find(id)
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrUnknownRecord, c.res.Singular, id)
	}
	c.form = &Form{Mode: ModeEdit, EditID: id, Draft: c.res.ToDraft(record)}
	return nil
}

// SetField changes one draft value.
func (c *Controller[T]) SetField(name, value string) error {
	if _, ok := c.res.field(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.form == nil {
		return ErrFormClosed
	}
	c.form.Draft[name] = value
	return nil
}

// CloseForm discards the open form, if any.
func (c *Controller[T]) CloseForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = nil
}

// Submit sends the draft: create in create mode, update of the edited
// record otherwise. On success the form closes and the list is refetched.
// On failure the form stays open with its draft intact and an error banner
// is raised.
func (c *Controller[T]) Submit(ctx context.Context) error {
	c.mu.Lock()
	form := c.form
	var snapshot *Form
	if form != nil {
		if form.Submitting {
			c.mu.Unlock()
			return ErrSubmitInFlight
		}
		snapshot = form.clone()
	}
	c.mu.Unlock()
	if snapshot == nil {
		return ErrFormClosed
	}

	perm, verb := c.res.CreatePermission, "create"
	if snapshot.Mode == ModeEdit {
		perm, verb = c.res.UpdatePermission, "update"
	}
	if err := c.allowed(perm, verb); err != nil {
		return err
	}

	if err := c.res.checkRequired(snapshot.Draft, snapshot.Mode); err != nil {
		c.fail(err, err.Error())
		return err
	}
	payload, err := c.res.FromDraft(snapshot.Draft, snapshot.Mode)
	if err != nil {
		c.fail(err, err.Error())
		return err
	}

	c.mu.Lock()
	if c.form != form || form.Submitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	form.Submitting = true
	c.mu.Unlock()

	var done string
	if snapshot.Mode == ModeEdit {
		_, err = c.backend.Update(ctx, snapshot.EditID, payload)
		done = "updated"
	} else {
		_, err = c.backend.Create(ctx, payload)
		done = "created"
	}
	c.mu.Lock()
	form.Submitting = false
	c.mu.Unlock()
	if err != nil {
		c.logger.Warn("submit failed", "mode", snapshot.Mode.String(), "error", err)
		c.fail(err, "Operation failed")
		return fmt.Errorf("%s %s: %w", verb, c.res.Singular, err)
	}

	c.mu.Lock()
	if c.form == form {
		c.form = nil
	}
	c.mu.Unlock()

	c.logger.Info("record saved", "mode", snapshot.Mode.String(), "id", string(snapshot.EditID))
	c.notify(Success, fmt.Sprintf("%s %s successfully", capitalize(c.res.Singular), done))
	return c.Load(ctx)
}

// Remove deletes the listed record with the given id after the user
// confirms. Declining is a no-op that returns nil.
func (c *Controller[T]) Remove(ctx context.Context, id api.ID) error {
	if err := c.allowed(c.res.DeletePermission, "delete"); err != nil {
		return err
	}
	c.mu.Lock()
	_, ok := c.find(id)
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrUnknownRecord, c.res.Singular, id)
	}

	if !c.confirmer.Confirm(ctx, fmt.Sprintf("Are you sure you want to delete this %s?", c.res.Singular)) {
		c.logger.Debug("delete declined", "id", string(id))
		return nil
	}

	if err := c.backend.Delete(ctx, id); err != nil {
		c.logger.Warn("delete failed", "id", string(id), "error", err)
		c.fail(err, "Failed to delete "+c.res.Singular)
		return fmt.Errorf("delete %s: %w", c.res.Singular, err)
	}

	c.logger.Info("record deleted", "id", string(id))
	c.notify(Success, capitalize(c.res.Singular)+" deleted successfully")
	return c.Load(ctx)
}

// Snapshot copies the current state.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	st := State[T]{
		Phase:   c.phase,
		Active:  c.active,
		Records: append([]T{}, c.records...),
		Form:    c.form.clone(),
	}
	c.mu.Unlock()

	st.Can = Affordances{
		Create: c.gate.HasPermission(c.res.CreatePermission),
		Update: c.gate.HasPermission(c.res.UpdatePermission),
		Delete: c.gate.HasPermission(c.res.DeletePermission),
	}
	if n, ok := c.notifier.Current(); ok {
		st.Notice = &n
	}
	return st
}

// find must be called with c.mu held.
func (c *Controller[T]) find(id api.ID) (T, bool) {
	for _, r := range c.records {
		if c.res.ID(r) == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// allowed checks p and raises the permission banner when it is missing.
func (c *Controller[T]) allowed(p auth.Permission, verb string) error {
	err := auth.Require(c.gate, p)
	if errors.Is(err, auth.ErrForbidden) {
		c.notify(Error, fmt.Sprintf("You do not have permission to %s %s", verb, c.res.Plural))
	}
	return err
}

// fail raises an error banner with the server message carried by err, or
// fallback.
func (c *Controller[T]) fail(err error, fallback string) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		c.notify(Error, verr.Message)
		return
	}
	c.notify(Error, api.Message(err, fallback))
}

func (c *Controller[T]) notify(kind Kind, message string) {
	metrics.RecordNotification(c.res.Key, kind.String())
	c.notifier.Raise(kind, message)
}
