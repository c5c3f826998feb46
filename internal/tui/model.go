// Package tui renders the staff console in the terminal: a login screen, a
// dashboard shell with a permission-filtered menu, one list screen per
// resource with create and edit forms, a delete confirmation and transient
// banners.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sipico/staff-console/internal/api"
	"github.com/sipico/staff-console/internal/auth"
	"github.com/sipico/staff-console/internal/console"
	"github.com/sipico/staff-console/internal/logging"
)

const (
	loginFallback   = "Login failed. Please check your credentials."
	sessionExpired  = "Your session has expired. Please sign in again."
	restoringNotice = "Restoring session…"
)

// phase is the top-level screen.
type phase int

const (
	phaseRestoring phase = iota
	phaseLogin
	phaseDashboard
)

// focusRegion is the part of the dashboard receiving keys.
type focusRegion int

const (
	focusMenu focusRegion = iota
	focusList
	focusForm
	focusConfirm
)

// Config holds the collaborators of the console UI.
type Config struct {
	Session   *auth.Session
	Screens   map[string]console.Screen
	Notifier  *console.Notifier
	Confirmer *console.ChannelConfirmer
	Logger    *slog.Logger
	Theme     Theme
	Keys      KeyMap
	// Now is the clock used for the dashboard greeting.
	Now func() time.Time
}

// Model is the bubbletea model of the console.
type Model struct {
	ctx       context.Context
	session   *auth.Session
	screens   map[string]console.Screen
	notifier  *console.Notifier
	confirmer *console.ChannelConfirmer
	logger    *slog.Logger
	now       func() time.Time
	// redraw schedules a render after a notification lifetime.
	redraw func(time.Duration) tea.Cmd

	keys   KeyMap
	styles styles
	help   help.Model

	phase      phase
	login      loginForm
	loginError string
	loggingIn  bool

	focus    focusRegion
	menu     []console.Destination
	menuIdx  int
	current  string
	table    table.Model
	rows     []console.Row
	form     *recordForm
	question *console.Question
	// submitting is set from the submit key until its result arrives.
	submitting bool

	width  int
	height int
}

// New builds the model. ctx bounds every remote call the UI starts.
func New(ctx context.Context, cfg Config) Model {
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Notifier == nil {
		cfg.Notifier = console.NewNotifier(console.DefaultNoticeTTL)
	}
	if cfg.Theme == (Theme{}) {
		cfg.Theme = DefaultTheme
	}
	if len(cfg.Keys.Quit.Keys()) == 0 {
		cfg.Keys = DefaultKeyMap
	}
	st := newStyles(cfg.Theme)

	tbl := table.New(table.WithFocused(true), table.WithHeight(15))
	tblStyles := table.DefaultStyles()
	tblStyles.Header = tblStyles.Header.Bold(true).Foreground(cfg.Theme.Accent)
	tblStyles.Selected = tblStyles.Selected.Foreground(cfg.Theme.SelectedForeground).Background(cfg.Theme.SelectedBackground)
	tbl.SetStyles(tblStyles)

	return Model{
		ctx:       ctx,
		session:   cfg.Session,
		screens:   cfg.Screens,
		notifier:  cfg.Notifier,
		confirmer: cfg.Confirmer,
		logger:    cfg.Logger,
		now:       cfg.Now,
		redraw:    afterNotice,
		keys:      cfg.Keys,
		styles:    st,
		help:      help.New(),
		phase:     phaseRestoring,
		login:     newLoginForm(),
		current:   console.Home,
		table:     tbl,
	}
}

// Init implements tea.Model: restore the persisted session and start
// listening for delete confirmations.
func (model Model) Init() tea.Cmd {
	cmds := []tea.Cmd{model.restore()}
	if model.confirmer != nil {
		cmds = append(cmds, listenForQuestion(model.confirmer.Questions()))
	}
	return tea.Batch(cmds...)
}

func (model Model) restore() tea.Cmd {
	session, ctx := model.session, model.ctx
	return func() tea.Msg {
		return restoreDoneMsg{err: session.Restore(ctx)}
	}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width, model.height = message.Width, message.Height
		model.help.Width = message.Width
		if h := message.Height - 10; h > 3 {
			model.table.SetHeight(h)
		}
		return model, nil

	case restoreDoneMsg:
		if message.err != nil {
			model.logger.Info("no usable stored session", "error", message.err)
		}
		if model.session.IsAuthenticated() {
			return model.enterDashboard()
		}
		model.phase = phaseLogin
		return model, nil

	case loginDoneMsg:
		model.loggingIn = false
		if message.err != nil {
			model.loginError = api.Message(message.err, loginFallback)
			return model, nil
		}
		model.loginError = ""
		model.login = newLoginForm()
		return model.enterDashboard()

	case screenDoneMsg:
		return model.handleScreenDone(message)

	case sessionRefreshedMsg:
		return model.handleSessionRefreshed(message)

	case questionMsg:
		q := message.question
		model.question = &q
		model.focus = focusConfirm
		return model, listenForQuestion(model.confirmer.Questions())

	case refreshMsg:
		return model, nil

	case tea.KeyMsg:
		if key.Matches(message, model.keys.Quit) {
			return model, tea.Quit
		}
		switch model.phase {
		case phaseLogin:
			return model.handleLoginKeys(message)
		case phaseDashboard:
			return model.handleDashboardKeys(message)
		}
	}
	return model, nil
}

func (model Model) handleLoginKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.loggingIn {
		return model, nil
	}
	switch message.Type {
	case tea.KeyTab, tea.KeyDown:
		model.login.next()
		return model, nil
	case tea.KeyShiftTab, tea.KeyUp:
		model.login.prev()
		return model, nil
	case tea.KeyEnter:
		if model.login.focus == 0 {
			model.login.next()
			return model, nil
		}
		return model.submitLogin()
	}
	model.login.update(message)
	return model, nil
}

func (model Model) submitLogin() (tea.Model, tea.Cmd) {
	email, password := model.login.email(), model.login.password()
	if email == "" || password == "" {
		model.loginError = "Email and password are required"
		return model, nil
	}
	model.loggingIn = true
	model.loginError = ""
	session, ctx := model.session, model.ctx
	return model, func() tea.Msg {
		_, err := session.Login(ctx, email, password)
		return loginDoneMsg{err: err}
	}
}

func (model Model) enterDashboard() (tea.Model, tea.Cmd) {
	model.phase = phaseDashboard
	model.menu = console.Visible(model.session)
	model.menuIdx = 0
	model.focus = focusMenu
	model.current = console.Home
	model.form = nil
	model.question = nil
	return model, nil
}

// signOut ends the session and returns to the login screen.
func (model Model) signOut(reason string) (tea.Model, tea.Cmd) {
	for _, screen := range model.screens {
		screen.Reset()
	}
	if model.question != nil {
		model.question.Answer(false)
	}
	model.session.Logout(model.ctx)
	model.phase = phaseLogin
	model.loginError = reason
	model.current = console.Home
	model.form = nil
	model.question = nil
	model.submitting = false
	model.rows = nil
	model.menu = nil
	model.table.SetRows(nil)
	return model, nil
}

// navigate opens the destination with the given key. Destinations the
// identity may not open fall back to the dashboard home.
func (model Model) navigate(dest string) (tea.Model, tea.Cmd) {
	d, err := console.Resolve(model.session, dest)
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return model.signOut("")
	case err != nil:
		model.logger.Warn("navigation blocked", "destination", dest, "error", err)
		d = console.Destination{Key: console.Home}
	}

	if prev, ok := model.screens[model.current]; ok && model.current != d.Key {
		prev.Deactivate()
	}
	model.current = d.Key
	model.form = nil
	model.rows = nil
	model.table.SetRows(nil)
	model.table.SetCursor(0)

	screen, ok := model.screens[d.Key]
	if !ok {
		model.focus = focusMenu
		return model, nil
	}
	model.focus = focusList
	model.syncTable(screen.View())
	return model, runScreen(model.ctx, d.Key, opLoad, screen.Activate)
}

func (model Model) handleScreenDone(message screenDoneMsg) (tea.Model, tea.Cmd) {
	if message.op == opSubmit {
		model.submitting = false
	}
	if model.phase != phaseDashboard {
		return model, nil
	}
	if errors.Is(message.err, api.ErrUnauthorized) {
		model.logger.Info("credential rejected mid-session", "resource", message.key)
		return model.signOut(sessionExpired)
	}
	var refresh tea.Cmd
	if message.err != nil {
		model.logger.Debug("screen operation failed", "resource", message.key, "error", message.err)
		var apiErr *api.APIError
		if errors.As(message.err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
			// Permissions changed on the server; pick them up.
			refresh = model.refreshSession(false)
		}
	}
	if message.key != model.current {
		return model, refresh
	}
	screen := model.screens[message.key]
	view := screen.View()
	model.syncTable(view)
	if model.form != nil && view.Form == nil {
		model.form = nil
		model.focus = focusList
	}
	return model, tea.Batch(model.redraw(model.notifier.TTL()), refresh)
}

// refreshSession re-fetches the identity; reload also reloads the open screen.
func (model Model) refreshSession(reload bool) tea.Cmd {
	session, ctx := model.session, model.ctx
	return func() tea.Msg {
		return sessionRefreshedMsg{reload: reload, err: session.Refresh(ctx)}
	}
}

// handleSessionRefreshed rebuilds the menu from the refreshed identity and
// leaves a screen the identity may no longer open.
func (model Model) handleSessionRefreshed(message sessionRefreshedMsg) (tea.Model, tea.Cmd) {
	if model.phase != phaseDashboard {
		return model, nil
	}
	if errors.Is(message.err, api.ErrUnauthorized) || errors.Is(message.err, auth.ErrUnauthenticated) {
		return model.signOut(sessionExpired)
	}
	if message.err != nil {
		model.logger.Warn("session refresh failed", "error", message.err)
	}

	model.menu = console.Visible(model.session)
	if model.menuIdx >= len(model.menu) {
		model.menuIdx = max(len(model.menu)-1, 0)
	}
	if model.current != console.Home {
		if _, err := console.Resolve(model.session, model.current); err != nil {
			return model.navigate(console.Home)
		}
	}

	screen, ok := model.screens[model.current]
	if !message.reload || !ok {
		return model, nil
	}
	return model, runScreen(model.ctx, model.current, opLoad, screen.Load)
}

func (model Model) handleDashboardKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch model.focus {
	case focusConfirm:
		return model.handleConfirmKeys(message)
	case focusForm:
		return model.handleFormKeys(message)
	}

	if key.Matches(message, model.keys.Logout) {
		return model.signOut("")
	}

	if model.focus == focusMenu {
		switch {
		case key.Matches(message, model.keys.Up):
			if model.menuIdx > 0 {
				model.menuIdx--
			}
		case key.Matches(message, model.keys.Down):
			if model.menuIdx < len(model.menu)-1 {
				model.menuIdx++
			}
		case key.Matches(message, model.keys.Open):
			if len(model.menu) > 0 {
				return model.navigate(model.menu[model.menuIdx].Key)
			}
		case key.Matches(message, model.keys.Focus):
			if _, ok := model.screens[model.current]; ok {
				model.focus = focusList
			}
		}
		return model, nil
	}

	screen, ok := model.screens[model.current]
	if !ok {
		model.focus = focusMenu
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.Focus), key.Matches(message, model.keys.Cancel):
		model.focus = focusMenu
		return model, nil
	case key.Matches(message, model.keys.Refresh):
		return model, model.refreshSession(true)
	case key.Matches(message, model.keys.New):
		if err := screen.OpenCreate(); err != nil {
			return model, model.redraw(model.notifier.TTL())
		}
		return model.openForm(screen)
	case key.Matches(message, model.keys.Edit):
		row, ok := model.selected()
		if !ok {
			return model, nil
		}
		if err := screen.OpenEdit(row.ID); err != nil {
			return model, model.redraw(model.notifier.TTL())
		}
		return model.openForm(screen)
	case key.Matches(message, model.keys.Delete):
		row, ok := model.selected()
		if !ok {
			return model, nil
		}
		id := row.ID
		return model, runScreen(model.ctx, model.current, opRemove, func(ctx context.Context) error {
			return screen.Remove(ctx, id)
		})
	}

	var cmd tea.Cmd
	model.table, cmd = model.table.Update(message)
	return model, cmd
}

func (model Model) openForm(screen console.Screen) (tea.Model, tea.Cmd) {
	view := screen.View()
	if view.Form == nil {
		return model, nil
	}
	model.form = newRecordForm(view.Fields, view.Form)
	model.focus = focusForm
	return model, nil
}

func (model Model) handleFormKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	screen := model.screens[model.current]
	form := model.form
	switch {
	case key.Matches(message, model.keys.Cancel):
		screen.CloseForm()
		model.form = nil
		model.focus = focusList
		return model, nil
	case message.Type == tea.KeyEnter && form.focus < len(form.inputs)-1:
		form.next()
		return model, nil
	case key.Matches(message, model.keys.Submit):
		if model.submitting {
			return model, nil
		}
		model.submitting = true
		return model, runScreen(model.ctx, model.current, opSubmit, screen.Submit)
	case key.Matches(message, model.keys.NextField):
		form.next()
		return model, nil
	case key.Matches(message, model.keys.PrevField):
		form.prev()
		return model, nil
	}

	form.update(message)
	field := form.focusedField()
	if err := screen.SetField(field.Name, form.value(form.focus)); err != nil {
		model.logger.Warn("form out of sync", "field", field.Name, "error", err)
	}
	return model, nil
}

func (model Model) handleConfirmKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.question == nil {
		model.focus = focusList
		return model, nil
	}
	switch {
	case key.Matches(message, model.keys.Yes):
		model.question.Answer(true)
	case key.Matches(message, model.keys.No):
		model.question.Answer(false)
	default:
		return model, nil
	}
	model.question = nil
	model.focus = focusList
	return model, nil
}

// syncTable rebuilds the table from a screen view.
func (model *Model) syncTable(view console.View) {
	model.rows = view.Rows
	// Clear first: the table renders its rows against the new columns.
	model.table.SetRows(nil)
	model.table.SetColumns(columnsFor(view))
	rows := make([]table.Row, len(view.Rows))
	for i, r := range view.Rows {
		rows[i] = table.Row(r.Cells)
	}
	model.table.SetRows(rows)
	if c := model.table.Cursor(); len(rows) > 0 && (c < 0 || c >= len(rows)) {
		model.table.SetCursor(min(max(c, 0), len(rows)-1))
	}
}

func (model Model) selected() (console.Row, bool) {
	i := model.table.Cursor()
	if i < 0 || i >= len(model.rows) {
		return console.Row{}, false
	}
	return model.rows[i], true
}
