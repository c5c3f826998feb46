package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/sipico/staff-console/internal/console"
)

const maxColumnWidth = 32

// View implements tea.Model.
func (model Model) View() string {
	switch model.phase {
	case phaseRestoring:
		return model.styles.subtle.Render(restoringNotice)
	case phaseLogin:
		return model.renderLogin()
	default:
		return model.renderDashboard()
	}
}

func (model Model) renderLogin() string {
	st := model.styles
	parts := []string{
		st.title.Render("Staff Console"),
		st.subtle.Render("Sign in to manage users, blogs, portfolios and testimonials"),
		"",
		model.login.view(st),
	}
	if model.loggingIn {
		parts = append(parts, st.subtle.Render("Signing in…"))
	}
	if model.loginError != "" {
		parts = append(parts, st.failure.Render(model.loginError))
	}
	box := st.loginBox.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	helpView := model.help.View(bindings{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sign in")),
		model.keys.Quit,
	})
	return lipgloss.JoinVertical(lipgloss.Left, box, helpView)
}

func (model Model) renderDashboard() string {
	st := model.styles

	header := st.title.Render("Staff Console")
	if id, ok := model.session.Identity(); ok {
		header += "  " + st.subtle.Render(fmt.Sprintf("%s <%s>", id.Name, id.Email))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		st.sidebar.Render(model.renderMenu()),
		st.content.Render(model.renderContent()),
	)

	parts := []string{header, ""}
	if banner := model.renderBanner(); banner != "" {
		parts = append(parts, banner, "")
	}
	parts = append(parts, body, "", model.help.View(model.contextHelp()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (model Model) renderMenu() string {
	st := model.styles
	lines := make([]string, 0, len(model.menu)+2)
	lines = append(lines, st.subtle.Render("MENU"))
	for i, d := range model.menu {
		label := d.Label
		switch {
		case i == model.menuIdx && model.focus == focusMenu:
			lines = append(lines, st.menuSel.Render("› "+label))
		case d.Key == model.current:
			lines = append(lines, st.label.Render("• "+label))
		default:
			lines = append(lines, st.menuItem.Render("  "+label))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (model Model) renderBanner() string {
	n, ok := model.notifier.Current()
	if !ok {
		return ""
	}
	if n.Kind == console.Error {
		return model.styles.failure.Render("✗ " + n.Message)
	}
	return model.styles.success.Render("✓ " + n.Message)
}

func (model Model) renderContent() string {
	screen, ok := model.screens[model.current]
	if !ok {
		return model.renderHome()
	}
	view := screen.View()
	switch {
	case model.focus == focusConfirm && model.question != nil:
		return model.renderConfirm()
	case model.focus == focusForm && model.form != nil:
		return model.renderForm(view)
	}
	return model.renderList(view)
}

func (model Model) renderHome() string {
	st := model.styles
	id, ok := model.session.Identity()
	if !ok {
		return ""
	}
	s := console.Summarize(id, model.session, model.now())

	lines := []string{
		st.title.Render(fmt.Sprintf("%s, %s!", s.Greeting, s.Name)),
		st.subtle.Render(s.Email),
		"",
		fmt.Sprintf("%s %d   %s %s   %s %s",
			st.label.Render("Total Permissions"), s.PermissionCount,
			st.label.Render("Active Sessions"), "1",
			st.label.Render("Account Status"), "Active"),
		"",
		st.label.Render("Your Permissions"),
	}
	if len(s.Badges) == 0 {
		lines = append(lines, st.subtle.Render("No permissions assigned"))
	} else {
		badges := make([]string, len(s.Badges))
		for i, b := range s.Badges {
			badges[i] = st.badge.Render(b)
		}
		lines = append(lines, wrapBadges(badges, model.width-24))
	}
	lines = append(lines, "", st.label.Render("Quick Actions"))
	if len(s.QuickActions) == 0 {
		lines = append(lines, st.subtle.Render("Nothing to manage yet"))
	}
	for _, d := range s.QuickActions {
		lines = append(lines, st.action.Render("→ "+d.Label))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// wrapBadges lays badges out in rows no wider than width.
func wrapBadges(badges []string, width int) string {
	if width <= 0 {
		width = 80
	}
	var rows []string
	var row []string
	used := 0
	for _, b := range badges {
		w := lipgloss.Width(b)
		if used+w > width && len(row) > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, used = nil, 0
		}
		row = append(row, b)
		used += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}

func (model Model) renderList(view console.View) string {
	st := model.styles
	title := st.title.Render(view.Title)
	var actions []string
	if view.Can.Create {
		actions = append(actions, st.action.Render("[n] Create"))
	}
	if view.Can.Update {
		actions = append(actions, st.action.Render("[e] Edit"))
	}
	if view.Can.Delete {
		actions = append(actions, st.action.Render("[d] Delete"))
	}
	head := title
	if len(actions) > 0 {
		head += "   " + strings.Join(actions, " ")
	}

	if view.Phase == console.Loading && len(view.Rows) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, head, "", st.subtle.Render("Loading "+strings.ToLower(view.Title)+"…"))
	}
	if len(view.Rows) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, head, "", st.subtle.Render("No "+strings.ToLower(view.Title)+" found"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, head, "", model.table.View())
}

func (model Model) renderForm(view console.View) string {
	st := model.styles
	verb := "Create"
	if model.form.mode == console.ModeEdit {
		verb = "Edit"
	}
	title := st.title.Render(fmt.Sprintf("%s %s", verb, view.Singular))
	body := []string{title, "", model.form.view(st)}
	if model.submitting {
		body = append(body, "", st.subtle.Render("Saving…"))
	}
	return st.modal.Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

func (model Model) renderConfirm() string {
	st := model.styles
	return st.modal.Render(lipgloss.JoinVertical(lipgloss.Left,
		st.title.Render("Confirm"),
		"",
		model.question.Prompt,
		"",
		st.subtle.Render("[y] yes   [n] no"),
	))
}

// contextHelp lists the bindings that apply to the focused region.
func (model Model) contextHelp() bindings {
	k := model.keys
	switch model.focus {
	case focusConfirm:
		return bindings{k.Yes, k.No}
	case focusForm:
		return bindings{k.NextField, k.PrevField, k.Submit, k.Cancel}
	case focusList:
		b := bindings{k.Up, k.Down}
		if screen, ok := model.screens[model.current]; ok {
			can := screen.View().Can
			if can.Create {
				b = append(b, k.New)
			}
			if can.Update {
				b = append(b, k.Edit)
			}
			if can.Delete {
				b = append(b, k.Delete)
			}
		}
		return append(b, k.Refresh, k.Focus, k.Logout, k.Quit)
	default:
		return bindings{k.Up, k.Down, k.Open, k.Focus, k.Logout, k.Quit}
	}
}

// columnsFor sizes each column to its widest cell.
func columnsFor(view console.View) []table.Column {
	cols := make([]table.Column, len(view.Columns))
	for i, title := range view.Columns {
		width := lipgloss.Width(title)
		for _, r := range view.Rows {
			if i < len(r.Cells) {
				if w := lipgloss.Width(r.Cells[i]); w > width {
					width = w
				}
			}
		}
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		cols[i] = table.Column{Title: title, Width: width}
	}
	return cols
}
