package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the console palette. Colors are ANSI 256 codes.
type Theme struct {
	Accent     lipgloss.Color
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	Border     lipgloss.Color

	SuccessForeground lipgloss.Color
	SuccessBackground lipgloss.Color
	ErrorForeground   lipgloss.Color
	ErrorBackground   lipgloss.Color

	SelectedForeground lipgloss.Color
	SelectedBackground lipgloss.Color
	BadgeForeground    lipgloss.Color
	BadgeBackground    lipgloss.Color
}

// DefaultTheme follows the purple and blue of the web dashboard.
var DefaultTheme = Theme{
	Accent:     lipgloss.Color("99"),
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("243"),
	Border:     lipgloss.Color("60"),

	SuccessForeground: lipgloss.Color("231"),
	SuccessBackground: lipgloss.Color("35"),
	ErrorForeground:   lipgloss.Color("231"),
	ErrorBackground:   lipgloss.Color("160"),

	SelectedForeground: lipgloss.Color("231"),
	SelectedBackground: lipgloss.Color("62"),
	BadgeForeground:    lipgloss.Color("17"),
	BadgeBackground:    lipgloss.Color("153"),
}

// styles are the lipgloss styles derived from a Theme.
type styles struct {
	title    lipgloss.Style
	subtle   lipgloss.Style
	label    lipgloss.Style
	sidebar  lipgloss.Style
	menuItem lipgloss.Style
	menuSel  lipgloss.Style
	content  lipgloss.Style
	success  lipgloss.Style
	failure  lipgloss.Style
	badge    lipgloss.Style
	modal    lipgloss.Style
	action   lipgloss.Style
	loginBox lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		subtle:   lipgloss.NewStyle().Foreground(t.FaintText),
		label:    lipgloss.NewStyle().Foreground(t.NormalText).Bold(true),
		sidebar:  lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(t.Border).PaddingRight(2).MarginRight(2),
		menuItem: lipgloss.NewStyle().Foreground(t.NormalText).PaddingLeft(1).PaddingRight(1),
		menuSel:  lipgloss.NewStyle().Foreground(t.SelectedForeground).Background(t.SelectedBackground).PaddingLeft(1).PaddingRight(1),
		content:  lipgloss.NewStyle(),
		success:  lipgloss.NewStyle().Foreground(t.SuccessForeground).Background(t.SuccessBackground).Padding(0, 1),
		failure:  lipgloss.NewStyle().Foreground(t.ErrorForeground).Background(t.ErrorBackground).Padding(0, 1),
		badge:    lipgloss.NewStyle().Foreground(t.BadgeForeground).Background(t.BadgeBackground).Padding(0, 1).MarginRight(1),
		modal:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Accent).Padding(1, 2),
		action:   lipgloss.NewStyle().Foreground(t.Accent),
		loginBox: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(1, 3),
	}
}
