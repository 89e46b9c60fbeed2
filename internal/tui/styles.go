package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	header     lipgloss.Style
	badge      lipgloss.Style
	tabActive  lipgloss.Style
	tab        lipgloss.Style
	row        lipgloss.Style
	rowCursor  lipgloss.Style
	unreadMark lipgloss.Style
	dim        lipgloss.Style
	toast      lipgloss.Style
	errLine    lipgloss.Style
	footer     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		header:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		badge:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("9")).Padding(0, 1),
		tabActive:  lipgloss.NewStyle().Bold(true).Underline(true),
		tab:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		row:        lipgloss.NewStyle(),
		rowCursor:  lipgloss.NewStyle().Reverse(true),
		unreadMark: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		toast:      lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")).Padding(0, 1),
		errLine:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		footer:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}
