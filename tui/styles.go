package tui

import "github.com/charmbracelet/lipgloss"

// styles contains all lipgloss styles used by the countdown view.
var styles = struct {
	Container lipgloss.Style
	Title     lipgloss.Style
	Clock     lipgloss.Style
	Step      lipgloss.Style
	Bar       lipgloss.Style
	BarEmpty  lipgloss.Style
	Finished  lipgloss.Style
	Stopped   lipgloss.Style
	Error     lipgloss.Style
}{
	Container: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 3),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")),

	Clock: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")),

	Step: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	Bar: lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")),

	BarEmpty: lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")),

	Finished: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("42")),

	Stopped: lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")),

	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")),
}
