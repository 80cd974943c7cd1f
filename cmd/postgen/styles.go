package main

import "github.com/charmbracelet/lipgloss"

var (
	postBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("4")). // blue
			Padding(1, 2).
			Width(76)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // gray
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))            // red
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))            // green
)
