package main

import "github.com/charmbracelet/lipgloss"

// Terminal styles shared by the validate and inspect commands. lipgloss
// drops the colours when output is not a terminal.
var (
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	headingStyle = lipgloss.NewStyle().Bold(true)
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// cell pads s to width columns so table output lines up.
func cell(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}
