package main

import (
	"github.com/charmbracelet/lipgloss"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	LabelStyle = lipgloss.NewStyle().Width(14)

	FocusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	DisabledStyle = lipgloss.NewStyle().Faint(true)
)

// checkbox renders a boolean field.
func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}

	return "[ ]"
}

// choice renders the current option of a cycling field.
func choice(value string) string {
	return "‹ " + value + " ›"
}
