package cli

import "github.com/charmbracelet/lipgloss"

var (
	youStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7")).Bold(true)
	botStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF005F")).Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C")).Italic(true)
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)
