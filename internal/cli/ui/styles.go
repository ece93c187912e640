package ui

import "github.com/charmbracelet/lipgloss"

// Styles defines all lipgloss styles used in the CLI
var Styles = struct {
	Bold       lipgloss.Style
	Dim        lipgloss.Style
	Accent     lipgloss.Style
	Key        lipgloss.Style
	Highlight  lipgloss.Style
	Title      lipgloss.Style
	Summary    lipgloss.Style
	Header     lipgloss.Style
	Cell       lipgloss.Style
	SuccessBox lipgloss.Style
	ErrorBox   lipgloss.Style

	BotBubble  lipgloss.Style
	UserBubble lipgloss.Style
	CardTitle  lipgloss.Style
	Link       lipgloss.Style
}{
	Bold:      lipgloss.NewStyle().Bold(true),
	Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
	Key:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),

	Title: lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")).
		Bold(true).
		MarginTop(1).
		MarginBottom(1),

	Summary: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		MarginTop(1),

	Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1),
	Cell:   lipgloss.NewStyle().Padding(0, 1),

	SuccessBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("42")).
		Padding(0, 1).
		Width(60),

	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("196")).
		Padding(0, 1).
		Width(60),

	BotBubble: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("245")).
		Padding(0, 1),

	UserBubble: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1),

	CardTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
	Link:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
}
