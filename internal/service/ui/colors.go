package ui

import "github.com/charmbracelet/lipgloss"

// Styles use the 16 ANSI colors so they follow the terminal theme.
var (
	// TitleStyle is cyan and bold, for headings and section titles.
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// HeadingStyle is TitleStyle without the margin, for inline headers.
	HeadingStyle = TitleStyle.UnsetMarginBottom()

	// UsageStyle is green, for usage lines and the user's own questions.
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle is gray, for descriptions and source citations.
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// FlagStyle is yellow, for flags and status lines.
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// ErrorStyle is red, for failed answers.
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)
