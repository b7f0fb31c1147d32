package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})

	// echoStyle renders commands the user already entered.
	echoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})

	replyStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)
