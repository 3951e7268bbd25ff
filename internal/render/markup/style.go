package markup

import "github.com/charmbracelet/lipgloss"

var (
	cpBlue  = lipgloss.Color("#89b4fa")
	cpPeach = lipgloss.Color("#fab387")

	linkStyle = lipgloss.NewStyle().Foreground(cpBlue).Faint(true)
	codeStyle = lipgloss.NewStyle().Foreground(cpPeach)
)
