package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Name        string
	Title       lipgloss.Style
	ModePill    lipgloss.Style
	Section     lipgloss.Style
	Index       lipgloss.Style
	StoryTitle  lipgloss.Style
	Domain      lipgloss.Style
	Score       lipgloss.Style
	Author      lipgloss.Style
	ActiveLine  lipgloss.Style
	MetaLabel   lipgloss.Style
	MetaValue   lipgloss.Style
	Placeholder lipgloss.Style
	Guide       lipgloss.Style
	StateIdle   lipgloss.Style
	StateWarn   lipgloss.Style
	StateLoad   lipgloss.Style
	Pending     lipgloss.Style
}

// ByName returns the named theme, falling back to Default.
func ByName(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dark":
		return Dark()
	default:
		return Default()
	}
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay0 := lipgloss.Color("#6c7086")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")
	cpSurface2 := lipgloss.Color("#585b70")

	return Theme{
		Name:        "default",
		Title:       lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:    lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Section:     lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		Index:       lipgloss.NewStyle().Foreground(cpOverlay1),
		StoryTitle:  lipgloss.NewStyle().Bold(true).Foreground(cpText),
		Domain:      lipgloss.NewStyle().Foreground(cpOverlay1).Italic(true),
		Score:       lipgloss.NewStyle().Foreground(cpPeach),
		Author:      lipgloss.NewStyle().Foreground(cpTeal),
		ActiveLine:  lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:   lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:   lipgloss.NewStyle().Foreground(cpSubtext1),
		Placeholder: lipgloss.NewStyle().Foreground(cpOverlay0).Italic(true),
		Guide:       lipgloss.NewStyle().Foreground(cpSurface2),
		StateIdle:   lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:   lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:   lipgloss.NewStyle().Foreground(cpPeach),
		Pending:     lipgloss.NewStyle().Foreground(cpYellow).Bold(true),
	}
}

// Dark trades the pastel palette for bright ANSI colors that hold up on
// pure black backgrounds and low-color terminals.
func Dark() Theme {
	bright := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }

	return Theme{
		Name:        "dark",
		Title:       bright("14").Bold(true),
		ModePill:    bright("0").Background(lipgloss.Color("14")).Padding(0, 1),
		Section:     bright("13").Bold(true),
		Index:       bright("8"),
		StoryTitle:  bright("15").Bold(true),
		Domain:      bright("8").Italic(true),
		Score:       bright("11"),
		Author:      bright("10"),
		ActiveLine:  bright("15").Background(lipgloss.Color("8")),
		MetaLabel:   bright("8"),
		MetaValue:   bright("7"),
		Placeholder: bright("8").Italic(true),
		Guide:       bright("8"),
		StateIdle:   bright("10"),
		StateWarn:   bright("9").Bold(true),
		StateLoad:   bright("13"),
		Pending:     bright("11").Bold(true),
	}
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
