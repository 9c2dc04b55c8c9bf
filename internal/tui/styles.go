package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/lockview/internal/view"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0A868")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1a1a1a")).
			Background(lipgloss.Color("#7EC8D8"))

	markedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#36CFC9"))

	lineStyles = map[view.Style]lipgloss.Style{
		view.StyleHeader:  lipgloss.NewStyle().Foreground(lipgloss.Color("#dddddd")),
		view.StyleLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("#555555")).Italic(true),
		view.StyleError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		view.StyleHeading: lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		view.StyleAction:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F0A868")),
		view.StyleLabel:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		view.StyleContent: lipgloss.NewStyle(),
		view.StyleEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("#555555")),
		view.StyleLink:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Underline(true),
	}

	actionStyles = map[string]lipgloss.Style{
		"added:":   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"deleted:": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"changed:": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
)

func styleFor(l view.Line) lipgloss.Style {
	if l.Style == view.StyleAction {
		if s, ok := actionStyles[l.Text]; ok {
			return s
		}
	}
	return lineStyles[l.Style]
}
