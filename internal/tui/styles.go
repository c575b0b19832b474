package tui

import (
	"strings"

	"github.com/Taycanstar/glancenote/internal"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	navStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	headerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("240"))

	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	aiLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	jumpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	flashStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

// RenderHeader renders the navigation chrome on one line. Dropdown
// entries are listed in brackets after their parent.
func RenderHeader(h internal.Header, width int) string {
	items := make([]string, 0, len(h.Items))
	for _, item := range h.Items {
		label := item.Label
		if len(item.Children) > 0 {
			label += " [" + strings.Join(internal.Header{Items: item.Children}.Labels(), ", ") + "]"
		}
		items = append(items, label)
	}

	line := titleStyle.Render(h.Title) + "  " + navStyle.Render(strings.Join(items, " · "))
	style := headerStyle
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(line)
}
