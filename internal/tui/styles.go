package tui

import "github.com/charmbracelet/lipgloss"

type itemStyles struct {
	normal     lipgloss.Style
	selected   lipgloss.Style
	title      lipgloss.Style
	metadata   lipgloss.Style
	available  lipgloss.Style
	checkedOut lipgloss.Style
}

func newItemStyles() itemStyles {
	container := lipgloss.NewStyle().
		PaddingLeft(2).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("214")).
		PaddingLeft(1).
		Foreground(lipgloss.Color("230"))

	return itemStyles{
		normal:   container,
		selected: selected,
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		metadata: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
		available: lipgloss.NewStyle().
			Foreground(lipgloss.Color("78")),
		checkedOut: lipgloss.NewStyle().
			Foreground(lipgloss.Color("161")),
	}
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Width(18).
			Foreground(lipgloss.Color("110"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("161"))

	statusStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("178"))

	confirmStyle = lipgloss.NewStyle().
			MarginTop(1).
			Padding(0, 2).
			Background(lipgloss.Color("161")).
			Foreground(lipgloss.Color("230")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)
