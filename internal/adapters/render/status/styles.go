package status

import "github.com/charmbracelet/lipgloss"

type styles struct {
	pending    lipgloss.Style
	done       lipgloss.Style
	errored    lipgloss.Style
	spinner    lipgloss.Style
	label      lipgloss.Style
	section    lipgloss.Style
	detailHead lipgloss.Style
	detailKey  lipgloss.Style
	detailVal  lipgloss.Style
	hint       lipgloss.Style
	closing    lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
	barText    lipgloss.Style
}

func newStyles() styles {
	return styles{
		pending:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		done:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		errored:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		spinner:    lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		label:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		section:    lipgloss.NewStyle().MarginTop(1),
		detailHead: lipgloss.NewStyle().Bold(true),
		detailKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		detailVal:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		hint:       lipgloss.NewStyle().Faint(true),
		closing:    lipgloss.NewStyle().Bold(true),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		barText:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
}
