package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	canvas    lipgloss.Style
	stats     lipgloss.Style
	header    lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	word      lipgloss.Style
	strip     lipgloss.Style
	graph     lipgloss.Style
	help      lipgloss.Style
	errorLine lipgloss.Style
	okLine    lipgloss.Style
	badges    map[string]lipgloss.Style
}

func newStyles(t Theme) styles {
	badge := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#000000")).Background(c).Padding(0, 1)
	}
	return styles{
		canvas:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Muted).Padding(0, 1),
		stats:     lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(0, 2).Width(48),
		header:    lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		label:     lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:     lipgloss.NewStyle().Foreground(t.Text),
		word:      lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		strip:     lipgloss.NewStyle().Foreground(t.Muted),
		graph:     lipgloss.NewStyle().Foreground(t.Accent),
		help:      lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		errorLine: lipgloss.NewStyle().Foreground(t.Error),
		okLine:    lipgloss.NewStyle().Foreground(t.Success),
		badges: map[string]lipgloss.Style{
			"idle":      badge(t.Muted),
			"recording": badge(t.Error).Blink(true),
			"playing":   badge(t.Success),
			"exporting": badge(t.Warning),
		},
	}
}
