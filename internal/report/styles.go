package report

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles used by the report renderers.
type Styles struct {
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Running lipgloss.Style
	Idle    lipgloss.Style
	Jammed  lipgloss.Style
	Motor   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
}

func NewStyles(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{
			Header:  plain.Bold(true),
			Cell:    plain,
			Running: plain,
			Idle:    plain,
			Jammed:  plain,
			Motor:   plain,
			Subtle:  plain,
			Title:   plain.Bold(true),
		}
	}
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")),
		Cell:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Running: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88")),
		Idle:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		Jammed:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444")),
		Motor:   lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff")),
		Subtle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#666688")),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466")),
	}
}
