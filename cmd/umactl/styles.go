package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	primary = lipgloss.Color("#7289DA")
	gold    = lipgloss.Color("#FFD700")
	warning = lipgloss.Color("#FFAA00")
	danger  = lipgloss.Color("#FF5555")
	success = lipgloss.Color("#50FA7B")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primary)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	favStyle     = lipgloss.NewStyle().Foreground(gold)
	warnStyle    = lipgloss.NewStyle().Foreground(warning)
	errorStyle   = lipgloss.NewStyle().Foreground(danger).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(success)
	labelStyle   = lipgloss.NewStyle().Bold(true).Width(14)
)

// newTable returns a bordered table with the shared header style
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(primary)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// field renders one "label value" line
func field(label, value string) string {
	return labelStyle.Render(label) + value
}
