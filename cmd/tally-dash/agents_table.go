package main

import (
	"fmt"

	"tally/pkg/perf"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// agentTableHeight bounds the table viewport.
const agentTableHeight = 10

// newAgentsTable builds an empty agents table with the dashboard styling.
func newAgentsTable() table.Model {
	columns := []table.Column{
		{Title: "Agent", Width: 24},
		{Title: "Tasks", Width: 7},
		{Title: "Success", Width: 9},
		{Title: "Quality", Width: 9},
		{Title: "Duration", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(agentTableHeight),
	)

	theme := DefaultTheme()
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		Foreground(theme.Primary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(theme.Muted)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#ffffff")).
		Background(theme.Primary).
		Bold(false)
	t.SetStyles(styles)

	return t
}

// agentRows converts aggregates into table rows, preserving order.
func agentRows(agents []perf.AgentStats) []table.Row {
	rows := make([]table.Row, 0, len(agents))
	for _, a := range agents {
		rows = append(rows, table.Row{
			a.Agent,
			fmt.Sprintf("%d", a.TaskCount),
			fmt.Sprintf("%.0f%%", a.SuccessRate()*100),
			fmt.Sprintf("%.1f", a.MeanQuality),
			fmt.Sprintf("%.0fs", a.MeanDuration),
		})
	}
	return rows
}
