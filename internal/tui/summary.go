package tui

import "github.com/charmbracelet/lipgloss"

type SummaryRow struct {
	Label string
	Value string
}

// RenderSummary draws the end-of-run table.
func RenderSummary(title string, rows []SummaryRow) string {
	labelWidth := 0
	for _, row := range rows {
		if w := lipgloss.Width(row.Label); w > labelWidth {
			labelWidth = w
		}
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Width(labelWidth).Render(row.Label),
			"  ",
			valueStyle.Render(row.Value)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).BorderForeground(ColorDim)
)
