package reporting

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA"))
	bestStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
)

var summaryColumns = []string{"Configuration", "Executions", "Total (s)", "Average (s)", "Speedup"}

// FormatSummary renders stats as an aligned text table. When styled is set
// the header and the fastest row are coloured.
func FormatSummary(stats *Statistics, styled bool) string {
	rows := make([][]string, 0, len(stats.Configs))
	for _, cs := range stats.Configs {
		rows = append(rows, []string{
			cs.Name,
			fmt.Sprintf("%d", cs.Executions),
			fmt.Sprintf("%.3f", cs.TotalSeconds),
			fmt.Sprintf("%.4f", cs.AvgSeconds),
			fmt.Sprintf("%.2fx", cs.Speedup),
		})
	}

	widths := make([]int, len(summaryColumns))
	for i, h := range summaryColumns {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	fastest, _ := stats.Fastest()

	var b strings.Builder
	b.WriteString("Summary Statistics:\n")
	header := formatRow(summaryColumns, widths)
	if styled {
		header = headerStyle.Render(header)
	}
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("-", runewidth.StringWidth(formatRow(summaryColumns, widths))) + "\n")
	for i, row := range rows {
		line := formatRow(row, widths)
		if styled && stats.Configs[i].Label == fastest.Label {
			line = bestStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	fmt.Fprintf(&b, "\nProcessors: %d, Instances: %d, Executions per instance: %d\n",
		stats.Processors, stats.Files, stats.Repetitions)
	return b.String()
}

func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if i == 0 {
			parts[i] = padRight(cell, widths[i])
		} else {
			parts[i] = padLeft(cell, widths[i])
		}
	}
	return strings.Join(parts, "  ")
}

func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

func padLeft(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return strings.Repeat(" ", width-sw) + s
}
