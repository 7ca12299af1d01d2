package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sadopc/worklens/internal/report"
	"github.com/sadopc/worklens/internal/sheet"
	"github.com/sadopc/worklens/internal/store"
)

func formatMeasure(v float64, unit sheet.DurationUnit, measure string) string {
	switch {
	case measure == "count":
		return fmt.Sprintf("%.0f", v)
	case unit == sheet.UnitMinutes:
		return fmt.Sprintf("%.0f min", v)
	default:
		return fmt.Sprintf("%.2f h", v)
	}
}

func share(v, total float64) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", v/total*100)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

func chartTable(title string, c report.ChartData, d store.Dashboard, measure string) string {
	var total float64
	for _, v := range c.Values {
		total += v
	}
	t := newTable(title, "Total", "Share")
	for i := range c.Labels {
		t.Row(c.Labels[i], formatMeasure(c.Values[i], d.Schema.Unit, measure), share(c.Values[i], total))
	}
	return t.String()
}

func writeSummary(w io.Writer, d store.Dashboard, measure string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Schema:  %s (%s)\n", d.Schema.Name, d.Schema.Unit)
	fmt.Fprintf(&b, "Range:   %s\n", d.Range)
	fmt.Fprintf(&b, "Records: %d (%d dropped)\n", len(d.Records), len(d.Dropped))
	fmt.Fprintf(&b, "Total:   %s\n", formatMeasure(d.Total, d.Schema.Unit, measure))

	if d.Empty() {
		b.WriteString("\nNo records in range.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	headers := d.Schema.Headers()
	taskTitle := headers[d.Schema.TaskLevel()]
	innerTitle := headers[d.Schema.Innermost()]

	fmt.Fprintf(&b, "\nOverview by %s\n%s\n", strings.ToLower(taskTitle), chartTable(taskTitle, d.Overview, d, measure))
	fmt.Fprintf(&b, "\n%s of %s\n%s\n", innerTitle, selectionLabel(d), chartTable(innerTitle, d.Detail, d, measure))
	fmt.Fprintf(&b, "\nBreakdown by %s\n%s\n", d.LevelName, chartTable(headers[d.Level], d.Breakdown, d, measure))

	_, err := io.WriteString(w, b.String())
	return err
}

func selectionLabel(d store.Dashboard) string {
	var parts []string
	if d.Project != "" {
		parts = append(parts, d.Project)
	}
	if d.Task != "" {
		parts = append(parts, d.Task)
	}
	if len(parts) == 0 {
		return "all records"
	}
	return strings.Join(parts, " / ")
}
