package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/worklens/internal/report"
	"github.com/sadopc/worklens/internal/store"
)

// newBarChart draws one bar per bucket in the bucket's palette color.
func newBarChart(c report.ChartData, w, h int) barchart.Model {
	w = max(w, 20)
	h = max(h, 6)
	chart := barchart.New(w, h)

	var bars []barchart.BarData
	labelWidth := max(3, w/max(1, c.Len())-1)
	for i := range c.Labels {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Colors[i]))
		bars = append(bars, barchart.BarData{
			Label: truncate(c.Labels[i], labelWidth),
			Values: []barchart.BarValue{{
				Name:  c.Labels[i],
				Value: c.Values[i],
				Style: style,
			}},
		})
	}
	if len(bars) == 0 {
		bars = []barchart.BarData{{
			Values: []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
		}}
	}

	chart.PushAll(bars)
	chart.Draw()
	return chart
}

// renderLegend lists each bucket with its color, total and share.
func renderLegend(c report.ChartData, d store.Dashboard, measure string, w int) string {
	if c.Len() == 0 {
		return mutedStyle.Render("  No data")
	}
	var total float64
	for _, v := range c.Values {
		total += v
	}

	labelWidth := max(8, min(24, w-24))
	var rows []string
	for i := range c.Labels {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Colors[i])).Render("●")
		pct := 0.0
		if total > 0 {
			pct = c.Values[i] / total * 100
		}
		rows = append(rows, fmt.Sprintf("  %s %-*s %9s %6.1f%%",
			dot, labelWidth, truncate(c.Labels[i], labelWidth), formatMeasure(c.Values[i], d, measure), pct))
	}
	return strings.Join(rows, "\n")
}
