package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/worklens/internal/record"
	"github.com/sadopc/worklens/internal/sheet"
	"github.com/sadopc/worklens/internal/store"
)

// breakdownModel charts the records at a level the user picks, filtered by
// the selected project and task.
type breakdownModel struct {
	store  *store.Store
	width  int
	height int

	chart barchart.Model
}

func newBreakdownModel(s *store.Store) breakdownModel {
	b := breakdownModel{store: s, width: 80, height: 24}
	b.buildChart()
	return b
}

func (b *breakdownModel) setSize(w, h int) {
	b.width = w
	b.height = h
	b.buildChart()
}

func (b breakdownModel) update(msg tea.Msg) (breakdownModel, tea.Cmd) {
	switch msg := msg.(type) {
	case storeChangedMsg:
		b.buildChart()
		return b, nil

	case tea.KeyMsg:
		levels := len(b.store.Schema().Levels)
		if levels == 0 {
			return b, nil
		}
		switch {
		case key.Matches(msg, keys.Left):
			next := (int(b.store.Level()) + levels - 1) % levels
			return b, b.setLevel(record.Level(next))
		case key.Matches(msg, keys.Right):
			b.store.CycleLevel()
			return b, changed
		}
	}
	return b, nil
}

func (b breakdownModel) setLevel(lvl record.Level) tea.Cmd {
	name := string(b.store.Schema().Levels[lvl])
	if err := b.store.SetLevel(name); err != nil {
		return func() tea.Msg { return statusMsg{text: err.Error(), isError: true} }
	}
	return changed
}

func changed() tea.Msg { return storeChangedMsg{} }

func (b *breakdownModel) buildChart() {
	chartWidth := b.width - 8
	chartHeight := 12
	if b.height > 30 {
		chartHeight = 16
	}
	b.chart = newBarChart(b.store.Snapshot().Breakdown, chartWidth, chartHeight)
}

func (b breakdownModel) view() string {
	w := b.width - 4
	snap := b.store.Snapshot()

	var tabs []string
	for i := range snap.Schema.Levels {
		name := levelTitle(snap, record.Level(i))
		if record.Level(i) == snap.Level {
			tabs = append(tabs, activeLevelStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveLevelStyle.Render(name))
		}
	}
	levelTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	filter := mutedStyle.Render(b.filterLabel(snap))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Breakdown"), "  ", levelTabs, "  ", filter,
	)

	nav := mutedStyle.Render("  ←/→: level  s: select task  m: time/count")

	if snap.Breakdown.Len() == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", mutedStyle.Render("  No data for this selection"), "", nav,
		))
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", b.chart.View(), "",
			renderLegend(snap.Breakdown, snap, b.store.Measure(), w), "",
			b.renderTotal(snap), "", nav,
		),
	)
}

// filterLabel describes which parent filters apply at the current level.
func (b breakdownModel) filterLabel(snap store.Dashboard) string {
	var parts []string
	for i, f := range snap.Schema.Levels {
		if record.Level(i) >= snap.Level {
			break
		}
		var v string
		switch f {
		case sheet.FieldProject:
			v = snap.Project
		case sheet.FieldTask:
			v = snap.Task
		}
		if v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return snap.Range.String()
	}
	return fmt.Sprintf("%s  %s", strings.Join(parts, " / "), snap.Range)
}

func (b breakdownModel) renderTotal(snap store.Dashboard) string {
	var total float64
	for _, v := range snap.Breakdown.Values {
		total += v
	}
	return fmt.Sprintf("  %s %s  %s",
		mutedStyle.Render("Total"),
		highlightStyle.Render(formatMeasure(total, snap, b.store.Measure())),
		mutedStyle.Render(fmt.Sprintf("%d categories", snap.Breakdown.Len())),
	)
}
