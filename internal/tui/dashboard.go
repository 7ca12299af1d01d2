package tui

import (
	"fmt"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/worklens/internal/report"
	"github.com/sadopc/worklens/internal/store"
)

type dashboardModel struct {
	store  *store.Store
	width  int
	height int

	overview barchart.Model
	detail   barchart.Model
}

func newDashboardModel(s *store.Store) dashboardModel {
	d := dashboardModel{store: s, width: 80, height: 24}
	d.rebuild()
	return d
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.rebuild()
}

func (d dashboardModel) sideBySide() bool { return d.width >= 100 }

func (d dashboardModel) chartSize() (int, int) {
	w := d.width - 10
	if d.sideBySide() {
		w = d.width/2 - 10
	}
	h := 10
	if d.height > 40 {
		h = 14
	}
	return w, h
}

func (d *dashboardModel) rebuild() {
	snap := d.store.Snapshot()
	w, h := d.chartSize()
	d.overview = newBarChart(snap.Overview, w, h)
	d.detail = newBarChart(snap.Detail, w, h)
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if _, ok := msg.(storeChangedMsg); ok {
		d.rebuild()
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	snap := d.store.Snapshot()
	contentWidth := d.width - 4

	summary := d.renderSummary(snap)
	if snap.Empty() {
		hint := mutedStyle.Render("No records in range. Press r to change the range or o to open a sheet.")
		return panelStyle.Width(contentWidth).Render(lipgloss.JoinVertical(lipgloss.Left, summary, "", hint))
	}

	taskTitle := levelTitle(snap, snap.Schema.TaskLevel())
	innerTitle := levelTitle(snap, snap.Schema.Innermost())

	panelWidth := contentWidth
	if d.sideBySide() {
		panelWidth = contentWidth/2 - 1
	}
	overview := panelStyle.Width(panelWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(taskTitle+" totals"), "",
		d.overview.View(), "",
		renderLegend(snap.Overview, snap, d.store.Measure(), panelWidth),
	))
	detail := panelStyle.Width(panelWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("%s of %s", innerTitle, selectionLabel(snap))), "",
		d.detail.View(), "",
		renderLegend(snap.Detail, snap, d.store.Measure(), panelWidth),
	))

	var charts string
	if d.sideBySide() {
		charts = lipgloss.JoinHorizontal(lipgloss.Top, overview, detail)
	} else {
		charts = lipgloss.JoinVertical(lipgloss.Left, overview, detail)
	}

	tree := report.Tree(taskTitle+"s", snap.Tree).
		RootStyle(treeRootStyle).
		EnumeratorStyle(treeEnumeratorStyle).
		ItemStyle(normalItemStyle)
	treePanel := panelStyle.Width(contentWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Hierarchy"), "", tree.String(),
	))

	return lipgloss.JoinVertical(lipgloss.Left, summary, charts, treePanel)
}

func (d dashboardModel) renderSummary(snap store.Dashboard) string {
	total := highlightStyle.Render(formatMeasure(snap.Total, snap, d.store.Measure()))
	line := fmt.Sprintf(" %s  %s  %s  %s",
		titleStyle.Render(snap.Range.String()),
		total,
		mutedStyle.Render(fmt.Sprintf("%d records", len(snap.Records))),
		mutedStyle.Render("schema "+snap.Schema.Name),
	)
	if n := len(snap.Dropped); n > 0 {
		line += "  " + warningStyle.Render(fmt.Sprintf("%d rows dropped", n))
	}
	return line
}

func selectionLabel(d store.Dashboard) string {
	switch {
	case d.Project != "" && d.Task != "":
		return d.Project + " / " + d.Task
	case d.Task != "":
		return d.Task
	case d.Project != "":
		return d.Project
	}
	return "all records"
}
