// Package tui is the interactive dashboard: charts, breakdown, record table
// and dropped-row report over a store, with forms to open sheets and change
// the range, selection and view options.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/worklens/internal/export"
	"github.com/sadopc/worklens/internal/logging"
	"github.com/sadopc/worklens/internal/store"
)

// exportChoices is the picker's list: each format, then all of them.
var exportChoices = []string{"CSV", "JSON", "SQLite", "All formats"}

// App is the root Bubble Tea model.
type App struct {
	ctx    context.Context
	store  *store.Store
	opts   Options
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	breakdown breakdownModel
	table     tableModel
	dropped   droppedModel
	forms     formModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(s *store.Store, opts Options) App {
	return newApp(context.Background(), s, opts)
}

func newApp(ctx context.Context, s *store.Store, opts Options) App {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	h := help.New()
	h.ShowAll = false

	return App{
		ctx:        ctx,
		store:      s,
		opts:       opts,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(s),
		breakdown:  newBreakdownModel(s),
		table:      newTableModel(s),
		dropped:    newDroppedModel(s),
		forms:      newFormModel(ctx, s, opts),
		help:       h,
	}
}

// Run blocks until the user quits or ctx is canceled.
func Run(ctx context.Context, s *store.Store, opts Options) error {
	p := tea.NewProgram(newApp(ctx, s, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (a App) Init() tea.Cmd {
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.breakdown.setSize(a.width, contentHeight)
		a.table.setSize(a.width, contentHeight)
		a.dropped.setSize(a.width, contentHeight)
		a.forms.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}
		if a.forms.active {
			var cmd tea.Cmd
			a.forms, cmd = a.forms.update(msg)
			return a, cmd
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Open):
			return a.openForm(a.forms.showOpen)
		case key.Matches(msg, keys.Range):
			return a.openForm(a.forms.showRange)
		case key.Matches(msg, keys.Select):
			return a.openForm(a.forms.showSelect)
		case key.Matches(msg, keys.Level):
			return a.openForm(a.forms.showOptions)
		case key.Matches(msg, keys.Measure):
			return a, a.toggleMeasure()
		case key.Matches(msg, keys.Sample):
			a.store.LoadSample(logging.Component(a.opts.Logger, "sheet"))
			a.status, a.statusError = "Loaded sample data", false
			return a.refreshAll()
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewBreakdown
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewTable
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewDropped
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, nil
		}

	case statusMsg:
		a.status, a.statusError = msg.text, msg.isError
		return a, nil

	case storeChangedMsg:
		return a.refreshAll()

	case sheetLoadedMsg:
		a.store.Load(msg.result)
		n, dropped := len(msg.result.Records), len(msg.result.Dropped)
		a.opts.Logger.Info("sheet loaded",
			"path", msg.path,
			"batch", msg.result.BatchID,
			"schema", msg.result.Schema.Name,
			"records", n,
			"dropped", dropped,
		)
		a.status = fmt.Sprintf("Loaded %d records (%d dropped)", n, dropped)
		a.statusError = false
		return a.refreshAll()

	case exportDoneMsg:
		a.exportPicking = false
		a.statusError = false
		if len(msg.paths) == 1 {
			a.status = "Exported to " + msg.paths[0]
		} else {
			a.status = fmt.Sprintf("Exported %d files to %s", len(msg.paths), a.exportDir())
		}
		return a, nil
	}

	// Forms also consume non-key messages (focus, blink, option refresh).
	if a.forms.active {
		var cmd tea.Cmd
		a.forms, cmd = a.forms.update(msg)
		return a, cmd
	}
	return a.updateActiveView(msg)
}

func (a App) openForm(show func() (formModel, tea.Cmd)) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.forms, cmd = show()
	return a, cmd
}

func (a App) toggleMeasure() tea.Cmd {
	next := "count"
	if a.store.Measure() == "count" {
		next = "elapsed"
	}
	if err := a.store.SetMeasure(next); err != nil {
		return status(err.Error(), true)
	}
	return changed
}

// refreshAll rebuilds every view from the store's latest snapshot.
func (a App) refreshAll() (tea.Model, tea.Cmd) {
	msg := storeChangedMsg{}
	a.dashboard, _ = a.dashboard.update(msg)
	a.breakdown, _ = a.breakdown.update(msg)
	a.table, _ = a.table.update(msg)
	a.dropped, _ = a.dropped.update(msg)
	return a, nil
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewBreakdown:
		a.breakdown, cmd = a.breakdown.update(msg)
	case viewTable:
		a.table, cmd = a.table.update(msg)
	case viewDropped:
		a.dropped, cmd = a.dropped.update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewBreakdown:
		content = a.breakdown.view()
	case viewTable:
		content = a.table.view()
	case viewDropped:
		content = a.dropped.view()
	}

	contentHeight := max(1, a.height-lipgloss.Height(header)-lipgloss.Height(footer))

	switch {
	case a.exportPicking:
		content = a.renderExportPicker()
	case a.forms.active:
		content = a.forms.view()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("worklens")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	left := footerStyle.Render(a.help.View(keys))

	right := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		right = style.Render(" " + a.status)
	}

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	rows := []string{
		titleStyle.Render("Export Format"),
		mutedStyle.Render("  into " + a.exportDir()),
		"",
	}
	for i, f := range exportChoices {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportChoices)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) exportDir() string {
	if a.opts.ExportDir != "" {
		return a.opts.ExportDir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// doExport writes the snapshot taken now, so later changes to the store do
// not leak into the files.
func (a App) doExport(choice int) tea.Cmd {
	snap := a.store.Snapshot()
	dir := a.exportDir()
	ctx := a.ctx
	logger := a.opts.Logger

	return func() tea.Msg {
		now := time.Now()
		if choice >= len(export.Formats) {
			paths, err := export.WriteAll(ctx, snap, dir, now)
			if err != nil {
				logger.Error("export", "dir", dir, "error", err)
				return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
			}
			logger.Info("exported dashboard", "dir", dir, "files", len(paths))
			return exportDoneMsg{paths: paths}
		}

		f := export.Formats[choice]
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		path := filepath.Join(dir, export.FileName(f, now))
		if err := export.Write(snap, f, path); err != nil {
			logger.Error("export", "format", f.String(), "path", path, "error", err)
			return statusMsg{text: fmt.Sprintf("%s error: %v", f, err), isError: true}
		}
		logger.Info("exported dashboard", "format", f.String(), "path", path)
		return exportDoneMsg{paths: []string{path}}
	}
}
