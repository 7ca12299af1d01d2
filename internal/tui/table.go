package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/worklens/internal/store"
)

// tableModel lists the records in range.
type tableModel struct {
	store  *store.Store
	width  int
	height int

	table table.Model
}

func newTableModel(s *store.Store) tableModel {
	t := table.New(table.WithFocused(true))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorSubtle).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(colorFg).
		Background(colorPrimary)
	t.SetStyles(styles)

	m := tableModel{store: s, width: 80, height: 24, table: t}
	m.rebuild()
	return m
}

func (m *tableModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.rebuild()
}

func (m *tableModel) rebuild() {
	snap := m.store.Snapshot()
	attrs := snap.Schema.AttributeFields()

	cols := []table.Column{{Title: "Date", Width: 10}}
	for _, h := range snap.Schema.Headers() {
		cols = append(cols, table.Column{Title: h, Width: 16})
	}
	cols = append(cols, table.Column{Title: "Duration", Width: 13})

	// Attribute columns share what is left of the width.
	used := 0
	for _, c := range cols {
		used += c.Width + 2
	}
	if len(attrs) > 0 {
		attrWidth := max(10, (m.width-8-used)/len(attrs)-2)
		for _, a := range attrs {
			title := string(a)
			cols = append(cols, table.Column{Title: strings.ToUpper(title[:1]) + title[1:], Width: attrWidth})
		}
	}

	rows := make([]table.Row, 0, len(snap.Table))
	for _, r := range snap.Table {
		row := table.Row{r.Date}
		for i := range snap.Schema.Levels {
			label := ""
			if i < len(r.Path) {
				label = r.Path[i]
			}
			row = append(row, label)
		}
		row = append(row, r.Duration)
		for _, a := range attrs {
			row = append(row, r.Attributes[string(a)])
		}
		rows = append(rows, row)
	}

	// Columns and rows must agree in width before either is set.
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	m.table.SetHeight(max(3, m.height-8))
	m.table.SetWidth(max(20, m.width-6))
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

func (m tableModel) update(msg tea.Msg) (tableModel, tea.Cmd) {
	if _, ok := msg.(storeChangedMsg); ok {
		m.rebuild()
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m tableModel) view() string {
	w := m.width - 4
	snap := m.store.Snapshot()
	title := titleStyle.Render("Records") + "  " + mutedStyle.Render(snap.Range.String())

	if len(snap.Table) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No records in range."),
		))
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		title, "", m.table.View(),
	))
}
