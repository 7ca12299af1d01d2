package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/worklens/internal/store"
)

// droppedModel lists the sheet rows the last load could not decode.
type droppedModel struct {
	store  *store.Store
	width  int
	height int
	offset int
}

func newDroppedModel(s *store.Store) droppedModel {
	return droppedModel{store: s, width: 80, height: 24}
}

func (m *droppedModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m droppedModel) pageSize() int { return max(1, m.height-10) }

func (m droppedModel) update(msg tea.Msg) (droppedModel, tea.Cmd) {
	switch msg := msg.(type) {
	case storeChangedMsg:
		m.offset = 0
	case tea.KeyMsg:
		n := len(m.store.Dropped())
		switch {
		case key.Matches(msg, keys.Up):
			if m.offset > 0 {
				m.offset--
			}
		case key.Matches(msg, keys.Down):
			if m.offset < n-m.pageSize() {
				m.offset++
			}
		}
	}
	return m, nil
}

func (m droppedModel) view() string {
	w := m.width - 4
	dropped := m.store.Dropped()
	title := titleStyle.Render("Dropped rows")

	if len(dropped) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", successStyle.Render("Every row of the sheet was read."),
		))
	}

	rows := []string{
		title + "  " + warningStyle.Render(fmt.Sprintf("%d rows skipped", len(dropped))),
		"",
		mutedStyle.Render(fmt.Sprintf("  %-6s %-36s %s", "Row", "Reason", "Content")),
		mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 80))),
	}
	end := min(len(dropped), m.offset+m.pageSize())
	for _, d := range dropped[m.offset:end] {
		content := truncate(strings.Join(d.Cells, " | "), max(10, w-52))
		reason := errorStyle.Render(fmt.Sprintf("%-36s", truncate(d.Reason.Error(), 36)))
		rows = append(rows, fmt.Sprintf("  %-6d %s %s", d.Row, reason, content))
	}
	if len(dropped) > m.pageSize() {
		rows = append(rows, "", mutedStyle.Render(fmt.Sprintf("  %d-%d of %d  ↑/↓: scroll", m.offset+1, end, len(dropped))))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
