package tui

import (
	"fmt"
	"log/slog"

	"github.com/sadopc/worklens/internal/record"
	"github.com/sadopc/worklens/internal/sheet"
	"github.com/sadopc/worklens/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewBreakdown
	viewTable
	viewDropped
)

var viewNames = []string{"Dashboard", "Breakdown", "Records", "Dropped"}

// Options carries the settings the UI needs beyond the store.
type Options struct {
	ExportDir string
	Schema    string // auto, v1, v2 or v3
	SheetName string
	Logger    *slog.Logger
}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	paths []string
}

type sheetLoadedMsg struct {
	path   string
	result sheet.Result
}

// storeChangedMsg tells every view to rebuild from the store's snapshot.
type storeChangedMsg struct{}

// --- Helpers ---

func formatMeasure(v float64, d store.Dashboard, measure string) string {
	switch {
	case measure == "count":
		return fmt.Sprintf("%.0f", v)
	case d.Schema.Unit == sheet.UnitMinutes:
		return fmt.Sprintf("%.0fm", v)
	default:
		return fmt.Sprintf("%.2fh", v)
	}
}

func levelTitle(d store.Dashboard, level record.Level) string {
	headers := d.Schema.Headers()
	if int(level) < 0 || int(level) >= len(headers) {
		return ""
	}
	return headers[level]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
