package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/worklens/internal/logging"
	"github.com/sadopc/worklens/internal/record"
	"github.com/sadopc/worklens/internal/sheet"
	"github.com/sadopc/worklens/internal/store"
)

type formKind int

const (
	formNone formKind = iota
	formOpen
	formRange
	formSelect
	formOptions
)

var formTitles = map[formKind]string{
	formOpen:    "Open Sheet",
	formRange:   "Date Range",
	formSelect:  "Select Project and Task",
	formOptions: "View Options",
}

var schemaOptions = []huh.Option[string]{
	huh.NewOption("Detect from header", "auto"),
	huh.NewOption("v1: task / subcategory, hours", "v1"),
	huh.NewOption("v2: task / subcategory, minutes", "v2"),
	huh.NewOption("v3: project / task / subtask", "v3"),
}

// formModel hosts the one huh form that can be open at a time.
type formModel struct {
	ctx   context.Context
	store *store.Store
	opts  Options
	width int

	kind   formKind
	active bool
	form   *huh.Form

	// Form field pointers (survive value copies)
	path      *string
	schema    *string
	sheetName *string
	from      *string
	to        *string
	project   *string
	task      *string
	level     *string
	measure   *string
}

func newFormModel(ctx context.Context, s *store.Store, opts Options) formModel {
	var path, sheetName, from, to, project, task, level, measure string
	schema := opts.Schema
	if schema == "" {
		schema = "auto"
	}
	sheetName = opts.SheetName
	return formModel{
		ctx:       ctx,
		store:     s,
		opts:      opts,
		path:      &path,
		schema:    &schema,
		sheetName: &sheetName,
		from:      &from,
		to:        &to,
		project:   &project,
		task:      &task,
		level:     &level,
		measure:   &measure,
	}
}

func (f *formModel) setSize(w, _ int) {
	f.width = w
}

func (f formModel) start(kind formKind, form *huh.Form) (formModel, tea.Cmd) {
	f.kind = kind
	f.form = form.WithShowHelp(true).WithShowErrors(true)
	f.active = true
	return f, f.form.Init()
}

func (f formModel) showOpen() (formModel, tea.Cmd) {
	return f.start(formOpen, huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Sheet file (.xlsx or .csv)").
				Placeholder("~/timesheet.xlsx").
				Validate(validateSheetPath).
				Value(f.path),
			huh.NewSelect[string]().Title("Layout").Options(schemaOptions...).Value(f.schema),
			huh.NewInput().Title("Workbook sheet (blank for the first)").Value(f.sheetName),
		),
	))
}

func (f formModel) showRange() (formModel, tea.Cmd) {
	rng := f.store.Range()
	*f.from, *f.to = "", ""
	if rng.From != nil {
		*f.from = rng.From.Format(record.DayLayout)
	}
	if rng.To != nil {
		*f.to = rng.To.Format(record.DayLayout)
	}
	return f.start(formRange, huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("From (YYYY-MM-DD)").
				Description("Alone, shows just that day. Both blank shows everything.").
				Validate(validateDay).
				Value(f.from),
			huh.NewInput().Title("To (YYYY-MM-DD)").
				Validate(validateDay).
				Value(f.to),
		),
	))
}

func (f formModel) showSelect() (formModel, tea.Cmd) {
	snap := f.store.Snapshot()
	*f.project = f.store.Project()
	*f.task = f.store.Task()

	var fields []huh.Field
	if _, ok := snap.Schema.Level(sheet.FieldProject); ok {
		opts := []huh.Option[string]{huh.NewOption("All projects", "")}
		for _, p := range snap.Projects {
			opts = append(opts, huh.NewOption(p, p))
		}
		fields = append(fields, huh.NewSelect[string]().Title("Project").Options(opts...).Value(f.project))
	}
	project := f.project
	s := f.store
	fields = append(fields, huh.NewSelect[string]().Title("Task").
		OptionsFunc(func() []huh.Option[string] {
			opts := []huh.Option[string]{huh.NewOption("All tasks", "")}
			for _, t := range s.TasksFor(*project) {
				opts = append(opts, huh.NewOption(t, t))
			}
			return opts
		}, project).
		Value(f.task))

	return f.start(formSelect, huh.NewForm(huh.NewGroup(fields...)))
}

func (f formModel) showOptions() (formModel, tea.Cmd) {
	snap := f.store.Snapshot()
	*f.level = snap.LevelName
	*f.measure = f.store.Measure()

	levels := make([]huh.Option[string], len(snap.Schema.Levels))
	for i, l := range snap.Schema.Levels {
		levels[i] = huh.NewOption(levelTitle(snap, record.Level(i)), string(l))
	}
	return f.start(formOptions, huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Breakdown level").Options(levels...).Value(f.level),
			huh.NewSelect[string]().Title("Measure").
				Options(
					huh.NewOption("Elapsed time", "elapsed"),
					huh.NewOption("Record count", "count"),
				).Value(f.measure),
		),
	))
}

func (f formModel) update(msg tea.Msg) (formModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			return f.close(), nil
		}
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	switch f.form.State {
	case huh.StateAborted:
		return f.close(), nil
	case huh.StateCompleted:
		kind := f.kind
		f = f.close()
		return f, f.apply(kind)
	}
	return f, cmd
}

func (f formModel) close() formModel {
	f.active = false
	f.form = nil
	f.kind = formNone
	return f
}

// apply carries the submitted values into the store, or starts a load.
func (f formModel) apply(kind formKind) tea.Cmd {
	switch kind {
	case formOpen:
		return loadSheet(f.ctx, expandHome(strings.TrimSpace(*f.path)), *f.schema, *f.sheetName, f.opts)

	case formRange:
		rng, err := record.ParseRange(strings.TrimSpace(*f.from), strings.TrimSpace(*f.to))
		if err != nil {
			return status(err.Error(), true)
		}
		f.store.SetRange(rng)
		return changed

	case formSelect:
		f.store.SelectProject(*f.project)
		f.store.SelectTask(*f.task)
		return changed

	case formOptions:
		if err := f.store.SetLevel(*f.level); err != nil {
			return status(err.Error(), true)
		}
		if err := f.store.SetMeasure(*f.measure); err != nil {
			return status(err.Error(), true)
		}
		return changed
	}
	return nil
}

func (f formModel) view() string {
	if !f.active || f.form == nil {
		return ""
	}
	title := titleStyle.Render(formTitles[f.kind])
	content := lipgloss.JoinVertical(lipgloss.Left, title, "", f.form.View())
	return panelStyle.Width(f.width - 4).Render(content)
}

// loadSheet reads and decodes path off the UI goroutine. The store itself
// is only replaced when the result arrives back in Update.
func loadSheet(ctx context.Context, path, schema, sheetName string, opts Options) tea.Cmd {
	return func() tea.Msg {
		logger := logging.Component(opts.Logger, "sheet")
		sopts, err := sheet.OptionsFor(schema, sheetName, logger)
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}

		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		res, err := sheet.Load(ctx, path, sopts)
		if err != nil {
			logger.Error("load sheet", "path", path, "error", err)
			return statusMsg{text: fmt.Sprintf("Open error: %v", err), isError: true}
		}
		return sheetLoadedMsg{path: path, result: res}
	}
}

func status(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}

func validateDay(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(record.DayLayout, s); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func validateSheetPath(s string) error {
	p := expandHome(strings.TrimSpace(s))
	if p == "" {
		return errors.New("enter a file path")
	}
	switch strings.ToLower(filepath.Ext(p)) {
	case ".xlsx", ".xlsm", ".xltx", ".csv":
	default:
		return errors.New("expected an .xlsx or .csv file")
	}
	info, err := os.Stat(p)
	if err != nil {
		return errors.New("file not found")
	}
	if info.IsDir() {
		return errors.New("path is a directory")
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
