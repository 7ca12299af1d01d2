package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sadopc/worklens/internal/config"
	"github.com/sadopc/worklens/internal/logging"
	"github.com/sadopc/worklens/internal/record"
	"github.com/sadopc/worklens/internal/sheet"
	"github.com/sadopc/worklens/internal/store"
)

// viewFlags are shared by every command that builds a dashboard.
type viewFlags struct {
	from, to      string
	level         string
	project, task string
	schema, sheet string
	measure       string
}

func (v *viewFlags) register(fs *pflag.FlagSet, cfg *config.Config) {
	fs.StringVar(&v.from, "from", "", "first day to include (YYYY-MM-DD); alone, the only day")
	fs.StringVar(&v.to, "to", "", "last day to include (YYYY-MM-DD); needs --from")
	fs.StringVar(&v.level, "level", cfg.Level, "breakdown level: project, task, subtask or subcategory")
	fs.StringVar(&v.project, "project", "", "restrict task and subtask views to a project")
	fs.StringVar(&v.task, "task", "", "restrict subtask views to a task")
	fs.StringVar(&v.schema, "schema", cfg.Schema, "sheet layout: auto, v1, v2 or v3")
	fs.StringVar(&v.sheet, "sheet", cfg.Sheet, "workbook sheet name (default first sheet)")
	fs.StringVar(&v.measure, "measure", cfg.Measure, "bucket measure: elapsed or count")
}

// buildStore loads the file named in args, or the sample sheet, and applies
// the flags to the resulting store.
func (app *App) buildStore(cmd *cobra.Command, args []string, v *viewFlags) (*store.Store, error) {
	var s *store.Store
	if len(args) == 0 {
		s = store.NewSample(logging.Component(app.Logger, "sheet"))
	} else {
		opts, err := sheet.OptionsFor(v.schema, v.sheet, logging.Component(app.Logger, "sheet"))
		if err != nil {
			return nil, err
		}
		res, err := sheet.Load(cmd.Context(), args[0], opts)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", args[0], err)
		}
		s = store.New()
		s.Load(res)
	}

	if v.from != "" || v.to != "" {
		rng, err := record.ParseRange(v.from, v.to)
		if err != nil {
			return nil, err
		}
		s.SetRange(rng)
	}
	fs := cmd.Flags()
	if err := app.applyLevel(s, v.level, fs.Changed("level")); err != nil {
		return nil, err
	}
	if err := s.SetMeasure(v.measure); err != nil {
		return nil, err
	}
	if fs.Changed("project") {
		s.SelectProject(v.project)
	}
	if fs.Changed("task") {
		s.SelectTask(v.task)
	}
	return s, nil
}

// applyLevel selects the breakdown level. A level passed on the command
// line must exist in the sheet's layout; one inherited from the config only
// applies where it does, so a single config serves every layout.
func (app *App) applyLevel(s *store.Store, level string, explicit bool) error {
	if level == "" {
		return nil
	}
	err := s.SetLevel(level)
	if err == nil || explicit {
		return err
	}
	app.Logger.Warn("configured level not in sheet layout, using default",
		"level", level,
		"schema", s.Schema().Name,
	)
	return nil
}

// viewCmd builds a subcommand that renders the dashboard with render.
func viewCmd(app *App, use, short string, render func(cmd *cobra.Command, s *store.Store) error) *cobra.Command {
	vf := &viewFlags{}
	cmd := &cobra.Command{
		Use:   use + " [file]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.buildStore(cmd, args, vf)
			if err != nil {
				return err
			}
			return render(cmd, s)
		},
	}
	vf.register(cmd.Flags(), app.Config)
	return cmd
}
