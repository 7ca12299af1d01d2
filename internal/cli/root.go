package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sadopc/worklens/internal/config"
	"github.com/sadopc/worklens/internal/store"
)

// App holds what the commands need from main.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	// IsInteractive reports whether the dashboard UI can take the terminal.
	IsInteractive func() bool
	// RunTUI runs the interactive dashboard over s until the user quits.
	RunTUI func(ctx context.Context, s *store.Store) error
}

// NewRootCmd creates the top-level "worklens" command. Without a
// subcommand it opens the dashboard on a terminal and prints the summary
// otherwise.
func NewRootCmd(app *App) *cobra.Command {
	if app.Config == nil {
		cfg := config.Default()
		app.Config = &cfg
	}
	if app.Logger == nil {
		app.Logger = slog.New(slog.DiscardHandler)
	}

	vf := &viewFlags{}
	root := &cobra.Command{
		Use:           "worklens [file]",
		Short:         "Time-tracking sheet dashboard",
		Long:          "Reads a time-tracking spreadsheet (.xlsx or .csv) and shows per-task totals, breakdowns and the task hierarchy.\nWithout a file the built-in sample sheet is shown.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.buildStore(cmd, args, vf)
			if err != nil {
				return err
			}
			if app.RunTUI != nil && app.IsInteractive != nil && app.IsInteractive() {
				return app.RunTUI(cmd.Context(), s)
			}
			return writeSummary(cmd.OutOrStdout(), s.Snapshot(), s.Measure())
		},
	}
	vf.register(root.Flags(), app.Config)

	root.AddCommand(
		newSummaryCmd(app),
		newTreeCmd(app),
		newTableCmd(app),
		newDroppedCmd(app),
		newExportCmd(app),
	)
	return root
}

// Execute runs the root command with args and writes output to out.
func Execute(ctx context.Context, app *App, args []string, out io.Writer) error {
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)
	return root.ExecuteContext(ctx)
}
