package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/worklens/internal/export"
	"github.com/sadopc/worklens/internal/report"
	"github.com/sadopc/worklens/internal/store"
)

func newSummaryCmd(app *App) *cobra.Command {
	return viewCmd(app, "summary", "Print totals per task and the selected breakdown",
		func(cmd *cobra.Command, s *store.Store) error {
			return writeSummary(cmd.OutOrStdout(), s.Snapshot(), s.Measure())
		})
}

func newTreeCmd(app *App) *cobra.Command {
	return viewCmd(app, "tree", "Print the task hierarchy",
		func(cmd *cobra.Command, s *store.Store) error {
			d := s.Snapshot()
			root := d.Range.String()
			_, err := fmt.Fprintln(cmd.OutOrStdout(), report.Tree(root, d.Tree).String())
			return err
		})
}

func newTableCmd(app *App) *cobra.Command {
	return viewCmd(app, "table", "Print the records in range",
		func(cmd *cobra.Command, s *store.Store) error {
			d := s.Snapshot()
			attrs := d.Schema.AttributeFields()

			headers := append([]string{"Date"}, d.Schema.Headers()...)
			headers = append(headers, "Duration")
			for _, a := range attrs {
				headers = append(headers, title(string(a)))
			}

			t := newTable(headers...)
			for _, r := range d.Table {
				row := append([]string{r.Date}, padPath(r.Path, len(d.Schema.Levels))...)
				row = append(row, r.Duration)
				for _, a := range attrs {
					row = append(row, r.Attributes[string(a)])
				}
				t.Row(row...)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return err
		})
}

func newDroppedCmd(app *App) *cobra.Command {
	return viewCmd(app, "dropped", "List sheet rows that could not be read",
		func(cmd *cobra.Command, s *store.Store) error {
			out := cmd.OutOrStdout()
			if len(s.Dropped()) == 0 {
				_, err := fmt.Fprintln(out, "No rows dropped.")
				return err
			}
			t := newTable("Row", "Reason", "Content")
			for _, d := range s.Dropped() {
				t.Row(fmt.Sprint(d.Row), d.Reason.Error(), strings.Join(d.Cells, " | "))
			}
			_, err := fmt.Fprintln(out, t.String())
			return err
		})
}

func newExportCmd(app *App) *cobra.Command {
	var format, out string

	cmd := viewCmd(app, "export", "Write the dashboard to CSV, JSON or SQLite",
		func(cmd *cobra.Command, s *store.Store) error {
			d := s.Snapshot()
			now := time.Now()
			w := cmd.OutOrStdout()

			if strings.EqualFold(format, "all") {
				dir := out
				if dir == "" {
					dir = app.Config.ExportDir
				}
				paths, err := export.WriteAll(cmd.Context(), d, dir, now)
				if err != nil {
					return err
				}
				app.Logger.Info("exported dashboard", "component", "export", "paths", paths)
				for _, p := range paths {
					fmt.Fprintln(w, "Exported to "+p)
				}
				return nil
			}

			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = filepath.Join(app.Config.ExportDir, export.FileName(f, now))
			}
			if err := export.Write(d, f, path); err != nil {
				return fmt.Errorf("%s export: %w", f, err)
			}
			app.Logger.Info("exported dashboard", "component", "export", "format", f.String(), "path", path)
			_, err = fmt.Fprintln(w, "Exported to "+path)
			return err
		})
	cmd.Flags().StringVar(&format, "format", "csv", "csv, json, sqlite or all")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, or directory with --format all")
	return cmd
}

func padPath(path []string, n int) []string {
	out := make([]string, n)
	copy(out, path)
	return out
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
