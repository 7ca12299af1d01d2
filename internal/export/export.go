// Package export writes the current dashboard to CSV, JSON or SQLite files.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sadopc/worklens/internal/store"
)

// Format is an export file type.
type Format int

const (
	CSV Format = iota
	JSON
	SQLite
)

// Formats lists every format in picker order.
var Formats = []Format{CSV, JSON, SQLite}

func (f Format) String() string {
	switch f {
	case JSON:
		return "JSON"
	case SQLite:
		return "SQLite"
	default:
		return "CSV"
	}
}

// Ext returns the file extension, without the dot.
func (f Format) Ext() string {
	switch f {
	case JSON:
		return "json"
	case SQLite:
		return "db"
	default:
		return "csv"
	}
}

// ParseFormat resolves csv, json or sqlite.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	case "sqlite", "db":
		return SQLite, nil
	}
	return CSV, fmt.Errorf("unknown export format %q", s)
}

// FileName is the default name of an export written on day.
func FileName(f Format, day time.Time) string {
	return fmt.Sprintf("worklens-export-%s.%s", day.Format("2006-01-02"), f.Ext())
}

// Write exports d in format f to path.
func Write(d store.Dashboard, f Format, path string) error {
	switch f {
	case JSON:
		return ToJSON(d, path)
	case SQLite:
		return ToSQLite(d, path)
	default:
		return ToCSV(d.Schema, d.Table, path)
	}
}

// WriteAll writes every format into dir concurrently and returns the paths
// in Formats order.
func WriteAll(ctx context.Context, d store.Dashboard, dir string, now time.Time) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	paths := make([]string, len(Formats))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range Formats {
		paths[i] = filepath.Join(dir, FileName(f, now))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := Write(d, f, paths[i]); err != nil {
				return fmt.Errorf("%s export: %w", f, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
