package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported sheet format")

// Options controls how a file is turned into Records.
type Options struct {
	SheetName string  // workbook sheet; first sheet when empty
	Schema    *Schema // forced layout; detected from the header when nil
	Fallback  Schema  // layout for five-column sheets; SchemaV1 when unset
	Logger    *slog.Logger
}

// OptionsFor builds Options from a schema setting. "auto" or "" detects
// the layout from the header; v1, v2 or v3 forces it.
func OptionsFor(schema, sheetName string, logger *slog.Logger) (Options, error) {
	opts := Options{SheetName: sheetName, Logger: logger}
	if name := strings.TrimSpace(schema); name != "" && !strings.EqualFold(name, "auto") {
		s, err := SchemaByName(name)
		if err != nil {
			return Options{}, err
		}
		opts.Schema = &s
	}
	return opts, nil
}

func (o Options) fallback() Schema {
	if o.Fallback.Name == "" {
		return SchemaV1
	}
	return o.Fallback
}

// Load reads path (.xlsx, .xlsm or .csv) and decodes it.
func Load(ctx context.Context, path string, opts Options) (Result, error) {
	var (
		grid [][]Cell
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx":
		grid, err = ReadWorkbook(ctx, path, opts.SheetName)
	case ".csv":
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return Result{}, fmt.Errorf("open csv: %w", err)
		}
		defer f.Close()
		grid, err = ReadCSV(ctx, f)
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return Result{}, err
	}
	return DecodeGrid(grid, opts), nil
}

// DecodeGrid picks the schema for grid and decodes it.
func DecodeGrid(grid [][]Cell, opts Options) Result {
	schema := opts.fallback()
	if opts.Schema != nil {
		schema = *opts.Schema
	} else if len(grid) > 0 {
		schema = Detect(grid[0], schema)
	}
	return NewDecoder(schema, opts.Logger).Decode(grid)
}

// ReadWorkbook returns the raw grid of one workbook sheet. Cell values are
// read unformatted so date and duration columns keep their serial numbers.
func ReadWorkbook(ctx context.Context, path, sheetName string) ([][]Cell, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", filepath.Base(path))
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grid := make([][]Cell, len(rows))
	for i, row := range rows {
		grid[i] = ParseRow(row)
	}
	return grid, nil
}

// ReadCSV returns the grid of a comma-separated export of the sheet.
func ReadCSV(ctx context.Context, r io.Reader) ([][]Cell, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var grid [][]Cell
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		grid = append(grid, ParseRow(row))
	}
	return grid, nil
}
