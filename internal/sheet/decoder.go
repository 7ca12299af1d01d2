package sheet

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sadopc/worklens/internal/record"
	"github.com/sadopc/worklens/internal/serial"
)

var (
	ErrNonNumericDate     = errors.New("date cell is not numeric")
	ErrNonNumericDuration = errors.New("duration cell is not numeric")
	ErrInvalidDate        = errors.New("date is not a valid calendar date")
	ErrNegativeDuration   = errors.New("duration is negative")
	ErrDurationTooLarge   = errors.New("duration is too large")
)

// Diagnostic records a row that could not become a Record.
type Diagnostic struct {
	Row    int // 1-based sheet row; the header is row 1
	Cells  []string
	Reason error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("row %d: %v %v", d.Row, d.Reason, d.Cells)
}

// Result is the outcome of decoding one grid.
type Result struct {
	BatchID string
	Schema  Schema
	Records []record.Record
	Dropped []Diagnostic
}

// Decoder maps grid rows onto Records using a Schema.
type Decoder struct {
	Schema Schema
	Logger *slog.Logger
}

func NewDecoder(schema Schema, logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{Schema: schema, Logger: logger}
}

// Decode converts every row after the header. Rows that fail validation
// are dropped with a Diagnostic; decoding never aborts.
func (d *Decoder) Decode(grid [][]Cell) Result {
	res := Result{
		BatchID: uuid.NewString(),
		Schema:  d.Schema,
		Records: []record.Record{},
	}
	logger := d.logger().With(
		slog.String("batch_id", res.BatchID),
		slog.String("schema", d.Schema.Name),
	)

	if len(grid) <= 1 {
		logger.Info("sheet has no data rows")
		return res
	}

	for i, row := range grid[1:] {
		if blank(row) {
			continue
		}
		rowNum := i + 2
		rec, err := d.decodeRow(row)
		if err != nil {
			diag := Diagnostic{Row: rowNum, Cells: rowStrings(row), Reason: err}
			res.Dropped = append(res.Dropped, diag)
			logger.Warn("dropped row",
				slog.Int("row", rowNum),
				slog.String("reason", err.Error()),
				slog.Any("content", diag.Cells),
			)
			continue
		}
		res.Records = append(res.Records, rec)
	}

	logger.Info("decoded sheet",
		slog.Int("records", len(res.Records)),
		slog.Int("dropped", len(res.Dropped)),
	)
	return res
}

func (d *Decoder) decodeRow(row []Cell) (record.Record, error) {
	s := d.Schema
	dateCell := cellAt(row, s.Column(FieldDate))
	durCell := cellAt(row, s.Column(FieldDuration))

	if !dateCell.IsNumber() {
		return record.Record{}, ErrNonNumericDate
	}
	if !durCell.IsNumber() {
		return record.Record{}, ErrNonNumericDuration
	}

	date, err := serial.DecodeDate(dateCell.Number)
	if err != nil {
		return record.Record{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	if durCell.Number < 0 {
		return record.Record{}, ErrNegativeDuration
	}
	measure, display, err := decodeMeasure(durCell.Number, s.Unit)
	if errors.Is(err, serial.ErrOutOfRange) {
		return record.Record{}, fmt.Errorf("%w: %w", ErrDurationTooLarge, err)
	}
	if err != nil {
		return record.Record{}, err
	}
	if measure > record.MaxMeasure {
		return record.Record{}, ErrDurationTooLarge
	}

	path := make([]string, len(s.Levels))
	for i, lvl := range s.Levels {
		path[i] = strings.TrimSpace(cellAt(row, s.Column(lvl)).String())
	}

	attrs := map[string]string{
		record.AttrSerialDate: strconv.FormatFloat(dateCell.Number, 'g', -1, 64),
		record.AttrDuration:   display,
	}
	for _, f := range s.AttributeFields() {
		attrs[string(f)] = cellAt(row, s.Column(f)).String()
	}

	return record.Record{
		Date:       date,
		Path:       path,
		Measure:    measure,
		Attributes: attrs,
	}, nil
}

// decodeMeasure returns the aggregation value and its display text. Hours
// go through the two-decimal string first, so the measure carries exactly
// the displayed precision.
func decodeMeasure(v float64, unit DurationUnit) (float64, string, error) {
	switch unit {
	case UnitMinutes:
		mins, err := serial.DecodeDurationMinutes(v)
		if err != nil {
			return 0, "", err
		}
		return float64(mins), fmt.Sprintf("%d minutes", mins), nil
	default:
		hours, err := serial.DecodeDurationHours(v)
		if err != nil {
			return 0, "", err
		}
		parsed, err := strconv.ParseFloat(hours, 64)
		if err != nil {
			return 0, "", fmt.Errorf("reparse hours %q: %w", hours, err)
		}
		return parsed, hours + " hours", nil
	}
}

func (d *Decoder) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

func blank(row []Cell) bool {
	for _, c := range row {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
