package sheet

import (
	"math"
	"strconv"
	"strings"
)

// CellKind discriminates the value held by a Cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
)

// Cell is one spreadsheet value, typed before any schema mapping happens.
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
}

func EmptyCell() Cell           { return Cell{Kind: CellEmpty} }
func NumberCell(v float64) Cell { return Cell{Kind: CellNumber, Number: v} }
func TextCell(s string) Cell    { return Cell{Kind: CellText, Text: s} }

func (c Cell) IsNumber() bool { return c.Kind == CellNumber }
func (c Cell) IsEmpty() bool  { return c.Kind == CellEmpty }

// ParseCell classifies a raw cell string as read from a workbook or CSV.
// Blank cells are empty; finite numeric literals are numbers; anything else
// is text.
func ParseCell(raw string) Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return EmptyCell()
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return NumberCell(v)
	}
	return TextCell(raw)
}

// ParseRow classifies every cell of a raw row.
func ParseRow(raw []string) []Cell {
	cells := make([]Cell, len(raw))
	for i, s := range raw {
		cells[i] = ParseCell(s)
	}
	return cells
}

// String renders the cell as a label. Numbers use the shortest exact form.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'g', -1, 64)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

func cellAt(row []Cell, i int) Cell {
	if i < 0 || i >= len(row) {
		return EmptyCell()
	}
	return row[i]
}

func rowStrings(row []Cell) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = c.String()
	}
	return out
}
