package sheet

import (
	"time"

	"github.com/sadopc/worklens/internal/record"
	"github.com/sadopc/worklens/internal/serial"
)

type sampleRow struct {
	day       int
	task, sub string
	hours     float64
	outcome   string
}

var sampleRows = []sampleRow{
	{1, "Task A", "Sub A", 1.5, "Result A"},
	{2, "Task B", "Sub A", 2.0, "Result B"},
	{3, "Task C", "Sub A", 3.0, "Result C"},
	{4, "Task A", "Sub C", 1.5, "Result A"},
	{5, "Task B", "Sub B", 2.0, "Result B"},
	{6, "Task C", "Sub B", 3.0, "Result C"},
	{7, "Task A", "Sub A", 1.5, "Result A"},
	{8, "Task B", "Sub C", 2.0, "Result B"},
	{9, "Task C", "Sub B", 3.0, "Result C"},
	{10, "Task A", "Sub A", 1.5, "Result A"},
}

// SampleGrid is the demo sheet shown before any file is opened, in the V1
// layout.
func SampleGrid() [][]Cell {
	grid := [][]Cell{{
		TextCell("Date"), TextCell("Task"), TextCell("Subcategory"),
		TextCell("Elapsed Time"), TextCell("Outcome"),
	}}
	for _, r := range sampleRows {
		date := time.Date(2023, time.January, r.day, 0, 0, 0, 0, time.Local)
		grid = append(grid, []Cell{
			NumberCell(serial.Encode(date)),
			TextCell(r.task),
			TextCell(r.sub),
			NumberCell(r.hours / 24),
			TextCell(r.outcome),
		})
	}
	return grid
}

// SampleRange is the date range preselected for the demo sheet.
func SampleRange() record.DateRange {
	from := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.Local)
	return record.NewRange(from, from.AddDate(0, 0, 9))
}
