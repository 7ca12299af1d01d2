package sheet

import (
	"fmt"
	"strings"

	"github.com/sadopc/worklens/internal/record"
)

// Field names the meaning of a column position.
type Field string

const (
	FieldDate        Field = "date"
	FieldProject     Field = "project"
	FieldTask        Field = "task"
	FieldSubcategory Field = "subcategory"
	FieldSubtask     Field = "subtask"
	FieldDuration    Field = "duration"
	FieldOutcome     Field = record.AttrOutcome
	FieldPlan        Field = record.AttrPlan
	FieldProgress    Field = record.AttrProgress
)

// DurationUnit is the unit Record.Measure is expressed in.
type DurationUnit int

const (
	UnitHours DurationUnit = iota
	UnitMinutes
)

func (u DurationUnit) String() string {
	if u == UnitMinutes {
		return "minutes"
	}
	return "hours"
}

// Schema describes one column layout of a time-tracking sheet.
type Schema struct {
	Name    string
	Columns []Field // ordered by column position
	Levels  []Field // hierarchy fields, outermost first
	Unit    DurationUnit
}

var (
	// SchemaV1 is the flat task/subcategory sheet with hour durations.
	SchemaV1 = Schema{
		Name:    "v1",
		Columns: []Field{FieldDate, FieldTask, FieldSubcategory, FieldDuration, FieldOutcome},
		Levels:  []Field{FieldTask, FieldSubcategory},
		Unit:    UnitHours,
	}

	// SchemaV2 has the same columns as V1 but measures whole minutes.
	SchemaV2 = Schema{
		Name:    "v2",
		Columns: []Field{FieldDate, FieldTask, FieldSubcategory, FieldDuration, FieldOutcome},
		Levels:  []Field{FieldTask, FieldSubcategory},
		Unit:    UnitMinutes,
	}

	// SchemaV3 tracks project/task/subtask with a plan and progress note.
	SchemaV3 = Schema{
		Name:    "v3",
		Columns: []Field{FieldDate, FieldProject, FieldTask, FieldSubtask, FieldPlan, FieldDuration, FieldProgress},
		Levels:  []Field{FieldProject, FieldTask, FieldSubtask},
		Unit:    UnitHours,
	}
)

// Schemas lists the built-in layouts.
var Schemas = []Schema{SchemaV1, SchemaV2, SchemaV3}

// SchemaByName resolves "v1", "v2" or "v3".
func SchemaByName(name string) (Schema, error) {
	for _, s := range Schemas {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return Schema{}, fmt.Errorf("unknown schema %q", name)
}

// Detect picks a schema from the header row width. Seven or more columns
// means V3; narrower sheets use fallback, since V1 and V2 share a layout.
func Detect(header []Cell, fallback Schema) Schema {
	if len(header) >= len(SchemaV3.Columns) {
		return SchemaV3
	}
	return fallback
}

// Column returns the position of f, or -1.
func (s Schema) Column(f Field) int {
	for i, c := range s.Columns {
		if c == f {
			return i
		}
	}
	return -1
}

// Level returns the hierarchy index of f.
func (s Schema) Level(f Field) (record.Level, bool) {
	for i, l := range s.Levels {
		if l == f {
			return record.Level(i), true
		}
	}
	return 0, false
}

// LevelByName resolves a level by field name. "subcategory" and "subtask"
// are interchangeable so one setting works across layouts.
func (s Schema) LevelByName(name string) (record.Level, bool) {
	f := Field(strings.ToLower(strings.TrimSpace(name)))
	if lvl, ok := s.Level(f); ok {
		return lvl, true
	}
	switch f {
	case FieldSubtask:
		return s.Level(FieldSubcategory)
	case FieldSubcategory:
		return s.Level(FieldSubtask)
	}
	return 0, false
}

// TaskLevel is the level the overview chart and tree group by.
func (s Schema) TaskLevel() record.Level {
	lvl, _ := s.Level(FieldTask)
	return lvl
}

// Innermost is the deepest hierarchy level.
func (s Schema) Innermost() record.Level {
	return record.Level(len(s.Levels) - 1)
}

// Headers returns display titles for the hierarchy levels.
func (s Schema) Headers() []string {
	out := make([]string, len(s.Levels))
	for i, l := range s.Levels {
		out[i] = strings.ToUpper(string(l[:1])) + string(l[1:])
	}
	return out
}

// AttributeFields are the columns that are neither date, duration nor a
// hierarchy level.
func (s Schema) AttributeFields() []Field {
	var out []Field
	for _, c := range s.Columns {
		if c == FieldDate || c == FieldDuration {
			continue
		}
		if _, ok := s.Level(c); ok {
			continue
		}
		out = append(out, c)
	}
	return out
}
