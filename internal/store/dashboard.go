package store

import (
	"github.com/sadopc/worklens/internal/record"
	"github.com/sadopc/worklens/internal/report"
	"github.com/sadopc/worklens/internal/sheet"
)

// State is everything a Dashboard is derived from.
type State struct {
	Schema  sheet.Schema
	Records []record.Record
	Dropped []sheet.Diagnostic
	Range   record.DateRange
	Level   record.Level
	Project string
	Task    string
	Measure report.MeasureFunc
}

// Dashboard is a pure projection of State. It is rebuilt on every change
// and never mutated afterwards.
type Dashboard struct {
	Schema    sheet.Schema
	Range     record.DateRange
	Level     record.Level
	LevelName string
	Project   string
	Task      string

	// Records are the records inside Range.
	Records []record.Record

	Overview  report.ChartData // task level
	Detail    report.ChartData // innermost level under the selection
	Breakdown report.ChartData // the chosen level under the selection
	Tree      []report.Node
	Table     []report.TableRow

	Projects []string
	Tasks    []string
	Dropped  []sheet.Diagnostic
	Total    float64
}

// Empty reports whether no record falls inside the range.
func (d Dashboard) Empty() bool { return len(d.Records) == 0 }

// Compute derives every view from st.
func Compute(st State) Dashboard {
	measure := st.Measure
	if measure == nil {
		measure = report.Elapsed
	}
	schema := st.Schema
	if len(schema.Levels) == 0 {
		schema = sheet.SchemaV1
	}
	level := st.Level
	if level < 0 || int(level) >= len(schema.Levels) {
		level = schema.TaskLevel()
	}

	filtered := report.Filter(st.Records, st.Range)
	parents := selection(schema, st.Project, st.Task)
	taskLevel := schema.TaskLevel()

	d := Dashboard{
		Schema:    schema,
		Range:     st.Range,
		Level:     level,
		LevelName: string(schema.Levels[level]),
		Project:   st.Project,
		Task:      st.Task,
		Records:   filtered,
		Overview:  chart(report.ByLevel(filtered, taskLevel, measure)),
		Detail:    chart(report.ByLevel(filtered, schema.Innermost(), measure, parents...)),
		Breakdown: chart(report.ByLevel(filtered, level, measure, parents...)),
		Tree:      report.BuildHierarchy(filtered, taskLevel).Nodes(),
		Table:     report.Table(filtered),
		Tasks:     nonNil(report.Labels(st.Records, taskLevel, parents...)),
		Projects:  []string{},
		Dropped:   append([]sheet.Diagnostic{}, st.Dropped...),
		Total:     report.Sum(filtered, measure),
	}
	if lvl, ok := schema.Level(sheet.FieldProject); ok {
		d.Projects = nonNil(report.Labels(st.Records, lvl))
	}
	return d
}

// selection lines the selected project and task up with the schema's
// levels so they can act as parent filters.
func selection(schema sheet.Schema, project, task string) []string {
	parents := make([]string, len(schema.Levels))
	for i, f := range schema.Levels {
		switch f {
		case sheet.FieldProject:
			parents[i] = project
		case sheet.FieldTask:
			parents[i] = task
		}
	}
	return parents
}

func chart(buckets []report.Bucket) report.ChartData {
	return report.Chart(report.Colorize(buckets))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
