// Package store holds the dashboard state: the current record set, the
// active date range and the user's selections. Every derived view is
// recomputed from that state whenever it changes.
//
// A Store is not safe for concurrent use; the UI loop is its only writer.
package store

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sadopc/worklens/internal/record"
	"github.com/sadopc/worklens/internal/report"
	"github.com/sadopc/worklens/internal/sheet"
)

var ErrUnknownLevel = errors.New("unknown hierarchy level")

type Store struct {
	schema  sheet.Schema
	records []record.Record
	dropped []sheet.Diagnostic
	batchID string

	rng     record.DateRange
	level   record.Level
	project string
	task    string

	measureName string
	measure     report.MeasureFunc

	dash Dashboard
}

// New returns an empty store using the V1 layout.
func New() *Store {
	s := &Store{
		schema:      sheet.SchemaV1,
		records:     []record.Record{},
		measureName: "elapsed",
		measure:     report.Elapsed,
	}
	s.recompute()
	return s
}

// NewSample returns a store preloaded with the demo sheet and its range.
// Decoding logs to logger, or to slog.Default when it is nil.
func NewSample(logger *slog.Logger) *Store {
	s := New()
	s.LoadSample(logger)
	return s
}

// LoadSample replaces the record set with the demo sheet and selects its
// range.
func (s *Store) LoadSample(logger *slog.Logger) {
	s.Load(sheet.NewDecoder(sheet.SchemaV1, logger).Decode(sheet.SampleGrid()))
	s.SetRange(sheet.SampleRange())
}

// Load replaces the record set with res. The range resets to the span of
// the new records and the first record's task (and project, when the layout
// has one) becomes the selection.
func (s *Store) Load(res sheet.Result) {
	s.schema = res.Schema
	if s.schema.Name == "" {
		s.schema = sheet.SchemaV1
	}
	s.records = append([]record.Record{}, res.Records...)
	s.dropped = append([]sheet.Diagnostic(nil), res.Dropped...)
	s.batchID = res.BatchID

	s.rng = report.Span(s.records)
	s.project = ""
	s.task = ""
	if len(s.records) > 0 {
		first := s.records[0]
		s.task = first.Label(s.schema.TaskLevel())
		if lvl, ok := s.schema.Level(sheet.FieldProject); ok {
			s.project = first.Label(lvl)
		}
	}
	if int(s.level) >= len(s.schema.Levels) {
		s.level = s.schema.TaskLevel()
	}
	s.recompute()
}

// SetRange replaces the active date range.
func (s *Store) SetRange(rng record.DateRange) {
	s.rng = rng
	s.recompute()
}

// SetLevel selects the breakdown level by name (project, task, subtask or
// subcategory).
func (s *Store) SetLevel(name string) error {
	lvl, ok := s.schema.LevelByName(name)
	if !ok {
		return fmt.Errorf("%w: %q for schema %s", ErrUnknownLevel, name, s.schema.Name)
	}
	s.level = lvl
	s.recompute()
	return nil
}

// CycleLevel moves the breakdown to the next level, wrapping around.
func (s *Store) CycleLevel() {
	if len(s.schema.Levels) == 0 {
		return
	}
	s.level = (s.level + 1) % record.Level(len(s.schema.Levels))
	s.recompute()
}

// SelectProject filters task and subtask views to project; "" selects all.
func (s *Store) SelectProject(project string) {
	s.project = project
	s.recompute()
}

// SelectTask filters subtask views to task; "" selects all.
func (s *Store) SelectTask(task string) {
	s.task = task
	s.recompute()
}

// SetMeasure switches between summing elapsed time and counting records.
func (s *Store) SetMeasure(name string) error {
	m, err := report.MeasureByName(name)
	if err != nil {
		return err
	}
	if name == "" {
		name = "elapsed"
	}
	s.measureName = name
	s.measure = m
	s.recompute()
	return nil
}

func (s *Store) Schema() sheet.Schema        { return s.schema }
func (s *Store) Range() record.DateRange     { return s.rng }
func (s *Store) Project() string             { return s.project }
func (s *Store) Task() string                { return s.task }
func (s *Store) Measure() string             { return s.measureName }
func (s *Store) Len() int                    { return len(s.records) }
func (s *Store) Dropped() []sheet.Diagnostic { return s.dropped }
func (s *Store) BatchID() string             { return s.batchID }
func (s *Store) Level() record.Level         { return s.level }

// TasksFor lists the task labels recorded under project in first-seen
// order; "" lists every task.
func (s *Store) TasksFor(project string) []string {
	parents := selection(s.schema, project, "")
	return nonNil(report.Labels(s.records, s.schema.TaskLevel(), parents...))
}

// Snapshot returns the views derived from the current state.
func (s *Store) Snapshot() Dashboard { return s.dash }

func (s *Store) recompute() {
	s.dash = Compute(State{
		Schema:  s.schema,
		Records: s.records,
		Dropped: s.dropped,
		Range:   s.rng,
		Level:   s.level,
		Project: s.project,
		Task:    s.task,
		Measure: s.measure,
	})
}
