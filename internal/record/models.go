package record

import (
	"fmt"
	"strconv"
	"time"
)

// Sentinel is the placeholder label used where a hierarchy level is absent.
const Sentinel = "none"

// MaxMeasure bounds a single record's measure. Sums are kept in integer
// hundredths, which stay exact well beyond any real sheet at this bound.
const MaxMeasure = 1e9

// Attribute keys carried on every decoded Record.
const (
	AttrSerialDate = "serial_date"
	AttrDuration   = "duration"
	AttrOutcome    = "outcome"
	AttrPlan       = "plan"
	AttrProgress   = "progress"
)

// Level indexes Record.Path; 0 is the outermost category.
type Level int

type Record struct {
	Date       time.Time // local wall clock
	Path       []string
	Measure    float64 // minutes or hours, depending on the schema
	Attributes map[string]string
}

// Label returns the category at level, or "" when the path is shorter.
func (r Record) Label(level Level) string {
	if level < 0 || int(level) >= len(r.Path) {
		return ""
	}
	return r.Path[level]
}

// SerialDate returns the undecoded spreadsheet serial the record came from.
func (r Record) SerialDate() (float64, bool) {
	raw, ok := r.Attributes[AttrSerialDate]
	if !ok || raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// DateRange is inclusive on both ends; To covers its whole calendar day.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// NewRange builds a DateRange with both bounds set.
func NewRange(from, to time.Time) DateRange {
	return DateRange{From: &from, To: &to}
}

func (r DateRange) String() string {
	switch {
	case r.From != nil && r.To != nil:
		return r.From.Format("Jan 02, 2006") + " - " + r.To.Format("Jan 02, 2006")
	case r.From != nil:
		return r.From.Format("Jan 02, 2006")
	default:
		return "All dates"
	}
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last millisecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayLayout is the format ParseRange accepts.
const DayLayout = "2006-01-02"

// ParseRange builds a DateRange from two YYYY-MM-DD strings in local time;
// either may be empty. A lone To leaves the range open, which keeps every
// record.
func ParseRange(from, to string) (DateRange, error) {
	var rng DateRange
	if from != "" {
		t, err := time.ParseInLocation(DayLayout, from, time.Local)
		if err != nil {
			return rng, fmt.Errorf("invalid from date %q: %w", from, err)
		}
		rng.From = &t
	}
	if to != "" {
		t, err := time.ParseInLocation(DayLayout, to, time.Local)
		if err != nil {
			return rng, fmt.Errorf("invalid to date %q: %w", to, err)
		}
		rng.To = &t
	}
	if rng.From != nil && rng.To != nil && rng.To.Before(*rng.From) {
		return rng, fmt.Errorf("to date %s is before from date %s", to, from)
	}
	return rng, nil
}
