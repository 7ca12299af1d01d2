package report

import (
	"time"

	"github.com/sadopc/worklens/internal/record"
	"github.com/sadopc/worklens/internal/serial"
)

// Filter returns the records that fall inside rng.
//
// With both bounds set the range runs from the start of From's day through
// the end of To's day. With only From set, just From's calendar day
// matches. Otherwise every record is kept.
func Filter(records []record.Record, rng record.DateRange) []record.Record {
	out := make([]record.Record, 0, len(records))

	switch {
	case rng.From != nil && rng.To != nil:
		from := record.StartOfDay(*rng.From)
		to := record.EndOfDay(*rng.To)
		for _, r := range records {
			t := recordTime(r)
			if !t.Before(from) && !t.After(to) {
				out = append(out, r)
			}
		}
	case rng.From != nil:
		for _, r := range records {
			if record.SameDay(recordTime(r), *rng.From) {
				out = append(out, r)
			}
		}
	default:
		out = append(out, records...)
	}
	return out
}

// recordTime prefers re-decoding the original serial so filtering sees the
// full time of day.
func recordTime(r record.Record) time.Time {
	if v, ok := r.SerialDate(); ok {
		if t, err := serial.DecodeDate(v); err == nil {
			return t
		}
	}
	return r.Date
}

// Span returns the range covering every record, or an open range when there
// are none.
func Span(records []record.Record) record.DateRange {
	if len(records) == 0 {
		return record.DateRange{}
	}
	lo, hi := recordTime(records[0]), recordTime(records[0])
	for _, r := range records[1:] {
		t := recordTime(r)
		if t.Before(lo) {
			lo = t
		}
		if t.After(hi) {
			hi = t
		}
	}
	return record.NewRange(lo, hi)
}
