package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sadopc/worklens/internal/record"
)

// Bucket is one aggregated category.
type Bucket struct {
	Key   string
	Total float64
	Color string
}

// KeyFunc selects the grouping key of a record.
type KeyFunc func(record.Record) string

// MeasureFunc selects the value summed per group.
type MeasureFunc func(record.Record) float64

// Elapsed sums the recorded duration.
func Elapsed(r record.Record) float64 { return r.Measure }

// Count counts records.
func Count(record.Record) float64 { return 1 }

// MeasureByName resolves "elapsed" or "count".
func MeasureByName(name string) (MeasureFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "elapsed":
		return Elapsed, nil
	case "count":
		return Count, nil
	}
	return nil, fmt.Errorf("unknown measure %q", name)
}

// AtLevel keys records by their label at level.
func AtLevel(level record.Level) KeyFunc {
	return func(r record.Record) string { return r.Label(level) }
}

// Aggregate groups records by key and sums measure per group. Buckets are
// ordered by total, largest first; equal totals keep the order in which
// their key first appeared. Colors are not assigned.
func Aggregate(records []record.Record, key KeyFunc, measure MeasureFunc) []Bucket {
	buckets := []Bucket{}
	sums := []int64{}
	index := make(map[string]int)

	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, Bucket{Key: k})
			sums = append(sums, 0)
		}
		sums[i] += toHundredths(measure(r))
	}
	for i := range buckets {
		buckets[i].Total = fromHundredths(sums[i])
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Total > buckets[j].Total
	})
	return buckets
}

// ByLevel aggregates records at level. parents[i], when non-empty,
// restricts records to those labelled parents[i] at level i; an empty
// value applies no restriction, so a missing selection covers every record.
func ByLevel(records []record.Record, level record.Level, measure MeasureFunc, parents ...string) []Bucket {
	return Aggregate(WithParents(records, level, parents...), AtLevel(level), measure)
}

// WithParents keeps the records matching every non-empty parent label above
// level.
func WithParents(records []record.Record, level record.Level, parents ...string) []record.Record {
	out := make([]record.Record, 0, len(records))
	for _, r := range records {
		if matchParents(r, level, parents) {
			out = append(out, r)
		}
	}
	return out
}

func matchParents(r record.Record, level record.Level, parents []string) bool {
	for i, want := range parents {
		if record.Level(i) >= level {
			break
		}
		if want != "" && r.Label(record.Level(i)) != want {
			return false
		}
	}
	return true
}

// Total sums bucket totals.
func Total(buckets []Bucket) float64 {
	var sum int64
	for _, b := range buckets {
		sum += toHundredths(b.Total)
	}
	return fromHundredths(sum)
}

// Sum totals measure over records. It equals Total of any aggregation of
// the same records.
func Sum(records []record.Record, measure MeasureFunc) float64 {
	var sum int64
	for _, r := range records {
		sum += toHundredths(measure(r))
	}
	return fromHundredths(sum)
}

// Measures carry at most two decimals (hours are decoded at display
// precision, minutes and counts are whole), so sums run in integer
// hundredths and do not depend on summation order.
func toHundredths(v float64) int64 { return int64(math.Round(v * 100)) }

func fromHundredths(n int64) float64 { return float64(n) / 100 }

// Labels returns the distinct labels at level in first-seen order,
// optionally restricted by parents as in ByLevel.
func Labels(records []record.Record, level record.Level, parents ...string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range records {
		if !matchParents(r, level, parents) {
			continue
		}
		l := r.Label(level)
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
