package report

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/worklens/internal/record"
	"github.com/sadopc/worklens/internal/serial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d, h int) time.Time {
	return time.Date(2023, 1, d, h, 0, 0, 0, time.Local)
}

func rec(t time.Time, measure float64, path ...string) record.Record {
	return record.Record{
		Date:    t,
		Path:    path,
		Measure: measure,
		Attributes: map[string]string{
			record.AttrSerialDate: strconv.FormatFloat(serial.Encode(t), 'g', -1, 64),
		},
	}
}

func keys(buckets []Bucket) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.Key
	}
	return out
}

// ============================================================
// Filter
// ============================================================

func TestFilterSameDayRange(t *testing.T) {
	records := []record.Record{
		rec(day(3, 23), 1, "A", "X"),
		rec(day(4, 0), 1, "A", "X"),
		rec(day(2, 23), 1, "A", "X"),
	}
	from, to := day(3, 0), day(3, 0)

	got := Filter(records, record.DateRange{From: &from, To: &to})
	require.Len(t, got, 1)
	assert.True(t, day(3, 23).Equal(got[0].Date))
}

func TestFilterRangeStartsAtStartOfDay(t *testing.T) {
	records := []record.Record{rec(day(1, 8), 1, "A", "X"), rec(day(5, 8), 1, "A", "X")}
	from, to := day(1, 12), day(5, 0)

	got := Filter(records, record.DateRange{From: &from, To: &to})
	assert.Len(t, got, 2)
}

func TestFilterFromOnlyIsExactDay(t *testing.T) {
	records := []record.Record{
		rec(day(3, 9), 1, "A", "X"),
		rec(day(4, 9), 1, "B", "X"),
		rec(day(10, 9), 1, "C", "X"),
	}
	from := day(3, 0)

	got := Filter(records, record.DateRange{From: &from})
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Path[0])
}

func TestFilterOpenRangeKeepsAll(t *testing.T) {
	records := []record.Record{rec(day(3, 9), 1, "A", "X"), rec(day(4, 9), 1, "B", "X")}
	to := day(3, 0)

	assert.Len(t, Filter(records, record.DateRange{}), 2)
	assert.Len(t, Filter(records, record.DateRange{To: &to}), 2)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := []record.Record{rec(day(3, 9), 1, "A", "X"), rec(day(4, 9), 1, "B", "X")}
	from := day(4, 0)

	got := Filter(records, record.DateRange{From: &from})
	require.Len(t, got, 1)
	got[0].Path = []string{"changed"}
	assert.Equal(t, "A", records[0].Path[0])
	assert.Len(t, records, 2)
}

func TestFilterUsesSerialWhenPresent(t *testing.T) {
	// Date field says day 1 but the serial says day 3 23:00; the serial wins.
	r := rec(day(3, 23), 1, "A", "X")
	r.Date = day(1, 0)
	from, to := day(3, 0), day(3, 0)

	assert.Len(t, Filter([]record.Record{r}, record.DateRange{From: &from, To: &to}), 1)
}

func TestFilterFallsBackToDate(t *testing.T) {
	r := record.Record{Date: day(3, 23), Path: []string{"A", "X"}}
	from, to := day(3, 0), day(3, 0)

	assert.Len(t, Filter([]record.Record{r}, record.DateRange{From: &from, To: &to}), 1)
}

func TestSpan(t *testing.T) {
	records := []record.Record{rec(day(5, 9), 1, "A"), rec(day(2, 7), 1, "B"), rec(day(9, 18), 1, "C")}

	rng := Span(records)
	require.NotNil(t, rng.From)
	require.NotNil(t, rng.To)
	assert.True(t, day(2, 7).Equal(*rng.From))
	assert.True(t, day(9, 18).Equal(*rng.To))

	empty := Span(nil)
	assert.Nil(t, empty.From)
	assert.Nil(t, empty.To)
}

// ============================================================
// Aggregate
// ============================================================

func TestAggregateOrdersByTotalStable(t *testing.T) {
	records := []record.Record{
		rec(day(1, 0), 1, "B", "x"),
		rec(day(1, 0), 3, "A", "x"),
		rec(day(1, 0), 2, "C", "x"),
		rec(day(1, 0), 1, "D", "x"),
		rec(day(1, 0), 1, "C", "x"),
		rec(day(1, 0), 2, "B", "x"),
	}

	got := Aggregate(records, AtLevel(0), Elapsed)
	// B=3, A=3, C=3 tie in first-seen order; D=1 last.
	assert.Equal(t, []string{"B", "A", "C", "D"}, keys(got))
	assert.Equal(t, 3.0, got[0].Total)
}

func TestAggregateConservesTotal(t *testing.T) {
	records := []record.Record{
		rec(day(1, 0), 1.5, "A", "x"),
		rec(day(2, 0), 2.25, "B", "y"),
		rec(day(3, 0), 0.5, "A", "z"),
		rec(day(4, 0), 4, "C", "x"),
	}
	for _, level := range []record.Level{0, 1} {
		buckets := Aggregate(records, AtLevel(level), Elapsed)
		assert.Equal(t, Sum(records, Elapsed), Total(buckets))
	}
}

func TestAggregateConservesTwoDecimalHours(t *testing.T) {
	// Typical sheet values, none exact in binary; float summation in a
	// different order would drift in the last bit.
	hours := []float64{0.1, 0.2, 0.3, 0.7, 1.1, 0.05, 2.35, 0.01}
	labels := []string{"A", "B", "C", "A", "B", "C", "A", "B"}
	var records []record.Record
	for i, h := range hours {
		records = append(records, rec(day(i+1, 0), h, labels[i], "x"))
	}

	buckets := Aggregate(records, AtLevel(0), Elapsed)
	assert.Equal(t, 4.81, Sum(records, Elapsed))
	assert.Equal(t, Sum(records, Elapsed), Total(buckets))
	assert.Equal(t, []string{"A", "B", "C"}, keys(buckets))
	assert.Equal(t, []float64{3.15, 1.31, 0.35}, []float64{buckets[0].Total, buckets[1].Total, buckets[2].Total})
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil, AtLevel(0), Elapsed)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAggregateCount(t *testing.T) {
	records := []record.Record{rec(day(1, 0), 5, "A"), rec(day(1, 0), 1, "B"), rec(day(1, 0), 1, "B")}
	got := Aggregate(records, AtLevel(0), Count)
	assert.Equal(t, []string{"B", "A"}, keys(got))
	assert.Equal(t, 2.0, got[0].Total)
}

func TestByLevelWithParents(t *testing.T) {
	records := []record.Record{
		rec(day(1, 0), 1, "P1", "T1", "S1"),
		rec(day(1, 0), 2, "P1", "T1", "S2"),
		rec(day(1, 0), 4, "P1", "T2", "S1"),
		rec(day(1, 0), 8, "P2", "T1", "S3"),
	}

	// Subtasks of T1 in P1.
	got := ByLevel(records, 2, Elapsed, "P1", "T1")
	assert.Equal(t, []string{"S2", "S1"}, keys(got))

	// Subtasks of T1 in any project.
	got = ByLevel(records, 2, Elapsed, "", "T1")
	assert.Equal(t, []string{"S3", "S2", "S1"}, keys(got))

	// No selection falls back to every record.
	got = ByLevel(records, 1, Elapsed)
	assert.Equal(t, []string{"T1", "T2"}, keys(got))
	assert.Equal(t, 11.0, got[0].Total)

	// Parent filters at or below the grouped level are ignored.
	got = ByLevel(records, 0, Elapsed, "P1")
	assert.Equal(t, []string{"P2", "P1"}, keys(got))
}

func TestMeasureByName(t *testing.T) {
	m, err := MeasureByName("count")
	require.NoError(t, err)
	assert.Equal(t, 1.0, m(record.Record{Measure: 9}))

	m, err = MeasureByName("")
	require.NoError(t, err)
	assert.Equal(t, 9.0, m(record.Record{Measure: 9}))

	_, err = MeasureByName("avg")
	assert.Error(t, err)
}

func TestLabels(t *testing.T) {
	records := []record.Record{
		rec(day(1, 0), 1, "P1", "T2"),
		rec(day(1, 0), 1, "P2", "T1"),
		rec(day(1, 0), 1, "P1", "T2"),
		rec(day(1, 0), 1, "P1", "T3"),
	}
	assert.Equal(t, []string{"P1", "P2"}, Labels(records, 0))
	assert.Equal(t, []string{"T2", "T3"}, Labels(records, 1, "P1"))
	assert.Equal(t, []string{"T2", "T1", "T3"}, Labels(records, 1))
}

// ============================================================
// Palette
// ============================================================

func TestColorizeSmall(t *testing.T) {
	buckets := Colorize([]Bucket{{Key: "a", Total: 3}, {Key: "b", Total: 1}})
	assert.Equal(t, BasePalette[0], buckets[0].Color)
	assert.Equal(t, BasePalette[1], buckets[1].Color)
}

func TestColorizeExtendedCycles(t *testing.T) {
	in := make([]Bucket, 25)
	for i := range in {
		in[i] = Bucket{Key: strconv.Itoa(i)}
	}
	out := Colorize(in)
	require.Len(t, out, 25)
	assert.Equal(t, ExtendedPalette[6], out[6].Color)
	assert.Equal(t, ExtendedPalette[0], out[20].Color)
	assert.Empty(t, in[0].Color, "input must not be modified")
}

func TestColorFollowsRank(t *testing.T) {
	first := Colorize(Aggregate([]record.Record{rec(day(1, 0), 2, "A"), rec(day(1, 0), 1, "B")}, AtLevel(0), Elapsed))
	second := Colorize(Aggregate([]record.Record{rec(day(1, 0), 1, "A"), rec(day(1, 0), 2, "B")}, AtLevel(0), Elapsed))

	assert.Equal(t, "A", first[0].Key)
	assert.Equal(t, "B", second[0].Key)
	assert.Equal(t, first[0].Color, second[0].Color)
}

// ============================================================
// Hierarchy
// ============================================================

func TestHierarchyDedupAndSentinel(t *testing.T) {
	records := []record.Record{
		rec(day(1, 0), 1, "A", "X"),
		rec(day(1, 0), 1, "A", "X"),
		rec(day(1, 0), 1, "A", "none"),
	}
	h := BuildHierarchy(records, 0)
	assert.Equal(t, []string{"X", "X", "none"}, h.Children["A"])
	assert.Equal(t, map[string][]string{"A": {"X"}}, h.Map())
}

func TestHierarchyAllSentinelLeaf(t *testing.T) {
	records := []record.Record{rec(day(1, 0), 1, "B", "none")}
	nodes := BuildHierarchy(records, 0).Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "B", nodes[0].Label)
	assert.Empty(t, nodes[0].Children)
}

func TestHierarchyOmitsEmptyParents(t *testing.T) {
	records := []record.Record{
		rec(day(1, 0), 1, "C", ""),
		rec(day(1, 0), 1, "D", "none"),
		rec(day(1, 0), 1, "D", ""),
		rec(day(1, 0), 1, "none", "X"),
		rec(day(1, 0), 1, "E", "Y"),
	}
	nodes := BuildHierarchy(records, 0).Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, Node{Label: "E", Children: []string{"Y"}}, nodes[0])
}

func TestHierarchyDropsBlankChildren(t *testing.T) {
	records := []record.Record{
		rec(day(1, 0), 1, "A", ""),
		rec(day(1, 0), 1, "A", "  "),
		rec(day(1, 0), 1, "A", "X"),
	}
	h := BuildHierarchy(records, 0)
	// The raw mapping keeps every label; only the display rules drop blanks.
	assert.Equal(t, []string{"", "  ", "X"}, h.Children["A"])
	assert.Equal(t, []Node{{Label: "A", Children: []string{"X"}}}, h.Nodes())
}

func TestHierarchyOrderAndInnerLevel(t *testing.T) {
	records := []record.Record{
		rec(day(1, 0), 1, "P", "T2", "b"),
		rec(day(1, 0), 1, "P", "T1", "a"),
		rec(day(1, 0), 1, "P", "T2", "c"),
		rec(day(1, 0), 1, "P", "T2", "b"),
	}
	nodes := BuildHierarchy(records, 1).Nodes()
	assert.Equal(t, []Node{
		{Label: "T2", Children: []string{"b", "c"}},
		{Label: "T1", Children: []string{"a"}},
	}, nodes)
}

func TestHierarchyEmpty(t *testing.T) {
	assert.Empty(t, BuildHierarchy(nil, 0).Nodes())
}

// ============================================================
// Views
// ============================================================

func TestChart(t *testing.T) {
	c := Chart(Colorize([]Bucket{{Key: "A", Total: 2}, {Key: "B", Total: 1}}))
	assert.Equal(t, []string{"A", "B"}, c.Labels)
	assert.Equal(t, []float64{2, 1}, c.Values)
	assert.Equal(t, BasePalette[:2], c.Colors)
	assert.Equal(t, 2, c.Len())
}

func TestTable(t *testing.T) {
	r := rec(day(3, 15), 1.5, "Task A", "Sub A")
	r.Attributes[record.AttrDuration] = "1.50 hours"
	r.Attributes[record.AttrOutcome] = "done"

	rows := Table([]record.Record{r, {Date: day(4, 0), Path: []string{"B", "Y"}, Measure: 2}})
	require.Len(t, rows, 2)
	assert.Equal(t, "2023/01/03", rows[0].Date)
	assert.Equal(t, []string{"Task A", "Sub A"}, rows[0].Path)
	assert.Equal(t, "1.50 hours", rows[0].Duration)
	assert.Equal(t, map[string]string{record.AttrOutcome: "done"}, rows[0].Attributes)
	assert.Equal(t, "2.00", rows[1].Duration)
}

func TestTreeRender(t *testing.T) {
	out := Tree("Tasks", []Node{{Label: "A", Children: []string{"X", "Y"}}, {Label: "B"}}).String()
	for _, want := range []string{"Tasks", "A", "X", "Y", "B"} {
		assert.True(t, strings.Contains(out, want), "missing %q in\n%s", want, out)
	}
}
