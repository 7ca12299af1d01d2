package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLabel(t *testing.T) {
	r := Record{Path: []string{"Proj", "Task", "Sub"}}

	assert.Equal(t, "Proj", r.Label(0))
	assert.Equal(t, "Sub", r.Label(2))
	assert.Equal(t, "", r.Label(3))
	assert.Equal(t, "", r.Label(-1))
}

func TestRecordSerialDate(t *testing.T) {
	r := Record{Attributes: map[string]string{AttrSerialDate: "44927.5"}}
	v, ok := r.SerialDate()
	assert.True(t, ok)
	assert.Equal(t, 44927.5, v)

	_, ok = Record{}.SerialDate()
	assert.False(t, ok)

	_, ok = Record{Attributes: map[string]string{AttrSerialDate: "abc"}}.SerialDate()
	assert.False(t, ok)
}

func TestDayBounds(t *testing.T) {
	ts := time.Date(2023, 1, 3, 15, 4, 5, 0, time.Local)

	assert.Equal(t, time.Date(2023, 1, 3, 0, 0, 0, 0, time.Local), StartOfDay(ts))
	assert.Equal(t, time.Date(2023, 1, 3, 23, 59, 59, 999_000_000, time.Local), EndOfDay(ts))
	assert.True(t, SameDay(ts, StartOfDay(ts)))
	assert.False(t, SameDay(ts, ts.AddDate(0, 0, 1)))
}

func TestDateRangeString(t *testing.T) {
	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2023, 1, 10, 0, 0, 0, 0, time.Local)

	assert.Equal(t, "Jan 01, 2023 - Jan 10, 2023", NewRange(from, to).String())
	assert.Equal(t, "Jan 01, 2023", DateRange{From: &from}.String())
	assert.Equal(t, "All dates", DateRange{}.String())
}

func TestParseRange(t *testing.T) {
	rng, err := ParseRange("", "")
	require.NoError(t, err)
	assert.Nil(t, rng.From)
	assert.Nil(t, rng.To)

	rng, err = ParseRange("2023-01-01", "2023-01-05")
	require.NoError(t, err)
	assert.Equal(t, "Jan 01, 2023 - Jan 05, 2023", rng.String())
	assert.Equal(t, time.Local, rng.From.Location())

	rng, err = ParseRange("", "2023-01-05")
	require.NoError(t, err)
	assert.Nil(t, rng.From)
	assert.Equal(t, "All dates", rng.String())

	_, err = ParseRange("2023-01-05", "2023-01-01")
	assert.ErrorContains(t, err, "before")

	_, err = ParseRange("01/05/2023", "")
	assert.ErrorContains(t, err, "invalid from date")
}
