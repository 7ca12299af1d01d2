// Package serial converts spreadsheet date/time serial numbers into calendar
// dates and durations. A serial counts days since the spreadsheet epoch,
// which sits 25569 days before the Unix epoch; its fractional part is the
// time of day.
package serial

import (
	"errors"
	"math"
	"strconv"
	"time"
)

const (
	// EpochOffset is the serial value of 1970-01-01.
	EpochOffset = 25569

	secondsPerDay = 86400

	// Added to the day fraction so float truncation does not drop the
	// final second (e.g. 23:59:59 decoding as 23:59:58).
	fractionEpsilon = 1e-7

	// Roughly ±8000 years of days; anything wider cannot be a calendar date.
	maxWholeDays = 3_000_000
)

var (
	ErrNotFinite  = errors.New("serial is not a finite number")
	ErrOutOfRange = errors.New("serial is outside the calendar range")
)

// DecodeDate converts a serial date/time into a local wall-clock time.
func DecodeDate(serial float64) (time.Time, error) {
	if !finite(serial) {
		return time.Time{}, ErrNotFinite
	}

	wholeDays := math.Floor(serial - EpochOffset)
	if math.Abs(wholeDays) > maxWholeDays {
		return time.Time{}, ErrOutOfRange
	}
	// The day boundary is a UTC instant; its calendar date is read in UTC so
	// the same serial yields the same day in every zone.
	day := time.Unix(int64(wholeDays)*secondsPerDay, 0).UTC()

	fraction := serial - math.Floor(serial) + fractionEpsilon
	totalSeconds := int(math.Floor(secondsPerDay * fraction))

	seconds := totalSeconds % 60
	totalSeconds -= seconds
	hours := totalSeconds / 3600
	minutes := (totalSeconds / 60) % 60

	t := time.Date(day.Year(), day.Month(), day.Day(), hours, minutes, seconds, 0, time.Local)
	if !ValidDate(t) {
		return time.Time{}, ErrOutOfRange
	}
	return t, nil
}

// ValidDate reports whether t is a usable calendar date.
func ValidDate(t time.Time) bool {
	return !t.IsZero() && t.Year() >= 1 && t.Year() <= 9999
}

// DecodeDurationMinutes converts a serial duration (fraction of a day) into
// whole minutes. Halves round up.
func DecodeDurationMinutes(serial float64) (int64, error) {
	if !finite(serial) {
		return 0, ErrNotFinite
	}
	mins := math.Floor(serial*24*60 + 0.5)
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if mins >= math.MaxInt64 || mins < math.MinInt64 {
		return 0, ErrOutOfRange
	}
	return int64(mins), nil
}

// DecodeDurationHours converts a serial duration into hours formatted with
// two decimals. The string is the value of record: aggregation parses it
// back, so sub-cent precision is dropped on purpose.
func DecodeDurationHours(serial float64) (string, error) {
	if !finite(serial) {
		return "", ErrNotFinite
	}
	return strconv.FormatFloat(serial*24, 'f', 2, 64), nil
}

// Encode converts a wall-clock time back into a serial date/time. Only the
// calendar fields of t are used; its location is ignored.
func Encode(t time.Time) float64 {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := float64(day.Unix() / secondsPerDay)
	secs := float64(t.Hour()*3600 + t.Minute()*60 + t.Second())
	return days + EpochOffset + secs/secondsPerDay
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
