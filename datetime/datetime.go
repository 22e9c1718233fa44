// Package datetime provides the date and timezone helpers shared by the
// downstream applications: month boundaries, inclusive date ranges, format
// parsing, and conversions between named timezones.
package datetime

import (
	"fmt"
	"time"
)

// Accepted layouts for the string parsing helpers.
const (
	LayoutDate  = "2006-01-02"
	LayoutClock = "15:04"
)

// MonthBounds returns the first and last day of the given month, at midnight UTC.
func MonthBounds(year int, month time.Month) (first, last time.Time) {
	first = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// DateRange returns every calendar date from start to end inclusive,
// normalized to midnight in start's location. When start is after end the
// result is empty, mirroring an empty range rather than an error.
func DateRange(start, end time.Time) []time.Time {
	start = truncateToDay(start)
	end = truncateToDay(end)

	if start.After(end) {
		return []time.Time{}
	}

	days := int(end.Sub(start).Hours()/24) + 1
	dates := make([]time.Time, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// ParseDate parses a "YYYY-MM-DD" string into a date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(LayoutDate, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseClock parses an "HH:MM" string into a clock time on the zero date.
func ParseClock(s string) (time.Time, error) {
	t, err := time.Parse(LayoutClock, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

// ParseAny tries each layout in order and returns the first successful parse.
// It fails with an error naming the input when no layout matches.
func ParseAny(s string, layouts ...string) (time.Time, error) {
	if len(layouts) == 0 {
		layouts = []string{LayoutDate, time.RFC3339, time.DateTime}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse %q: no accepted format matched", s)
}

// MakeAware interprets the wall-clock fields of t in the named timezone.
// This is the equivalent of localizing a naive timestamp: the year, month,
// day, and clock reading are preserved and the zone is attached.
func MakeAware(t time.Time, tz string) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc), nil
}

// Convert interprets the wall-clock fields of t in fromTZ and renders the
// same instant in toTZ.
func Convert(t time.Time, fromTZ, toTZ string) (time.Time, error) {
	aware, err := MakeAware(t, fromTZ)
	if err != nil {
		return time.Time{}, err
	}
	to, err := time.LoadLocation(toTZ)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", toTZ, err)
	}
	return aware.In(to), nil
}

// truncateToDay drops the clock portion of t, keeping its location.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
