// Package analytics turns a snapshot of habits and completion logs into
// streaks, heatmap buckets and insights. Nothing here performs I/O or keeps
// state between calls.
package analytics

import (
	"time"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
)

// DayKey is a calendar date rendered as YYYY-MM-DD. Keys of the same shape
// sort lexicographically in chronological order.
type DayKey = string

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

// ToDayKey returns the calendar day of t as observed in loc.
func ToDayKey(t time.Time, loc *time.Location) DayKey {
	return t.In(location(loc)).Format(domain.DayKeyLayout)
}

// IsValidDayKey reports whether s is YYYY-MM-DD and names a real calendar date.
func IsValidDayKey(s string) bool {
	_, err := domain.ParseDayKey(s)
	return err == nil
}

// ShiftDays moves key by n calendar days. Arithmetic happens on UTC midnights
// so daylight saving never skews the result. Invalid keys come back unchanged.
func ShiftDays(key DayKey, n int) DayKey {
	t, err := domain.ParseDayKey(key)
	if err != nil {
		return key
	}
	return t.AddDate(0, 0, n).Format(domain.DayKeyLayout)
}

// Weekday returns the day of week of key; ok is false for an invalid key.
func Weekday(key DayKey) (time.Weekday, bool) {
	t, err := domain.ParseDayKey(key)
	if err != nil {
		return time.Sunday, false
	}
	return t.Weekday(), true
}

// IsWeekend reports Saturday or Sunday. Invalid keys are never weekend days.
func IsWeekend(key DayKey) bool {
	wd, ok := Weekday(key)
	if !ok {
		return false
	}
	return wd == time.Saturday || wd == time.Sunday
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return ToDayKey(a, loc) == ToDayKey(b, loc)
}

// SameWeek compares ISO-style weeks starting on Monday.
func SameWeek(a, b time.Time, loc *time.Location) bool {
	return weekStart(a, loc) == weekStart(b, loc)
}

// SameMonth reports whether a and b fall in the same month of the same year in loc.
func SameMonth(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(location(loc)), b.In(location(loc))
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// SameYear reports whether a and b fall in the same calendar year in loc.
func SameYear(a, b time.Time, loc *time.Location) bool {
	return a.In(location(loc)).Year() == b.In(location(loc)).Year()
}

func weekStart(t time.Time, loc *time.Location) DayKey {
	key := ToDayKey(t, loc)
	wd, _ := Weekday(key)
	offset := (int(wd) + 6) % 7
	return ShiftDays(key, -offset)
}

// DaysBetween returns to - from in days. It is 0 when either key is invalid.
func DaysBetween(from, to DayKey) int {
	a, err := domain.ParseDayKey(from)
	if err != nil {
		return 0
	}
	b, err := domain.ParseDayKey(to)
	if err != nil {
		return 0
	}
	// Unix seconds instead of Sub: Duration overflows past ~292 years.
	return int((b.Unix() - a.Unix()) / 86400)
}

// DaysInYear is 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}
