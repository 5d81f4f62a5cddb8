package util

import (
	"fmt"
	"time"
)

// PeriodBounds holds the configured academic year and semester boundaries.
type PeriodBounds struct {
	YearStart time.Time
	YearEnd   time.Time
	Sem1Start time.Time
	Sem1End   time.Time
	Sem2Start time.Time
	Sem2End   time.Time
}

// ResolvePeriod maps a period name to a half-open date range [start, end).
// Valid names are year, s1, s2, today, week and next. The relative periods
// are resolved against now.
func ResolvePeriod(name string, now time.Time, bounds PeriodBounds) (time.Time, time.Time, error) {
	switch name {
	case "year":
		return bounds.YearStart, bounds.YearEnd.AddDate(0, 0, 1), nil
	case "s1":
		return bounds.Sem1Start, bounds.Sem1End.AddDate(0, 0, 1), nil
	case "s2":
		return bounds.Sem2Start, bounds.Sem2End.AddDate(0, 0, 1), nil
	case "today":
		day := RoundDateToDay(now)
		return day, day.AddDate(0, 0, 1), nil
	case "week":
		monday := MondayOfWeek(now)
		return monday, monday.AddDate(0, 0, 7), nil
	case "next":
		monday := MondayOfWeek(now).AddDate(0, 0, 7)
		return monday, monday.AddDate(0, 0, 7), nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("unknown period %q (valid: year, s1, s2, today, week, next)", name)
}

// RoundDateToDay returns the input date at midnight.
func RoundDateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MondayOfWeek returns midnight of the Monday of the week containing t.
func MondayOfWeek(t time.Time) time.Time {
	off := int(t.Weekday()) - int(time.Monday)
	if off < 0 {
		off += 7 // Sunday counts as the end of the week
	}
	return time.Date(t.Year(), t.Month(), t.Day()-off, 0, 0, 0, 0, t.Location())
}
