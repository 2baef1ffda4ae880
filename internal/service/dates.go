package service

import (
	"fmt"
	"time"
)

// DateLayout is the on-disk service date format.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MondayOf returns the Monday of t's week; Sunday belongs to the preceding week.
func MondayOf(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// WeekDates returns n consecutive days starting at monday.
func WeekDates(monday time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, monday.AddDate(0, 0, i))
	}
	return out
}

// DatesInRange returns every day from start to end, both included.
func DatesInRange(start, end time.Time) []time.Time {
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// WeekdaysInRange is DatesInRange without Saturdays and Sundays.
func WeekdaysInRange(start, end time.Time) []time.Time {
	var out []time.Time
	for _, d := range DatesInRange(start, end) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			out = append(out, d)
		}
	}
	return out
}

// WeekInPeriod reports whether the Monday–Friday week starting at monday lies wholly
// inside [periodStart, periodEnd].
func WeekInPeriod(monday, periodStart, periodEnd time.Time) bool {
	friday := monday.AddDate(0, 0, 4)
	return !monday.Before(periodStart) && !friday.After(periodEnd)
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = FormatDate(d)
	}
	return out
}
