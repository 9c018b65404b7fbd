// Package datewindow holds the day-difference and calendar-month helpers used
// by open-loop classification and usage gating.
package datewindow

import "time"

const msPerDay = int64(24 * time.Hour / time.Millisecond)

// DaysBetween returns floor((b - a) / 1 day), measured in whole milliseconds.
// The result is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	ms := b.Sub(a).Milliseconds()
	days := ms / msPerDay
	if ms%msPerDay != 0 && ms < 0 {
		days--
	}
	return int(days)
}

// MonthBoundsUTC returns the half-open interval [start, end) of the UTC
// calendar month containing now.
func MonthBoundsUTC(now time.Time) (start, end time.Time) {
	u := now.UTC()
	start = time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0)
	return start, end
}
