// Package workday does the calendar math behind compliance deadlines.
package workday

import "time"

// Truncate normalises t to midnight UTC of the same calendar date.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsWeekday reports whether t falls on Monday through Friday.
func IsWeekday(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}

// AddWorkingDays advances base one calendar day at a time, counting only
// Monday–Friday, until n working days have been counted. n <= 0 returns base.
func AddWorkingDays(base time.Time, n int) time.Time {
	d := Truncate(base)
	for counted := 0; counted < n; {
		d = d.AddDate(0, 0, 1)
		if IsWeekday(d) {
			counted++
		}
	}
	return d
}

// AddCalendarDays adds n plain calendar days, weekends included.
func AddCalendarDays(base time.Time, n int) time.Time {
	return Truncate(base).AddDate(0, 0, n)
}
