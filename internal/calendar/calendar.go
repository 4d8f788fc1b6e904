// Package calendar owns the UTC date-bucketing arithmetic used by the
// filter and analytics engines. Week, month, and quarter boundaries are
// all anchored in UTC so bucket edges never drift with the host timezone.
package calendar

import "time"

// Period is a comparison granularity.
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
)

// ValidPeriod reports whether p is a known period granularity.
func ValidPeriod(p Period) bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodQuarter:
		return true
	}
	return false
}

// StartOfDay returns midnight UTC of the day containing t.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfWeek returns the most recent Sunday midnight UTC at or before t.
func StartOfWeek(t time.Time) time.Time {
	d := StartOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// StartOfMonth returns the first of the month containing t, midnight UTC.
func StartOfMonth(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// StartOfQuarter returns the first day of the calendar quarter containing
// t (Jan/Apr/Jul/Oct 1st), midnight UTC.
func StartOfQuarter(t time.Time) time.Time {
	u := t.UTC()
	qm := time.Month((int(u.Month())-1)/3*3 + 1)
	return time.Date(u.Year(), qm, 1, 0, 0, 0, 0, time.UTC)
}

// InclusiveDays returns the number of calendar days covered by the
// inclusive range [start, end]: floor(endDay-startDay)+1. A range within
// a single day counts as 1; end before start counts as 0.
func InclusiveDays(start, end time.Time) int {
	s, e := StartOfDay(start), StartOfDay(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// DaysBetween returns the fractional number of days from a to b.
func DaysBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// DayKey returns the UTC calendar day of t as "2006-01-02", suitable for
// bucketing map keys.
func DayKey(t time.Time) string {
	return StartOfDay(t).Format("2006-01-02")
}

// DayLabel returns a short human label for the day, e.g. "Jan 2".
func DayLabel(t time.Time) string {
	return t.UTC().Format("Jan 2")
}

// PeriodBounds returns the current window containing ref and the
// immediately preceding window of the same granularity. Windows are
// half-open: [start, end). Weeks start Sunday midnight UTC; months and
// quarters are UTC calendar units.
func PeriodBounds(p Period, ref time.Time) (curStart, curEnd, prevStart, prevEnd time.Time) {
	switch p {
	case PeriodMonth:
		curStart = StartOfMonth(ref)
		curEnd = curStart.AddDate(0, 1, 0)
		prevStart = curStart.AddDate(0, -1, 0)
	case PeriodQuarter:
		curStart = StartOfQuarter(ref)
		curEnd = curStart.AddDate(0, 3, 0)
		prevStart = curStart.AddDate(0, -3, 0)
	default: // week
		curStart = StartOfWeek(ref)
		curEnd = curStart.AddDate(0, 0, 7)
		prevStart = curStart.AddDate(0, 0, -7)
	}
	prevEnd = curStart
	return curStart, curEnd, prevStart, prevEnd
}

// InWindow reports whether t falls in the half-open window [start, end).
func InWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// InRange reports whether t falls in the inclusive range [start, end].
func InRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
