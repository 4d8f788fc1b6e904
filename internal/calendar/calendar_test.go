package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStartOfDay_NonUTCInput(t *testing.T) {
	// 23:30 on Jan 1 in UTC+5 is 18:30 Jan 1 UTC
	loc := time.FixedZone("plus5", 5*3600)
	in := time.Date(2026, 1, 1, 23, 30, 0, 0, loc)
	assert.Equal(t, date(2026, time.January, 1), StartOfDay(in))

	// 02:00 on Jan 2 in UTC+5 is 21:00 Jan 1 UTC, still Jan 1
	in = time.Date(2026, 1, 2, 2, 0, 0, 0, loc)
	assert.Equal(t, date(2026, time.January, 1), StartOfDay(in))
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"sunday maps to itself", date(2026, time.January, 4), date(2026, time.January, 4)},
		{"monday", date(2026, time.January, 5), date(2026, time.January, 4)},
		{"saturday end of week", date(2026, time.January, 10), date(2026, time.January, 4)},
		{"rollover across month", date(2026, time.February, 3), date(2026, time.February, 1)},
		{"rollover across year", date(2026, time.January, 2), date(2025, time.December, 28)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StartOfWeek(tt.in))
		})
	}
}

func TestStartOfQuarter(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{date(2026, time.January, 1), date(2026, time.January, 1)},
		{date(2026, time.March, 31), date(2026, time.January, 1)},
		{date(2026, time.April, 1), date(2026, time.April, 1)},
		{date(2026, time.June, 15), date(2026, time.April, 1)},
		{date(2026, time.September, 30), date(2026, time.July, 1)},
		{date(2026, time.December, 31), date(2026, time.October, 1)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StartOfQuarter(tt.in), "quarter of %s", tt.in)
	}
}

func TestInclusiveDays(t *testing.T) {
	assert.Equal(t, 1, InclusiveDays(date(2026, time.January, 5), date(2026, time.January, 5)))
	assert.Equal(t, 7, InclusiveDays(date(2026, time.January, 4), date(2026, time.January, 10)))
	assert.Equal(t, 0, InclusiveDays(date(2026, time.January, 10), date(2026, time.January, 4)))

	// Partial days floor to whole days before the +1
	start := time.Date(2026, 1, 4, 23, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 6, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, InclusiveDays(start, end))

	// Leap February
	assert.Equal(t, 29, InclusiveDays(date(2028, time.February, 1), date(2028, time.February, 29)))
}

func TestPeriodBounds_Week(t *testing.T) {
	// Wednesday 2026-01-14 -> week of Sun Jan 11, previous week Sun Jan 4
	cs, ce, ps, pe := PeriodBounds(PeriodWeek, date(2026, time.January, 14))
	assert.Equal(t, date(2026, time.January, 11), cs)
	assert.Equal(t, date(2026, time.January, 18), ce)
	assert.Equal(t, date(2026, time.January, 4), ps)
	assert.Equal(t, date(2026, time.January, 11), pe)
}

func TestPeriodBounds_Month(t *testing.T) {
	cs, ce, ps, pe := PeriodBounds(PeriodMonth, date(2026, time.March, 15))
	assert.Equal(t, date(2026, time.March, 1), cs)
	assert.Equal(t, date(2026, time.April, 1), ce)
	assert.Equal(t, date(2026, time.February, 1), ps)
	assert.Equal(t, date(2026, time.March, 1), pe)

	// January: previous month crosses the year boundary
	cs, _, ps, _ = PeriodBounds(PeriodMonth, date(2026, time.January, 20))
	assert.Equal(t, date(2026, time.January, 1), cs)
	assert.Equal(t, date(2025, time.December, 1), ps)
}

func TestPeriodBounds_Quarter(t *testing.T) {
	cs, ce, ps, pe := PeriodBounds(PeriodQuarter, date(2026, time.May, 10))
	assert.Equal(t, date(2026, time.April, 1), cs)
	assert.Equal(t, date(2026, time.July, 1), ce)
	assert.Equal(t, date(2026, time.January, 1), ps)
	assert.Equal(t, date(2026, time.April, 1), pe)

	// Q1: previous quarter is Q4 of the prior year
	_, _, ps, _ = PeriodBounds(PeriodQuarter, date(2026, time.February, 1))
	assert.Equal(t, date(2025, time.October, 1), ps)
}

func TestWindows(t *testing.T) {
	start := date(2026, time.January, 4)
	end := date(2026, time.January, 11)

	assert.True(t, InWindow(start, start, end))
	assert.False(t, InWindow(end, start, end), "window end is exclusive")
	assert.True(t, InRange(end, start, end), "range end is inclusive")
	assert.False(t, InRange(start.Add(-time.Second), start, end))
}

func TestSameDayAndKeys(t *testing.T) {
	a := time.Date(2026, 1, 5, 0, 0, 1, 0, time.UTC)
	b := time.Date(2026, 1, 5, 23, 59, 59, 0, time.UTC)
	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, b.Add(time.Second)))
	assert.Equal(t, "2026-01-05", DayKey(a))
	assert.Equal(t, "Jan 5", DayLabel(a))
}
