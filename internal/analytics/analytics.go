// Package analytics computes derived metrics from board snapshots. Every
// function is a pure read: nothing here mutates state, and empty input
// always yields a zero/empty-shaped result rather than an error.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/tempoboard/tempo/internal/calendar"
	"github.com/tempoboard/tempo/internal/models"
)

// CategoryBreakdown is one slice of the time-by-category report.
type CategoryBreakdown struct {
	Category   models.EntryCategory `json:"category"`
	Minutes    int                  `json:"minutes"`
	Percentage int                  `json:"percentage"`
}

// TimeByCategory sums logged minutes per category within the optional
// [start, end] window (nil bounds are open). Categories with zero
// minutes are dropped; percentages are rounded shares of the total.
func TimeByCategory(entries []*models.TimeEntry, start, end *time.Time) []CategoryBreakdown {
	totals := make(map[models.EntryCategory]int)
	total := 0
	for _, e := range entries {
		if start != nil && e.Date.Before(*start) {
			continue
		}
		if end != nil && e.Date.After(*end) {
			continue
		}
		totals[e.Category] += e.Duration()
		total += e.Duration()
	}

	var out []CategoryBreakdown
	for _, c := range models.Categories() {
		minutes := totals[c]
		if minutes == 0 {
			continue
		}
		out = append(out, CategoryBreakdown{
			Category:   c,
			Minutes:    minutes,
			Percentage: int(math.Round(float64(minutes) / float64(total) * 100)),
		})
	}
	return out
}

// Session is a detected deep-work block: development time on a single
// task within a single UTC calendar day.
type Session struct {
	TaskID  string    `json:"taskId"`
	Day     time.Time `json:"day"`
	Minutes int       `json:"minutes"`
}

// DeepWorkSessions finds (day, task) buckets of development time whose
// summed duration reaches minHours. Only development entries count;
// other categories never contribute, even interleaved on the same day
// and task.
func DeepWorkSessions(entries []*models.TimeEntry, minHours float64) []Session {
	type key struct {
		day    string
		taskID string
	}
	buckets := make(map[key]*Session)
	for _, e := range entries {
		if e.Category != models.CategoryDevelopment {
			continue
		}
		k := key{day: calendar.DayKey(e.Date), taskID: e.TaskID}
		s, ok := buckets[k]
		if !ok {
			s = &Session{TaskID: e.TaskID, Day: calendar.StartOfDay(e.Date)}
			buckets[k] = s
		}
		s.Minutes += e.Duration()
	}

	threshold := int(minHours * 60)
	var out []Session
	for _, s := range buckets {
		if s.Minutes >= threshold {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Day.Equal(out[j].Day) {
			return out[i].Day.Before(out[j].Day)
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out
}

// TasksCompletedInRange returns tasks whose CompletedAt falls within
// [start, end] inclusive. Tasks without a completion timestamp never
// qualify.
func TasksCompletedInRange(tasks []*models.Task, start, end time.Time) []*models.Task {
	var out []*models.Task
	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		if calendar.InRange(*t.CompletedAt, start, end) {
			out = append(out, t)
		}
	}
	return out
}

// TimeBreakdownByType sums minutes per category for entries dated within
// [start, end] inclusive. The result always carries all six categories,
// zero-filled, never a partial map.
func TimeBreakdownByType(entries []*models.TimeEntry, start, end time.Time) map[models.EntryCategory]int {
	out := make(map[models.EntryCategory]int, 6)
	for _, c := range models.Categories() {
		out[c] = 0
	}
	for _, e := range entries {
		if calendar.InRange(e.Date, start, end) {
			out[e.Category] += e.Duration()
		}
	}
	return out
}

// TrendPoint is one day of the productivity trend.
type TrendPoint struct {
	Day     time.Time `json:"day"`
	Label   string    `json:"label"`
	Minutes int       `json:"minutes"`
}

// ProductivityTrend returns one point per calendar day in [start, end]
// inclusive, exactly floor(endDay-startDay)+1 entries. Days with no
// logged time are zero-filled rather than omitted.
func ProductivityTrend(entries []*models.TimeEntry, start, end time.Time) []TrendPoint {
	days := calendar.InclusiveDays(start, end)
	if days <= 0 {
		return []TrendPoint{}
	}

	perDay := make(map[string]int)
	for _, e := range entries {
		perDay[calendar.DayKey(e.Date)] += e.Duration()
	}

	out := make([]TrendPoint, 0, days)
	day := calendar.StartOfDay(start)
	for i := 0; i < days; i++ {
		out = append(out, TrendPoint{
			Day:     day,
			Label:   calendar.DayLabel(day),
			Minutes: perDay[calendar.DayKey(day)],
		})
		day = day.AddDate(0, 0, 1)
	}
	return out
}
