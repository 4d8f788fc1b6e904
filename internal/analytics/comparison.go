package analytics

import (
	"math"
	"time"

	"github.com/tempoboard/tempo/internal/calendar"
	"github.com/tempoboard/tempo/internal/models"
)

// PeriodStats summarizes one comparison window.
type PeriodStats struct {
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"` // exclusive
	TasksCompleted    int       `json:"tasksCompleted"`
	TasksCreated      int       `json:"tasksCreated"`
	MinutesLogged     int       `json:"minutesLogged"`
	AvgCompletionDays int       `json:"avgCompletionDays"`
}

// Delta is a current-minus-previous difference with its percent change.
type Delta struct {
	Value   int `json:"value"`
	Percent int `json:"percent"`
}

// ComparisonData is the period-over-period report.
type ComparisonData struct {
	Period         calendar.Period `json:"period"`
	Current        PeriodStats     `json:"current"`
	Previous       PeriodStats     `json:"previous"`
	TasksCompleted Delta           `json:"tasksCompleted"`
	TasksCreated   Delta           `json:"tasksCreated"`
	MinutesLogged  Delta           `json:"minutesLogged"`
	AvgCompletion  Delta           `json:"avgCompletion"`
}

// PeriodComparison compares the window containing ref against the
// immediately preceding window of the same granularity. Windows are UTC
// calendar units (weeks start Sunday) so the boundary math never drifts
// with the host timezone. Archived tasks are excluded from all period
// math, and so is time logged against them.
//
// Delta percent is 0 whenever the previous window's value is 0, even if
// the current value is positive. That convention is load-bearing for
// downstream consumers; do not replace it with an "infinite growth"
// rendering.
func PeriodComparison(tasks []*models.Task, entries []*models.TimeEntry, period calendar.Period, ref time.Time) ComparisonData {
	curStart, curEnd, prevStart, prevEnd := calendar.PeriodBounds(period, ref)

	// Visible (non-archived) tasks only; entries follow their task.
	var visible []*models.Task
	archived := make(map[string]bool)
	for _, t := range tasks {
		if t.IsArchived {
			archived[t.ID] = true
			continue
		}
		visible = append(visible, t)
	}

	cur := windowStats(visible, entries, archived, curStart, curEnd)
	prev := windowStats(visible, entries, archived, prevStart, prevEnd)

	return ComparisonData{
		Period:         period,
		Current:        cur,
		Previous:       prev,
		TasksCompleted: delta(cur.TasksCompleted, prev.TasksCompleted),
		TasksCreated:   delta(cur.TasksCreated, prev.TasksCreated),
		MinutesLogged:  delta(cur.MinutesLogged, prev.MinutesLogged),
		AvgCompletion:  delta(cur.AvgCompletionDays, prev.AvgCompletionDays),
	}
}

func windowStats(tasks []*models.Task, entries []*models.TimeEntry, archived map[string]bool, start, end time.Time) PeriodStats {
	stats := PeriodStats{Start: start, End: end}

	completed := 0
	var cycleSum float64
	for _, t := range tasks {
		if calendar.InWindow(t.CreatedAt, start, end) {
			stats.TasksCreated++
		}
		if t.CompletedAt != nil && calendar.InWindow(*t.CompletedAt, start, end) {
			completed++
			cycleSum += calendar.DaysBetween(t.CreatedAt, *t.CompletedAt)
		}
	}
	stats.TasksCompleted = completed
	if completed > 0 {
		stats.AvgCompletionDays = int(math.Round(cycleSum / float64(completed)))
	}

	for _, e := range entries {
		if archived[e.TaskID] {
			continue
		}
		if calendar.InWindow(e.Date, start, end) {
			stats.MinutesLogged += e.Duration()
		}
	}
	return stats
}

// delta computes current-previous with the zero-baseline convention:
// a zero previous value always reports 0%, never infinity.
func delta(current, previous int) Delta {
	d := Delta{Value: current - previous}
	if previous != 0 {
		d.Percent = int(math.Round(float64(current-previous) / float64(previous) * 100))
	}
	return d
}
