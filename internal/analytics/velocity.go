package analytics

import (
	"sort"
	"time"

	"github.com/tempoboard/tempo/internal/calendar"
	"github.com/tempoboard/tempo/internal/models"
)

// WeekRecord is one rolling week of the velocity report.
type WeekRecord struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	Completed    int       `json:"completed"`
	AvgCycleDays float64   `json:"avgCycleDays"`
}

// VelocityData computes completion counts and average cycle time for the
// last weeksBack rolling 7-day windows ending at now, walking backward.
// Records are returned oldest-first. A week with no completions reports
// AvgCycleDays 0.
func VelocityData(tasks []*models.Task, weeksBack int, now time.Time) []WeekRecord {
	if weeksBack <= 0 {
		return []WeekRecord{}
	}

	out := make([]WeekRecord, 0, weeksBack)
	for i := weeksBack - 1; i >= 0; i-- {
		end := now.AddDate(0, 0, -7*i)
		start := end.AddDate(0, 0, -7)

		count := 0
		var cycleSum float64
		for _, t := range tasks {
			if t.CompletedAt == nil {
				continue
			}
			// Half-open (start, end] so adjacent windows never double count.
			if t.CompletedAt.After(start) && !t.CompletedAt.After(end) {
				count++
				cycleSum += calendar.DaysBetween(t.CreatedAt, *t.CompletedAt)
			}
		}

		rec := WeekRecord{Start: start, End: end, Completed: count}
		if count > 0 {
			rec.AvgCycleDays = cycleSum / float64(count)
		}
		out = append(out, rec)
	}
	return out
}

// AverageCycleTime returns the mean days from creation to completion
// over completed tasks, optionally restricted to one project. No
// completed tasks means 0, never a division by zero.
func AverageCycleTime(tasks []*models.Task, projectID string) float64 {
	count := 0
	var sum float64
	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		if projectID != "" && t.ProjectID != projectID {
			continue
		}
		sum += calendar.DaysBetween(t.CreatedAt, *t.CompletedAt)
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// EfficiencyGroup aggregates completed tasks sharing one dimension value.
type EfficiencyGroup struct {
	Key          string  `json:"key"`
	Count        int     `json:"count"`
	AvgCycleDays float64 `json:"avgCycleDays"`
	AvgMinutes   float64 `json:"avgMinutes"`
}

// EfficiencyReport groups completed tasks by priority and, independently,
// by project name, with overall averages across all completed tasks.
type EfficiencyReport struct {
	ByPriority   []EfficiencyGroup `json:"byPriority"`
	ByProject    []EfficiencyGroup `json:"byProject"`
	Completed    int               `json:"completed"`
	AvgCycleDays float64           `json:"avgCycleDays"`
	AvgMinutes   float64           `json:"avgMinutes"`
}

// TaskEfficiency reports per-priority and per-project cycle time and
// time spent (summed entries per task) for completed tasks. An empty
// completed set yields empty group lists and zero overall averages.
func TaskEfficiency(tasks []*models.Task, entries []*models.TimeEntry, projects []*models.Project) EfficiencyReport {
	minutesByTask := make(map[string]int)
	for _, e := range entries {
		minutesByTask[e.TaskID] += e.Duration()
	}

	projectNames := make(map[string]string, len(projects))
	for _, p := range projects {
		projectNames[p.ID] = p.Name
	}

	type accum struct {
		count    int
		cycleSum float64
		minutes  int
	}
	byPriority := make(map[string]*accum)
	byProject := make(map[string]*accum)
	overall := &accum{}

	add := func(m map[string]*accum, key string, cycle float64, minutes int) {
		a, ok := m[key]
		if !ok {
			a = &accum{}
			m[key] = a
		}
		a.count++
		a.cycleSum += cycle
		a.minutes += minutes
	}

	for _, t := range tasks {
		if t.CompletedAt == nil {
			continue
		}
		cycle := calendar.DaysBetween(t.CreatedAt, *t.CompletedAt)
		minutes := minutesByTask[t.ID]

		add(byPriority, string(t.Priority), cycle, minutes)
		name := projectNames[t.ProjectID]
		if name == "" {
			name = t.ProjectID
		}
		add(byProject, name, cycle, minutes)

		overall.count++
		overall.cycleSum += cycle
		overall.minutes += minutes
	}

	groups := func(m map[string]*accum) []EfficiencyGroup {
		out := make([]EfficiencyGroup, 0, len(m))
		for key, a := range m {
			out = append(out, EfficiencyGroup{
				Key:          key,
				Count:        a.count,
				AvgCycleDays: a.cycleSum / float64(a.count),
				AvgMinutes:   float64(a.minutes) / float64(a.count),
			})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
		return out
	}

	report := EfficiencyReport{
		ByPriority: groups(byPriority),
		ByProject:  groups(byProject),
		Completed:  overall.count,
	}
	if overall.count > 0 {
		report.AvgCycleDays = overall.cycleSum / float64(overall.count)
		report.AvgMinutes = float64(overall.minutes) / float64(overall.count)
	}
	return report
}
