package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempoboard/tempo/internal/models"
)

func completedTask(id, projectID string, created, completed time.Time) *models.Task {
	return &models.Task{
		ID:          id,
		ProjectID:   projectID,
		Title:       id,
		Status:      models.StatusDone,
		Priority:    models.PriorityMedium,
		CreatedAt:   created,
		UpdatedAt:   completed,
		CompletedAt: &completed,
	}
}

func TestVelocityData(t *testing.T) {
	now := time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC)

	tasks := []*models.Task{
		// This week: two completions, 2-day and 4-day cycles
		completedTask("a", "p1", now.AddDate(0, 0, -3), now.AddDate(0, 0, -1)),
		completedTask("b", "p1", now.AddDate(0, 0, -6), now.AddDate(0, 0, -2)),
		// Two weeks back: one completion, 6-day cycle
		completedTask("c", "p1", now.AddDate(0, 0, -16), now.AddDate(0, 0, -10)),
		// Incomplete task never counts
		{ID: "open", ProjectID: "p1", CreatedAt: now.AddDate(0, 0, -5)},
	}

	got := VelocityData(tasks, 3, now)
	require.Len(t, got, 3)

	// Oldest-first: weeks ending now-14d, now-7d, now
	assert.True(t, got[0].End.Before(got[1].End))
	assert.True(t, got[1].End.Before(got[2].End))

	assert.Equal(t, 1, got[0].Completed)
	assert.InDelta(t, 6.0, got[0].AvgCycleDays, 0.01)

	assert.Equal(t, 0, got[1].Completed)
	assert.Zero(t, got[1].AvgCycleDays, "empty week reports 0, not NaN")

	assert.Equal(t, 2, got[2].Completed)
	assert.InDelta(t, 3.0, got[2].AvgCycleDays, 0.01)
}

func TestVelocityData_Empty(t *testing.T) {
	now := time.Now()
	assert.Empty(t, VelocityData(nil, 0, now))

	got := VelocityData(nil, 4, now)
	require.Len(t, got, 4)
	for _, rec := range got {
		assert.Zero(t, rec.Completed)
		assert.Zero(t, rec.AvgCycleDays)
	}
}

func TestAverageCycleTime(t *testing.T) {
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	tasks := []*models.Task{
		completedTask("a", "p1", base, base.AddDate(0, 0, 2)),
		completedTask("b", "p1", base, base.AddDate(0, 0, 4)),
		completedTask("c", "p2", base, base.AddDate(0, 0, 9)),
		{ID: "open", ProjectID: "p1", CreatedAt: base},
	}

	assert.InDelta(t, 5.0, AverageCycleTime(tasks, ""), 0.01)
	assert.InDelta(t, 3.0, AverageCycleTime(tasks, "p1"), 0.01)
	assert.InDelta(t, 9.0, AverageCycleTime(tasks, "p2"), 0.01)
	assert.Zero(t, AverageCycleTime(tasks, "p3"), "no completed tasks in project")
	assert.Zero(t, AverageCycleTime(nil, ""), "empty input is 0, not NaN")
}

func TestTaskEfficiency(t *testing.T) {
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	projects := []*models.Project{
		{ID: "p1", Name: "Alpha"},
		{ID: "p2", Name: "Beta"},
	}

	high := completedTask("h1", "p1", base, base.AddDate(0, 0, 2))
	high.Priority = models.PriorityHigh
	low := completedTask("l1", "p2", base, base.AddDate(0, 0, 6))
	low.Priority = models.PriorityLow

	tasks := []*models.Task{
		high, low,
		{ID: "open", ProjectID: "p1", Priority: models.PriorityHigh, CreatedAt: base},
	}
	entries := []*models.TimeEntry{
		entry("h1", base, 2, 0, models.CategoryDevelopment),
		entry("h1", base.AddDate(0, 0, 1), 1, 0, models.CategoryDevelopment),
		entry("l1", base, 0, 30, models.CategoryMeeting),
		entry("open", base, 5, 0, models.CategoryDevelopment), // not completed, ignored
	}

	got := TaskEfficiency(tasks, entries, projects)
	assert.Equal(t, 2, got.Completed)
	assert.InDelta(t, 4.0, got.AvgCycleDays, 0.01)
	assert.InDelta(t, 105.0, got.AvgMinutes, 0.01) // (180+30)/2

	require.Len(t, got.ByPriority, 2)
	byKey := map[string]EfficiencyGroup{}
	for _, g := range got.ByPriority {
		byKey[g.Key] = g
	}
	assert.InDelta(t, 2.0, byKey["high"].AvgCycleDays, 0.01)
	assert.InDelta(t, 180.0, byKey["high"].AvgMinutes, 0.01)
	assert.Equal(t, 1, byKey["low"].Count)

	require.Len(t, got.ByProject, 2)
	names := []string{got.ByProject[0].Key, got.ByProject[1].Key}
	assert.Equal(t, []string{"Alpha", "Beta"}, names)
}

func TestTaskEfficiency_Empty(t *testing.T) {
	got := TaskEfficiency(nil, nil, nil)
	assert.Empty(t, got.ByPriority)
	assert.Empty(t, got.ByProject)
	assert.Zero(t, got.Completed)
	assert.Zero(t, got.AvgCycleDays)
	assert.Zero(t, got.AvgMinutes)
}
