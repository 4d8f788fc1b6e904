package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempoboard/tempo/internal/models"
)

func entry(taskID string, date time.Time, hours, minutes int, cat models.EntryCategory) *models.TimeEntry {
	return &models.TimeEntry{
		ID:        taskID + date.Format("0102") + string(cat)[:1],
		TaskID:    taskID,
		Hours:     hours,
		Minutes:   minutes,
		Date:      date,
		Category:  cat,
		CreatedAt: date,
	}
}

var (
	jan12 = time.Date(2026, 1, 12, 10, 0, 0, 0, time.UTC)
	jan13 = time.Date(2026, 1, 13, 10, 0, 0, 0, time.UTC)
)

func TestTimeByCategory(t *testing.T) {
	entries := []*models.TimeEntry{
		entry("t1", jan12, 2, 0, models.CategoryDevelopment), // 120
		entry("t1", jan12, 0, 30, models.CategoryMeeting),    // 30
		entry("t2", jan13, 0, 30, models.CategoryDevelopment), // 30
	}

	got := TimeByCategory(entries, nil, nil)
	require.Len(t, got, 2, "zero-minute categories are dropped")

	assert.Equal(t, models.CategoryDevelopment, got[0].Category)
	assert.Equal(t, 150, got[0].Minutes)
	assert.Equal(t, 83, got[0].Percentage) // round(150/180*100)
	assert.Equal(t, models.CategoryMeeting, got[1].Category)
	assert.Equal(t, 30, got[1].Minutes)
	assert.Equal(t, 17, got[1].Percentage)
}

func TestTimeByCategory_Window(t *testing.T) {
	entries := []*models.TimeEntry{
		entry("t1", jan12, 1, 0, models.CategoryDevelopment),
		entry("t1", jan13, 2, 0, models.CategoryDevelopment),
	}

	start := time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC)
	got := TimeByCategory(entries, &start, nil)
	require.Len(t, got, 1)
	assert.Equal(t, 120, got[0].Minutes)
	assert.Equal(t, 100, got[0].Percentage)
}

func TestTimeByCategory_Empty(t *testing.T) {
	assert.Empty(t, TimeByCategory(nil, nil, nil))
	assert.Empty(t, TimeByCategory([]*models.TimeEntry{}, nil, nil))
}

func TestDeepWorkSessions(t *testing.T) {
	// 1h + 1h30m + 30m development on the same day and task = 180 min
	entries := []*models.TimeEntry{
		entry("t1", jan12, 1, 0, models.CategoryDevelopment),
		entry("t1", jan12.Add(2*time.Hour), 1, 30, models.CategoryDevelopment),
		entry("t1", jan12.Add(5*time.Hour), 0, 30, models.CategoryDevelopment),
	}

	got := DeepWorkSessions(entries, 2)
	require.Len(t, got, 1, "qualifies at 2h: 180 >= 120")
	assert.Equal(t, "t1", got[0].TaskID)
	assert.Equal(t, 180, got[0].Minutes)

	assert.Empty(t, DeepWorkSessions(entries, 4), "does not qualify at 4h: 180 < 240")
}

func TestDeepWorkSessions_NonDevelopmentNeverCounts(t *testing.T) {
	// 90 min development interleaved with 120 min of meetings on the
	// same day/task: only the development time is considered.
	entries := []*models.TimeEntry{
		entry("t1", jan12, 1, 0, models.CategoryDevelopment),
		entry("t1", jan12.Add(time.Hour), 2, 0, models.CategoryMeeting),
		entry("t1", jan12.Add(3*time.Hour), 0, 30, models.CategoryDevelopment),
	}

	assert.Empty(t, DeepWorkSessions(entries, 2), "90 dev minutes < 120")
	got := DeepWorkSessions(entries, 1.5)
	require.Len(t, got, 1)
	assert.Equal(t, 90, got[0].Minutes)
}

func TestDeepWorkSessions_BucketsByDayAndTask(t *testing.T) {
	entries := []*models.TimeEntry{
		entry("t1", jan12, 2, 0, models.CategoryDevelopment),
		entry("t2", jan12, 2, 0, models.CategoryDevelopment), // different task
		entry("t1", jan13, 2, 0, models.CategoryDevelopment), // different day
		entry("t2", jan13, 1, 0, models.CategoryDevelopment), // under threshold
	}

	got := DeepWorkSessions(entries, 2)
	require.Len(t, got, 3)
	// Sorted by day then task
	assert.Equal(t, "t1", got[0].TaskID)
	assert.Equal(t, "t2", got[1].TaskID)
	assert.Equal(t, "t1", got[2].TaskID)
	assert.True(t, got[2].Day.After(got[0].Day))
}

func TestTasksCompletedInRange(t *testing.T) {
	completed := func(id string, at time.Time) *models.Task {
		return &models.Task{ID: id, CreatedAt: at.AddDate(0, 0, -2), CompletedAt: &at}
	}
	start := time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 17, 23, 59, 59, 0, time.UTC)

	tasks := []*models.Task{
		completed("in", jan13),
		completed("onstart", start),
		completed("onend", end),
		completed("before", start.Add(-time.Second)),
		{ID: "never", CreatedAt: jan12}, // no completedAt: excluded unconditionally
	}

	got := TasksCompletedInRange(tasks, start, end)
	require.Len(t, got, 3)
	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	assert.ElementsMatch(t, []string{"in", "onstart", "onend"}, ids)
}

func TestTimeBreakdownByType_FixedKeys(t *testing.T) {
	start := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 13, 23, 59, 59, 0, time.UTC)

	entries := []*models.TimeEntry{
		entry("t1", jan12, 1, 0, models.CategoryDevelopment),
		entry("t1", jan13, 0, 45, models.CategoryCodeReview),
		entry("t1", jan13.AddDate(0, 0, 5), 3, 0, models.CategoryDevelopment), // outside window
	}

	got := TimeBreakdownByType(entries, start, end)
	require.Len(t, got, 6, "all six categories present, never partial")
	assert.Equal(t, 60, got[models.CategoryDevelopment])
	assert.Equal(t, 45, got[models.CategoryCodeReview])
	assert.Equal(t, 0, got[models.CategoryMeeting])
	assert.Equal(t, 0, got[models.CategoryPlanning])
	assert.Equal(t, 0, got[models.CategoryResearch])
	assert.Equal(t, 0, got[models.CategoryOther])

	empty := TimeBreakdownByType(nil, start, end)
	require.Len(t, empty, 6)
	for c, minutes := range empty {
		assert.Zero(t, minutes, "category %s", c)
	}
}

func TestProductivityTrend(t *testing.T) {
	start := time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC)

	entries := []*models.TimeEntry{
		entry("t1", jan12, 1, 0, models.CategoryDevelopment),
		entry("t1", jan12.Add(3*time.Hour), 0, 30, models.CategoryMeeting),
		entry("t1", jan13, 2, 0, models.CategoryDevelopment),
	}

	got := ProductivityTrend(entries, start, end)
	require.Len(t, got, 7, "one entry per day in the inclusive range")

	assert.Equal(t, 0, got[0].Minutes, "gap days zero-filled")
	assert.Equal(t, 90, got[1].Minutes) // Jan 12
	assert.Equal(t, 120, got[2].Minutes)
	assert.Equal(t, "Jan 11", got[0].Label)
	assert.Equal(t, "Jan 17", got[6].Label)
}

func TestProductivityTrend_EdgeRanges(t *testing.T) {
	day := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)

	got := ProductivityTrend(nil, day, day)
	require.Len(t, got, 1, "single-day range yields one point")
	assert.Equal(t, 0, got[0].Minutes)

	assert.Empty(t, ProductivityTrend(nil, day, day.AddDate(0, 0, -1)), "inverted range yields nothing")
}
