package filter

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempoboard/tempo/internal/models"
)

var now = time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC) // Wednesday

func task(id string, mutate ...func(*models.Task)) *models.Task {
	t := &models.Task{
		ID:        id,
		ProjectID: "p1",
		Title:     "Task " + id,
		Status:    models.StatusTodo,
		Priority:  models.PriorityMedium,
		CreatedAt: now.Add(-time.Hour),
		UpdatedAt: now.Add(-time.Hour),
	}
	for _, m := range mutate {
		m(t)
	}
	return t
}

func archived(t *models.Task) {
	t.IsArchived = true
	at := t.UpdatedAt
	t.ArchivedAt = &at
}

func noFilters() models.BoardFilters { return models.DefaultFilters() }

func TestArchiveToggle_PartitionsTasks(t *testing.T) {
	tasks := []*models.Task{
		task("a"),
		task("b", archived),
		task("c"),
		task("d", archived),
	}

	active := TasksAt(tasks, noFilters(), "", now)
	f := noFilters()
	f.ShowArchived = true
	arch := TasksAt(tasks, f, "", now)

	for _, got := range active {
		assert.False(t, got.IsArchived)
	}
	for _, got := range arch {
		assert.True(t, got.IsArchived)
	}
	// Exclusive toggle: the two views partition the set exactly
	assert.Equal(t, len(tasks), len(active)+len(arch))

	seen := map[string]bool{}
	for _, got := range append(active, arch...) {
		assert.False(t, seen[got.ID], "task %s appears in both views", got.ID)
		seen[got.ID] = true
	}
}

func TestProjectFallback(t *testing.T) {
	tasks := []*models.Task{
		task("a"),
		task("b", func(x *models.Task) { x.ProjectID = "p2" }),
	}

	// No explicit project filter: the selected project context narrows
	got := TasksAt(tasks, noFilters(), "p2", now)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	// Explicit filter wins over the context
	f := noFilters()
	f.ProjectID = "p1"
	got = TasksAt(tasks, f, "p2", now)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestProjectContext_IgnoredInArchiveView(t *testing.T) {
	tasks := []*models.Task{
		task("a", archived),
		task("b", archived, func(x *models.Task) { x.ProjectID = "p2" }),
	}

	// Archive view ignores the selected-project context...
	f := noFilters()
	f.ShowArchived = true
	got := TasksAt(tasks, f, "p2", now)
	assert.Len(t, got, 2)

	// ...but still honors an explicit project filter
	f.ProjectID = "p2"
	got = TasksAt(tasks, f, "p1", now)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestSearch(t *testing.T) {
	tasks := []*models.Task{
		task("a", func(x *models.Task) { x.Title = "Fix login redirect" }),
		task("b", func(x *models.Task) { x.Description = "the LOGIN page hangs" }),
		task("c", func(x *models.Task) { x.TrackerKey = "LOGIN-42" }),
		task("d", func(x *models.Task) { x.Title = "Unrelated" }),
	}

	f := noFilters()
	f.Search = "login"
	got := TasksAt(tasks, f, "", now)
	require.Len(t, got, 3, "any of title/description/tracker key matches")

	f.Search = "nothing-matches"
	assert.Empty(t, TasksAt(tasks, f, "", now))
}

func TestPriorityFilter(t *testing.T) {
	tasks := []*models.Task{
		task("a", func(x *models.Task) { x.Priority = models.PriorityHigh }),
		task("b"),
		task("c", func(x *models.Task) { x.Priority = models.PriorityLow }),
	}

	f := noFilters()
	f.Priority = "high"
	got := TasksAt(tasks, f, "", now)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	// Wildcard passes everything
	f.Priority = models.PriorityAll
	assert.Len(t, TasksAt(tasks, f, "", now), 3)
}

func TestDateRangeBuckets(t *testing.T) {
	mkTask := func(id string, created time.Time) *models.Task {
		return task(id, func(x *models.Task) { x.CreatedAt = created })
	}
	tasks := []*models.Task{
		mkTask("today", now.Add(-2*time.Hour)),
		mkTask("thisweek", now.AddDate(0, 0, -5)),
		mkTask("thismonth", now.AddDate(0, 0, -20)),
		mkTask("thisquarter", now.AddDate(0, -2, 0)),
		mkTask("ancient", now.AddDate(-1, 0, 0)),
	}

	tests := []struct {
		bucket models.DateRange
		want   int
	}{
		{models.RangeToday, 1},
		{models.RangeWeek, 2},
		{models.RangeMonth, 3},
		{models.RangeQuarter, 4},
		{models.RangeAll, 5},
	}
	for _, tt := range tests {
		t.Run(string(tt.bucket), func(t *testing.T) {
			f := noFilters()
			f.DateRange = tt.bucket
			assert.Len(t, TasksAt(tasks, f, "", now), tt.want)
		})
	}
}

func TestCustomRange_Inclusive(t *testing.T) {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	tasks := []*models.Task{
		task("before", func(x *models.Task) { x.CreatedAt = start.Add(-time.Second) }),
		task("onstart", func(x *models.Task) { x.CreatedAt = start }),
		task("inside", func(x *models.Task) { x.CreatedAt = start.AddDate(0, 0, 2) }),
		task("onend", func(x *models.Task) { x.CreatedAt = end }),
		task("after", func(x *models.Task) { x.CreatedAt = end.Add(time.Second) }),
	}

	f := noFilters()
	f.DateRange = models.RangeCustom
	f.CustomStart = &start
	f.CustomEnd = &end

	got := TasksAt(tasks, f, "", now)
	require.Len(t, got, 3)
	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	assert.Equal(t, []string{"onstart", "inside", "onend"}, ids)
}

func TestPredicatesAreANDed(t *testing.T) {
	tasks := []*models.Task{
		task("match", func(x *models.Task) {
			x.Title = "auth fix"
			x.Priority = models.PriorityHigh
		}),
		task("wrongpriority", func(x *models.Task) { x.Title = "auth cleanup" }),
		task("wrongsearch", func(x *models.Task) { x.Priority = models.PriorityHigh }),
	}

	f := noFilters()
	f.Search = "auth"
	f.Priority = "high"
	got := TasksAt(tasks, f, "", now)
	require.Len(t, got, 1)
	assert.Equal(t, "match", got[0].ID)
}

func TestEmptyInput(t *testing.T) {
	assert.Empty(t, TasksAt(nil, noFilters(), "", now))
	assert.Empty(t, TasksAt([]*models.Task{}, noFilters(), "", now))
}

func BenchmarkTasksAt(b *testing.B) {
	tasks := make([]*models.Task, 0, 1000)
	for i := 0; i < 1000; i++ {
		tasks = append(tasks, task(fmt.Sprintf("t%d", i)))
	}
	f := noFilters()
	f.Search = "task"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		TasksAt(tasks, f, "", now)
	}
}
