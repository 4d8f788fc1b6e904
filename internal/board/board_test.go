package board

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempoboard/tempo/internal/models"
	"github.com/tempoboard/tempo/internal/storage"
)

func newTestBoard(t *testing.T) *Board {
	t.Helper()
	return New(storage.NewDocument(), nil, nil)
}

func TestCreateProject(t *testing.T) {
	b := newTestBoard(t)
	ctx := context.Background()

	p := b.CreateProject(ctx, "Test Project", models.ColorBlue, "TP")
	require.NotNil(t, p)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Test Project", p.Name)
	assert.Equal(t, models.ColorBlue, p.Color)
	assert.False(t, p.CreatedAt.IsZero())
	assert.NotNil(t, p.Subcategories)

	// Empty name rejected
	assert.Nil(t, b.CreateProject(ctx, "   ", models.ColorGreen, ""))

	// Case-insensitive duplicate rejected
	assert.Nil(t, b.CreateProject(ctx, "test project", models.ColorGreen, ""))

	// Unknown color rejected, empty color defaults to blue
	assert.Nil(t, b.CreateProject(ctx, "Other", "magenta", ""))
	p2 := b.CreateProject(ctx, "Other", "", "")
	require.NotNil(t, p2)
	assert.Equal(t, models.ColorBlue, p2.Color)

	assert.Len(t, b.Projects(), 2)
}

func TestUpdateProject(t *testing.T) {
	b := newTestBoard(t)
	ctx := context.Background()

	p := b.CreateProject(ctx, "One", models.ColorBlue, "")
	other := b.CreateProject(ctx, "Two", models.ColorGreen, "")
	require.NotNil(t, p)
	require.NotNil(t, other)

	name := "Renamed"
	color := models.ColorPink
	got := b.UpdateProject(ctx, p.ID, ProjectUpdate{Name: &name, Color: &color})
	require.NotNil(t, got)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, models.ColorPink, got.Color)

	// Renaming onto another project's name is rejected
	taken := "two"
	assert.Nil(t, b.UpdateProject(ctx, p.ID, ProjectUpdate{Name: &taken}))
	assert.Equal(t, "Renamed", b.Project(p.ID).Name)

	// Unknown project
	assert.Nil(t, b.UpdateProject(ctx, "nope", ProjectUpdate{Name: &name}))
}

func TestSubcategories(t *testing.T) {
	b := newTestBoard(t)
	ctx := context.Background()

	p := b.CreateProject(ctx, "Proj", models.ColorBlue, "")
	require.NotNil(t, p)

	assert.True(t, b.AddSubcategory(ctx, p.ID, "backend"))
	assert.True(t, b.AddSubcategory(ctx, p.ID, "frontend"))

	// Case-insensitive uniqueness
	assert.False(t, b.AddSubcategory(ctx, p.ID, "Backend"))
	assert.Len(t, p.Subcategories, 2)

	assert.True(t, b.RemoveSubcategory(ctx, p.ID, "BACKEND"))
	assert.Equal(t, []string{"frontend"}, p.Subcategories)

	assert.False(t, b.RemoveSubcategory(ctx, p.ID, "missing"))
}

func TestDeleteProject_Cascades(t *testing.T) {
	b := newTestBoard(t)
	ctx := context.Background()

	p := b.CreateProject(ctx, "Doomed", models.ColorBlue, "")
	keep := b.CreateProject(ctx, "Kept", models.ColorGreen, "")

	doomedTask := b.CreateTask(ctx, TaskDraft{ProjectID: p.ID, Title: "doomed"})
	keptTask := b.CreateTask(ctx, TaskDraft{ProjectID: keep.ID, Title: "kept"})
	require.NotNil(t, doomedTask)
	require.NotNil(t, keptTask)

	// Cross-project dependency edge must be detached on cascade
	require.True(t, b.AddBlocker(ctx, keptTask.ID, doomedTask.ID))

	require.NotNil(t, b.LogTime(ctx, EntryDraft{TaskID: doomedTask.ID, Hours: 1}))
	require.NotNil(t, b.AddComment(ctx, doomedTask.ID, "bye"))

	require.True(t, b.DeleteProject(ctx, p.ID))

	assert.Nil(t, b.Project(p.ID))
	assert.Nil(t, b.Task(doomedTask.ID))
	assert.Empty(t, b.EntriesForTask(doomedTask.ID))
	assert.Empty(t, b.ActivitiesForTask(doomedTask.ID))
	assert.Empty(t, b.CommentsForTask(doomedTask.ID))

	// The surviving task keeps living, minus the dangling edge
	survivor := b.Task(keptTask.ID)
	require.NotNil(t, survivor)
	assert.Empty(t, survivor.BlockedBy)

	assert.False(t, b.DeleteProject(ctx, p.ID), "second delete is a no-op")
}

func TestDeleteProject_ClearsUIReferences(t *testing.T) {
	b := newTestBoard(t)
	ctx := context.Background()

	p := b.CreateProject(ctx, "Current", models.ColorBlue, "")
	b.SelectProject(ctx, p.ID)
	f := b.Filters()
	f.ProjectID = p.ID
	b.SetFilters(ctx, f)

	require.True(t, b.DeleteProject(ctx, p.ID))
	assert.Empty(t, b.SelectedProjectID())
	assert.Empty(t, b.Filters().ProjectID)
}

func TestSetFilters_NormalizesUnknownValues(t *testing.T) {
	b := newTestBoard(t)
	ctx := context.Background()

	b.SetFilters(ctx, models.BoardFilters{
		Search:    "auth",
		Priority:  "urgent",
		DateRange: "fortnight",
	})

	f := b.Filters()
	assert.Equal(t, "auth", f.Search)
	assert.Equal(t, models.PriorityAll, f.Priority)
	assert.Equal(t, models.RangeAll, f.DateRange)

	// Custom range without bounds falls back to all
	b.SetFilters(ctx, models.BoardFilters{Priority: models.PriorityAll, DateRange: models.RangeCustom})
	assert.Equal(t, models.RangeAll, b.Filters().DateRange)
}

// failingSaver always fails, standing in for a full/broken disk.
type failingSaver struct{ calls int }

func (f *failingSaver) Save(ctx context.Context, doc *storage.Document) error {
	f.calls++
	return errors.New("disk full")
}

func TestPersistFailure_KeepsInMemoryState(t *testing.T) {
	saver := &failingSaver{}
	b := New(storage.NewDocument(), saver, nil)
	ctx := context.Background()

	p := b.CreateProject(ctx, "Survives", models.ColorBlue, "")
	require.NotNil(t, p, "mutation succeeds even when persistence fails")
	assert.NotNil(t, b.Project(p.ID))
	assert.Positive(t, saver.calls)
}
