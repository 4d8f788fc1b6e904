package board

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempoboard/tempo/internal/models"
)

func TestLogTime(t *testing.T) {
	b := newTestBoard(t)
	ctx := context.Background()
	p := seedProject(t, b)
	task := b.CreateTask(ctx, TaskDraft{ProjectID: p.ID, Title: "work"})

	date := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	e := b.LogTime(ctx, EntryDraft{
		TaskID:  task.ID,
		Hours:   1,
		Minutes: 30,
		Date:    date,
		Notes:   "refactor",
	})
	require.NotNil(t, e)
	assert.Equal(t, 90, e.Duration())
	assert.Equal(t, models.CategoryDevelopment, e.Category, "category defaults to development")
	assert.True(t, e.Date.Equal(date))

	// time_logged activity with the duration in metadata
	acts := b.ActivitiesForTask(task.ID)
	last := acts[len(acts)-1]
	assert.Equal(t, models.ActivityTimeLogged, last.Type)
	assert.Equal(t, "90", last.Metadata["minutes"])

	// Zero date defaults to now
	e2 := b.LogTime(ctx, EntryDraft{TaskID: task.ID, Minutes: 15, Category: models.CategoryMeeting})
	require.NotNil(t, e2)
	assert.WithinDuration(t, time.Now().UTC(), e2.Date, 5*time.Second)
}

func TestLogTime_Rejections(t *testing.T) {
	b := newTestBoard(t)
	ctx := context.Background()
	p := seedProject(t, b)
	task := b.CreateTask(ctx, TaskDraft{ProjectID: p.ID, Title: "work"})

	assert.Nil(t, b.LogTime(ctx, EntryDraft{TaskID: "ghost", Hours: 1}))
	assert.Nil(t, b.LogTime(ctx, EntryDraft{TaskID: task.ID, Hours: -1}))
	assert.Nil(t, b.LogTime(ctx, EntryDraft{TaskID: task.ID, Hours: 1, Minutes: 60}))
	assert.Nil(t, b.LogTime(ctx, EntryDraft{TaskID: task.ID, Hours: 1, Minutes: -5}))
	assert.Nil(t, b.LogTime(ctx, EntryDraft{TaskID: task.ID}), "zero duration")
	assert.Nil(t, b.LogTime(ctx, EntryDraft{TaskID: task.ID, Hours: 1, Category: "gaming"}))

	assert.Empty(t, b.TimeEntries())
}

func TestDeleteTimeEntry(t *testing.T) {
	b := newTestBoard(t)
	ctx := context.Background()
	p := seedProject(t, b)
	task := b.CreateTask(ctx, TaskDraft{ProjectID: p.ID, Title: "work"})

	e := b.LogTime(ctx, EntryDraft{TaskID: task.ID, Hours: 1})
	require.NotNil(t, e)

	assert.True(t, b.DeleteTimeEntry(ctx, e.ID))
	assert.Empty(t, b.TimeEntries())
	assert.False(t, b.DeleteTimeEntry(ctx, e.ID))
}

func TestAddComment(t *testing.T) {
	b := newTestBoard(t)
	ctx := context.Background()
	p := seedProject(t, b)
	task := b.CreateTask(ctx, TaskDraft{ProjectID: p.ID, Title: "work"})

	c := b.AddComment(ctx, task.ID, "looks good")
	require.NotNil(t, c)
	assert.Equal(t, "looks good", c.Body)

	acts := b.ActivitiesForTask(task.ID)
	assert.Equal(t, models.ActivityCommentAdded, acts[len(acts)-1].Type)

	assert.Nil(t, b.AddComment(ctx, task.ID, "   "))
	assert.Nil(t, b.AddComment(ctx, "ghost", "hello"))
	assert.Len(t, b.CommentsForTask(task.ID), 1)
}

func TestAddAttachment(t *testing.T) {
	b := newTestBoard(t)
	ctx := context.Background()
	p := seedProject(t, b)
	task := b.CreateTask(ctx, TaskDraft{ProjectID: p.ID, Title: "work"})

	a := b.AddAttachment(ctx, task.ID, "design.png", 2048, "image/png")
	require.NotNil(t, a)
	assert.Equal(t, int64(2048), a.Size)

	acts := b.ActivitiesForTask(task.ID)
	assert.Equal(t, models.ActivityAttachmentAdded, acts[len(acts)-1].Type)

	assert.Nil(t, b.AddAttachment(ctx, task.ID, "", 10, ""))
	assert.Nil(t, b.AddAttachment(ctx, task.ID, "neg.bin", -1, ""))
	assert.Nil(t, b.AddAttachment(ctx, "ghost", "x.txt", 1, ""))
}
