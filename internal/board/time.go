package board

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tempoboard/tempo/internal/models"
)

// EntryDraft carries the fields for LogTime. A zero Date means now; an
// empty Category defaults to development.
type EntryDraft struct {
	TaskID   string
	Hours    int
	Minutes  int
	Date     time.Time
	Notes    string
	Category models.EntryCategory
}

// LogTime records a block of time against a task. Malformed durations
// (negative hours, minutes outside 0-59, zero total) are rejected.
func (b *Board) LogTime(ctx context.Context, draft EntryDraft) *models.TimeEntry {
	t := b.Task(draft.TaskID)
	if t == nil {
		b.log.Warn("log time: task not found", zap.String("task_id", draft.TaskID))
		return nil
	}
	if draft.Hours < 0 {
		b.log.Warn("log time: negative hours", zap.Int("hours", draft.Hours))
		return nil
	}
	if draft.Minutes < 0 || draft.Minutes > 59 {
		b.log.Warn("log time: minutes out of range", zap.Int("minutes", draft.Minutes))
		return nil
	}
	if draft.Hours == 0 && draft.Minutes == 0 {
		b.log.Warn("log time: zero duration", zap.String("task_id", draft.TaskID))
		return nil
	}
	if draft.Category == "" {
		draft.Category = models.CategoryDevelopment
	}
	if !models.ValidCategory(draft.Category) {
		b.log.Warn("log time: unknown category", zap.String("category", string(draft.Category)))
		return nil
	}

	now := time.Now().UTC()
	date := draft.Date
	if date.IsZero() {
		date = now
	}

	e := &models.TimeEntry{
		ID:        newULID(),
		TaskID:    draft.TaskID,
		Hours:     draft.Hours,
		Minutes:   draft.Minutes,
		Date:      date.UTC(),
		Notes:     draft.Notes,
		Category:  draft.Category,
		CreatedAt: now,
	}
	b.doc.TimeEntries = append(b.doc.TimeEntries, e)
	b.appendActivity(draft.TaskID, models.ActivityTimeLogged,
		fmt.Sprintf("Logged %dh %dm (%s)", draft.Hours, draft.Minutes, draft.Category),
		map[string]string{"minutes": strconv.Itoa(e.Duration()), "category": string(draft.Category)})
	b.persist(ctx)
	return e
}

// DeleteTimeEntry removes a single time entry.
func (b *Board) DeleteTimeEntry(ctx context.Context, id string) bool {
	for i, e := range b.doc.TimeEntries {
		if e.ID == id {
			b.doc.TimeEntries = append(b.doc.TimeEntries[:i], b.doc.TimeEntries[i+1:]...)
			b.persist(ctx)
			return true
		}
	}
	b.log.Warn("delete time entry: not found", zap.String("entry_id", id))
	return false
}

// AddComment attaches a free-text comment to a task.
func (b *Board) AddComment(ctx context.Context, taskID, body string) *models.Comment {
	if b.Task(taskID) == nil {
		b.log.Warn("add comment: task not found", zap.String("task_id", taskID))
		return nil
	}
	body = strings.TrimSpace(body)
	if body == "" {
		b.log.Warn("add comment: empty body", zap.String("task_id", taskID))
		return nil
	}

	c := &models.Comment{
		ID:        newULID(),
		TaskID:    taskID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	b.doc.Comments = append(b.doc.Comments, c)
	b.appendActivity(taskID, models.ActivityCommentAdded, "Comment added", nil)
	b.persist(ctx)
	return c
}

// AddAttachment records a file reference on a task.
func (b *Board) AddAttachment(ctx context.Context, taskID, name string, size int64, mimeType string) *models.Attachment {
	if b.Task(taskID) == nil {
		b.log.Warn("add attachment: task not found", zap.String("task_id", taskID))
		return nil
	}
	if strings.TrimSpace(name) == "" {
		b.log.Warn("add attachment: empty name", zap.String("task_id", taskID))
		return nil
	}
	if size < 0 {
		b.log.Warn("add attachment: negative size", zap.Int64("size", size))
		return nil
	}

	a := &models.Attachment{
		ID:        newULID(),
		TaskID:    taskID,
		Name:      name,
		Size:      size,
		MimeType:  mimeType,
		CreatedAt: time.Now().UTC(),
	}
	b.doc.Attachments = append(b.doc.Attachments, a)
	b.appendActivity(taskID, models.ActivityAttachmentAdded,
		fmt.Sprintf("Attachment %q added", name), nil)
	b.persist(ctx)
	return a
}
