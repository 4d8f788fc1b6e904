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

// TaskDraft carries the fields for CreateTask. Zero values fall back to
// defaults: status backlog, priority medium.
type TaskDraft struct {
	ProjectID   string
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
	Subcategory string
	TrackerKey  string
	StoryPoints int
}

// TaskUpdate carries optional field changes for UpdateTask. Nil fields
// are left untouched; ClearDueDate removes the due date.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Priority     *models.TaskPriority
	DueDate      *time.Time
	ClearDueDate bool
	Subcategory  *string
	TrackerKey   *string
	StoryPoints  *int
}

// CreateTask adds a task to the board. The owning project must exist and
// the title must be non-empty; otherwise the mutation is logged and
// aborted.
func (b *Board) CreateTask(ctx context.Context, draft TaskDraft) *models.Task {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		b.log.Warn("create task: empty title")
		return nil
	}
	if b.Project(draft.ProjectID) == nil {
		b.log.Warn("create task: project not found", zap.String("project_id", draft.ProjectID))
		return nil
	}
	if draft.Status == "" {
		draft.Status = models.StatusBacklog
	}
	if !models.ValidStatus(draft.Status) {
		b.log.Warn("create task: unknown status", zap.String("status", string(draft.Status)))
		return nil
	}
	if draft.Priority == "" {
		draft.Priority = models.PriorityMedium
	}
	if !models.ValidPriority(draft.Priority) {
		b.log.Warn("create task: unknown priority", zap.String("priority", string(draft.Priority)))
		return nil
	}
	if draft.StoryPoints < 0 {
		b.log.Warn("create task: negative story points", zap.Int("points", draft.StoryPoints))
		return nil
	}

	now := time.Now().UTC()
	t := &models.Task{
		ID:          newULID(),
		ProjectID:   draft.ProjectID,
		Title:       title,
		Description: draft.Description,
		Status:      draft.Status,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
		Subcategory: draft.Subcategory,
		TrackerKey:  draft.TrackerKey,
		StoryPoints: draft.StoryPoints,
		BlockedBy:   []string{},
		Blocking:    []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	// A task created straight into done completes immediately.
	if t.Status == models.StatusDone {
		done := now
		t.CompletedAt = &done
	}

	b.doc.Tasks = append(b.doc.Tasks, t)
	b.appendActivity(t.ID, models.ActivityCreated, fmt.Sprintf("Task %q created", title), nil)
	b.persist(ctx)
	return t
}

// UpdateTask applies field changes, writing one history record per
// tracked field that actually changed plus a single updated activity.
func (b *Board) UpdateTask(ctx context.Context, id string, upd TaskUpdate) *models.Task {
	t := b.Task(id)
	if t == nil {
		b.log.Warn("update task: not found", zap.String("task_id", id))
		return nil
	}

	var changed []string

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			b.log.Warn("update task: empty title", zap.String("task_id", id))
			return nil
		}
		if title != t.Title {
			b.appendHistory(id, "title", t.Title, title)
			t.Title = title
			changed = append(changed, "title")
		}
	}
	if upd.Description != nil && *upd.Description != t.Description {
		b.appendHistory(id, "description", t.Description, *upd.Description)
		t.Description = *upd.Description
		changed = append(changed, "description")
	}
	if upd.Priority != nil {
		if !models.ValidPriority(*upd.Priority) {
			b.log.Warn("update task: unknown priority", zap.String("priority", string(*upd.Priority)))
			return nil
		}
		if *upd.Priority != t.Priority {
			b.appendHistory(id, "priority", string(t.Priority), string(*upd.Priority))
			t.Priority = *upd.Priority
			changed = append(changed, "priority")
		}
	}
	if upd.ClearDueDate {
		if t.DueDate != nil {
			b.appendHistory(id, "dueDate", timeString(t.DueDate), "")
			t.DueDate = nil
			changed = append(changed, "dueDate")
		}
	} else if upd.DueDate != nil {
		if t.DueDate == nil || !t.DueDate.Equal(*upd.DueDate) {
			b.appendHistory(id, "dueDate", timeString(t.DueDate), timeString(upd.DueDate))
			due := *upd.DueDate
			t.DueDate = &due
			changed = append(changed, "dueDate")
		}
	}
	if upd.Subcategory != nil && *upd.Subcategory != t.Subcategory {
		b.appendHistory(id, "subcategory", t.Subcategory, *upd.Subcategory)
		t.Subcategory = *upd.Subcategory
		changed = append(changed, "subcategory")
	}
	if upd.TrackerKey != nil && *upd.TrackerKey != t.TrackerKey {
		b.appendHistory(id, "trackerKey", t.TrackerKey, *upd.TrackerKey)
		t.TrackerKey = *upd.TrackerKey
		changed = append(changed, "trackerKey")
	}
	if upd.StoryPoints != nil {
		if *upd.StoryPoints < 0 {
			b.log.Warn("update task: negative story points", zap.Int("points", *upd.StoryPoints))
			return nil
		}
		if *upd.StoryPoints != t.StoryPoints {
			b.appendHistory(id, "storyPoints", strconv.Itoa(t.StoryPoints), strconv.Itoa(*upd.StoryPoints))
			t.StoryPoints = *upd.StoryPoints
			changed = append(changed, "storyPoints")
		}
	}

	if len(changed) == 0 {
		return t
	}

	t.UpdatedAt = time.Now().UTC()
	b.appendActivity(id, models.ActivityUpdated,
		fmt.Sprintf("Task updated (%s)", strings.Join(changed, ", ")),
		map[string]string{"fields": strings.Join(changed, ",")})
	b.persist(ctx)
	return t
}

// MoveTask moves a task to another pipeline column. Entering done stamps
// CompletedAt; leaving done clears it again.
func (b *Board) MoveTask(ctx context.Context, id string, status models.TaskStatus) *models.Task {
	t := b.Task(id)
	if t == nil {
		b.log.Warn("move task: not found", zap.String("task_id", id))
		return nil
	}
	if !models.ValidStatus(status) {
		b.log.Warn("move task: unknown status", zap.String("status", string(status)))
		return nil
	}
	if status == t.Status {
		return t
	}

	now := time.Now().UTC()
	from := t.Status
	b.appendHistory(id, "status", string(from), string(status))
	t.Status = status
	t.UpdatedAt = now

	switch {
	case status == models.StatusDone:
		done := now
		t.CompletedAt = &done
	case from == models.StatusDone:
		t.CompletedAt = nil
	}

	b.appendActivity(id, models.ActivityStatusChanged,
		fmt.Sprintf("Status changed from %s to %s", from, status),
		map[string]string{"from": string(from), "to": string(status)})
	b.persist(ctx)
	return t
}

// ArchiveTask hides a task from the active board.
func (b *Board) ArchiveTask(ctx context.Context, id string) *models.Task {
	t := b.Task(id)
	if t == nil {
		b.log.Warn("archive task: not found", zap.String("task_id", id))
		return nil
	}
	if t.IsArchived {
		return t
	}

	now := time.Now().UTC()
	t.IsArchived = true
	t.ArchivedAt = &now
	t.UpdatedAt = now
	b.appendActivity(id, models.ActivityArchived, "Task archived", nil)
	b.persist(ctx)
	return t
}

// UnarchiveTask returns an archived task to the active board.
func (b *Board) UnarchiveTask(ctx context.Context, id string) *models.Task {
	t := b.Task(id)
	if t == nil {
		b.log.Warn("unarchive task: not found", zap.String("task_id", id))
		return nil
	}
	if !t.IsArchived {
		return t
	}

	t.IsArchived = false
	t.ArchivedAt = nil
	t.UpdatedAt = time.Now().UTC()
	b.appendActivity(id, models.ActivityArchived, "Task restored from archive", nil)
	b.persist(ctx)
	return t
}

// AddBlocker records that task id is blocked by blockerID, updating both
// directions of the dependency relation in one step.
func (b *Board) AddBlocker(ctx context.Context, id, blockerID string) bool {
	t := b.Task(id)
	blocker := b.Task(blockerID)
	switch {
	case t == nil:
		b.log.Warn("add blocker: task not found", zap.String("task_id", id))
		return false
	case blocker == nil:
		b.log.Warn("add blocker: blocker not found", zap.String("task_id", blockerID))
		return false
	case id == blockerID:
		b.log.Warn("add blocker: task cannot block itself", zap.String("task_id", id))
		return false
	case contains(t.BlockedBy, blockerID):
		return true // already recorded; edges stay consistent
	}

	t.BlockedBy = append(t.BlockedBy, blockerID)
	blocker.Blocking = append(blocker.Blocking, id)
	b.appendActivity(id, models.ActivityUpdated,
		fmt.Sprintf("Blocked by %q", blocker.Title),
		map[string]string{"blockedBy": blockerID})
	b.persist(ctx)
	return true
}

// RemoveBlocker removes the dependency edge between id and blockerID,
// again touching both sides together.
func (b *Board) RemoveBlocker(ctx context.Context, id, blockerID string) bool {
	t := b.Task(id)
	blocker := b.Task(blockerID)
	if t == nil || blocker == nil {
		b.log.Warn("remove blocker: task not found",
			zap.String("task_id", id), zap.String("blocker_id", blockerID))
		return false
	}
	if !contains(t.BlockedBy, blockerID) {
		b.log.Warn("remove blocker: no such edge",
			zap.String("task_id", id), zap.String("blocker_id", blockerID))
		return false
	}

	t.BlockedBy = remove(t.BlockedBy, blockerID)
	blocker.Blocking = remove(blocker.Blocking, id)
	b.appendActivity(id, models.ActivityUpdated,
		fmt.Sprintf("No longer blocked by %q", blocker.Title),
		map[string]string{"unblockedFrom": blockerID})
	b.persist(ctx)
	return true
}

// DeleteTask removes a task along with its time entries, activities,
// comments, attachments, history, and any dependency edges pointing at
// it from either side.
func (b *Board) DeleteTask(ctx context.Context, id string) bool {
	if b.Task(id) == nil {
		b.log.Warn("delete task: not found", zap.String("task_id", id))
		return false
	}
	b.removeTask(id)
	b.persist(ctx)
	return true
}

// removeTask performs the cascade without persisting; DeleteProject and
// DeleteTask both funnel through it.
func (b *Board) removeTask(id string) {
	tasks := b.doc.Tasks[:0]
	for _, t := range b.doc.Tasks {
		if t.ID == id {
			continue
		}
		t.BlockedBy = remove(t.BlockedBy, id)
		t.Blocking = remove(t.Blocking, id)
		tasks = append(tasks, t)
	}
	b.doc.Tasks = tasks

	entries := b.doc.TimeEntries[:0]
	for _, e := range b.doc.TimeEntries {
		if e.TaskID != id {
			entries = append(entries, e)
		}
	}
	b.doc.TimeEntries = entries

	acts := b.doc.Activities[:0]
	for _, a := range b.doc.Activities {
		if a.TaskID != id {
			acts = append(acts, a)
		}
	}
	b.doc.Activities = acts

	comments := b.doc.Comments[:0]
	for _, c := range b.doc.Comments {
		if c.TaskID != id {
			comments = append(comments, c)
		}
	}
	b.doc.Comments = comments

	atts := b.doc.Attachments[:0]
	for _, a := range b.doc.Attachments {
		if a.TaskID != id {
			atts = append(atts, a)
		}
	}
	b.doc.Attachments = atts

	history := b.doc.History[:0]
	for _, h := range b.doc.History {
		if h.TaskID != id {
			history = append(history, h)
		}
	}
	b.doc.History = history
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func remove(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func timeString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
