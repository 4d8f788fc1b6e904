// Package board holds the in-memory board state and its mutation command
// handlers. The board is single-owner and synchronous: every mutation is
// immediately visible to subsequent reads, and the whole document is
// persisted after each successful mutation.
//
// Mutations validate their inputs and, on failure, log a warning and
// abort without returning an error; callers observe a rejection only
// through the returned nil or the unchanged state. A persistence failure
// is logged and otherwise ignored; the in-memory state stays
// authoritative even when the durable copy falls behind.
package board

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/tempoboard/tempo/internal/models"
	"github.com/tempoboard/tempo/internal/storage"
)

// Saver persists the board document. *storage.SQLiteStore implements it.
type Saver interface {
	Save(ctx context.Context, doc *storage.Document) error
}

// Board owns the entity collections and applies all mutations.
type Board struct {
	doc   *storage.Document
	saver Saver
	log   *zap.Logger
}

// New wraps a loaded document. A nil saver keeps the board memory-only;
// a nil logger discards engine logs.
func New(doc *storage.Document, saver Saver, log *zap.Logger) *Board {
	if doc == nil {
		doc = storage.NewDocument()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Board{doc: doc, saver: saver, log: log}
}

// newULID generates a new ULID string.
func newULID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

// persist writes the document through the saver. Failures are logged and
// swallowed: the in-memory mutation has already happened and stands.
func (b *Board) persist(ctx context.Context) {
	if b.saver == nil {
		return
	}
	if err := b.saver.Save(ctx, b.doc); err != nil {
		b.log.Error("persist board document", zap.Error(err))
	}
}

// --- Read access ---

// Projects returns all projects.
func (b *Board) Projects() []*models.Project { return b.doc.Projects }

// Tasks returns all tasks, archived included.
func (b *Board) Tasks() []*models.Task { return b.doc.Tasks }

// TimeEntries returns all time entries.
func (b *Board) TimeEntries() []*models.TimeEntry { return b.doc.TimeEntries }

// History returns all per-field change records.
func (b *Board) History() []*models.TaskHistory { return b.doc.History }

// Filters returns the persisted board filter configuration.
func (b *Board) Filters() models.BoardFilters { return b.doc.Filters }

// SelectedProjectID returns the current project context, if any.
func (b *Board) SelectedProjectID() string { return b.doc.SelectedProjectID }

// Project finds a project by ID.
func (b *Board) Project(id string) *models.Project {
	for _, p := range b.doc.Projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ProjectByName finds a project by case-insensitive name match.
func (b *Board) ProjectByName(name string) *models.Project {
	for _, p := range b.doc.Projects {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// Task finds a task by ID.
func (b *Board) Task(id string) *models.Task {
	for _, t := range b.doc.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// TimeEntry finds a time entry by ID.
func (b *Board) TimeEntry(id string) *models.TimeEntry {
	for _, e := range b.doc.TimeEntries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// EntriesForTask returns the time entries logged against one task.
func (b *Board) EntriesForTask(taskID string) []*models.TimeEntry {
	var entries []*models.TimeEntry
	for _, e := range b.doc.TimeEntries {
		if e.TaskID == taskID {
			entries = append(entries, e)
		}
	}
	return entries
}

// ActivitiesForTask returns the activity log for one task, oldest first.
func (b *Board) ActivitiesForTask(taskID string) []*models.Activity {
	var acts []*models.Activity
	for _, a := range b.doc.Activities {
		if a.TaskID == taskID {
			acts = append(acts, a)
		}
	}
	return acts
}

// CommentsForTask returns the comments on one task, oldest first.
func (b *Board) CommentsForTask(taskID string) []*models.Comment {
	var comments []*models.Comment
	for _, c := range b.doc.Comments {
		if c.TaskID == taskID {
			comments = append(comments, c)
		}
	}
	return comments
}

// AttachmentsForTask returns the attachments on one task.
func (b *Board) AttachmentsForTask(taskID string) []*models.Attachment {
	var atts []*models.Attachment
	for _, a := range b.doc.Attachments {
		if a.TaskID == taskID {
			atts = append(atts, a)
		}
	}
	return atts
}

// HistoryForTask returns the change records for one task, oldest first.
func (b *Board) HistoryForTask(taskID string) []*models.TaskHistory {
	var recs []*models.TaskHistory
	for _, h := range b.doc.History {
		if h.TaskID == taskID {
			recs = append(recs, h)
		}
	}
	return recs
}

// --- Shared append helpers ---

func (b *Board) appendActivity(taskID string, typ models.ActivityType, desc string, meta map[string]string) {
	b.doc.Activities = append(b.doc.Activities, &models.Activity{
		ID:          newULID(),
		TaskID:      taskID,
		Type:        typ,
		Description: desc,
		Metadata:    meta,
		CreatedAt:   time.Now().UTC(),
	})
}

func (b *Board) appendHistory(taskID, field, oldVal, newVal string) {
	b.doc.History = append(b.doc.History, &models.TaskHistory{
		ID:        newULID(),
		TaskID:    taskID,
		Field:     field,
		OldValue:  oldVal,
		NewValue:  newVal,
		ChangedAt: time.Now().UTC(),
	})
}

// --- Board UI state ---

// SelectProject sets the current project context. An empty id clears it.
func (b *Board) SelectProject(ctx context.Context, id string) {
	if id != "" && b.Project(id) == nil {
		b.log.Warn("select project: unknown project", zap.String("project_id", id))
		return
	}
	b.doc.SelectedProjectID = id
	b.persist(ctx)
}

// SetFilters replaces the persisted board filters. Unknown priority or
// date-range values are normalized to their wildcard defaults.
func (b *Board) SetFilters(ctx context.Context, f models.BoardFilters) {
	if f.Priority != models.PriorityAll && !models.ValidPriority(models.TaskPriority(f.Priority)) {
		b.log.Warn("set filters: unknown priority, using wildcard", zap.String("priority", f.Priority))
		f.Priority = models.PriorityAll
	}
	if !models.ValidRange(f.DateRange) {
		b.log.Warn("set filters: unknown date range, using all", zap.String("range", string(f.DateRange)))
		f.DateRange = models.RangeAll
	}
	if f.DateRange == models.RangeCustom && (f.CustomStart == nil || f.CustomEnd == nil) {
		b.log.Warn("set filters: custom range without bounds, using all")
		f.DateRange = models.RangeAll
	}
	b.doc.Filters = f
	b.persist(ctx)
}
