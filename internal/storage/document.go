package storage

import (
	"github.com/tempoboard/tempo/internal/models"
)

// SchemaVersion is the current board document schema. Documents written
// by older versions are upgraded in migrateDocument on load.
const SchemaVersion = 3

// Document is the complete board state as it is persisted: every entity
// collection plus the board's UI state, serialized as one JSON blob
// under a single key.
type Document struct {
	SchemaVersion     int                   `json:"schemaVersion"`
	Projects          []*models.Project     `json:"projects"`
	Tasks             []*models.Task        `json:"tasks"`
	TimeEntries       []*models.TimeEntry   `json:"timeEntries"`
	Activities        []*models.Activity    `json:"activities"`
	Comments          []*models.Comment     `json:"comments"`
	Attachments       []*models.Attachment  `json:"attachments"`
	History           []*models.TaskHistory `json:"history"`
	Filters           models.BoardFilters   `json:"boardFilters"`
	SelectedProjectID string                `json:"selectedProjectId,omitempty"`
}

// NewDocument returns an empty board document at the current schema.
func NewDocument() *Document {
	return &Document{
		SchemaVersion: SchemaVersion,
		Projects:      []*models.Project{},
		Tasks:         []*models.Task{},
		TimeEntries:   []*models.TimeEntry{},
		Activities:    []*models.Activity{},
		Comments:      []*models.Comment{},
		Attachments:   []*models.Attachment{},
		History:       []*models.TaskHistory{},
		Filters:       models.DefaultFilters(),
	}
}

// migrateDocument upgrades a document written by an older schema version
// in place, backfilling every field later versions expect. It is safe to
// run on current documents; backfills only fill what is missing.
func migrateDocument(doc *Document) {
	if doc.Projects == nil {
		doc.Projects = []*models.Project{}
	}
	if doc.Tasks == nil {
		doc.Tasks = []*models.Task{}
	}
	if doc.TimeEntries == nil {
		doc.TimeEntries = []*models.TimeEntry{}
	}
	if doc.Activities == nil {
		doc.Activities = []*models.Activity{}
	}
	if doc.Comments == nil {
		doc.Comments = []*models.Comment{}
	}
	if doc.Attachments == nil {
		doc.Attachments = []*models.Attachment{}
	}
	if doc.History == nil {
		doc.History = []*models.TaskHistory{}
	}

	for _, p := range doc.Projects {
		if p.Subcategories == nil {
			p.Subcategories = []string{}
		}
	}

	for _, t := range doc.Tasks {
		// v1 documents predate archiving and dependency edges.
		if t.BlockedBy == nil {
			t.BlockedBy = []string{}
		}
		if t.Blocking == nil {
			t.Blocking = []string{}
		}
		if t.IsArchived && t.ArchivedAt == nil {
			at := t.UpdatedAt
			t.ArchivedAt = &at
		}
		// v2 documents predate completedAt; approximate with the last
		// update, which for a done task was the completing move.
		if t.Status == models.StatusDone && t.CompletedAt == nil {
			ct := t.UpdatedAt
			t.CompletedAt = &ct
		}
	}

	for _, e := range doc.TimeEntries {
		if e.Category == "" {
			e.Category = models.CategoryDevelopment
		}
	}

	if doc.Filters.Priority == "" {
		doc.Filters.Priority = models.PriorityAll
	}
	if doc.Filters.DateRange == "" {
		doc.Filters.DateRange = models.RangeAll
	}

	doc.SchemaVersion = SchemaVersion
}
