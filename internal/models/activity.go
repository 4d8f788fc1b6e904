package models

import "time"

// ActivityType names the kind of mutation an activity records.
type ActivityType string

// ActivityType values used by the per-task activity ledger.
const (
	ActivityCreated         ActivityType = "created"
	ActivityUpdated         ActivityType = "updated"
	ActivityStatusChanged   ActivityType = "status_changed"
	ActivityArchived        ActivityType = "archived"
	ActivityTimeLogged      ActivityType = "time_logged"
	ActivityCommentAdded    ActivityType = "comment_added"
	ActivityAttachmentAdded ActivityType = "attachment_added"
)

// Activity is one append-only activity-log entry for a task. Activities
// are never mutated; they are removed only when their task is deleted.
type Activity struct {
	ID          string            `json:"id"`
	TaskID      string            `json:"taskId"`
	Type        ActivityType      `json:"type"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// TaskHistory is an append-only record of a single tracked-field change,
// written automatically when an update or move changes the field.
type TaskHistory struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	Field     string    `json:"field"`
	OldValue  string    `json:"oldValue"`
	NewValue  string    `json:"newValue"`
	ChangedAt time.Time `json:"changedAt"`
}
