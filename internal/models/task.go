package models

import "time"

// TaskStatus represents a column in the board pipeline.
type TaskStatus string

const (
	StatusBacklog    TaskStatus = "backlog"
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// Statuses lists the pipeline columns in board order.
func Statuses() []TaskStatus {
	return []TaskStatus{StatusBacklog, StatusTodo, StatusInProgress, StatusDone}
}

// ValidStatus reports whether s names a pipeline column.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusBacklog, StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// TaskPriority represents the urgency of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ValidPriority reports whether p is a known priority.
func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a card on the board.
//
// BlockedBy and Blocking form a bidirectional dependency relation:
// task A appears in B.BlockedBy exactly when B appears in A.Blocking.
// Both sides are maintained through a single mutation path on the board.
type Task struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"projectId"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	Subcategory string       `json:"subcategory,omitempty"`
	TrackerKey  string       `json:"trackerKey,omitempty"`
	StoryPoints int          `json:"storyPoints,omitempty"`
	IsArchived  bool         `json:"isArchived"`
	ArchivedAt  *time.Time   `json:"archivedAt,omitempty"`
	BlockedBy   []string     `json:"blockedBy"`
	Blocking    []string     `json:"blocking"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"` // set exactly when status enters done
}
