package models

import "time"

// Comment is a free-text note attached to a task.
type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// Attachment records a file reference attached to a task. Only metadata
// is tracked; the file itself lives wherever the user keeps it.
type Attachment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	MimeType  string    `json:"mimeType,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
