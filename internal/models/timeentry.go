package models

import "time"

// EntryCategory classifies what a block of logged time was spent on.
type EntryCategory string

const (
	CategoryDevelopment EntryCategory = "development"
	CategoryMeeting     EntryCategory = "meeting"
	CategoryCodeReview  EntryCategory = "code_review"
	CategoryPlanning    EntryCategory = "planning"
	CategoryResearch    EntryCategory = "research"
	CategoryOther       EntryCategory = "other"
)

// Categories lists all entry categories in display order.
func Categories() []EntryCategory {
	return []EntryCategory{
		CategoryDevelopment,
		CategoryMeeting,
		CategoryCodeReview,
		CategoryPlanning,
		CategoryResearch,
		CategoryOther,
	}
}

// ValidCategory reports whether c is a known entry category.
func ValidCategory(c EntryCategory) bool {
	switch c {
	case CategoryDevelopment, CategoryMeeting, CategoryCodeReview,
		CategoryPlanning, CategoryResearch, CategoryOther:
		return true
	}
	return false
}

// TimeEntry is a block of time logged against a task.
type TimeEntry struct {
	ID        string        `json:"id"`
	TaskID    string        `json:"taskId"`
	Hours     int           `json:"hours"`
	Minutes   int           `json:"minutes"` // 0-59; overflow belongs in Hours
	Date      time.Time     `json:"date"`
	Notes     string        `json:"notes,omitempty"`
	Category  EntryCategory `json:"category"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Duration returns the entry length in minutes.
func (e *TimeEntry) Duration() int {
	return e.Hours*60 + e.Minutes
}
