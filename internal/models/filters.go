package models

import "time"

// DateRange names a created-at bucket the board can be narrowed to.
type DateRange string

const (
	RangeAll     DateRange = "all"
	RangeToday   DateRange = "today"
	RangeWeek    DateRange = "week"
	RangeMonth   DateRange = "month"
	RangeQuarter DateRange = "quarter"
	RangeCustom  DateRange = "custom"
)

// ValidRange reports whether r is a known date-range bucket.
func ValidRange(r DateRange) bool {
	switch r {
	case RangeAll, RangeToday, RangeWeek, RangeMonth, RangeQuarter, RangeCustom:
		return true
	}
	return false
}

// PriorityAll is the wildcard value for the priority filter.
const PriorityAll = "all"

// BoardFilters is the persisted filter configuration for the board view.
// It is UI state rather than an entity, but it round-trips through the
// board document so the view survives restarts.
type BoardFilters struct {
	Search       string     `json:"search"`
	ProjectID    string     `json:"projectId"`
	Priority     string     `json:"priority"` // a TaskPriority or "all"
	DateRange    DateRange  `json:"dateRange"`
	CustomStart  *time.Time `json:"customStart,omitempty"`
	CustomEnd    *time.Time `json:"customEnd,omitempty"`
	ShowArchived bool       `json:"showArchived"`
}

// DefaultFilters returns the filter configuration for a fresh board.
func DefaultFilters() BoardFilters {
	return BoardFilters{
		Priority:  PriorityAll,
		DateRange: RangeAll,
	}
}
