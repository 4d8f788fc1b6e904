// Package filter narrows the task collection for the board view. All
// predicates are pure and ANDed together; there is no OR logic across
// filter dimensions.
package filter

import (
	"strings"
	"time"

	"github.com/tempoboard/tempo/internal/calendar"
	"github.com/tempoboard/tempo/internal/models"
)

// Tasks applies the board filters to the task collection against the
// current moment. selectedProjectID is the board's separately-selected
// project context; it is used as a fallback only when the filter itself
// names no project and the archive view is off.
func Tasks(tasks []*models.Task, f models.BoardFilters, selectedProjectID string) []*models.Task {
	return TasksAt(tasks, f, selectedProjectID, time.Now())
}

// TasksAt is Tasks with an explicit reference time for the date buckets.
func TasksAt(tasks []*models.Task, f models.BoardFilters, selectedProjectID string, now time.Time) []*models.Task {
	// The archive toggle is exclusive, not additive: the archived and
	// active views partition the task set.
	// The project context only applies outside the archive view; in the
	// archive, only an explicit project filter narrows.
	projectID := f.ProjectID
	if !f.ShowArchived && projectID == "" {
		projectID = selectedProjectID
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))

	var out []*models.Task
	for _, t := range tasks {
		if t.IsArchived != f.ShowArchived {
			continue
		}
		if projectID != "" && t.ProjectID != projectID {
			continue
		}
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		if f.Priority != models.PriorityAll && string(t.Priority) != f.Priority {
			continue
		}
		if !inDateRange(t.CreatedAt, f, now) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// matchesSearch reports whether the lowercased needle appears in the
// task's title, description, or tracker key.
func matchesSearch(t *models.Task, needle string) bool {
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle) ||
		strings.Contains(strings.ToLower(t.TrackerKey), needle)
}

// inDateRange checks createdAt against the filter's bucket. Named
// buckets reach N units back from the start of today (UTC); custom is an
// inclusive [start, end] range.
func inDateRange(createdAt time.Time, f models.BoardFilters, now time.Time) bool {
	switch f.DateRange {
	case models.RangeCustom:
		if f.CustomStart == nil || f.CustomEnd == nil {
			return true
		}
		return calendar.InRange(createdAt, *f.CustomStart, *f.CustomEnd)
	case models.RangeToday:
		return !createdAt.Before(calendar.StartOfDay(now))
	case models.RangeWeek:
		return !createdAt.Before(calendar.StartOfDay(now).AddDate(0, 0, -7))
	case models.RangeMonth:
		return !createdAt.Before(calendar.StartOfDay(now).AddDate(0, -1, 0))
	case models.RangeQuarter:
		return !createdAt.Before(calendar.StartOfDay(now).AddDate(0, -3, 0))
	default: // RangeAll
		return true
	}
}
