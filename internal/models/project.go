package models

import "time"

// ProjectColor is the accent color a project is rendered with.
type ProjectColor string

const (
	ColorBlue   ProjectColor = "blue"
	ColorGreen  ProjectColor = "green"
	ColorPurple ProjectColor = "purple"
	ColorOrange ProjectColor = "orange"
	ColorPink   ProjectColor = "pink"
)

// ValidColor reports whether c is one of the five supported colors.
func ValidColor(c ProjectColor) bool {
	switch c {
	case ColorBlue, ColorGreen, ColorPurple, ColorOrange, ColorPink:
		return true
	}
	return false
}

// Project groups tasks under a name, color, and optional subcategory labels.
type Project struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Color         ProjectColor `json:"color"`
	Subcategories []string     `json:"subcategories"`
	TrackerKey    string       `json:"trackerKey,omitempty"` // external tracker reference, e.g. "PROJ"
	CreatedAt     time.Time    `json:"createdAt"`
}
