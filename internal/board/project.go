package board

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tempoboard/tempo/internal/models"
)

// ProjectUpdate carries optional field changes for UpdateProject. Nil
// fields are left untouched.
type ProjectUpdate struct {
	Name       *string
	Color      *models.ProjectColor
	TrackerKey *string
}

// CreateProject adds a project. Returns nil when the name is empty or
// already taken (case-insensitively), or the color is unknown. An empty
// color defaults to blue.
func (b *Board) CreateProject(ctx context.Context, name string, color models.ProjectColor, trackerKey string) *models.Project {
	name = strings.TrimSpace(name)
	if name == "" {
		b.log.Warn("create project: empty name")
		return nil
	}
	if b.ProjectByName(name) != nil {
		b.log.Warn("create project: name already in use", zap.String("name", name))
		return nil
	}
	if color == "" {
		color = models.ColorBlue
	}
	if !models.ValidColor(color) {
		b.log.Warn("create project: unknown color", zap.String("color", string(color)))
		return nil
	}

	p := &models.Project{
		ID:            newULID(),
		Name:          name,
		Color:         color,
		Subcategories: []string{},
		TrackerKey:    trackerKey,
		CreatedAt:     time.Now().UTC(),
	}
	b.doc.Projects = append(b.doc.Projects, p)
	b.persist(ctx)
	return p
}

// UpdateProject applies the given field changes. Returns nil when the
// project does not exist or a change is invalid.
func (b *Board) UpdateProject(ctx context.Context, id string, upd ProjectUpdate) *models.Project {
	p := b.Project(id)
	if p == nil {
		b.log.Warn("update project: not found", zap.String("project_id", id))
		return nil
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			b.log.Warn("update project: empty name", zap.String("project_id", id))
			return nil
		}
		if other := b.ProjectByName(name); other != nil && other.ID != id {
			b.log.Warn("update project: name already in use", zap.String("name", name))
			return nil
		}
		p.Name = name
	}
	if upd.Color != nil {
		if !models.ValidColor(*upd.Color) {
			b.log.Warn("update project: unknown color", zap.String("color", string(*upd.Color)))
			return nil
		}
		p.Color = *upd.Color
	}
	if upd.TrackerKey != nil {
		p.TrackerKey = *upd.TrackerKey
	}

	b.persist(ctx)
	return p
}

// AddSubcategory appends a subcategory label to a project. Labels are
// unique case-insensitively; a duplicate or empty label is rejected.
func (b *Board) AddSubcategory(ctx context.Context, projectID, label string) bool {
	p := b.Project(projectID)
	if p == nil {
		b.log.Warn("add subcategory: project not found", zap.String("project_id", projectID))
		return false
	}
	label = strings.TrimSpace(label)
	if label == "" {
		b.log.Warn("add subcategory: empty label", zap.String("project_id", projectID))
		return false
	}
	for _, existing := range p.Subcategories {
		if strings.EqualFold(existing, label) {
			b.log.Warn("add subcategory: duplicate label",
				zap.String("project_id", projectID), zap.String("label", label))
			return false
		}
	}
	p.Subcategories = append(p.Subcategories, label)
	b.persist(ctx)
	return true
}

// RemoveSubcategory removes a subcategory label (case-insensitive match).
func (b *Board) RemoveSubcategory(ctx context.Context, projectID, label string) bool {
	p := b.Project(projectID)
	if p == nil {
		b.log.Warn("remove subcategory: project not found", zap.String("project_id", projectID))
		return false
	}
	for i, existing := range p.Subcategories {
		if strings.EqualFold(existing, label) {
			p.Subcategories = append(p.Subcategories[:i], p.Subcategories[i+1:]...)
			b.persist(ctx)
			return true
		}
	}
	b.log.Warn("remove subcategory: label not found",
		zap.String("project_id", projectID), zap.String("label", label))
	return false
}

// DeleteProject removes a project and cascades to its tasks, their time
// entries, activities, comments, attachments, and history records.
func (b *Board) DeleteProject(ctx context.Context, id string) bool {
	idx := -1
	for i, p := range b.doc.Projects {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		b.log.Warn("delete project: not found", zap.String("project_id", id))
		return false
	}

	var doomed []string
	for _, t := range b.doc.Tasks {
		if t.ProjectID == id {
			doomed = append(doomed, t.ID)
		}
	}
	for _, taskID := range doomed {
		b.removeTask(taskID)
	}

	b.doc.Projects = append(b.doc.Projects[:idx], b.doc.Projects[idx+1:]...)

	// Drop dangling UI references to the deleted project.
	if b.doc.SelectedProjectID == id {
		b.doc.SelectedProjectID = ""
	}
	if b.doc.Filters.ProjectID == id {
		b.doc.Filters.ProjectID = ""
	}

	b.persist(ctx)
	return true
}
