// ABOUTME: WorkoutTemplate and TemplateExercise models.
// ABOUTME: Templates own an ordered exercise list via the join entity.
package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutTemplate is a reusable named ordered list of exercises.
// The exercise list lives in TemplateExercise join rows, not here.
type WorkoutTemplate struct {
	ID        uuid.UUID
	Name      string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
	LastUsed  *time.Time
}

// NewTemplate creates a WorkoutTemplate with generated UUID and current timestamps.
func NewTemplate(name string) *WorkoutTemplate {
	now := time.Now()
	return &WorkoutTemplate{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithNotes sets notes on the template.
func (t *WorkoutTemplate) WithNotes(notes string) *WorkoutTemplate {
	t.Notes = &notes
	return t
}

// TemplateExercise links a template to an exercise at a position.
// OrderIndex is a dense 0-based sequence within the template.
type TemplateExercise struct {
	ID         uuid.UUID
	TemplateID uuid.UUID
	ExerciseID uuid.UUID
	OrderIndex int
}

// NewTemplateExercise creates a join row for the given template position.
func NewTemplateExercise(templateID, exerciseID uuid.UUID, orderIndex int) *TemplateExercise {
	return &TemplateExercise{
		ID:         uuid.New(),
		TemplateID: templateID,
		ExerciseID: exerciseID,
		OrderIndex: orderIndex,
	}
}
