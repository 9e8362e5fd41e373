// ABOUTME: ExerciseDefinition model and ExerciseCategory enum.
// ABOUTME: Defines 8 categories covering strength, core, and cardio work.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ExerciseCategory classifies an exercise by the area it trains.
type ExerciseCategory string

const (
	CategoryChest     ExerciseCategory = "chest"
	CategoryBack      ExerciseCategory = "back"
	CategoryLegs      ExerciseCategory = "legs"
	CategoryShoulders ExerciseCategory = "shoulders"
	CategoryArms      ExerciseCategory = "arms"
	CategoryCore      ExerciseCategory = "core"
	CategoryCardio    ExerciseCategory = "cardio"
	CategoryOther     ExerciseCategory = "other"
)

// AllCategories returns all valid exercise categories.
var AllCategories = []ExerciseCategory{
	CategoryChest, CategoryBack, CategoryLegs, CategoryShoulders,
	CategoryArms, CategoryCore, CategoryCardio, CategoryOther,
}

// IsValidCategory checks if a string is a valid exercise category.
func IsValidCategory(s string) bool {
	for _, c := range AllCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// ExerciseDefinition is a reusable exercise in the library.
// Identity is immutable; attributes may change over time.
type ExerciseDefinition struct {
	ID              uuid.UUID
	Name            string
	Category        ExerciseCategory
	TargetRM        *int
	ReferenceWeight *float64
	RestInterval    *time.Duration
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewExercise creates an ExerciseDefinition with generated UUID and current timestamps.
func NewExercise(name string, category ExerciseCategory) *ExerciseDefinition {
	now := time.Now()
	return &ExerciseDefinition{
		ID:        uuid.New(),
		Name:      name,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithTargetRM sets the target rep max.
func (e *ExerciseDefinition) WithTargetRM(rm int) *ExerciseDefinition {
	e.TargetRM = &rm
	return e
}

// WithReferenceWeight sets the reference working weight in kg.
func (e *ExerciseDefinition) WithReferenceWeight(kg float64) *ExerciseDefinition {
	e.ReferenceWeight = &kg
	return e
}

// WithRestInterval sets the rest interval between sets.
func (e *ExerciseDefinition) WithRestInterval(d time.Duration) *ExerciseDefinition {
	e.RestInterval = &d
	return e
}

// WithNotes sets notes on the exercise.
func (e *ExerciseDefinition) WithNotes(notes string) *ExerciseDefinition {
	e.Notes = &notes
	return e
}
