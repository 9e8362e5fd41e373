// ABOUTME: PerformedSet model for one logged unit of work.
// ABOUTME: Sets are ordered per (session, exercise) with dense 0-based setOrder.
package models

import (
	"time"

	"github.com/google/uuid"
)

// PerformedSet is one logged weight x reps unit within a session.
type PerformedSet struct {
	ID          uuid.UUID
	SessionID   uuid.UUID
	ExerciseID  uuid.UUID
	SetOrder    int
	Weight      float64
	Reps        int
	RPE         *int
	Notes       *string
	CompletedAt time.Time
}

// NewPerformedSet creates a PerformedSet with generated UUID and a fresh
// completedAt timestamp.
func NewPerformedSet(sessionID, exerciseID uuid.UUID, setOrder int, weight float64, reps int) *PerformedSet {
	return &PerformedSet{
		ID:          uuid.New(),
		SessionID:   sessionID,
		ExerciseID:  exerciseID,
		SetOrder:    setOrder,
		Weight:      weight,
		Reps:        reps,
		CompletedAt: time.Now(),
	}
}

// WithRPE sets the perceived-exertion score (1-10).
func (p *PerformedSet) WithRPE(rpe int) *PerformedSet {
	p.RPE = &rpe
	return p
}

// WithNotes sets notes on the set.
func (p *PerformedSet) WithNotes(notes string) *PerformedSet {
	p.Notes = &notes
	return p
}

// ValidRPE reports whether an RPE score is in the accepted 1-10 range.
func ValidRPE(rpe int) bool {
	return rpe >= 1 && rpe <= 10
}
