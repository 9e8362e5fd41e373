// ABOUTME: WorkoutSession model and TrainingStatus state machine.
// ABOUTME: Sessions move planned -> inProgress -> {completed, cancelled}.
package models

import (
	"time"

	"github.com/google/uuid"
)

// TrainingStatus is the lifecycle state of a workout session.
type TrainingStatus string

const (
	StatusPlanned    TrainingStatus = "planned"
	StatusInProgress TrainingStatus = "inProgress"
	StatusCompleted  TrainingStatus = "completed"
	StatusCancelled  TrainingStatus = "cancelled"
)

// IsTerminal reports whether no further status transition is permitted.
func (s TrainingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the transition s -> next is allowed.
func (s TrainingStatus) CanTransitionTo(next TrainingStatus) bool {
	switch s {
	case StatusPlanned:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// WorkoutSession is one instance of a workout being performed.
// TemplateID is nil for ad-hoc sessions and becomes nil when the
// source template is deleted; the session itself survives.
type WorkoutSession struct {
	ID         uuid.UUID
	TemplateID *uuid.UUID
	Title      string
	Date       time.Time
	Status     TrainingStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewSession creates a WorkoutSession entering directly in progress.
func NewSession(title string, date time.Time) *WorkoutSession {
	now := time.Now()
	return &WorkoutSession{
		ID:        uuid.New(),
		Title:     title,
		Date:      date,
		Status:    StatusInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithTemplate links the session to its source template.
func (s *WorkoutSession) WithTemplate(templateID uuid.UUID) *WorkoutSession {
	s.TemplateID = &templateID
	return s
}

// Equal reports whether two sessions have identical field values.
// Timestamps compare with time.Equal so location differences don't matter.
func (s WorkoutSession) Equal(o WorkoutSession) bool {
	if s.ID != o.ID || s.Title != o.Title || s.Status != o.Status {
		return false
	}
	if (s.TemplateID == nil) != (o.TemplateID == nil) {
		return false
	}
	if s.TemplateID != nil && *s.TemplateID != *o.TemplateID {
		return false
	}
	return s.Date.Equal(o.Date) && s.CreatedAt.Equal(o.CreatedAt) && s.UpdatedAt.Equal(o.UpdatedAt)
}
