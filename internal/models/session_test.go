// ABOUTME: Tests for the TrainingStatus state machine and WorkoutSession model.
// ABOUTME: Verifies transition rules, terminal states, and equality.
package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from TrainingStatus
		to   TrainingStatus
		ok   bool
	}{
		{StatusPlanned, StatusInProgress, true},
		{StatusPlanned, StatusCompleted, false},
		{StatusPlanned, StatusCancelled, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusPlanned, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusInProgress, false},
		{StatusCancelled, StatusCompleted, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.ok {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.ok)
		}
	}
}

func TestStatusIsTerminal(t *testing.T) {
	if StatusPlanned.IsTerminal() || StatusInProgress.IsTerminal() {
		t.Error("planned and inProgress must not be terminal")
	}
	if !StatusCompleted.IsTerminal() || !StatusCancelled.IsTerminal() {
		t.Error("completed and cancelled must be terminal")
	}
}

func TestNewSessionStartsInProgress(t *testing.T) {
	s := NewSession("Push Day", time.Now())
	if s.Status != StatusInProgress {
		t.Errorf("Status = %s, want %s", s.Status, StatusInProgress)
	}
	if s.ID == uuid.Nil {
		t.Error("expected non-nil ID")
	}
}

func TestSessionEqual(t *testing.T) {
	date := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	a := NewSession("Push Day", date)
	b := *a

	if !a.Equal(b) {
		t.Error("identical sessions must compare equal")
	}

	b.Title = "Pull Day"
	if a.Equal(b) {
		t.Error("sessions with different titles must not compare equal")
	}

	// Same instant in a different location still compares equal.
	b = *a
	b.Date = a.Date.In(time.FixedZone("CST", -6*3600))
	if !a.Equal(b) {
		t.Error("same instant in different zones must compare equal")
	}

	b = *a
	tid := uuid.New()
	b.TemplateID = &tid
	if a.Equal(b) {
		t.Error("sessions with different template links must not compare equal")
	}
}
