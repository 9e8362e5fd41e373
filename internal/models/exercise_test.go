// ABOUTME: Tests for exercise definitions, categories, and set validation.
// ABOUTME: Verifies category whitelist, builder methods, and RPE bounds.
package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIsValidCategory(t *testing.T) {
	for _, c := range AllCategories {
		if !IsValidCategory(string(c)) {
			t.Errorf("category %s should be valid", c)
		}
	}
	if IsValidCategory("quads") {
		t.Error("unknown category should be invalid")
	}
	if IsValidCategory("") {
		t.Error("empty category should be invalid")
	}
}

func TestNewExerciseBuilders(t *testing.T) {
	e := NewExercise("Bench Press", CategoryChest).
		WithTargetRM(5).
		WithReferenceWeight(80).
		WithRestInterval(3 * time.Minute).
		WithNotes("pause at chest")

	if e.Name != "Bench Press" || e.Category != CategoryChest {
		t.Errorf("unexpected identity: %s / %s", e.Name, e.Category)
	}
	if e.TargetRM == nil || *e.TargetRM != 5 {
		t.Error("TargetRM not set")
	}
	if e.ReferenceWeight == nil || *e.ReferenceWeight != 80 {
		t.Error("ReferenceWeight not set")
	}
	if e.RestInterval == nil || *e.RestInterval != 3*time.Minute {
		t.Error("RestInterval not set")
	}
	if e.Notes == nil || *e.Notes != "pause at chest" {
		t.Error("Notes not set")
	}
	if e.CreatedAt.IsZero() || e.UpdatedAt.IsZero() {
		t.Error("timestamps should be initialized")
	}
}

func TestValidRPE(t *testing.T) {
	for rpe := 1; rpe <= 10; rpe++ {
		if !ValidRPE(rpe) {
			t.Errorf("RPE %d should be valid", rpe)
		}
	}
	for _, rpe := range []int{0, -1, 11, 100} {
		if ValidRPE(rpe) {
			t.Errorf("RPE %d should be invalid", rpe)
		}
	}
}

func TestNewPerformedSet(t *testing.T) {
	sessionID, exerciseID := uuid.New(), uuid.New()
	p := NewPerformedSet(sessionID, exerciseID, 2, 82.5, 8)

	if p.SessionID != sessionID || p.ExerciseID != exerciseID {
		t.Error("ownership IDs mismatch")
	}
	if p.SetOrder != 2 || p.Weight != 82.5 || p.Reps != 8 {
		t.Errorf("unexpected set values: order=%d weight=%v reps=%d", p.SetOrder, p.Weight, p.Reps)
	}
	if p.RPE != nil || p.Notes != nil {
		t.Error("RPE and Notes should default to nil")
	}
}
