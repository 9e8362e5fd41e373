// ABOUTME: Tests for the session lifecycle service.
// ABOUTME: Covers history seeding, set editing, status transitions, and atomicity.
package workout

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/gymtrack/internal/models"
	"github.com/harperreed/gymtrack/internal/storage"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewService(db)
}

func createExercise(t *testing.T, svc *Service, name string, refWeight float64) *models.ExerciseDefinition {
	t.Helper()
	e := models.NewExercise(name, models.CategoryChest).WithReferenceWeight(refWeight)
	if err := svc.CreateExercise(context.Background(), e); err != nil {
		t.Fatalf("CreateExercise failed: %v", err)
	}
	return e
}

func TestStartCustomSeedsReferenceWeightWithoutHistory(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	bench := createExercise(t, svc, "Bench Press", 80)

	id, err := svc.StartCustom(ctx, "Quick push", []uuid.UUID{bench.ID}, time.Now())
	if err != nil {
		t.Fatalf("StartCustom failed: %v", err)
	}

	sets, err := svc.SessionSets(ctx, id)
	if err != nil {
		t.Fatalf("SessionSets failed: %v", err)
	}
	if len(sets) != 1 {
		t.Fatalf("got %d seeded sets, want 1", len(sets))
	}
	if sets[0].Weight != 80 || sets[0].Reps != 0 || sets[0].SetOrder != 0 {
		t.Errorf("seeded set = %.1f kg × %d (order %d), want 80.0 × 0 (order 0)",
			sets[0].Weight, sets[0].Reps, sets[0].SetOrder)
	}
}

func TestStartCustomSeedsZeroWeightWithoutReference(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	row := models.NewExercise("Row", models.CategoryBack)
	if err := svc.CreateExercise(ctx, row); err != nil {
		t.Fatalf("CreateExercise failed: %v", err)
	}

	id, err := svc.StartCustom(ctx, "Back day", []uuid.UUID{row.ID}, time.Now())
	if err != nil {
		t.Fatalf("StartCustom failed: %v", err)
	}
	sets, err := svc.SessionSets(ctx, id)
	if err != nil {
		t.Fatalf("SessionSets failed: %v", err)
	}
	if len(sets) != 1 || sets[0].Weight != 0 {
		t.Errorf("expected a single zero-weight set, got %+v", sets)
	}
}

func TestStartCustomCarriesHistoryWeights(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	bench := createExercise(t, svc, "Bench Press", 60)

	// Build a completed session with a real set structure.
	prev, err := svc.StartCustom(ctx, "Last week", []uuid.UUID{bench.ID}, time.Now().Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("StartCustom failed: %v", err)
	}
	weights := []float64{80, 80, 82.5}
	prevSets := make([]models.PerformedSet, len(weights))
	for i, w := range weights {
		prevSets[i] = *models.NewPerformedSet(prev, bench.ID, i, w, 8)
	}
	if err := svc.ReplaceSessionSets(ctx, prev, prevSets); err != nil {
		t.Fatalf("ReplaceSessionSets failed: %v", err)
	}
	if err := svc.CompleteSession(ctx, prev); err != nil {
		t.Fatalf("CompleteSession failed: %v", err)
	}

	next, err := svc.StartCustom(ctx, "This week", []uuid.UUID{bench.ID}, time.Now())
	if err != nil {
		t.Fatalf("StartCustom failed: %v", err)
	}
	sets, err := svc.SessionSets(ctx, next)
	if err != nil {
		t.Fatalf("SessionSets failed: %v", err)
	}
	if len(sets) != len(weights) {
		t.Fatalf("got %d seeded sets, want %d", len(sets), len(weights))
	}
	for i, set := range sets {
		if set.Weight != weights[i] {
			t.Errorf("set %d weight = %.1f, want %.1f", i, set.Weight, weights[i])
		}
		if set.Reps != 0 {
			t.Errorf("set %d reps = %d, want 0", i, set.Reps)
		}
		if set.SetOrder != i {
			t.Errorf("set %d order = %d", i, set.SetOrder)
		}
	}
}

func TestSeedingIgnoresUncompletedSessions(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	bench := createExercise(t, svc, "Bench Press", 60)

	// An in-progress session with heavy sets must not drive seeding.
	open, err := svc.StartCustom(ctx, "Abandoned", []uuid.UUID{bench.ID}, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("StartCustom failed: %v", err)
	}
	if err := svc.ReplaceSessionSets(ctx, open, []models.PerformedSet{
		*models.NewPerformedSet(open, bench.ID, 0, 140, 1),
	}); err != nil {
		t.Fatalf("ReplaceSessionSets failed: %v", err)
	}

	next, err := svc.StartCustom(ctx, "Today", []uuid.UUID{bench.ID}, time.Now())
	if err != nil {
		t.Fatalf("StartCustom failed: %v", err)
	}
	sets, err := svc.SessionSets(ctx, next)
	if err != nil {
		t.Fatalf("SessionSets failed: %v", err)
	}
	if len(sets) != 1 || sets[0].Weight != 60 {
		t.Errorf("expected reference-weight fallback, got %+v", sets)
	}
}

func TestStartFromTemplate(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	bench := createExercise(t, svc, "Bench Press", 80)
	press := createExercise(t, svc, "Overhead Press", 40)

	tplID, err := svc.CreateTemplate(ctx, "Push Day", nil, []uuid.UUID{bench.ID, press.ID})
	if err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}

	id, err := svc.StartFromTemplate(ctx, tplID, nil, time.Now())
	if err != nil {
		t.Fatalf("StartFromTemplate failed: %v", err)
	}

	sessions, err := svc.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	s := sessions[0]
	if s.ID != id || s.Title != "Push Day" || s.Status != models.StatusInProgress {
		t.Errorf("unexpected session %+v", s)
	}
	if s.TemplateID == nil || *s.TemplateID != tplID {
		t.Error("session not linked to its template")
	}

	sets, err := svc.SessionSets(ctx, id)
	if err != nil {
		t.Fatalf("SessionSets failed: %v", err)
	}
	if len(sets) != 2 {
		t.Errorf("got %d seeded sets, want one per template exercise", len(sets))
	}

	// Starting from a template stamps its last_used.
	templates, err := svc.Templates(ctx)
	if err != nil {
		t.Fatalf("Templates failed: %v", err)
	}
	if templates[0].LastUsed == nil {
		t.Error("template last_used not stamped")
	}
}

func TestStartFromTemplateExerciseOverride(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	bench := createExercise(t, svc, "Bench Press", 80)
	press := createExercise(t, svc, "Overhead Press", 40)

	tplID, err := svc.CreateTemplate(ctx, "Push Day", nil, []uuid.UUID{bench.ID, press.ID})
	if err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}

	id, err := svc.StartFromTemplate(ctx, tplID, []uuid.UUID{press.ID}, time.Now())
	if err != nil {
		t.Fatalf("StartFromTemplate failed: %v", err)
	}
	sets, err := svc.SessionSets(ctx, id)
	if err != nil {
		t.Fatalf("SessionSets failed: %v", err)
	}
	if len(sets) != 1 || sets[0].ExerciseID != press.ID {
		t.Errorf("override ignored: %+v", sets)
	}
}

func TestStartCustomRollsBackOnUnknownExercise(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	bench := createExercise(t, svc, "Bench Press", 80)

	_, err := svc.StartCustom(ctx, "Broken", []uuid.UUID{bench.ID, uuid.New()}, time.Now())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Nothing from the failed start may persist.
	sessions, err := svc.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("failed start left %d sessions behind", len(sessions))
	}
}

func TestStartCustomRollsBackMidSeeding(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	bench := createExercise(t, svc, "Bench Press", 80)

	// A duplicated exercise seeds the same set order twice; the second
	// insert fails after the session row and the first set are already
	// written, so both must roll back.
	_, err := svc.StartCustom(ctx, "Broken", []uuid.UUID{bench.ID, bench.ID}, time.Now())
	if err == nil {
		t.Fatal("expected duplicate exercise to fail seeding")
	}

	sessions, err := svc.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("failed start left %d sessions behind", len(sessions))
	}

	var sets int
	err = svc.db.Read(ctx, func(q storage.Querier) error {
		return q.QueryRowContext(ctx, `SELECT COUNT(*) FROM performed_sets`).Scan(&sets)
	})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if sets != 0 {
		t.Errorf("failed start left %d sets behind", sets)
	}
}

func TestTerminalSessionRejectsTransitions(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	bench := createExercise(t, svc, "Bench Press", 80)
	id, err := svc.StartCustom(ctx, "Push", []uuid.UUID{bench.ID}, time.Now())
	if err != nil {
		t.Fatalf("StartCustom failed: %v", err)
	}

	if err := svc.CompleteSession(ctx, id); err != nil {
		t.Fatalf("CompleteSession failed: %v", err)
	}
	if err := svc.CancelSession(ctx, id); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition cancelling a completed session, got %v", err)
	}
	if err := svc.CompleteSession(ctx, id); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition re-completing, got %v", err)
	}
}

func TestAddSetCarriesLastWeight(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	bench := createExercise(t, svc, "Bench Press", 80)
	id, err := svc.StartCustom(ctx, "Push", []uuid.UUID{bench.ID}, time.Now())
	if err != nil {
		t.Fatalf("StartCustom failed: %v", err)
	}

	// Bump the seeded set to a working weight, then add another.
	sets, err := svc.SessionSets(ctx, id)
	if err != nil {
		t.Fatalf("SessionSets failed: %v", err)
	}
	first := sets[0]
	first.Weight = 85
	first.Reps = 8
	if err := svc.UpdateSet(ctx, first); err != nil {
		t.Fatalf("UpdateSet failed: %v", err)
	}

	setID, err := svc.AddSet(ctx, id, bench.ID)
	if err != nil {
		t.Fatalf("AddSet failed: %v", err)
	}

	sets, err = svc.SessionSets(ctx, id)
	if err != nil {
		t.Fatalf("SessionSets failed: %v", err)
	}
	if len(sets) != 2 {
		t.Fatalf("got %d sets, want 2", len(sets))
	}
	added := sets[1]
	if added.ID != setID || added.SetOrder != 1 {
		t.Errorf("added set has order %d, want 1", added.SetOrder)
	}
	if added.Weight != 85 || added.Reps != 0 {
		t.Errorf("added set = %.1f × %d, want last weight 85.0 × 0", added.Weight, added.Reps)
	}
}

func TestUpdateSetRejectsInvalidRPE(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	bench := createExercise(t, svc, "Bench Press", 80)
	id, err := svc.StartCustom(ctx, "Push", []uuid.UUID{bench.ID}, time.Now())
	if err != nil {
		t.Fatalf("StartCustom failed: %v", err)
	}
	sets, err := svc.SessionSets(ctx, id)
	if err != nil {
		t.Fatalf("SessionSets failed: %v", err)
	}

	set := sets[0]
	bad := 11
	set.RPE = &bad
	if err := svc.UpdateSet(ctx, set); err == nil {
		t.Error("expected an error for RPE out of range")
	}
}

func TestSetEditsAdvanceSessionUpdatedAt(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	bench := createExercise(t, svc, "Bench Press", 80)
	id, err := svc.StartCustom(ctx, "Push", []uuid.UUID{bench.ID}, time.Now())
	if err != nil {
		t.Fatalf("StartCustom failed: %v", err)
	}

	before := sessionByID(t, svc, id).UpdatedAt

	if _, err := svc.AddSet(ctx, id, bench.ID); err != nil {
		t.Fatalf("AddSet failed: %v", err)
	}

	after := sessionByID(t, svc, id).UpdatedAt
	if !after.After(before) {
		t.Errorf("updated_at did not advance: %v -> %v", before, after)
	}
}

func TestDeleteSetsRenumbersSurvivors(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	bench := createExercise(t, svc, "Bench Press", 80)
	id, err := svc.StartCustom(ctx, "Push", []uuid.UUID{bench.ID}, time.Now())
	if err != nil {
		t.Fatalf("StartCustom failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := svc.AddSet(ctx, id, bench.ID); err != nil {
			t.Fatalf("AddSet failed: %v", err)
		}
	}

	sets, err := svc.SessionSets(ctx, id)
	if err != nil {
		t.Fatalf("SessionSets failed: %v", err)
	}
	if len(sets) != 4 {
		t.Fatalf("got %d sets, want 4", len(sets))
	}

	// Drop the two middle sets; an unknown id rides along harmlessly.
	if err := svc.DeleteSets(ctx, id, []uuid.UUID{sets[1].ID, sets[2].ID, uuid.New()}); err != nil {
		t.Fatalf("DeleteSets failed: %v", err)
	}

	sets, err = svc.SessionSets(ctx, id)
	if err != nil {
		t.Fatalf("SessionSets failed: %v", err)
	}
	if len(sets) != 2 {
		t.Fatalf("got %d surviving sets, want 2", len(sets))
	}
	for i, set := range sets {
		if set.SetOrder != i {
			t.Errorf("survivor %d has order %d", i, set.SetOrder)
		}
	}
}

func TestDeleteSetsSkipsOtherSessionsSets(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	bench := createExercise(t, svc, "Bench Press", 80)
	first, err := svc.StartCustom(ctx, "Push A", []uuid.UUID{bench.ID}, time.Now())
	if err != nil {
		t.Fatalf("StartCustom failed: %v", err)
	}
	second, err := svc.StartCustom(ctx, "Push B", []uuid.UUID{bench.ID}, time.Now())
	if err != nil {
		t.Fatalf("StartCustom failed: %v", err)
	}

	firstSets, err := svc.SessionSets(ctx, first)
	if err != nil {
		t.Fatalf("SessionSets failed: %v", err)
	}
	secondSets, err := svc.SessionSets(ctx, second)
	if err != nil {
		t.Fatalf("SessionSets failed: %v", err)
	}
	secondBefore := sessionByID(t, svc, second)

	// The second session's set id rides along but belongs elsewhere, so
	// it must survive untouched.
	err = svc.DeleteSets(ctx, first, []uuid.UUID{firstSets[0].ID, secondSets[0].ID})
	if err != nil {
		t.Fatalf("DeleteSets failed: %v", err)
	}

	remaining, err := svc.SessionSets(ctx, second)
	if err != nil {
		t.Fatalf("SessionSets failed: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("got %d sets in other session, want 1", len(remaining))
	}
	if remaining[0].ID != secondSets[0].ID {
		t.Errorf("other session's set was replaced")
	}
	if got := sessionByID(t, svc, second); !got.UpdatedAt.Equal(secondBefore.UpdatedAt) {
		t.Errorf("other session's updatedAt advanced: %v -> %v", secondBefore.UpdatedAt, got.UpdatedAt)
	}

	remaining, err = svc.SessionSets(ctx, first)
	if err != nil {
		t.Fatalf("SessionSets failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("got %d sets in named session, want 0", len(remaining))
	}
}

func TestReplaceSessionSetsAssignsDenseOrdersPerExercise(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	bench := createExercise(t, svc, "Bench Press", 80)
	press := createExercise(t, svc, "Overhead Press", 40)
	id, err := svc.StartCustom(ctx, "Push", []uuid.UUID{bench.ID}, time.Now())
	if err != nil {
		t.Fatalf("StartCustom failed: %v", err)
	}

	replacement := []models.PerformedSet{
		{ExerciseID: bench.ID, Weight: 80, Reps: 8},
		{ExerciseID: press.ID, Weight: 40, Reps: 10},
		{ExerciseID: bench.ID, Weight: 82.5, Reps: 6},
	}
	if err := svc.ReplaceSessionSets(ctx, id, replacement); err != nil {
		t.Fatalf("ReplaceSessionSets failed: %v", err)
	}

	sets, err := svc.SessionSets(ctx, id)
	if err != nil {
		t.Fatalf("SessionSets failed: %v", err)
	}
	if len(sets) != 3 {
		t.Fatalf("got %d sets, want 3", len(sets))
	}
	orders := make(map[uuid.UUID][]int)
	for _, set := range sets {
		orders[set.ExerciseID] = append(orders[set.ExerciseID], set.SetOrder)
	}
	if len(orders[bench.ID]) != 2 || orders[bench.ID][0] != 0 || orders[bench.ID][1] != 1 {
		t.Errorf("bench orders = %v, want [0 1]", orders[bench.ID])
	}
	if len(orders[press.ID]) != 1 || orders[press.ID][0] != 0 {
		t.Errorf("press orders = %v, want [0]", orders[press.ID])
	}
}

func TestUpdateSessionDetails(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	bench := createExercise(t, svc, "Bench Press", 80)
	id, err := svc.StartCustom(ctx, "Push", []uuid.UUID{bench.ID}, time.Now())
	if err != nil {
		t.Fatalf("StartCustom failed: %v", err)
	}

	title := "Heavy push"
	date := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	if err := svc.UpdateSessionDetails(ctx, id, &title, &date); err != nil {
		t.Fatalf("UpdateSessionDetails failed: %v", err)
	}

	got := sessionByID(t, svc, id)
	if got.Title != title || !got.Date.Equal(date) {
		t.Errorf("session = %q @ %v, want %q @ %v", got.Title, got.Date, title, date)
	}

	if err := svc.UpdateSessionDetails(ctx, uuid.New(), &title, nil); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown session, got %v", err)
	}
}

func TestUpdateTemplateReplacesExerciseList(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	bench := createExercise(t, svc, "Bench Press", 80)
	press := createExercise(t, svc, "Overhead Press", 40)
	dips := createExercise(t, svc, "Dips", 0)

	tplID, err := svc.CreateTemplate(ctx, "Push Day", nil, []uuid.UUID{bench.ID, press.ID})
	if err != nil {
		t.Fatalf("CreateTemplate failed: %v", err)
	}

	if err := svc.UpdateTemplate(ctx, tplID, "Push v2", nil, []uuid.UUID{dips.ID, bench.ID}); err != nil {
		t.Fatalf("UpdateTemplate failed: %v", err)
	}

	exercises, err := svc.TemplateExercises(ctx, tplID)
	if err != nil {
		t.Fatalf("TemplateExercises failed: %v", err)
	}
	if len(exercises) != 2 || exercises[0].ID != dips.ID || exercises[1].ID != bench.ID {
		t.Errorf("unexpected exercise list: %+v", exercises)
	}

	// Unknown exercises reject the whole update.
	err = svc.UpdateTemplate(ctx, tplID, "Push v3", nil, []uuid.UUID{uuid.New()})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown exercise, got %v", err)
	}
}

func sessionByID(t *testing.T, svc *Service, id uuid.UUID) models.WorkoutSession {
	t.Helper()
	sessions, err := svc.Sessions(context.Background())
	if err != nil {
		t.Fatalf("Sessions failed: %v", err)
	}
	for _, s := range sessions {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("session %s not found", id)
	return models.WorkoutSession{}
}
