// ABOUTME: Shared test helpers for storage tests.
// ABOUTME: Provides setupTestDB and fixture builders for isolated databases.
package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/gymtrack/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func insertTestExercise(t *testing.T, db *DB, name string) *models.ExerciseDefinition {
	t.Helper()
	e := models.NewExercise(name, models.CategoryChest).WithReferenceWeight(60)
	err := db.Write(context.Background(), func(q Querier) error {
		return InsertExercise(context.Background(), q, e)
	})
	if err != nil {
		t.Fatalf("InsertExercise failed: %v", err)
	}
	return e
}

func insertTestSession(t *testing.T, db *DB, title string, date time.Time) *models.WorkoutSession {
	t.Helper()
	s := models.NewSession(title, date)
	err := db.Write(context.Background(), func(q Querier) error {
		return InsertSession(context.Background(), q, s)
	})
	if err != nil {
		t.Fatalf("InsertSession failed: %v", err)
	}
	return s
}
