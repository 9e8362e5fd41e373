// ABOUTME: Tests for schema migrations and the dev-mode erase path.
// ABOUTME: Verifies idempotent reopen, history rows, and fingerprint-driven rebuild.
package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/gymtrack/internal/models"
)

func TestOpenAppliesAllMigrations(t *testing.T) {
	db := setupTestDB(t)

	applied, err := db.appliedVersions(context.Background())
	if err != nil {
		t.Fatalf("appliedVersions failed: %v", err)
	}
	for _, m := range migrations {
		if !applied[m.version] {
			t.Errorf("migration %s not recorded as applied", m.version)
		}
	}
}

func TestReopenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("first open failed: %v", err)
	}

	e := models.NewExercise("Squat", models.CategoryLegs)
	if err := db.Write(context.Background(), func(q Querier) error {
		return InsertExercise(context.Background(), q, e)
	}); err != nil {
		t.Fatalf("InsertExercise failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db.Close()

	err = db.Read(context.Background(), func(q Querier) error {
		got, err := GetExercise(context.Background(), q, e.ID)
		if err != nil {
			return err
		}
		if got.Name != "Squat" {
			t.Errorf("Name = %s, want Squat", got.Name)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read after reopen failed: %v", err)
	}
}

func TestFingerprintUnchangedAfterOpen(t *testing.T) {
	db := setupTestDB(t)

	changed, err := db.fingerprintChanged(context.Background())
	if err != nil {
		t.Fatalf("fingerprintChanged failed: %v", err)
	}
	if changed {
		t.Error("fresh database should not report a changed fingerprint")
	}
}

func TestEraseOnSchemaChangeRebuildsDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	e := models.NewExercise("Bench Press", models.CategoryChest)
	if err := db.Write(context.Background(), func(q Querier) error {
		return InsertExercise(context.Background(), q, e)
	}); err != nil {
		t.Fatalf("InsertExercise failed: %v", err)
	}

	// Simulate a database written by a different migration set.
	_, err = db.db.ExecContext(context.Background(),
		`UPDATE schema_migrations SET fingerprint = 'stale', applied_at = ?`,
		time.Now().Format(time.RFC3339Nano))
	if err != nil {
		t.Fatalf("tamper fingerprint failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	db, err = OpenWithOptions(dbPath, Options{EraseOnSchemaChange: true})
	if err != nil {
		t.Fatalf("reopen with erase failed: %v", err)
	}
	defer db.Close()

	err = db.Read(context.Background(), func(q Querier) error {
		exercises, err := ListExercises(context.Background(), q, nil)
		if err != nil {
			return err
		}
		if len(exercises) != 0 {
			t.Errorf("expected empty database after erase, got %d exercises", len(exercises))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("read after erase failed: %v", err)
	}

	changed, err := db.fingerprintChanged(context.Background())
	if err != nil {
		t.Fatalf("fingerprintChanged failed: %v", err)
	}
	if changed {
		t.Error("rebuilt database should carry the current fingerprint")
	}
}

func TestStaleFingerprintKeptWithoutEraseOption(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	e := models.NewExercise("Deadlift", models.CategoryBack)
	if err := db.Write(context.Background(), func(q Querier) error {
		return InsertExercise(context.Background(), q, e)
	}); err != nil {
		t.Fatalf("InsertExercise failed: %v", err)
	}
	if _, err := db.db.ExecContext(context.Background(),
		`UPDATE schema_migrations SET fingerprint = 'stale'`); err != nil {
		t.Fatalf("tamper fingerprint failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db.Close()

	err = db.Read(context.Background(), func(q Querier) error {
		_, err := GetExercise(context.Background(), q, e.ID)
		return err
	})
	if err != nil {
		t.Errorf("data should survive reopen without the erase option: %v", err)
	}
}
