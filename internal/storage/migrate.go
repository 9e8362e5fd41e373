// ABOUTME: Versioned schema migrations with applied-version history.
// ABOUTME: Each step is idempotent; the aggregate fingerprint drives dev-mode erase.
package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"
)

// migration is one named schema step. Statements must be safe to run
// against a database already at or past this version, hence IF NOT EXISTS
// throughout.
type migration struct {
	version string
	sql     string
}

const migrationV1 = `
CREATE TABLE IF NOT EXISTS exercise_definitions (
    id TEXT PRIMARY KEY NOT NULL,
    name TEXT NOT NULL,
    category TEXT NOT NULL,
    target_rm INTEGER,
    reference_weight REAL,
    rest_interval_sec REAL,
    notes TEXT,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_exercise_definitions_name ON exercise_definitions(name);

CREATE TABLE IF NOT EXISTS workout_templates (
    id TEXT PRIMARY KEY NOT NULL,
    name TEXT NOT NULL,
    notes TEXT,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    last_used DATETIME
);

CREATE TABLE IF NOT EXISTS template_exercises (
    id TEXT PRIMARY KEY NOT NULL,
    template_id TEXT NOT NULL REFERENCES workout_templates(id) ON DELETE CASCADE,
    exercise_id TEXT NOT NULL REFERENCES exercise_definitions(id) ON DELETE CASCADE,
    order_index INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_template_exercises_template ON template_exercises(template_id);
CREATE INDEX IF NOT EXISTS idx_template_exercises_exercise ON template_exercises(exercise_id);

CREATE TABLE IF NOT EXISTS workout_sessions (
    id TEXT PRIMARY KEY NOT NULL,
    template_id TEXT REFERENCES workout_templates(id) ON DELETE SET NULL,
    title TEXT NOT NULL,
    date DATETIME NOT NULL,
    status TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_workout_sessions_date ON workout_sessions(date);

CREATE TABLE IF NOT EXISTS performed_sets (
    id TEXT PRIMARY KEY NOT NULL,
    session_id TEXT NOT NULL REFERENCES workout_sessions(id) ON DELETE CASCADE,
    exercise_id TEXT NOT NULL REFERENCES exercise_definitions(id) ON DELETE CASCADE,
    set_order INTEGER NOT NULL,
    weight REAL NOT NULL,
    reps INTEGER NOT NULL,
    rpe INTEGER,
    notes TEXT,
    completed_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_performed_sets_session ON performed_sets(session_id);
CREATE INDEX IF NOT EXISTS idx_performed_sets_exercise ON performed_sets(exercise_id);
`

const migrationV2 = `
CREATE INDEX IF NOT EXISTS idx_workout_sessions_status_date ON workout_sessions(status, date DESC);
CREATE INDEX IF NOT EXISTS idx_performed_sets_session_exercise ON performed_sets(session_id, exercise_id, set_order);
`

// Set orders are dense and unique per (session, exercise); v3 upgrades the
// lookup index to enforce that at the schema level.
const migrationV3 = `
DROP INDEX IF EXISTS idx_performed_sets_session_exercise;
CREATE UNIQUE INDEX idx_performed_sets_session_exercise ON performed_sets(session_id, exercise_id, set_order);
`

// migrations is the ordered upgrade path. Append only; never reorder or
// edit a released step.
var migrations = []migration{
	{version: "v1", sql: migrationV1},
	{version: "v2", sql: migrationV2},
	{version: "v3", sql: migrationV3},
}

// schemaFingerprint hashes the full ordered migration sequence. Any change
// to it signals a schema change for EraseOnSchemaChange.
func schemaFingerprint() string {
	h := sha256.New()
	for _, m := range migrations {
		h.Write([]byte(m.version))
		h.Write([]byte(m.sql))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// migrate applies pending migrations in order, each in its own
// transaction together with its history row.
func (d *DB) migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY NOT NULL,
			fingerprint TEXT NOT NULL,
			applied_at DATETIME NOT NULL
		)`); err != nil {
		return fmt.Errorf("create migration history: %w", err)
	}

	applied, err := d.appliedVersions(ctx)
	if err != nil {
		return err
	}

	fingerprint := schemaFingerprint()
	for _, m := range migrations {
		if applied[m.version] {
			continue
		}

		tx, err := d.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %s: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, fingerprint, applied_at) VALUES (?, ?, ?)`,
			m.version, fingerprint, time.Now().Format(time.RFC3339Nano)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", m.version, err)
		}
	}

	return nil
}

// appliedVersions returns the set of migration versions already recorded.
func (d *DB) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read migration history: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// fingerprintChanged reports whether the database carries migration
// history recorded under a different schema fingerprint. A fresh database
// reports false.
func (d *DB) fingerprintChanged(ctx context.Context) (bool, error) {
	var exists int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'`,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check migration history: %w", err)
	}
	if exists == 0 {
		return false, nil
	}

	var stored string
	err = d.db.QueryRowContext(ctx,
		`SELECT fingerprint FROM schema_migrations ORDER BY applied_at DESC LIMIT 1`,
	).Scan(&stored)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read schema fingerprint: %w", err)
	}

	return stored != schemaFingerprint(), nil
}
