// ABOUTME: PerformedSet repository operations.
// ABOUTME: Set order is renumbered densely per (session, exercise) after deletes.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/gymtrack/internal/models"
)

const setColumns = `id, session_id, exercise_id, set_order, weight, reps, rpe, notes, completed_at`

// InsertSet stores a performed set.
func InsertSet(ctx context.Context, q Querier, p *models.PerformedSet) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO performed_sets (`+setColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID.String(), p.SessionID.String(), p.ExerciseID.String(), p.SetOrder,
		p.Weight, p.Reps, nullInt(p.RPE), nullString(p.Notes), formatTime(p.CompletedAt))
	if err != nil {
		return fmt.Errorf("insert set: %w", err)
	}
	return nil
}

// UpdateSet fully replaces a set's weight, reps, RPE, notes, and
// completed_at. Returns ErrNotFound for an unknown id.
func UpdateSet(ctx context.Context, q Querier, p *models.PerformedSet) error {
	res, err := q.ExecContext(ctx, `
		UPDATE performed_sets
		SET set_order = ?, weight = ?, reps = ?, rpe = ?, notes = ?, completed_at = ?
		WHERE id = ?`,
		p.SetOrder, p.Weight, p.Reps, nullInt(p.RPE), nullString(p.Notes),
		formatTime(p.CompletedAt), p.ID.String())
	if err != nil {
		return fmt.Errorf("update set: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update set: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

// GetSet retrieves a performed set by id.
func GetSet(ctx context.Context, q Querier, id uuid.UUID) (*models.PerformedSet, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+setColumns+` FROM performed_sets WHERE id = ?`, id.String())
	p, err := scanSet(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("set %s: %w", id, ErrNotFound)
	}
	return p, err
}

// DeleteSets removes sets by identifier list. Returns the number of rows
// actually removed; unknown ids are skipped.
func DeleteSets(ctx context.Context, q Querier, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id.String()
	}

	res, err := q.ExecContext(ctx,
		`DELETE FROM performed_sets WHERE id IN (`+strings.Join(placeholders, ",")+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("delete sets: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete sets: %w", err)
	}
	return affected, nil
}

// DeleteSetsForSession removes every set belonging to a session. Used by
// the replace-all operation.
func DeleteSetsForSession(ctx context.Context, q Querier, sessionID uuid.UUID) error {
	_, err := q.ExecContext(ctx,
		`DELETE FROM performed_sets WHERE session_id = ?`, sessionID.String())
	if err != nil {
		return fmt.Errorf("delete session sets: %w", err)
	}
	return nil
}

// SetsForSession retrieves a session's sets ordered by exercise then
// set_order ascending.
func SetsForSession(ctx context.Context, q Querier, sessionID uuid.UUID) ([]models.PerformedSet, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+setColumns+` FROM performed_sets
		WHERE session_id = ?
		ORDER BY exercise_id ASC, set_order ASC`, sessionID.String())
	if err != nil {
		return nil, fmt.Errorf("query session sets: %w", err)
	}
	defer rows.Close()

	return collectSets(rows)
}

// SetsForSessions retrieves sets for a list of sessions in one query,
// the narrower secondary fetch the observation consumer performs.
func SetsForSessions(ctx context.Context, q Querier, sessionIDs []uuid.UUID) ([]models.PerformedSet, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id.String()
	}

	rows, err := q.QueryContext(ctx, `
		SELECT `+setColumns+` FROM performed_sets
		WHERE session_id IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY session_id ASC, exercise_id ASC, set_order ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query sets for sessions: %w", err)
	}
	defer rows.Close()

	return collectSets(rows)
}

// SetsForSessionExercise retrieves the sets for one (session, exercise)
// pair ordered by set_order ascending.
func SetsForSessionExercise(ctx context.Context, q Querier, sessionID, exerciseID uuid.UUID) ([]models.PerformedSet, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+setColumns+` FROM performed_sets
		WHERE session_id = ? AND exercise_id = ?
		ORDER BY set_order ASC`, sessionID.String(), exerciseID.String())
	if err != nil {
		return nil, fmt.Errorf("query exercise sets: %w", err)
	}
	defer rows.Close()

	return collectSets(rows)
}

// NormalizeSetOrder rewrites set_order to a dense 0-based sequence for one
// (session, exercise) pair, closing gaps left by deletes.
func NormalizeSetOrder(ctx context.Context, q Querier, sessionID, exerciseID uuid.UUID) error {
	sets, err := SetsForSessionExercise(ctx, q, sessionID, exerciseID)
	if err != nil {
		return err
	}
	for i, p := range sets {
		if p.SetOrder == i {
			continue
		}
		if _, err := q.ExecContext(ctx,
			`UPDATE performed_sets SET set_order = ? WHERE id = ?`, i, p.ID.String()); err != nil {
			return fmt.Errorf("renumber set: %w", err)
		}
	}
	return nil
}

func collectSets(rows *sql.Rows) ([]models.PerformedSet, error) {
	var result []models.PerformedSet
	for rows.Next() {
		p, err := scanSet(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func scanSet(row rowScanner) (*models.PerformedSet, error) {
	var p models.PerformedSet
	var idStr, sessionStr, exerciseStr, completedAt string
	var rpe sql.NullInt64
	var notes sql.NullString

	err := row.Scan(&idStr, &sessionStr, &exerciseStr, &p.SetOrder, &p.Weight, &p.Reps, &rpe, &notes, &completedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan set: %w", err)
	}

	p.ID, _ = uuid.Parse(idStr)
	p.SessionID, _ = uuid.Parse(sessionStr)
	p.ExerciseID, _ = uuid.Parse(exerciseStr)
	p.RPE = intPtr(rpe)
	p.Notes = stringPtr(notes)
	p.CompletedAt = parseTime(completedAt)

	return &p, nil
}
