// ABOUTME: ExerciseDefinition repository operations.
// ABOUTME: Querier-scoped functions compose inside a single transaction.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/gymtrack/internal/models"
)

const exerciseColumns = `id, name, category, target_rm, reference_weight, rest_interval_sec, notes, created_at, updated_at`

// InsertExercise stores a new exercise definition.
func InsertExercise(ctx context.Context, q Querier, e *models.ExerciseDefinition) error {
	var restSec *float64
	if e.RestInterval != nil {
		s := e.RestInterval.Seconds()
		restSec = &s
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO exercise_definitions (`+exerciseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.Name, string(e.Category),
		nullInt(e.TargetRM), nullFloat(e.ReferenceWeight), nullFloat(restSec),
		nullString(e.Notes), formatTime(e.CreatedAt), formatTime(e.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert exercise: %w", err)
	}
	return nil
}

// UpdateExercise replaces the mutable attributes of an exercise and
// advances updated_at. Returns ErrNotFound for an unknown id.
func UpdateExercise(ctx context.Context, q Querier, e *models.ExerciseDefinition) error {
	var restSec *float64
	if e.RestInterval != nil {
		s := e.RestInterval.Seconds()
		restSec = &s
	}
	res, err := q.ExecContext(ctx, `
		UPDATE exercise_definitions
		SET name = ?, category = ?, target_rm = ?, reference_weight = ?,
		    rest_interval_sec = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		e.Name, string(e.Category), nullInt(e.TargetRM), nullFloat(e.ReferenceWeight),
		nullFloat(restSec), nullString(e.Notes), formatTime(e.UpdatedAt), e.ID.String())
	if err != nil {
		return fmt.Errorf("update exercise: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update exercise: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("exercise %s: %w", e.ID, ErrNotFound)
	}
	return nil
}

// GetExercise retrieves an exercise definition by id.
func GetExercise(ctx context.Context, q Querier, id uuid.UUID) (*models.ExerciseDefinition, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+exerciseColumns+` FROM exercise_definitions WHERE id = ?`,
		id.String())
	e, err := scanExercise(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("exercise %s: %w", id, ErrNotFound)
	}
	return e, err
}

// GetExercises retrieves exercise definitions for a set of ids, in the
// order the ids were given. Missing ids yield ErrNotFound.
func GetExercises(ctx context.Context, q Querier, ids []uuid.UUID) ([]models.ExerciseDefinition, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id.String()
	}

	rows, err := q.QueryContext(ctx, `
		SELECT `+exerciseColumns+` FROM exercise_definitions
		WHERE id IN (`+strings.Join(placeholders, ",")+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]models.ExerciseDefinition, len(ids))
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		byID[e.ID] = *e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]models.ExerciseDefinition, 0, len(ids))
	for _, id := range ids {
		e, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("exercise %s: %w", id, ErrNotFound)
		}
		result = append(result, e)
	}
	return result, nil
}

// ListExercises retrieves all exercise definitions, optionally filtered by
// category, ordered by name.
func ListExercises(ctx context.Context, q Querier, category *models.ExerciseCategory) ([]models.ExerciseDefinition, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercise_definitions`
	var args []any
	if category != nil {
		query += ` WHERE category = ?`
		args = append(args, string(*category))
	}
	query += ` ORDER BY name ASC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var result []models.ExerciseDefinition
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

// DeleteExercise removes an exercise definition. Referencing performed
// sets and template rows cascade away. Returns ErrNotFound for an unknown id.
func DeleteExercise(ctx context.Context, q Querier, id uuid.UUID) error {
	res, err := q.ExecContext(ctx, `DELETE FROM exercise_definitions WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("exercise %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (*models.ExerciseDefinition, error) {
	var e models.ExerciseDefinition
	var idStr, category, createdAt, updatedAt string
	var targetRM sql.NullInt64
	var refWeight, restSec sql.NullFloat64
	var notes sql.NullString

	err := row.Scan(&idStr, &e.Name, &category, &targetRM, &refWeight, &restSec, &notes, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan exercise: %w", err)
	}

	e.ID, _ = uuid.Parse(idStr)
	e.Category = models.ExerciseCategory(category)
	e.TargetRM = intPtr(targetRM)
	e.ReferenceWeight = floatPtr(refWeight)
	if restSec.Valid {
		d := time.Duration(restSec.Float64 * float64(time.Second))
		e.RestInterval = &d
	}
	e.Notes = stringPtr(notes)
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)

	return &e, nil
}
