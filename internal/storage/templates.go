// ABOUTME: WorkoutTemplate and TemplateExercise repository operations.
// ABOUTME: Join rows are always replaced wholesale to keep order_index dense.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/gymtrack/internal/models"
)

const templateColumns = `id, name, notes, created_at, updated_at, last_used`

// InsertTemplate stores a new workout template.
func InsertTemplate(ctx context.Context, q Querier, t *models.WorkoutTemplate) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO workout_templates (`+templateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.Name, nullString(t.Notes),
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt), nullTime(t.LastUsed))
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

// UpdateTemplate replaces a template's mutable attributes.
// Returns ErrNotFound for an unknown id.
func UpdateTemplate(ctx context.Context, q Querier, t *models.WorkoutTemplate) error {
	res, err := q.ExecContext(ctx, `
		UPDATE workout_templates
		SET name = ?, notes = ?, updated_at = ?, last_used = ?
		WHERE id = ?`,
		t.Name, nullString(t.Notes), formatTime(t.UpdatedAt), nullTime(t.LastUsed), t.ID.String())
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("template %s: %w", t.ID, ErrNotFound)
	}
	return nil
}

// TouchTemplateLastUsed stamps last_used, used when a session starts from
// the template.
func TouchTemplateLastUsed(ctx context.Context, q Querier, id uuid.UUID, at string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE workout_templates SET last_used = ? WHERE id = ?`, at, id.String())
	if err != nil {
		return fmt.Errorf("touch template: %w", err)
	}
	return nil
}

// GetTemplate retrieves a template by id.
func GetTemplate(ctx context.Context, q Querier, id uuid.UUID) (*models.WorkoutTemplate, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+templateColumns+` FROM workout_templates WHERE id = ?`, id.String())
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return t, err
}

// ListTemplates retrieves all templates ordered by name.
func ListTemplates(ctx context.Context, q Querier) ([]models.WorkoutTemplate, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+templateColumns+` FROM workout_templates ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	return result, rows.Err()
}

// DeleteTemplate removes a template. Join rows cascade away; sessions
// referencing it keep running with template_id set NULL by the schema.
func DeleteTemplate(ctx context.Context, q Querier, id uuid.UUID) error {
	res, err := q.ExecContext(ctx, `DELETE FROM workout_templates WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return nil
}

// ReplaceTemplateExercises rewrites the full join-row set for a template
// with fresh dense order indexes. Delete-all-then-insert avoids stale join
// rows after reordering.
func ReplaceTemplateExercises(ctx context.Context, q Querier, templateID uuid.UUID, exerciseIDs []uuid.UUID) error {
	if _, err := q.ExecContext(ctx,
		`DELETE FROM template_exercises WHERE template_id = ?`, templateID.String()); err != nil {
		return fmt.Errorf("clear template exercises: %w", err)
	}

	for i, exerciseID := range exerciseIDs {
		te := models.NewTemplateExercise(templateID, exerciseID, i)
		if _, err := q.ExecContext(ctx, `
			INSERT INTO template_exercises (id, template_id, exercise_id, order_index)
			VALUES (?, ?, ?, ?)`,
			te.ID.String(), te.TemplateID.String(), te.ExerciseID.String(), te.OrderIndex); err != nil {
			return fmt.Errorf("insert template exercise: %w", err)
		}
	}
	return nil
}

// ListTemplateExercises retrieves a template's join rows ordered by
// order_index ascending.
func ListTemplateExercises(ctx context.Context, q Querier, templateID uuid.UUID) ([]models.TemplateExercise, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, template_id, exercise_id, order_index
		FROM template_exercises
		WHERE template_id = ?
		ORDER BY order_index ASC`, templateID.String())
	if err != nil {
		return nil, fmt.Errorf("list template exercises: %w", err)
	}
	defer rows.Close()

	var result []models.TemplateExercise
	for rows.Next() {
		var te models.TemplateExercise
		var idStr, tmplStr, exStr string
		if err := rows.Scan(&idStr, &tmplStr, &exStr, &te.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan template exercise: %w", err)
		}
		te.ID, _ = uuid.Parse(idStr)
		te.TemplateID, _ = uuid.Parse(tmplStr)
		te.ExerciseID, _ = uuid.Parse(exStr)
		result = append(result, te)
	}
	return result, rows.Err()
}

func scanTemplate(row rowScanner) (*models.WorkoutTemplate, error) {
	var t models.WorkoutTemplate
	var idStr, createdAt, updatedAt string
	var notes, lastUsed sql.NullString

	err := row.Scan(&idStr, &t.Name, &notes, &createdAt, &updatedAt, &lastUsed)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan template: %w", err)
	}

	t.ID, _ = uuid.Parse(idStr)
	t.Notes = stringPtr(notes)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	t.LastUsed = timePtr(lastUsed)

	return &t, nil
}
