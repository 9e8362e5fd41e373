// ABOUTME: WorkoutSession repository operations.
// ABOUTME: Includes the seeding history query over completed sessions.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/gymtrack/internal/models"
)

const sessionColumns = `id, template_id, title, date, status, created_at, updated_at`

// InsertSession stores a new workout session.
func InsertSession(ctx context.Context, q Querier, s *models.WorkoutSession) error {
	var templateID any
	if s.TemplateID != nil {
		templateID = s.TemplateID.String()
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO workout_sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID.String(), templateID, s.Title, formatTime(s.Date), string(s.Status),
		formatTime(s.CreatedAt), formatTime(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// UpdateSession replaces a session's mutable attributes.
// Returns ErrNotFound for an unknown id.
func UpdateSession(ctx context.Context, q Querier, s *models.WorkoutSession) error {
	var templateID any
	if s.TemplateID != nil {
		templateID = s.TemplateID.String()
	}
	res, err := q.ExecContext(ctx, `
		UPDATE workout_sessions
		SET template_id = ?, title = ?, date = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		templateID, s.Title, formatTime(s.Date), string(s.Status),
		formatTime(s.UpdatedAt), s.ID.String())
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", s.ID, ErrNotFound)
	}
	return nil
}

// TouchSession advances a session's updated_at. Dependent-entity mutations
// must call this inside the same transaction.
func TouchSession(ctx context.Context, q Querier, id uuid.UUID, at string) error {
	res, err := q.ExecContext(ctx,
		`UPDATE workout_sessions SET updated_at = ? WHERE id = ?`, at, id.String())
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetSession retrieves a session by id.
func GetSession(ctx context.Context, q Querier, id uuid.UUID) (*models.WorkoutSession, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM workout_sessions WHERE id = ?`, id.String())
	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return s, err
}

// ListSessions retrieves all sessions ordered by date descending, with id
// as a tie-breaker so equal-date rows keep a stable order between
// re-fetches. This is the query the sessions observation tracks.
func ListSessions(ctx context.Context, q Querier) ([]models.WorkoutSession, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+sessionColumns+` FROM workout_sessions ORDER BY date DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

// DeleteSession removes a session; its performed sets cascade away.
// Returns ErrNotFound for an unknown id.
func DeleteSession(ctx context.Context, q Querier, id uuid.UUID) error {
	res, err := q.ExecContext(ctx, `DELETE FROM workout_sessions WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}

// LatestCompletedSessionWithExercise finds the most recent completed
// session holding at least one performed set for the exercise. Returns
// ErrNotFound when no completed history exists.
func LatestCompletedSessionWithExercise(ctx context.Context, q Querier, exerciseID uuid.UUID) (uuid.UUID, error) {
	var idStr string
	err := q.QueryRowContext(ctx, `
		SELECT s.id
		FROM workout_sessions s
		JOIN performed_sets ps ON ps.session_id = s.id
		WHERE s.status = ? AND ps.exercise_id = ?
		ORDER BY s.date DESC, s.created_at DESC
		LIMIT 1`,
		string(models.StatusCompleted), exerciseID.String()).Scan(&idStr)
	if err == sql.ErrNoRows {
		return uuid.Nil, fmt.Errorf("history for exercise %s: %w", exerciseID, ErrNotFound)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("query exercise history: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse session id: %w", err)
	}
	return id, nil
}

func scanSession(row rowScanner) (*models.WorkoutSession, error) {
	var s models.WorkoutSession
	var idStr, date, status, createdAt, updatedAt string
	var templateID sql.NullString

	err := row.Scan(&idStr, &templateID, &s.Title, &date, &status, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	s.ID, _ = uuid.Parse(idStr)
	if templateID.Valid {
		id, err := uuid.Parse(templateID.String)
		if err == nil {
			s.TemplateID = &id
		}
	}
	s.Date = parseTime(date)
	s.Status = models.TrainingStatus(status)
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)

	return &s, nil
}
