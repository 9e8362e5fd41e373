// ABOUTME: Session lifecycle manager and set/template editing operations.
// ABOUTME: Every multi-step command runs inside a single write transaction.
package workout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/gymtrack/internal/models"
	"github.com/harperreed/gymtrack/internal/storage"
)

// ErrInvalidTransition reports a status change attempted on a session in a
// terminal state.
var ErrInvalidTransition = errors.New("invalid status transition")

// Service issues workout commands through the transactional store. It is
// constructed with an explicit store handle; there is no shared singleton.
type Service struct {
	db  *storage.DB
	now func() time.Time
}

// NewService creates a Service over the given store.
func NewService(db *storage.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// DB exposes the underlying store handle for read-side consumers.
func (s *Service) DB() *storage.DB {
	return s.db
}

// StartFromTemplate creates an in-progress session titled after the
// template, seeds its sets from history, and stamps the template's
// last_used. With a nil exerciseIDs the template's ordered exercise list
// is used; a non-nil list overrides it. Returns the new session's id.
func (s *Service) StartFromTemplate(ctx context.Context, templateID uuid.UUID, exerciseIDs []uuid.UUID, date time.Time) (uuid.UUID, error) {
	var sessionID uuid.UUID
	err := s.db.Write(ctx, func(q storage.Querier) error {
		tmpl, err := storage.GetTemplate(ctx, q, templateID)
		if err != nil {
			return err
		}

		if exerciseIDs == nil {
			links, err := storage.ListTemplateExercises(ctx, q, templateID)
			if err != nil {
				return err
			}
			for _, link := range links {
				exerciseIDs = append(exerciseIDs, link.ExerciseID)
			}
		}

		session := models.NewSession(tmpl.Name, date).WithTemplate(templateID)
		if err := s.createSessionAndInitialSets(ctx, q, session, exerciseIDs); err != nil {
			return err
		}
		if err := storage.TouchTemplateLastUsed(ctx, q, templateID, s.timestamp()); err != nil {
			return err
		}

		sessionID = session.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return sessionID, nil
}

// StartCustom creates an ad-hoc in-progress session with the given title
// and seeds its sets from history. Returns the new session's id.
func (s *Service) StartCustom(ctx context.Context, title string, exerciseIDs []uuid.UUID, date time.Time) (uuid.UUID, error) {
	var sessionID uuid.UUID
	err := s.db.Write(ctx, func(q storage.Querier) error {
		session := models.NewSession(title, date)
		if err := s.createSessionAndInitialSets(ctx, q, session, exerciseIDs); err != nil {
			return err
		}
		sessionID = session.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return sessionID, nil
}

// createSessionAndInitialSets writes the session row plus all seeded sets.
// For each exercise the most recent completed session with history
// contributes its set orders and weights with reps reset to zero; without
// history a single set at the exercise's reference weight is created.
func (s *Service) createSessionAndInitialSets(ctx context.Context, q storage.Querier, session *models.WorkoutSession, exerciseIDs []uuid.UUID) error {
	exercises, err := storage.GetExercises(ctx, q, exerciseIDs)
	if err != nil {
		return err
	}

	if err := storage.InsertSession(ctx, q, session); err != nil {
		return err
	}

	for _, exercise := range exercises {
		var history []models.PerformedSet
		lastSessionID, err := storage.LatestCompletedSessionWithExercise(ctx, q, exercise.ID)
		if err == nil {
			history, err = storage.SetsForSessionExercise(ctx, q, lastSessionID, exercise.ID)
			if err != nil {
				return err
			}
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		if len(history) > 0 {
			// Carry over load, not completion: same order and weight,
			// reps reset, fresh completedAt.
			for i, prev := range history {
				seeded := models.NewPerformedSet(session.ID, exercise.ID, i, prev.Weight, 0)
				seeded.CompletedAt = s.now()
				if err := storage.InsertSet(ctx, q, seeded); err != nil {
					return err
				}
			}
			continue
		}

		weight := 0.0
		if exercise.ReferenceWeight != nil {
			weight = *exercise.ReferenceWeight
		}
		seeded := models.NewPerformedSet(session.ID, exercise.ID, 0, weight, 0)
		seeded.CompletedAt = s.now()
		if err := storage.InsertSet(ctx, q, seeded); err != nil {
			return err
		}
	}

	return nil
}

// UpdateSessionDetails changes a session's title and/or date and advances
// updated_at. Nil fields are left untouched. Returns storage.ErrNotFound
// for an unknown id.
func (s *Service) UpdateSessionDetails(ctx context.Context, id uuid.UUID, title *string, date *time.Time) error {
	return s.db.Write(ctx, func(q storage.Querier) error {
		session, err := storage.GetSession(ctx, q, id)
		if err != nil {
			return err
		}
		if title != nil {
			session.Title = *title
		}
		if date != nil {
			session.Date = *date
		}
		session.UpdatedAt = s.now()
		return storage.UpdateSession(ctx, q, session)
	})
}

// CompleteSession transitions a session to completed.
func (s *Service) CompleteSession(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, models.StatusCompleted)
}

// CancelSession transitions a session to cancelled.
func (s *Service) CancelSession(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, models.StatusCancelled)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, next models.TrainingStatus) error {
	return s.db.Write(ctx, func(q storage.Querier) error {
		session, err := storage.GetSession(ctx, q, id)
		if err != nil {
			return err
		}
		if !session.Status.CanTransitionTo(next) {
			return fmt.Errorf("session %s is %s: %w", id, session.Status, ErrInvalidTransition)
		}
		session.Status = next
		session.UpdatedAt = s.now()
		return storage.UpdateSession(ctx, q, session)
	})
}

// DeleteSession removes a session, cascading its performed sets.
func (s *Service) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return s.db.Write(ctx, func(q storage.Querier) error {
		return storage.DeleteSession(ctx, q, id)
	})
}

// AddSet appends a set at the next contiguous setOrder for the (session,
// exercise) pair. Weight defaults to the last existing set's weight, then
// the exercise's reference weight, then zero. Returns the new set's id.
func (s *Service) AddSet(ctx context.Context, sessionID, exerciseID uuid.UUID) (uuid.UUID, error) {
	var setID uuid.UUID
	err := s.db.Write(ctx, func(q storage.Querier) error {
		existing, err := storage.SetsForSessionExercise(ctx, q, sessionID, exerciseID)
		if err != nil {
			return err
		}

		var weight float64
		if len(existing) > 0 {
			weight = existing[len(existing)-1].Weight
		} else {
			exercise, err := storage.GetExercise(ctx, q, exerciseID)
			if err != nil {
				return err
			}
			if exercise.ReferenceWeight != nil {
				weight = *exercise.ReferenceWeight
			}
		}

		set := models.NewPerformedSet(sessionID, exerciseID, len(existing), weight, 0)
		set.CompletedAt = s.now()
		if err := storage.InsertSet(ctx, q, set); err != nil {
			return err
		}
		if err := storage.TouchSession(ctx, q, sessionID, s.timestamp()); err != nil {
			return err
		}

		setID = set.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return setID, nil
}

// UpdateSet fully replaces a set's weight, reps, RPE, and notes.
// completedAt is refreshed to the edit time, and the owning session's
// updated_at advances in the same transaction.
func (s *Service) UpdateSet(ctx context.Context, set models.PerformedSet) error {
	if set.RPE != nil && !models.ValidRPE(*set.RPE) {
		return fmt.Errorf("rpe %d out of range 1-10", *set.RPE)
	}
	return s.db.Write(ctx, func(q storage.Querier) error {
		current, err := storage.GetSet(ctx, q, set.ID)
		if err != nil {
			return err
		}
		current.Weight = set.Weight
		current.Reps = set.Reps
		current.RPE = set.RPE
		current.Notes = set.Notes
		current.CompletedAt = s.now()
		if err := storage.UpdateSet(ctx, q, current); err != nil {
			return err
		}
		return storage.TouchSession(ctx, q, current.SessionID, s.timestamp())
	})
}

// DeleteSets batch-deletes sets by id, renumbers the surviving sets of
// each affected exercise densely, and advances the session's updated_at.
func (s *Service) DeleteSets(ctx context.Context, sessionID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.Write(ctx, func(q storage.Querier) error {
		// Only sets owned by the named session are deleted; ids of other
		// sessions' sets are skipped like unknown ids. Record which
		// exercises lose sets before deleting.
		affected := make(map[uuid.UUID]bool)
		owned := make([]uuid.UUID, 0, len(ids))
		for _, id := range ids {
			set, err := storage.GetSet(ctx, q, id)
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if set.SessionID == sessionID {
				owned = append(owned, id)
				affected[set.ExerciseID] = true
			}
		}

		if _, err := storage.DeleteSets(ctx, q, owned); err != nil {
			return err
		}
		for exerciseID := range affected {
			if err := storage.NormalizeSetOrder(ctx, q, sessionID, exerciseID); err != nil {
				return err
			}
		}
		return storage.TouchSession(ctx, q, sessionID, s.timestamp())
	})
}

// ReplaceSessionSets deletes all sets for a session and inserts the given
// ones, assigning dense set orders per exercise in the order listed. The
// session's updated_at advances once.
func (s *Service) ReplaceSessionSets(ctx context.Context, sessionID uuid.UUID, sets []models.PerformedSet) error {
	return s.db.Write(ctx, func(q storage.Querier) error {
		if err := storage.DeleteSetsForSession(ctx, q, sessionID); err != nil {
			return err
		}

		orders := make(map[uuid.UUID]int)
		for i := range sets {
			set := sets[i]
			set.SessionID = sessionID
			set.SetOrder = orders[set.ExerciseID]
			orders[set.ExerciseID]++
			if set.ID == uuid.Nil {
				set.ID = uuid.New()
			}
			if set.CompletedAt.IsZero() {
				set.CompletedAt = s.now()
			}
			if err := storage.InsertSet(ctx, q, &set); err != nil {
				return err
			}
		}

		return storage.TouchSession(ctx, q, sessionID, s.timestamp())
	})
}

// CreateTemplate saves a template plus its ordered exercise list in one
// transaction. Returns the new template's id.
func (s *Service) CreateTemplate(ctx context.Context, name string, notes *string, exerciseIDs []uuid.UUID) (uuid.UUID, error) {
	tmpl := models.NewTemplate(name)
	if notes != nil {
		tmpl.WithNotes(*notes)
	}
	err := s.db.Write(ctx, func(q storage.Querier) error {
		if _, err := storage.GetExercises(ctx, q, exerciseIDs); err != nil {
			return err
		}
		if err := storage.InsertTemplate(ctx, q, tmpl); err != nil {
			return err
		}
		return storage.ReplaceTemplateExercises(ctx, q, tmpl.ID, exerciseIDs)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return tmpl.ID, nil
}

// UpdateTemplate saves template attributes and replaces the full join-row
// set with fresh order indexes in one transaction.
func (s *Service) UpdateTemplate(ctx context.Context, id uuid.UUID, name string, notes *string, exerciseIDs []uuid.UUID) error {
	return s.db.Write(ctx, func(q storage.Querier) error {
		tmpl, err := storage.GetTemplate(ctx, q, id)
		if err != nil {
			return err
		}
		if _, err := storage.GetExercises(ctx, q, exerciseIDs); err != nil {
			return err
		}
		tmpl.Name = name
		tmpl.Notes = notes
		tmpl.UpdatedAt = s.now()
		if err := storage.UpdateTemplate(ctx, q, tmpl); err != nil {
			return err
		}
		return storage.ReplaceTemplateExercises(ctx, q, id, exerciseIDs)
	})
}

// DeleteTemplate removes a template; join rows cascade, sessions keep
// running with a null template reference.
func (s *Service) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return s.db.Write(ctx, func(q storage.Querier) error {
		return storage.DeleteTemplate(ctx, q, id)
	})
}

// CreateExercise stores a new exercise definition.
func (s *Service) CreateExercise(ctx context.Context, e *models.ExerciseDefinition) error {
	return s.db.Write(ctx, func(q storage.Querier) error {
		return storage.InsertExercise(ctx, q, e)
	})
}

// UpdateExercise replaces an exercise's mutable attributes.
func (s *Service) UpdateExercise(ctx context.Context, e *models.ExerciseDefinition) error {
	e.UpdatedAt = s.now()
	return s.db.Write(ctx, func(q storage.Querier) error {
		return storage.UpdateExercise(ctx, q, e)
	})
}

// DeleteExercise removes an exercise definition, cascading its performed
// sets and template memberships.
func (s *Service) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	return s.db.Write(ctx, func(q storage.Querier) error {
		return storage.DeleteExercise(ctx, q, id)
	})
}

// Exercises retrieves exercise definitions ordered by name, optionally
// filtered by category.
func (s *Service) Exercises(ctx context.Context, category *models.ExerciseCategory) ([]models.ExerciseDefinition, error) {
	var exercises []models.ExerciseDefinition
	err := s.db.Read(ctx, func(q storage.Querier) error {
		var rerr error
		exercises, rerr = storage.ListExercises(ctx, q, category)
		return rerr
	})
	return exercises, err
}

// Templates retrieves all templates ordered by name.
func (s *Service) Templates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	var templates []models.WorkoutTemplate
	err := s.db.Read(ctx, func(q storage.Querier) error {
		var rerr error
		templates, rerr = storage.ListTemplates(ctx, q)
		return rerr
	})
	return templates, err
}

// TemplateExercises retrieves a template's ordered exercise definitions.
func (s *Service) TemplateExercises(ctx context.Context, templateID uuid.UUID) ([]models.ExerciseDefinition, error) {
	var exercises []models.ExerciseDefinition
	err := s.db.Read(ctx, func(q storage.Querier) error {
		links, err := storage.ListTemplateExercises(ctx, q, templateID)
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, len(links))
		for i, link := range links {
			ids[i] = link.ExerciseID
		}
		exercises, err = storage.GetExercises(ctx, q, ids)
		return err
	})
	return exercises, err
}

// Sessions retrieves all sessions ordered by date descending.
func (s *Service) Sessions(ctx context.Context) ([]models.WorkoutSession, error) {
	var sessions []models.WorkoutSession
	err := s.db.Read(ctx, func(q storage.Querier) error {
		var rerr error
		sessions, rerr = storage.ListSessions(ctx, q)
		return rerr
	})
	return sessions, err
}

// SessionSets retrieves a session's sets ordered per exercise.
func (s *Service) SessionSets(ctx context.Context, sessionID uuid.UUID) ([]models.PerformedSet, error) {
	var sets []models.PerformedSet
	err := s.db.Read(ctx, func(q storage.Querier) error {
		var rerr error
		sets, rerr = storage.SetsForSession(ctx, q, sessionID)
		return rerr
	})
	return sets, err
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}
