// ABOUTME: SessionFeed consumes the sessions observation for presentation layers.
// ABOUTME: Refetches performed sets only for sessions whose identity or updatedAt changed.
package workout

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/harperreed/gymtrack/internal/models"
	"github.com/harperreed/gymtrack/internal/storage"
)

// SessionFeed maintains the session list plus per-session sets, kept fresh
// by the change observation pipeline. Changed-row detection compares id
// and updatedAt, not full content, so unrelated sessions are never
// re-fetched.
type SessionFeed struct {
	db *storage.DB

	mu       sync.RWMutex
	sessions []models.WorkoutSession
	sets     map[uuid.UUID][]models.PerformedSet

	updates chan struct{}
	errs    chan error
	done    chan struct{}
}

// NewSessionFeed starts a feed over the given store. It runs until ctx is
// cancelled; Done closes when the feed has fully stopped.
func NewSessionFeed(ctx context.Context, db *storage.DB) *SessionFeed {
	f := &SessionFeed{
		db:      db,
		sets:    make(map[uuid.UUID][]models.PerformedSet),
		updates: make(chan struct{}, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	sub := db.ObserveSessions(ctx)
	go f.run(ctx, sub)
	return f
}

func (f *SessionFeed) run(ctx context.Context, sub *storage.Subscription[[]models.WorkoutSession]) {
	defer close(f.done)
	for {
		select {
		case sessions, ok := <-sub.Results:
			if !ok {
				return
			}
			f.apply(ctx, sessions)
		case err, ok := <-sub.Errors:
			if !ok {
				return
			}
			select {
			case f.errs <- err:
			default:
			}
		}
	}
}

// apply installs a delivered session list, fetching sets for sessions that
// are new or whose updatedAt advanced and pruning sets of deleted sessions.
func (f *SessionFeed) apply(ctx context.Context, sessions []models.WorkoutSession) {
	f.mu.RLock()
	previous := make(map[uuid.UUID]models.WorkoutSession, len(f.sessions))
	for _, s := range f.sessions {
		previous[s.ID] = s
	}
	f.mu.RUnlock()

	var changed []uuid.UUID
	alive := make(map[uuid.UUID]bool, len(sessions))
	for _, s := range sessions {
		alive[s.ID] = true
		prev, ok := previous[s.ID]
		if !ok || !prev.UpdatedAt.Equal(s.UpdatedAt) {
			changed = append(changed, s.ID)
		}
	}

	var fetched []models.PerformedSet
	if len(changed) > 0 {
		err := f.db.Read(ctx, func(q storage.Querier) error {
			var rerr error
			fetched, rerr = storage.SetsForSessions(ctx, q, changed)
			return rerr
		})
		if err != nil {
			select {
			case f.errs <- err:
			default:
			}
			return
		}
	}

	grouped := make(map[uuid.UUID][]models.PerformedSet)
	for _, set := range fetched {
		grouped[set.SessionID] = append(grouped[set.SessionID], set)
	}

	f.mu.Lock()
	f.sessions = sessions
	for _, id := range changed {
		f.sets[id] = grouped[id]
	}
	for id := range f.sets {
		if !alive[id] {
			delete(f.sets, id)
		}
	}
	f.mu.Unlock()

	select {
	case f.updates <- struct{}{}:
	default:
	}
}

// Sessions returns the current session list ordered by date descending.
func (f *SessionFeed) Sessions() []models.WorkoutSession {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.WorkoutSession, len(f.sessions))
	copy(out, f.sessions)
	return out
}

// SetsForSession returns the known sets for one session.
func (f *SessionFeed) SetsForSession(sessionID uuid.UUID) []models.PerformedSet {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.PerformedSet, len(f.sets[sessionID]))
	copy(out, f.sets[sessionID])
	return out
}

// SetsForExercise returns the known sets for one exercise within a
// session, ordered by setOrder ascending.
func (f *SessionFeed) SetsForExercise(sessionID, exerciseID uuid.UUID) []models.PerformedSet {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []models.PerformedSet
	for _, set := range f.sets[sessionID] {
		if set.ExerciseID == exerciseID {
			out = append(out, set)
		}
	}
	return out
}

// Updates signals after each applied delivery. The channel holds one
// pending signal; consumers re-read state when they receive.
func (f *SessionFeed) Updates() <-chan struct{} {
	return f.updates
}

// Errors carries read failures; delivered state stays last-known-good.
func (f *SessionFeed) Errors() <-chan error {
	return f.errs
}

// Done closes when the feed has stopped after context cancellation.
func (f *SessionFeed) Done() <-chan struct{} {
	return f.done
}
