// ABOUTME: Badger-backed exercise aggregate store for history and derived stats.
// ABOUTME: A parallel key-value source of truth, deliberately separate from the relational engine.
package aggregate

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harperreed/gymtrack/internal/models"
)

// HistorySet is one set inside an aggregate history record.
type HistorySet struct {
	SetOrder int     `json:"set_order"`
	Weight   float64 `json:"weight"`
	Reps     int     `json:"reps"`
	RPE      *int    `json:"rpe,omitempty"`
}

// HistoryEntry is one completed session's work for one exercise.
type HistoryEntry struct {
	ExerciseID uuid.UUID    `json:"exercise_id"`
	SessionID  uuid.UUID    `json:"session_id"`
	Date       time.Time    `json:"date"`
	Sets       []HistorySet `json:"sets"`
}

// Stats are derived per-exercise statistics over recorded history.
type Stats struct {
	SessionCount int
	MaxWeight    float64
	TotalVolume  float64 // sum of weight * reps across all recorded sets
	RPETrend     []int   // last RPE per session, oldest first
}

// Store persists per-exercise history records in a Badger key-value
// database. It duplicates data the relational engine already holds and is
// mutated independently; readers must treat it as eventually consistent.
type Store struct {
	db *badger.DB
}

// Open opens or creates the aggregate store in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open aggregate store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func historyKey(exerciseID, sessionID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("exercise:%s:history:%s", exerciseID, sessionID))
}

func historyPrefix(exerciseID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("exercise:%s:history:", exerciseID))
}

// RecordSession ingests a completed session's sets, grouped per exercise,
// as one history entry per exercise. Re-recording the same session
// overwrites its previous entries.
func (s *Store) RecordSession(session models.WorkoutSession, sets []models.PerformedSet) error {
	grouped := make(map[uuid.UUID][]HistorySet)
	for _, set := range sets {
		grouped[set.ExerciseID] = append(grouped[set.ExerciseID], HistorySet{
			SetOrder: set.SetOrder,
			Weight:   set.Weight,
			Reps:     set.Reps,
			RPE:      set.RPE,
		})
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for exerciseID, hs := range grouped {
			sort.Slice(hs, func(i, j int) bool { return hs[i].SetOrder < hs[j].SetOrder })
			entry := HistoryEntry{
				ExerciseID: exerciseID,
				SessionID:  session.ID,
				Date:       session.Date,
				Sets:       hs,
			}
			data, err := json.Marshal(entry)
			if err != nil {
				return fmt.Errorf("marshal history entry: %w", err)
			}
			if err := txn.Set(historyKey(exerciseID, session.ID), data); err != nil {
				return fmt.Errorf("store history entry: %w", err)
			}
		}
		return nil
	})
}

// History returns all recorded entries for an exercise, oldest first.
func (s *Store) History(exerciseID uuid.UUID) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = historyPrefix(exerciseID)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(v []byte) error {
				var entry HistoryEntry
				if err := json.Unmarshal(v, &entry); err != nil {
					return fmt.Errorf("unmarshal history entry: %w", err)
				}
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
	return entries, nil
}

// Stats derives per-exercise statistics from recorded history.
func (s *Store) Stats(exerciseID uuid.UUID) (*Stats, error) {
	entries, err := s.History(exerciseID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{SessionCount: len(entries)}
	for _, entry := range entries {
		var lastRPE *int
		for _, set := range entry.Sets {
			if set.Weight > stats.MaxWeight {
				stats.MaxWeight = set.Weight
			}
			stats.TotalVolume += set.Weight * float64(set.Reps)
			if set.RPE != nil {
				lastRPE = set.RPE
			}
		}
		if lastRPE != nil {
			stats.RPETrend = append(stats.RPETrend, *lastRPE)
		}
	}
	return stats, nil
}

// SuggestedReferenceWeight reports the max recorded weight when it exceeds
// the current reference weight. The caller decides whether to apply it to
// the relational store; the two stores are not kept in lockstep here.
func (s *Store) SuggestedReferenceWeight(exerciseID uuid.UUID, current float64) (float64, bool, error) {
	stats, err := s.Stats(exerciseID)
	if err != nil {
		return 0, false, err
	}
	if stats.MaxWeight > current {
		return stats.MaxWeight, true, nil
	}
	return current, false, nil
}
