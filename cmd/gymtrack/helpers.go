// ABOUTME: Shared CLI helpers for parsing arguments and formatting output.
// ABOUTME: Resolves short ID prefixes against the store, parses dates, pads columns.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/gymtrack/internal/models"
	"github.com/spf13/cobra"
)


func parseDate(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// matchID resolves a full UUID or a unique ID prefix against candidates.
func matchID(arg string, candidates []uuid.UUID) (uuid.UUID, error) {
	if id, err := uuid.Parse(arg); err == nil {
		return id, nil
	}

	var matches []uuid.UUID
	for _, id := range candidates {
		if strings.HasPrefix(id.String(), strings.ToLower(arg)) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return uuid.Nil, fmt.Errorf("no match for id %s", arg)
	case 1:
		return matches[0], nil
	default:
		return uuid.Nil, fmt.Errorf("ambiguous id %s (%d matches)", arg, len(matches))
	}
}

// resolveExercise matches an exercise by ID prefix or exact name.
func resolveExercise(cmd *cobra.Command, arg string) (models.ExerciseDefinition, error) {
	exercises, err := svc.Exercises(cmd.Context(), nil)
	if err != nil {
		return models.ExerciseDefinition{}, err
	}
	for _, e := range exercises {
		if strings.EqualFold(e.Name, arg) {
			return e, nil
		}
	}
	ids := make([]uuid.UUID, len(exercises))
	for i, e := range exercises {
		ids[i] = e.ID
	}
	id, err := matchID(arg, ids)
	if err != nil {
		return models.ExerciseDefinition{}, fmt.Errorf("exercise not found: %s", arg)
	}
	for _, e := range exercises {
		if e.ID == id {
			return e, nil
		}
	}
	return models.ExerciseDefinition{}, fmt.Errorf("exercise not found: %s", arg)
}

// resolveTemplate matches a template by ID prefix or exact name.
func resolveTemplate(cmd *cobra.Command, arg string) (models.WorkoutTemplate, error) {
	templates, err := svc.Templates(cmd.Context())
	if err != nil {
		return models.WorkoutTemplate{}, err
	}
	for _, t := range templates {
		if strings.EqualFold(t.Name, arg) {
			return t, nil
		}
	}
	ids := make([]uuid.UUID, len(templates))
	for i, t := range templates {
		ids[i] = t.ID
	}
	id, err := matchID(arg, ids)
	if err != nil {
		return models.WorkoutTemplate{}, fmt.Errorf("template not found: %s", arg)
	}
	for _, t := range templates {
		if t.ID == id {
			return t, nil
		}
	}
	return models.WorkoutTemplate{}, fmt.Errorf("template not found: %s", arg)
}

// resolveSession matches a session by ID prefix.
func resolveSession(cmd *cobra.Command, arg string) (models.WorkoutSession, error) {
	sessions, err := svc.Sessions(cmd.Context())
	if err != nil {
		return models.WorkoutSession{}, err
	}
	ids := make([]uuid.UUID, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	id, err := matchID(arg, ids)
	if err != nil {
		return models.WorkoutSession{}, fmt.Errorf("session not found: %s", arg)
	}
	for _, s := range sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return models.WorkoutSession{}, fmt.Errorf("session not found: %s", arg)
}
