// ABOUTME: MCP tool implementations for the gymtrack engine.
// ABOUTME: Exposes session lifecycle, set editing, and template commands.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/gymtrack/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// start_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_workout",
		Description: "Start a workout session from a template, seeding sets from history",
	}, s.handleStartWorkout)

	// start_custom_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_custom_workout",
		Description: "Start an ad-hoc workout session with a title and exercise list",
	}, s.handleStartCustomWorkout)

	// update_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_workout",
		Description: "Update a session's title and/or date",
	}, s.handleUpdateWorkout)

	// complete_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "complete_workout",
		Description: "Mark a session as completed",
	}, s.handleCompleteWorkout)

	// cancel_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "cancel_workout",
		Description: "Mark a session as cancelled",
	}, s.handleCancelWorkout)

	// delete_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a session and all its sets",
	}, s.handleDeleteWorkout)

	// add_set
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_set",
		Description: "Append a set for an exercise in a session",
	}, s.handleAddSet)

	// update_set
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_set",
		Description: "Replace a set's weight, reps, RPE, and notes",
	}, s.handleUpdateSet)

	// delete_sets
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_sets",
		Description: "Delete sets from a session by ID list",
	}, s.handleDeleteSets)

	// list_sessions
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List workout sessions, most recent first",
	}, s.handleListSessions)

	// get_session_sets
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_session_sets",
		Description: "Get all performed sets for a session",
	}, s.handleGetSessionSets)

	// list_exercises
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_exercises",
		Description: "List exercise definitions, optionally filtered by category",
	}, s.handleListExercises)

	// create_template
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_template",
		Description: "Create a workout template from an ordered exercise list",
	}, s.handleCreateTemplate)
}

// Tool input/output types

type startWorkoutInput struct {
	TemplateID string `json:"template_id" jsonschema:"Template UUID"`
	Date       string `json:"date,omitempty" jsonschema:"Session date (ISO 8601), defaults to now"`
}

type startCustomWorkoutInput struct {
	Title       string   `json:"title" jsonschema:"Session title"`
	ExerciseIDs []string `json:"exercise_ids" jsonschema:"Exercise UUIDs to include"`
	Date        string   `json:"date,omitempty" jsonschema:"Session date (ISO 8601), defaults to now"`
}

type sessionOutput struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type updateWorkoutInput struct {
	ID    string `json:"id" jsonschema:"Session UUID"`
	Title string `json:"title,omitempty" jsonschema:"New title"`
	Date  string `json:"date,omitempty" jsonschema:"New date (ISO 8601)"`
}

type sessionIDInput struct {
	ID string `json:"id" jsonschema:"Session UUID"`
}

type addSetInput struct {
	SessionID  string `json:"session_id" jsonschema:"Session UUID"`
	ExerciseID string `json:"exercise_id" jsonschema:"Exercise UUID"`
}

type updateSetInput struct {
	ID     string  `json:"id" jsonschema:"Set UUID"`
	Weight float64 `json:"weight" jsonschema:"Weight in kg"`
	Reps   int     `json:"reps" jsonschema:"Repetitions"`
	RPE    int     `json:"rpe,omitempty" jsonschema:"Perceived exertion 1-10"`
	Notes  string  `json:"notes,omitempty" jsonschema:"Set notes"`
}

type deleteSetsInput struct {
	SessionID string   `json:"session_id" jsonschema:"Session UUID"`
	SetIDs    []string `json:"set_ids" jsonschema:"Set UUIDs to delete"`
}

type getSessionSetsInput struct {
	SessionID string `json:"session_id" jsonschema:"Session UUID"`
}

type listExercisesInput struct {
	Category string `json:"category,omitempty" jsonschema:"Filter by category (chest, back, legs, shoulders, arms, core, cardio, other)"`
}

type createTemplateInput struct {
	Name        string   `json:"name" jsonschema:"Template name"`
	Notes       string   `json:"notes,omitempty" jsonschema:"Template notes"`
	ExerciseIDs []string `json:"exercise_ids" jsonschema:"Ordered exercise UUIDs"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleStartWorkout(ctx context.Context, req *mcp.CallToolRequest, input startWorkoutInput) (*mcp.CallToolResult, sessionOutput, error) {
	templateID, err := uuid.Parse(input.TemplateID)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("invalid template id: %w", err)
	}

	date := time.Now()
	if input.Date != "" {
		d, err := time.Parse(time.RFC3339, input.Date)
		if err != nil {
			return nil, sessionOutput{}, fmt.Errorf("invalid date: %w", err)
		}
		date = d
	}

	id, err := s.svc.StartFromTemplate(ctx, templateID, nil, date)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to start workout: %w", err)
	}

	return nil, sessionOutput{
		ID:      id.String(),
		Message: fmt.Sprintf("Started workout session %s", id.String()[:8]),
	}, nil
}

func (s *Server) handleStartCustomWorkout(ctx context.Context, req *mcp.CallToolRequest, input startCustomWorkoutInput) (*mcp.CallToolResult, sessionOutput, error) {
	exerciseIDs, err := parseUUIDs(input.ExerciseIDs)
	if err != nil {
		return nil, sessionOutput{}, err
	}

	date := time.Now()
	if input.Date != "" {
		d, err := time.Parse(time.RFC3339, input.Date)
		if err != nil {
			return nil, sessionOutput{}, fmt.Errorf("invalid date: %w", err)
		}
		date = d
	}

	id, err := s.svc.StartCustom(ctx, input.Title, exerciseIDs, date)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to start workout: %w", err)
	}

	return nil, sessionOutput{
		ID:      id.String(),
		Message: fmt.Sprintf("Started custom workout %q (%s)", input.Title, id.String()[:8]),
	}, nil
}

func (s *Server) handleUpdateWorkout(ctx context.Context, req *mcp.CallToolRequest, input updateWorkoutInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("invalid session id: %w", err)
	}

	var title *string
	if input.Title != "" {
		title = &input.Title
	}
	var date *time.Time
	if input.Date != "" {
		d, err := time.Parse(time.RFC3339, input.Date)
		if err != nil {
			return nil, simpleOutput{}, fmt.Errorf("invalid date: %w", err)
		}
		date = &d
	}

	if err := s.svc.UpdateSessionDetails(ctx, id, title, date); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to update session: %w", err)
	}

	return nil, simpleOutput{Message: fmt.Sprintf("Updated session %s", input.ID[:8])}, nil
}

func (s *Server) handleCompleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input sessionIDInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("invalid session id: %w", err)
	}
	if err := s.svc.CompleteSession(ctx, id); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to complete session: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Completed session %s", input.ID[:8])}, nil
}

func (s *Server) handleCancelWorkout(ctx context.Context, req *mcp.CallToolRequest, input sessionIDInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("invalid session id: %w", err)
	}
	if err := s.svc.CancelSession(ctx, id); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to cancel session: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Cancelled session %s", input.ID[:8])}, nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input sessionIDInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("invalid session id: %w", err)
	}
	if err := s.svc.DeleteSession(ctx, id); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete session: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted session %s", input.ID[:8])}, nil
}

func (s *Server) handleAddSet(ctx context.Context, req *mcp.CallToolRequest, input addSetInput) (*mcp.CallToolResult, sessionOutput, error) {
	sessionID, err := uuid.Parse(input.SessionID)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("invalid session id: %w", err)
	}
	exerciseID, err := uuid.Parse(input.ExerciseID)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("invalid exercise id: %w", err)
	}

	setID, err := s.svc.AddSet(ctx, sessionID, exerciseID)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to add set: %w", err)
	}

	return nil, sessionOutput{
		ID:      setID.String(),
		Message: fmt.Sprintf("Added set %s", setID.String()[:8]),
	}, nil
}

func (s *Server) handleUpdateSet(ctx context.Context, req *mcp.CallToolRequest, input updateSetInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("invalid set id: %w", err)
	}

	set := models.PerformedSet{ID: id, Weight: input.Weight, Reps: input.Reps}
	if input.RPE > 0 {
		set.WithRPE(input.RPE)
	}
	if input.Notes != "" {
		set.WithNotes(input.Notes)
	}

	if err := s.svc.UpdateSet(ctx, set); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to update set: %w", err)
	}

	return nil, simpleOutput{Message: fmt.Sprintf("Updated set %s", input.ID[:8])}, nil
}

func (s *Server) handleDeleteSets(ctx context.Context, req *mcp.CallToolRequest, input deleteSetsInput) (*mcp.CallToolResult, simpleOutput, error) {
	sessionID, err := uuid.Parse(input.SessionID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("invalid session id: %w", err)
	}
	setIDs, err := parseUUIDs(input.SetIDs)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	if err := s.svc.DeleteSets(ctx, sessionID, setIDs); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete sets: %w", err)
	}

	return nil, simpleOutput{Message: fmt.Sprintf("Deleted %d sets", len(setIDs))}, nil
}

func (s *Server) handleListSessions(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	sessions, err := s.svc.Sessions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		return nil, map[string]interface{}{"message": "No sessions found."}, nil
	}
	return nil, sessions, nil
}

func (s *Server) handleGetSessionSets(ctx context.Context, req *mcp.CallToolRequest, input getSessionSetsInput) (*mcp.CallToolResult, any, error) {
	sessionID, err := uuid.Parse(input.SessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid session id: %w", err)
	}
	sets, err := s.svc.SessionSets(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session sets: %w", err)
	}
	if len(sets) == 0 {
		return nil, map[string]interface{}{"message": "No sets found."}, nil
	}
	return nil, sets, nil
}

func (s *Server) handleListExercises(ctx context.Context, req *mcp.CallToolRequest, input listExercisesInput) (*mcp.CallToolResult, any, error) {
	var category *models.ExerciseCategory
	if input.Category != "" {
		if !models.IsValidCategory(input.Category) {
			return nil, nil, fmt.Errorf("unknown category: %s", input.Category)
		}
		c := models.ExerciseCategory(input.Category)
		category = &c
	}

	exercises, err := s.svc.Exercises(ctx, category)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	if len(exercises) == 0 {
		return nil, map[string]interface{}{"message": "No exercises found."}, nil
	}
	return nil, exercises, nil
}

func (s *Server) handleCreateTemplate(ctx context.Context, req *mcp.CallToolRequest, input createTemplateInput) (*mcp.CallToolResult, sessionOutput, error) {
	exerciseIDs, err := parseUUIDs(input.ExerciseIDs)
	if err != nil {
		return nil, sessionOutput{}, err
	}

	var notes *string
	if input.Notes != "" {
		notes = &input.Notes
	}

	id, err := s.svc.CreateTemplate(ctx, input.Name, notes, exerciseIDs)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to create template: %w", err)
	}

	return nil, sessionOutput{
		ID:      id.String(),
		Message: fmt.Sprintf("Created template %q (%s)", input.Name, id.String()[:8]),
	}, nil
}

func parseUUIDs(strs []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(strs))
	for _, s := range strs {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
