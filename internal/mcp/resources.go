// ABOUTME: MCP resource implementations for the gymtrack engine.
// ABOUTME: Provides gymtrack://sessions, gymtrack://templates, and gymtrack://exercises.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// gymtrack://sessions - sessions ordered by date descending
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "gymtrack://sessions",
		Name:        "Workout Sessions",
		Description: "All workout sessions, most recent first",
		MIMEType:    "application/json",
	}, s.handleSessionsResource)

	// gymtrack://templates - all workout templates
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "gymtrack://templates",
		Name:        "Workout Templates",
		Description: "All workout templates with names and notes",
		MIMEType:    "application/json",
	}, s.handleTemplatesResource)

	// gymtrack://exercises - the exercise library
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "gymtrack://exercises",
		Name:        "Exercise Library",
		Description: "All exercise definitions grouped by category",
		MIMEType:    "application/json",
	}, s.handleExercisesResource)
}

// Resource handlers

func (s *Server) handleSessionsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sessions, err := s.svc.Sessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return jsonResource("gymtrack://sessions", sessions)
}

func (s *Server) handleTemplatesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	templates, err := s.svc.Templates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return jsonResource("gymtrack://templates", templates)
}

func (s *Server) handleExercisesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	exercises, err := s.svc.Exercises(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	grouped := make(map[string]any)
	for _, e := range exercises {
		key := string(e.Category)
		list, _ := grouped[key].([]any)
		grouped[key] = append(list, e)
	}
	return jsonResource("gymtrack://exercises", grouped)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
