// ABOUTME: Root Cobra command for gymtrack CLI.
// ABOUTME: Handles store lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/harperreed/gymtrack/internal/config"
	"github.com/harperreed/gymtrack/internal/storage"
	"github.com/harperreed/gymtrack/internal/workout"
	"github.com/spf13/cobra"
)

var (
	cfg   *config.Config
	store *storage.DB
	svc   *workout.Service
)

var rootCmd = &cobra.Command{
	Use:   "gymtrack",
	Short: "Strength training session tracker",
	Long: `GymTrack is a CLI tool for planning and logging strength training.

WHAT IT TRACKS:

  Exercises   your exercise catalog with target rep max, reference weight,
              rest interval, and muscle-group category
  Templates   reusable workout plans (ordered lists of exercises)
  Sessions    individual training sessions with per-exercise sets
  Sets        weight, reps, RPE, and notes for each performed set

QUICK START:

  $ gymtrack exercise add "Bench Press" chest --weight 80   # Define an exercise
  $ gymtrack template create "Push Day" abc123 def456       # Build a plan
  $ gymtrack session start abc123                           # Start from template
  $ gymtrack set add <session> <exercise>                   # Log sets as you go
  $ gymtrack session complete <session>                     # Wrap up

Starting a session seeds it from your most recent completed session per
exercise: same set count and weights, reps zeroed for you to fill in.

STATS:

  $ gymtrack stats record <session>       # Fold a session into the history store
  $ gymtrack stats show <exercise>        # Per-exercise volume, max, RPE trend
  $ gymtrack stats suggest <exercise>     # Suggested reference weight

MCP INTEGRATION:

  Run 'gymtrack mcp' to start the Model Context Protocol server for use
  with MCP-compatible assistants:

  {
    "mcpServers": {
      "gymtrack": { "command": "gymtrack", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Sessions live in a SQLite database at ~/.local/share/gymtrack/gymtrack.db.
  Per-exercise aggregates live alongside it under aggregates/.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store init for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		store, err = cfg.OpenStore()
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		svc = workout.NewService(store)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
