// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/gymtrack/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants to plan and log your training through a standardized
protocol. The server communicates via stdin/stdout.

CONFIGURATION:

  {
    "mcpServers": {
      "gymtrack": {
        "command": "gymtrack",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  start_workout         Start a session from a template
  start_custom_workout  Start a session from an exercise list
  update_workout        Change a session's title or date
  complete_workout      Mark a session completed
  cancel_workout        Mark a session cancelled
  delete_workout        Delete a session and its sets
  add_set               Append a set for an exercise
  update_set            Record weight, reps, RPE, notes for a set
  delete_sets           Delete sets from a session
  list_sessions         List sessions, newest first
  get_session_sets      Get a session's sets grouped by exercise
  list_exercises        List the exercise catalog
  create_template       Create a workout template

AVAILABLE RESOURCES:

  gymtrack://sessions     Session list summary
  gymtrack://templates    Template list with exercises
  gymtrack://exercises    Exercise catalog grouped by category`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(svc)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
