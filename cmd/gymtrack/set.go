// ABOUTME: CLI commands for editing performed sets within a session.
// ABOUTME: Supports add, update, replace, and delete subcommands.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harperreed/gymtrack/internal/models"
	"github.com/spf13/cobra"
)

var (
	setRPE   int
	setNotes string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Edit performed sets",
	Long: `Edit the sets of a session as you train.

Adding a set appends it after the exercise's existing sets, carrying the last
set's weight (or the exercise's reference weight for the first set). Updating
a set replaces its weight, reps, RPE, and notes, and stamps the completion
time.

WORKFLOW:

  $ gymtrack session show abc123             # Find set IDs
  $ gymtrack set update def456 80 8 --rpe 7  # 80 kg for 8 reps at RPE 7
  $ gymtrack set add abc123 "Bench Press"    # One more set
  $ gymtrack set delete abc123 def456 0a1b2c # Remove sets`,
}

var setAddCmd = &cobra.Command{
	Use:   "add <session> <exercise>",
	Short: "Add a set to a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSession(cmd, args[0])
		if err != nil {
			return err
		}
		e, err := resolveExercise(cmd, args[1])
		if err != nil {
			return err
		}

		id, err := svc.AddSet(cmd.Context(), s.ID, e.ID)
		if err != nil {
			return fmt.Errorf("failed to add set: %w", err)
		}

		color.Green("✓ Added set for %s", e.Name)
		fmt.Printf("  ID: %s\n", id.String()[:8])
		return nil
	},
}

var setUpdateCmd = &cobra.Command{
	Use:   "update <set-id> <weight> <reps>",
	Short: "Update a set's weight, reps, RPE, and notes",
	Long: `Record what you actually lifted.

Examples:
  gymtrack set update def456 80 8
  gymtrack set update def456 82.5 6 --rpe 9 --notes "grinder"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := resolveSet(cmd, args[0])
		if err != nil {
			return err
		}

		weight, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[1])
		}
		reps, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid reps: %s", args[2])
		}

		set.Weight = weight
		set.Reps = reps
		if cmd.Flags().Changed("rpe") {
			set.RPE = &setRPE
		}
		if cmd.Flags().Changed("notes") {
			set.Notes = &setNotes
		}

		if err := svc.UpdateSet(cmd.Context(), set); err != nil {
			return fmt.Errorf("failed to update set: %w", err)
		}

		color.Green("✓ Updated set")
		fmt.Printf("  %.1f kg × %d\n", weight, reps)
		return nil
	},
}

var setReplaceCmd = &cobra.Command{
	Use:   "replace <session> <exercise> <weight>x<reps>...",
	Short: "Replace an exercise's sets wholesale",
	Long: `Replace every set of one exercise within a session.

Sets of other exercises in the session are untouched. Each argument is a
WEIGHTxREPS pair; orders are assigned in argument order.

Examples:
  gymtrack set replace abc123 "Bench Press" 80x8 80x8 82.5x5`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSession(cmd, args[0])
		if err != nil {
			return err
		}
		e, err := resolveExercise(cmd, args[1])
		if err != nil {
			return err
		}

		existing, err := svc.SessionSets(cmd.Context(), s.ID)
		if err != nil {
			return fmt.Errorf("failed to get session sets: %w", err)
		}

		var sets []models.PerformedSet
		for _, set := range existing {
			if set.ExerciseID != e.ID {
				sets = append(sets, set)
			}
		}
		for i, arg := range args[2:] {
			weight, reps, err := parseWeightReps(arg)
			if err != nil {
				return err
			}
			sets = append(sets, *models.NewPerformedSet(s.ID, e.ID, i, weight, reps))
		}

		if err := svc.ReplaceSessionSets(cmd.Context(), s.ID, sets); err != nil {
			return fmt.Errorf("failed to replace sets: %w", err)
		}

		color.Green("✓ Replaced %s sets (%d)", e.Name, len(args)-2)
		return nil
	},
}

// parseWeightReps parses an "80x8" style pair.
func parseWeightReps(arg string) (float64, int, error) {
	parts := strings.SplitN(arg, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid set %q (want WEIGHTxREPS, e.g. 80x8)", arg)
	}
	weight, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid weight in %q", arg)
	}
	reps, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid reps in %q", arg)
	}
	return weight, reps, nil
}

var setDeleteCmd = &cobra.Command{
	Use:   "delete <session> <set-id>...",
	Short: "Delete sets from a session",
	Long: `Delete one or more sets from a session.

Surviving sets of each affected exercise are renumbered so set orders stay
dense.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSession(cmd, args[0])
		if err != nil {
			return err
		}

		sets, err := svc.SessionSets(cmd.Context(), s.ID)
		if err != nil {
			return fmt.Errorf("failed to get session sets: %w", err)
		}
		candidates := make([]uuid.UUID, len(sets))
		for i, set := range sets {
			candidates[i] = set.ID
		}

		ids := make([]uuid.UUID, 0, len(args)-1)
		for _, arg := range args[1:] {
			id, err := matchID(arg, candidates)
			if err != nil {
				return fmt.Errorf("set not found: %s", arg)
			}
			ids = append(ids, id)
		}

		if err := svc.DeleteSets(cmd.Context(), s.ID, ids); err != nil {
			return fmt.Errorf("failed to delete sets: %w", err)
		}

		color.Green("✓ Deleted %d set(s)", len(ids))
		return nil
	},
}

// resolveSet matches a set by full UUID or unique prefix across all sessions.
func resolveSet(cmd *cobra.Command, arg string) (models.PerformedSet, error) {
	sessions, err := svc.Sessions(cmd.Context())
	if err != nil {
		return models.PerformedSet{}, err
	}
	var all []models.PerformedSet
	for _, s := range sessions {
		sets, err := svc.SessionSets(cmd.Context(), s.ID)
		if err != nil {
			return models.PerformedSet{}, err
		}
		all = append(all, sets...)
	}
	ids := make([]uuid.UUID, len(all))
	for i, set := range all {
		ids[i] = set.ID
	}
	id, err := matchID(arg, ids)
	if err != nil {
		return models.PerformedSet{}, fmt.Errorf("set not found: %s", arg)
	}
	for _, set := range all {
		if set.ID == id {
			return set, nil
		}
	}
	return models.PerformedSet{}, fmt.Errorf("set not found: %s", arg)
}

func init() {
	setUpdateCmd.Flags().IntVar(&setRPE, "rpe", 0, "rating of perceived exertion (1-10)")
	setUpdateCmd.Flags().StringVarP(&setNotes, "notes", "n", "", "set notes")

	setCmd.AddCommand(setAddCmd)
	setCmd.AddCommand(setUpdateCmd)
	setCmd.AddCommand(setReplaceCmd)
	setCmd.AddCommand(setDeleteCmd)
	rootCmd.AddCommand(setCmd)
}
