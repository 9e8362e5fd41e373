// ABOUTME: CLI commands for the per-exercise history and stats store.
// ABOUTME: Supports record, show, history, and suggest subcommands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/gymtrack/internal/aggregate"
	"github.com/harperreed/gymtrack/internal/models"
	"github.com/spf13/cobra"
)

var suggestApply bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Per-exercise training statistics",
	Long: `Fold completed sessions into a per-exercise history store and query it.

The history store is derived data kept separately from the session database.
Recording a session groups its sets by exercise and appends one history entry
per exercise. Stats and suggestions are computed over that history.

WORKFLOW:

  $ gymtrack session complete abc123
  $ gymtrack stats record abc123          # Fold the session into history
  $ gymtrack stats show "Bench Press"     # Volume, max weight, RPE trend
  $ gymtrack stats suggest "Bench Press"  # Suggested reference weight`,
}

var statsRecordCmd = &cobra.Command{
	Use:   "record <session>",
	Short: "Record a completed session into history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSession(cmd, args[0])
		if err != nil {
			return err
		}
		if s.Status != models.StatusCompleted {
			return fmt.Errorf("session %s is %s, only completed sessions are recorded", s.ID.String()[:8], s.Status)
		}

		sets, err := svc.SessionSets(cmd.Context(), s.ID)
		if err != nil {
			return fmt.Errorf("failed to get session sets: %w", err)
		}

		agg, err := aggregate.Open(cfg.AggregateDir())
		if err != nil {
			return fmt.Errorf("failed to open aggregate store: %w", err)
		}
		defer func() { _ = agg.Close() }()

		if err := agg.RecordSession(s, sets); err != nil {
			return fmt.Errorf("failed to record session: %w", err)
		}

		color.Green("✓ Recorded %s", s.Title)
		fmt.Printf("  %d sets\n", len(sets))
		return nil
	},
}

var statsShowCmd = &cobra.Command{
	Use:   "show <exercise>",
	Short: "Show stats for an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := resolveExercise(cmd, args[0])
		if err != nil {
			return err
		}

		agg, err := aggregate.Open(cfg.AggregateDir())
		if err != nil {
			return fmt.Errorf("failed to open aggregate store: %w", err)
		}
		defer func() { _ = agg.Close() }()

		stats, err := agg.Stats(e.ID)
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}
		if stats.SessionCount == 0 {
			fmt.Printf("No recorded history for %s.\n", e.Name)
			return nil
		}

		fmt.Printf("Stats: %s\n", e.Name)
		fmt.Printf("Sessions: %d\n", stats.SessionCount)
		fmt.Printf("Max weight: %.1f kg\n", stats.MaxWeight)
		fmt.Printf("Total volume: %.0f kg\n", stats.TotalVolume)
		if len(stats.RPETrend) > 0 {
			fmt.Printf("RPE trend: %v\n", stats.RPETrend)
		}
		return nil
	},
}

var statsHistoryCmd = &cobra.Command{
	Use:   "history <exercise>",
	Short: "Show recorded history for an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := resolveExercise(cmd, args[0])
		if err != nil {
			return err
		}

		agg, err := aggregate.Open(cfg.AggregateDir())
		if err != nil {
			return fmt.Errorf("failed to open aggregate store: %w", err)
		}
		defer func() { _ = agg.Close() }()

		entries, err := agg.History(e.ID)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		if len(entries) == 0 {
			fmt.Printf("No recorded history for %s.\n", e.Name)
			return nil
		}

		faint := color.New(color.Faint)
		for _, entry := range entries {
			fmt.Printf("%s %s\n", faint.Sprint(entry.SessionID.String()[:8]), entry.Date.Format("2006-01-02"))
			for _, set := range entry.Sets {
				rpe := ""
				if set.RPE != nil {
					rpe = fmt.Sprintf("@%d", *set.RPE)
				}
				fmt.Printf("  %.1f kg × %d %s\n", set.Weight, set.Reps, rpe)
			}
		}
		return nil
	},
}

var statsSuggestCmd = &cobra.Command{
	Use:   "suggest <exercise>",
	Short: "Suggest a reference weight from history",
	Long: `Suggest an updated reference weight based on recorded history.

The suggestion is only printed unless --apply is passed, in which case the
exercise's reference weight is updated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := resolveExercise(cmd, args[0])
		if err != nil {
			return err
		}

		var current float64
		if e.ReferenceWeight != nil {
			current = *e.ReferenceWeight
		}

		agg, err := aggregate.Open(cfg.AggregateDir())
		if err != nil {
			return fmt.Errorf("failed to open aggregate store: %w", err)
		}
		defer func() { _ = agg.Close() }()

		suggested, ok, err := agg.SuggestedReferenceWeight(e.ID, current)
		if err != nil {
			return fmt.Errorf("failed to compute suggestion: %w", err)
		}
		if !ok {
			fmt.Printf("Not enough history to suggest a weight for %s.\n", e.Name)
			return nil
		}

		fmt.Printf("%s: current %.1f kg, suggested %.1f kg\n", e.Name, current, suggested)
		if !suggestApply {
			fmt.Println("Pass --apply to update the exercise.")
			return nil
		}

		e.ReferenceWeight = &suggested
		if err := svc.UpdateExercise(cmd.Context(), &e); err != nil {
			return fmt.Errorf("failed to update exercise: %w", err)
		}
		color.Green("✓ Reference weight set to %.1f kg", suggested)
		return nil
	},
}

func init() {
	statsSuggestCmd.Flags().BoolVar(&suggestApply, "apply", false, "apply the suggested reference weight")

	statsCmd.AddCommand(statsRecordCmd)
	statsCmd.AddCommand(statsShowCmd)
	statsCmd.AddCommand(statsHistoryCmd)
	statsCmd.AddCommand(statsSuggestCmd)
	rootCmd.AddCommand(statsCmd)
}
