// ABOUTME: CLI commands for managing the exercise catalog.
// ABOUTME: Supports add, list, show, update, and delete subcommands.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/gymtrack/internal/models"
	"github.com/spf13/cobra"
)

var (
	exerciseTargetRM int
	exerciseWeight   float64
	exerciseRestSec  int
	exerciseNotes    string
	exerciseCategory string
	exerciseNewName  string
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Manage the exercise catalog",
	Long: `Define and maintain the exercises available to templates and sessions.

Each exercise has a name and a muscle-group category, plus optional training
parameters: a target rep max, a reference weight used to seed brand-new
exercises, a rest interval, and freeform notes.

CATEGORIES:

  chest, back, legs, shoulders, arms, core, cardio, other

Examples:
  gymtrack exercise add "Bench Press" chest --weight 80 --target-rm 5
  gymtrack exercise add "Deadlift" back --weight 120 --rest 180
  gymtrack exercise list --category legs`,
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name> <category>",
	Short: "Add a new exercise",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !models.IsValidCategory(args[1]) {
			return fmt.Errorf("invalid category %q (want one of %v)", args[1], models.AllCategories)
		}
		category := models.ExerciseCategory(args[1])

		e := models.NewExercise(args[0], category)
		if cmd.Flags().Changed("target-rm") {
			e.WithTargetRM(exerciseTargetRM)
		}
		if cmd.Flags().Changed("weight") {
			e.WithReferenceWeight(exerciseWeight)
		}
		if cmd.Flags().Changed("rest") {
			e.WithRestInterval(time.Duration(exerciseRestSec) * time.Second)
		}
		if exerciseNotes != "" {
			e.WithNotes(exerciseNotes)
		}

		if err := svc.CreateExercise(cmd.Context(), e); err != nil {
			return fmt.Errorf("failed to create exercise: %w", err)
		}

		color.Green("✓ Added %s", e.Name)
		fmt.Printf("  ID: %s\n", e.ID.String()[:8])
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		var category *models.ExerciseCategory
		if exerciseCategory != "" {
			if !models.IsValidCategory(exerciseCategory) {
				return fmt.Errorf("invalid category %q", exerciseCategory)
			}
			c := models.ExerciseCategory(exerciseCategory)
			category = &c
		}

		exercises, err := svc.Exercises(cmd.Context(), category)
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}

		if len(exercises) == 0 {
			fmt.Println("No exercises found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, e := range exercises {
			weight := ""
			if e.ReferenceWeight != nil {
				weight = fmt.Sprintf("%.1f kg", *e.ReferenceWeight)
			}
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(e.ID.String()[:8]),
				padRight(truncate(e.Name, 24), 24),
				padRight(string(e.Category), 10),
				weight)
		}
		return nil
	},
}

var exerciseShowCmd = &cobra.Command{
	Use:   "show <id-or-name>",
	Short: "Show an exercise's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := resolveExercise(cmd, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", e.Name, e.Category)
		color.New(color.Faint).Printf("  ID: %s\n", e.ID)
		if e.TargetRM != nil {
			fmt.Printf("  Target RM: %d\n", *e.TargetRM)
		}
		if e.ReferenceWeight != nil {
			fmt.Printf("  Reference weight: %.1f kg\n", *e.ReferenceWeight)
		}
		if e.RestInterval != nil {
			fmt.Printf("  Rest interval: %s\n", *e.RestInterval)
		}
		if e.Notes != nil {
			fmt.Printf("  Notes: %s\n", *e.Notes)
		}
		fmt.Printf("  Created: %s\n", e.CreatedAt.Local().Format("2006-01-02"))
		return nil
	},
}

var exerciseUpdateCmd = &cobra.Command{
	Use:   "update <id-or-name>",
	Short: "Update an exercise",
	Long: `Update an exercise's attributes. Only the flags you pass change.

Examples:
  gymtrack exercise update "Bench Press" --weight 82.5
  gymtrack exercise update abc123 --name "Incline Bench" --rest 120`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := resolveExercise(cmd, args[0])
		if err != nil {
			return err
		}

		if exerciseNewName != "" {
			e.Name = exerciseNewName
		}
		if exerciseCategory != "" {
			if !models.IsValidCategory(exerciseCategory) {
				return fmt.Errorf("invalid category %q", exerciseCategory)
			}
			e.Category = models.ExerciseCategory(exerciseCategory)
		}
		if cmd.Flags().Changed("target-rm") {
			e.TargetRM = &exerciseTargetRM
		}
		if cmd.Flags().Changed("weight") {
			e.ReferenceWeight = &exerciseWeight
		}
		if cmd.Flags().Changed("rest") {
			d := time.Duration(exerciseRestSec) * time.Second
			e.RestInterval = &d
		}
		if cmd.Flags().Changed("notes") {
			e.Notes = &exerciseNotes
		}

		if err := svc.UpdateExercise(cmd.Context(), &e); err != nil {
			return fmt.Errorf("failed to update exercise: %w", err)
		}

		color.Green("✓ Updated %s", e.Name)
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:   "delete <id-or-name>",
	Short: "Delete an exercise",
	Long: `Delete an exercise definition.

Deleting an exercise also removes its performed sets from every session and
its slots in every template. This cannot be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := resolveExercise(cmd, args[0])
		if err != nil {
			return err
		}
		if err := svc.DeleteExercise(cmd.Context(), e.ID); err != nil {
			return fmt.Errorf("failed to delete exercise: %w", err)
		}
		color.Green("✓ Deleted %s", e.Name)
		return nil
	},
}

func init() {
	exerciseAddCmd.Flags().IntVar(&exerciseTargetRM, "target-rm", 0, "target rep max")
	exerciseAddCmd.Flags().Float64VarP(&exerciseWeight, "weight", "w", 0, "reference weight in kg")
	exerciseAddCmd.Flags().IntVar(&exerciseRestSec, "rest", 0, "rest interval in seconds")
	exerciseAddCmd.Flags().StringVarP(&exerciseNotes, "notes", "n", "", "exercise notes")

	exerciseListCmd.Flags().StringVarP(&exerciseCategory, "category", "c", "", "filter by category")

	exerciseUpdateCmd.Flags().StringVar(&exerciseNewName, "name", "", "new name")
	exerciseUpdateCmd.Flags().StringVarP(&exerciseCategory, "category", "c", "", "new category")
	exerciseUpdateCmd.Flags().IntVar(&exerciseTargetRM, "target-rm", 0, "target rep max")
	exerciseUpdateCmd.Flags().Float64VarP(&exerciseWeight, "weight", "w", 0, "reference weight in kg")
	exerciseUpdateCmd.Flags().IntVar(&exerciseRestSec, "rest", 0, "rest interval in seconds")
	exerciseUpdateCmd.Flags().StringVarP(&exerciseNotes, "notes", "n", "", "exercise notes")

	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseListCmd)
	exerciseCmd.AddCommand(exerciseShowCmd)
	exerciseCmd.AddCommand(exerciseUpdateCmd)
	exerciseCmd.AddCommand(exerciseDeleteCmd)
	rootCmd.AddCommand(exerciseCmd)
}
