// ABOUTME: CLI commands for managing workout templates.
// ABOUTME: Supports create, list, show, update, and delete subcommands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	templateNotes   string
	templateNewName string
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tpl"},
	Short:   "Manage workout templates",
	Long: `Build reusable workout plans from your exercise catalog.

A template is a named, ordered list of exercises. Starting a session from a
template seeds one set group per exercise, carried from your most recent
completed session.

WORKFLOW:

  1. Define exercises:   gymtrack exercise add "Squat" legs --weight 100
  2. Build a template:   gymtrack template create "Leg Day" squat "leg press"
  3. Start training:     gymtrack session start "Leg Day"

Exercises can be referenced by name or by ID prefix.`,
}

var templateCreateCmd = &cobra.Command{
	Use:   "create <name> <exercise>...",
	Short: "Create a template",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		exerciseIDs, err := resolveExerciseArgs(cmd, args[1:])
		if err != nil {
			return err
		}

		var notes *string
		if templateNotes != "" {
			notes = &templateNotes
		}

		id, err := svc.CreateTemplate(cmd.Context(), args[0], notes, exerciseIDs)
		if err != nil {
			return fmt.Errorf("failed to create template: %w", err)
		}

		color.Green("✓ Created template %s", args[0])
		fmt.Printf("  ID: %s\n", id.String()[:8])
		fmt.Printf("  Exercises: %d\n", len(exerciseIDs))
		return nil
	},
}

var templateListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := svc.Templates(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}

		if len(templates) == 0 {
			fmt.Println("No templates found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, t := range templates {
			lastUsed := "never used"
			if t.LastUsed != nil {
				lastUsed = "last used " + t.LastUsed.Format("2006-01-02")
			}
			fmt.Printf("%s %s %s\n",
				faint.Sprint(t.ID.String()[:8]),
				padRight(truncate(t.Name, 24), 24),
				faint.Sprint(lastUsed))
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <id-or-name>",
	Short: "Show template details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTemplate(cmd, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Template: %s\n", t.Name)
		fmt.Printf("ID: %s\n", t.ID.String()[:8])
		if t.Notes != nil {
			fmt.Printf("Notes: %s\n", *t.Notes)
		}
		if t.LastUsed != nil {
			fmt.Printf("Last used: %s\n", t.LastUsed.Format("2006-01-02 15:04"))
		}

		exercises, err := svc.TemplateExercises(cmd.Context(), t.ID)
		if err != nil {
			return fmt.Errorf("failed to get template exercises: %w", err)
		}
		if len(exercises) > 0 {
			fmt.Println("\nExercises:")
			for i, e := range exercises {
				fmt.Printf("  %d. %s (%s)\n", i+1, e.Name, e.Category)
			}
		}
		return nil
	},
}

var templateUpdateCmd = &cobra.Command{
	Use:   "update <id-or-name> [exercise]...",
	Short: "Update a template",
	Long: `Update a template's name, notes, or exercise list.

Passing exercises replaces the template's exercise list wholesale in the
order given.

Examples:
  gymtrack template update "Leg Day" --name "Lower Body"
  gymtrack template update "Leg Day" squat "leg press" lunges`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTemplate(cmd, args[0])
		if err != nil {
			return err
		}

		name := t.Name
		if templateNewName != "" {
			name = templateNewName
		}
		notes := t.Notes
		if cmd.Flags().Changed("notes") {
			notes = &templateNotes
		}

		var exerciseIDs []uuid.UUID
		if len(args) > 1 {
			exerciseIDs, err = resolveExerciseArgs(cmd, args[1:])
			if err != nil {
				return err
			}
		} else {
			current, err := svc.TemplateExercises(cmd.Context(), t.ID)
			if err != nil {
				return fmt.Errorf("failed to get template exercises: %w", err)
			}
			for _, e := range current {
				exerciseIDs = append(exerciseIDs, e.ID)
			}
		}

		if err := svc.UpdateTemplate(cmd.Context(), t.ID, name, notes, exerciseIDs); err != nil {
			return fmt.Errorf("failed to update template: %w", err)
		}

		color.Green("✓ Updated %s", name)
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <id-or-name>",
	Short: "Delete a template",
	Long: `Delete a template.

Sessions started from the template are kept; they simply lose the link back
to it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTemplate(cmd, args[0])
		if err != nil {
			return err
		}
		if err := svc.DeleteTemplate(cmd.Context(), t.ID); err != nil {
			return fmt.Errorf("failed to delete template: %w", err)
		}
		color.Green("✓ Deleted %s", t.Name)
		return nil
	},
}

func resolveExerciseArgs(cmd *cobra.Command, args []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(args))
	for _, arg := range args {
		e, err := resolveExercise(cmd, arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, e.ID)
	}
	return ids, nil
}

func init() {
	templateCreateCmd.Flags().StringVarP(&templateNotes, "notes", "n", "", "template notes")

	templateUpdateCmd.Flags().StringVar(&templateNewName, "name", "", "new name")
	templateUpdateCmd.Flags().StringVarP(&templateNotes, "notes", "n", "", "template notes")

	templateCmd.AddCommand(templateCreateCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateUpdateCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	rootCmd.AddCommand(templateCmd)
}
