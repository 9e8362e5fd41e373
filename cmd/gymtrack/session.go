// ABOUTME: CLI commands for the training session lifecycle.
// ABOUTME: Supports start, start-custom, list, show, update, complete, cancel, delete.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harperreed/gymtrack/internal/models"
	"github.com/spf13/cobra"
)

var (
	sessionDate     string
	sessionNewTitle string
	sessionStatus   string
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"s"},
	Short:   "Manage training sessions",
	Long: `Start, log, and close out training sessions.

A session starts in progress and ends completed or cancelled. Starting a
session seeds its sets: for each exercise, the most recent completed session
containing that exercise is found and its set count and weights are carried
over with reps reset to zero. An exercise with no history gets a single set
at its reference weight.

LIFECYCLE:

  planned ──> inProgress ──> completed
                  └────────> cancelled

Completed and cancelled are terminal; no further status changes are allowed.

WORKFLOW:

  $ gymtrack session start "Push Day"         # From a template
  $ gymtrack session start-custom "Quick arms" curls dips
  $ gymtrack set update <set-id> 80 8 --rpe 7 # Fill in sets as you train
  $ gymtrack session complete <id>`,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start <template> [exercise]...",
	Short: "Start a session from a template",
	Long: `Start a new session from a template.

By default the session covers all template exercises in template order. Pass
exercise names to restrict or reorder the selection.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTemplate(cmd, args[0])
		if err != nil {
			return err
		}

		var exerciseIDs []uuid.UUID
		if len(args) > 1 {
			exerciseIDs, err = resolveExerciseArgs(cmd, args[1:])
			if err != nil {
				return err
			}
		}

		date, err := sessionStartDate()
		if err != nil {
			return err
		}

		id, err := svc.StartFromTemplate(cmd.Context(), t.ID, exerciseIDs, date)
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		color.Green("✓ Started %s", t.Name)
		fmt.Printf("  ID: %s\n", id.String()[:8])
		return nil
	},
}

var sessionStartCustomCmd = &cobra.Command{
	Use:   "start-custom <title> <exercise>...",
	Short: "Start a session without a template",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		exerciseIDs, err := resolveExerciseArgs(cmd, args[1:])
		if err != nil {
			return err
		}

		date, err := sessionStartDate()
		if err != nil {
			return err
		}

		id, err := svc.StartCustom(cmd.Context(), args[0], exerciseIDs, date)
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		color.Green("✓ Started %s", args[0])
		fmt.Printf("  ID: %s\n", id.String()[:8])
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := svc.Sessions(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		if sessionStatus != "" {
			filtered := sessions[:0]
			for _, s := range sessions {
				if string(s.Status) == sessionStatus {
					filtered = append(filtered, s)
				}
			}
			sessions = filtered
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, s := range sessions {
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(s.ID.String()[:8]),
				faint.Sprint(s.Date.Format("2006-01-02 15:04")),
				padRight(truncate(s.Title, 24), 24),
				statusColor(s.Status))
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a session with its sets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSession(cmd, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Session: %s\n", s.Title)
		fmt.Printf("ID: %s\n", s.ID.String()[:8])
		fmt.Printf("Date: %s\n", s.Date.Format("2006-01-02 15:04"))
		fmt.Printf("Status: %s\n", statusColor(s.Status))

		sets, err := svc.SessionSets(cmd.Context(), s.ID)
		if err != nil {
			return fmt.Errorf("failed to get session sets: %w", err)
		}
		if len(sets) == 0 {
			return nil
		}

		exercises := exerciseNames(cmd, sets)
		faint := color.New(color.Faint)
		var lastExercise uuid.UUID
		fmt.Println()
		for _, set := range sets {
			if set.ExerciseID != lastExercise {
				fmt.Printf("%s:\n", exercises[set.ExerciseID])
				lastExercise = set.ExerciseID
			}
			rpe := ""
			if set.RPE != nil {
				rpe = fmt.Sprintf("@%d", *set.RPE)
			}
			fmt.Printf("  %s %d. %.1f kg × %d %s\n",
				faint.Sprint(set.ID.String()[:8]),
				set.SetOrder+1, set.Weight, set.Reps, rpe)
		}
		return nil
	},
}

var sessionUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a session's title or date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSession(cmd, args[0])
		if err != nil {
			return err
		}

		var title *string
		if sessionNewTitle != "" {
			title = &sessionNewTitle
		}
		var date *time.Time
		if sessionDate != "" {
			d, err := parseDate(sessionDate)
			if err != nil {
				return err
			}
			date = &d
		}
		if title == nil && date == nil {
			return fmt.Errorf("nothing to update: pass --title or --date")
		}

		if err := svc.UpdateSessionDetails(cmd.Context(), s.ID, title, date); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		color.Green("✓ Updated session")
		return nil
	},
}

var sessionCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a session completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSession(cmd, args[0])
		if err != nil {
			return err
		}
		if err := svc.CompleteSession(cmd.Context(), s.ID); err != nil {
			return fmt.Errorf("failed to complete session: %w", err)
		}
		color.Green("✓ Completed %s", s.Title)
		return nil
	},
}

var sessionCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Mark a session cancelled",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSession(cmd, args[0])
		if err != nil {
			return err
		}
		if err := svc.CancelSession(cmd.Context(), s.ID); err != nil {
			return fmt.Errorf("failed to cancel session: %w", err)
		}
		color.Yellow("✓ Cancelled %s", s.Title)
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session and its sets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSession(cmd, args[0])
		if err != nil {
			return err
		}
		if err := svc.DeleteSession(cmd.Context(), s.ID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		color.Green("✓ Deleted %s", s.Title)
		return nil
	},
}

func sessionStartDate() (time.Time, error) {
	if sessionDate == "" {
		return time.Now(), nil
	}
	return parseDate(sessionDate)
}

func statusColor(status models.TrainingStatus) string {
	switch status {
	case models.StatusCompleted:
		return color.GreenString(string(status))
	case models.StatusCancelled:
		return color.YellowString(string(status))
	case models.StatusInProgress:
		return color.CyanString(string(status))
	default:
		return string(status)
	}
}

// exerciseNames maps the exercise IDs appearing in sets to display names.
func exerciseNames(cmd *cobra.Command, sets []models.PerformedSet) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string)
	exercises, err := svc.Exercises(cmd.Context(), nil)
	if err != nil {
		for _, set := range sets {
			names[set.ExerciseID] = set.ExerciseID.String()[:8]
		}
		return names
	}
	for _, e := range exercises {
		names[e.ID] = e.Name
	}
	for _, set := range sets {
		if _, ok := names[set.ExerciseID]; !ok {
			names[set.ExerciseID] = set.ExerciseID.String()[:8]
		}
	}
	return names
}

func init() {
	sessionStartCmd.Flags().StringVarP(&sessionDate, "date", "d", "", "session date (default now)")
	sessionStartCustomCmd.Flags().StringVarP(&sessionDate, "date", "d", "", "session date (default now)")

	sessionListCmd.Flags().StringVarP(&sessionStatus, "status", "s", "", "filter by status")

	sessionUpdateCmd.Flags().StringVarP(&sessionNewTitle, "title", "t", "", "new title")
	sessionUpdateCmd.Flags().StringVarP(&sessionDate, "date", "d", "", "new date")

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionStartCustomCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionUpdateCmd)
	sessionCmd.AddCommand(sessionCompleteCmd)
	sessionCmd.AddCommand(sessionCancelCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	rootCmd.AddCommand(sessionCmd)
}
