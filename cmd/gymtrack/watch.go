// ABOUTME: CLI command streaming live session and template changes.
// ABOUTME: Prints a fresh snapshot whenever a write commits.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var watchTemplates bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for session changes",
	Long: `Stream live updates as sessions change.

Watches the database and prints the session list each time a write commits
and the list actually changed. Useful alongside a second terminal, or an MCP
assistant, doing the logging.

  $ gymtrack watch                # Follow sessions
  $ gymtrack watch --templates    # Follow templates instead

Press Ctrl-C to stop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		if watchTemplates {
			return watchTemplateChanges(ctx)
		}
		return watchSessionChanges(ctx)
	},
}

func watchSessionChanges(ctx context.Context) error {
	sub := store.ObserveSessions(ctx)
	faint := color.New(color.Faint)
	for {
		select {
		case sessions, ok := <-sub.Results:
			if !ok {
				return nil
			}
			color.Cyan("%d session(s):", len(sessions))
			for _, s := range sessions {
				fmt.Printf("%s %s %s %s\n",
					faint.Sprint(s.ID.String()[:8]),
					faint.Sprint(s.Date.Format("2006-01-02 15:04")),
					padRight(truncate(s.Title, 24), 24),
					statusColor(s.Status))
			}
		case err, ok := <-sub.Errors:
			if !ok {
				return nil
			}
			color.Yellow("⚠ Watch error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}

func watchTemplateChanges(ctx context.Context) error {
	sub := store.ObserveTemplates(ctx)
	faint := color.New(color.Faint)
	for {
		select {
		case templates, ok := <-sub.Results:
			if !ok {
				return nil
			}
			color.Cyan("%d template(s):", len(templates))
			for _, t := range templates {
				fmt.Printf("%s %s\n",
					faint.Sprint(t.ID.String()[:8]),
					truncate(t.Name, 32))
			}
		case err, ok := <-sub.Errors:
			if !ok {
				return nil
			}
			color.Yellow("⚠ Watch error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}

func init() {
	watchCmd.Flags().BoolVar(&watchTemplates, "templates", false, "watch templates instead of sessions")
	rootCmd.AddCommand(watchCmd)
}
