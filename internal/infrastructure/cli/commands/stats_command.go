package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/alan-go/internal/app"
	"github.com/doeshing/alan-go/internal/domain"
)

// NewStatsCommand creates the 'stats' command rendering the aggregate view.
func NewStatsCommand(container *app.Container) *cobra.Command {
	var (
		lastN     int
		sinceDays int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show suggestion counts, acceptance rates and recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			window := domain.StatsWindow{LastN: lastN}
			if sinceDays > 0 {
				window.Since = time.Now().UTC().AddDate(0, 0, -sinceDays)
			}
			renderStats(cmd.OutOrStdout(), container.Tracker.Stats(window))
			return nil
		},
	}

	cmd.Flags().IntVar(&lastN, "last", 0, "Restrict to the most recent N suggestions")
	cmd.Flags().IntVar(&sinceDays, "since-days", 0, "Restrict to suggestions from the last N days")
	return cmd
}

func renderStats(out io.Writer, stats domain.AggregateStats) {
	if stats.TotalSuggestions == 0 {
		fmt.Fprintln(out, "No suggestions tracked yet.")
		return
	}

	fmt.Fprintf(out, "Suggestions: %d (accepted %d, rejected %d, edited %d, pending %d)\n",
		stats.TotalSuggestions, stats.Accepted, stats.Rejected, stats.Edited, stats.Pending)
	fmt.Fprintf(out, "Acceptance rate: %.1f%%\n", stats.AcceptanceRate*100)

	if len(stats.Categories) > 0 {
		fmt.Fprintln(out, "\nBy category:")
		for _, cat := range stats.Categories {
			name := cat.Category
			if name == "" {
				name = "(uncategorized)"
			}
			fmt.Fprintf(out, "  %-20s %4d  %.1f%%\n", name, cat.Total, cat.AcceptanceRate*100)
		}
	}

	if len(stats.Recent) > 0 {
		fmt.Fprintln(out, "\nRecent activity:")
		for _, rec := range stats.Recent {
			fmt.Fprintf(out, "  [%s] %-9s %s\n",
				rec.Timestamp.Local().Format("2006-01-02 15:04"), rec.Outcome, rec.SuggestedCommand)
		}
	}

	if stats.SkippedRecords > 0 {
		fmt.Fprintf(out, "\nWarning: %d malformed history entries were skipped.\n", stats.SkippedRecords)
	}
}
