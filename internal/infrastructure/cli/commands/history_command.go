package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/alan-go/internal/app"
	"github.com/doeshing/alan-go/internal/domain"
)

const msgNoHistoryRecorded = "No history recorded yet."

// NewHistoryCommand creates the history command with all subcommands.
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded suggestions",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryExportCommand(container),
		newHistoryClearCommand(container),
	)
	return historyCmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent suggestions",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, skipped, err := container.HistoryStore.All()
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}
			if limit > 0 && len(records) > limit {
				records = records[len(records)-limit:]
			}
			renderRecords(cmd.OutOrStdout(), records, skipped)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show")
	return cmd
}

func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var (
		query string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search suggestions by request or command text",
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return fmt.Errorf("--query required")
			}
			records, skipped, err := container.HistoryStore.All()
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}
			var hits []domain.SuggestionRecord
			needle := strings.ToLower(query)
			for _, rec := range records {
				if strings.Contains(strings.ToLower(rec.RequestText), needle) ||
					strings.Contains(strings.ToLower(rec.SuggestedCommand), needle) {
					hits = append(hits, rec)
				}
			}
			if limit > 0 && len(hits) > limit {
				hits = hits[len(hits)-limit:]
			}
			renderRecords(cmd.OutOrStdout(), hits, skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Search keyword")
	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistorySearchLimit, "Max results to show")
	return cmd
}

func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export the folded history to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, _, err := container.HistoryStore.All()
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}
			file, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer file.Close()
			for _, rec := range records {
				data, err := json.Marshal(rec)
				if err != nil {
					return err
				}
				if _, err := file.Write(append(data, '\n')); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d records to %s\n", len(records), args[0])
			return nil
		},
	}
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Permanently delete all recorded suggestions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("pass --yes to confirm deleting all history")
			}
			// An age threshold of one nanosecond prunes everything recorded
			// before this instant, which is the whole history.
			removed, err := container.Tracker.Maintain(time.Nanosecond, 0)
			if err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d records\n", removed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}

func renderRecords(out io.Writer, records []domain.SuggestionRecord, skipped int) {
	if len(records) == 0 {
		fmt.Fprintln(out, msgNoHistoryRecorded)
		return
	}
	for _, rec := range records {
		command := rec.SuggestedCommand
		if rec.Outcome == domain.OutcomeEdited {
			command = fmt.Sprintf("%s -> %s", rec.SuggestedCommand, rec.FinalCommand)
		}
		fmt.Fprintf(out, "%5d  [%s] %-9s %-18s %s\n",
			rec.ID, rec.Timestamp.Local().Format("2006-01-02 15:04"), rec.Outcome, rec.CommandCategory, command)
	}
	if skipped > 0 {
		fmt.Fprintf(out, "(%d malformed entries skipped)\n", skipped)
	}
}
