package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/alan-go/internal/app"
)

// NewPruneCommand creates the 'prune' command. Pruning only ever runs through
// this explicit invocation, never implicitly during appends or reads.
func NewPruneCommand(container *app.Container) *cobra.Command {
	var (
		maxAgeDays int
		maxCount   int
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Permanently remove old history records",
		Long: "Removes records older than --max-age-days or beyond --max-count (oldest\n" +
			"first). A record violating either threshold is pruned. Without flags the\n" +
			"configured retention policy applies.",
		RunE: func(cmd *cobra.Command, args []string) error {
			maxAge := time.Duration(maxAgeDays) * 24 * time.Hour
			pruned, err := container.Tracker.Maintain(maxAge, maxCount)
			if err != nil {
				return fmt.Errorf("prune failed, store unchanged: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d records\n", pruned)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxAgeDays, "max-age-days", 0, "Remove records older than this many days")
	cmd.Flags().IntVar(&maxCount, "max-count", 0, "Keep at most this many records")
	return cmd
}
