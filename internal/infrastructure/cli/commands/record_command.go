package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/alan-go/internal/app"
	"github.com/doeshing/alan-go/internal/domain"
	"github.com/doeshing/alan-go/internal/pkg/platform"
)

// NewRecordCommand creates the 'record' command used by the surrounding
// assistant to persist a suggestion before showing it to the user.
func NewRecordCommand(container *app.Container) *cobra.Command {
	var (
		command      string
		category     string
		platformName string
		withInsights bool
	)

	cmd := &cobra.Command{
		Use:   "record [request text]",
		Short: "Record a suggestion and print its tracking id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if command == "" {
				return fmt.Errorf("--command required")
			}
			request := strings.Join(args, " ")
			if platformName == "" {
				platformName = platform.Family()
			}
			if category == "" {
				category = container.Tracker.Categorize(request)
			}

			out := cmd.OutOrStdout()
			if withInsights {
				conf := container.Tracker.Confidence(request, category, platformName)
				if conf.LowSampleSize {
					fmt.Fprintf(out, "confidence: %.2f (low sample size)\n", conf.Score)
				} else {
					fmt.Fprintf(out, "confidence: %.0f%%\n", conf.Score*100)
				}
				for _, similar := range container.Tracker.Similar(request, platformName, DefaultSimilarLimit) {
					fmt.Fprintf(out, "similar accepted: %s (%.2f)\n", similar.Command, similar.Similarity)
				}
			}

			id, err := container.Tracker.RecordSuggestion(request, command, category, platformName)
			if err != nil {
				if domain.IsPersistence(err) {
					// The suggestion proceeds untracked; the caller keeps working.
					container.Logger.Error("suggestion not tracked", err, nil)
					fmt.Fprintln(out, "id: 0 (untracked)")
					return nil
				}
				return err
			}
			fmt.Fprintf(out, "id: %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&command, "command", "c", "", "The suggested command string")
	cmd.Flags().StringVar(&category, "category", "", "Command category (derived from the request when omitted)")
	cmd.Flags().StringVar(&platformName, "platform", "", "Target platform family (detected when omitted)")
	cmd.Flags().BoolVar(&withInsights, "insights", false, "Print confidence and similar accepted commands")
	return cmd
}
