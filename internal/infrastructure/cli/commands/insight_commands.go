package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/alan-go/internal/app"
	"github.com/doeshing/alan-go/internal/pkg/platform"
)

// NewSimilarCommand creates the 'similar' command surfacing previously
// accepted commands for requests close to this one.
func NewSimilarCommand(container *app.Container) *cobra.Command {
	var (
		platformName string
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "similar [request text]",
		Short: "List accepted commands for similar past requests",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := strings.Join(args, " ")
			if platformName == "" {
				platformName = platform.Family()
			}
			matches := container.Tracker.Similar(request, platformName, limit)
			if len(matches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No similar accepted commands.")
				return nil
			}
			for _, m := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%.2f  %-40s  (%s)\n", m.Similarity, m.Command, m.Request)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&platformName, "platform", "", "Target platform family (detected when omitted)")
	cmd.Flags().IntVar(&limit, "limit", DefaultSimilarLimit, "Max matches to show")
	return cmd
}

// NewConfidenceCommand creates the 'confidence' command printing the learned
// acceptance estimate for a request.
func NewConfidenceCommand(container *app.Container) *cobra.Command {
	var (
		category     string
		platformName string
	)

	cmd := &cobra.Command{
		Use:   "confidence [request text]",
		Short: "Estimate how likely a suggestion for this request is to be accepted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := strings.Join(args, " ")
			if platformName == "" {
				platformName = platform.Family()
			}
			if category == "" {
				category = container.Tracker.Categorize(request)
			}
			conf := container.Tracker.Confidence(request, category, platformName)
			if conf.LowSampleSize {
				fmt.Fprintf(cmd.OutOrStdout(), "%.2f (low sample size, category %s)\n", conf.Score, category)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%.2f (category %s)\n", conf.Score, category)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Command category (derived from the request when omitted)")
	cmd.Flags().StringVar(&platformName, "platform", "", "Target platform family (detected when omitted)")
	return cmd
}
