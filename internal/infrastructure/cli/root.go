// Package cli wires the cobra command tree for the alan tracking toolkit.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/alan-go/internal/app"
	"github.com/doeshing/alan-go/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	root := &cobra.Command{
		Use:   "alan",
		Short: "Alan suggestion tracking toolkit",
		Long: "Alan records command suggestions and their outcomes, learns which kinds of\n" +
			"suggestions you accept, and surfaces similar commands you accepted before.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		commands.NewRecordCommand(container),
		commands.NewOutcomeCommand(container),
		commands.NewSimilarCommand(container),
		commands.NewConfidenceCommand(container),
		commands.NewStatsCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewPruneCommand(container),
		commands.NewCheckCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewConfigCommand(container),
		commands.NewVersionCommand(),
	)
	return root, nil
}
