package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doeshing/alan-go/internal/app"
	"github.com/doeshing/alan-go/internal/domain"
)

// NewOutcomeCommand creates the 'outcome' command recording the user's
// disposition toward an earlier suggestion.
func NewOutcomeCommand(container *app.Container) *cobra.Command {
	var (
		accepted bool
		rejected bool
		editedTo string
	)

	cmd := &cobra.Command{
		Use:   "outcome <id>",
		Short: "Resolve a pending suggestion as accepted, rejected or edited",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}

			outcome, finalCommand, err := resolveOutcomeFlags(accepted, rejected, editedTo)
			if err != nil {
				return err
			}

			if err := container.Tracker.RecordOutcome(id, outcome, finalCommand); err != nil {
				switch {
				case errors.Is(err, domain.ErrNotFound):
					return fmt.Errorf("no suggestion with id %d", id)
				case errors.Is(err, domain.ErrInvalidTransition):
					return fmt.Errorf("suggestion %d already resolved", id)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded %s for %d\n", outcome, id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&accepted, "accepted", false, "The user ran the command as suggested")
	cmd.Flags().BoolVar(&rejected, "rejected", false, "The user declined the command")
	cmd.Flags().StringVar(&editedTo, "edited-to", "", "The user modified the command to this before running it")
	return cmd
}

func resolveOutcomeFlags(accepted, rejected bool, editedTo string) (domain.Outcome, string, error) {
	set := 0
	if accepted {
		set++
	}
	if rejected {
		set++
	}
	if editedTo != "" {
		set++
	}
	if set != 1 {
		return "", "", fmt.Errorf("exactly one of --accepted, --rejected or --edited-to required")
	}
	switch {
	case accepted:
		return domain.OutcomeAccepted, "", nil
	case rejected:
		return domain.OutcomeRejected, "", nil
	default:
		return domain.OutcomeEdited, editedTo, nil
	}
}
