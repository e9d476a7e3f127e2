package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/alan-go/internal/app"
	"github.com/doeshing/alan-go/internal/domain"
)

// NewCheckCommand creates the 'check' command evaluating a command string
// against the dangerous-pattern guardrail.
func NewCheckCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "check [command]",
		Short: "Evaluate a command against the dangerous-pattern rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := strings.Join(args, " ")
			assessment, err := container.SecurityService.Evaluate(command)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "risk: %s (action: %s)\n", assessment.Level, assessment.Action)
			for _, reason := range assessment.Reasons {
				fmt.Fprintf(out, "  - %s\n", reason)
			}
			if assessment.Action == domain.ActionBlock {
				return fmt.Errorf("command blocked by guardrail")
			}
			return nil
		},
	}
}
