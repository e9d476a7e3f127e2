package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/alan-go/internal/app"
)

// NewDoctorCommand creates the 'doctor' command running core diagnostics.
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check config, history store and guardrail health",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := container.DoctorService.Run(cmd.Context())
			out := cmd.OutOrStdout()
			for _, check := range report.Checks {
				fmt.Fprintf(out, "[%-5s] %-15s %s\n", check.Status, check.Name, check.Details)
			}
			if err != nil {
				return err
			}
			if !report.Healthy() {
				return fmt.Errorf("doctor found problems")
			}
			return nil
		},
	}
}
