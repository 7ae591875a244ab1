package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/volition-os/volition/internal/app"
	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase"
)

// newOnboardingCommand creates the onboarding command.
func newOnboardingCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "onboarding",
		Short: "Show the trial and getting-started checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.OnboardingUseCase().Execute(cmd.Context(), usecase.OnboardingInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch {
			case !out.TrialStarted:
				_, _ = fmt.Fprintln(w, "Trial: not started (run 'volition init')")
			case out.Expired:
				_, _ = fmt.Fprintf(w, "Trial: ended %s\n", out.Trial.EndsAt().Format(dateLayout))
			default:
				_, _ = fmt.Fprintf(w, "Trial: %d of %d days left\n", out.DaysRemaining, out.Trial.Days)
			}
			_, _ = fmt.Fprintln(w)

			for i, step := range domain.OnboardingSteps() {
				mark := " "
				if out.State.Done(step) {
					mark = "x"
				}
				_, _ = fmt.Fprintf(w, "[%s] %d. %s\n", mark, i+1, step.Display())
			}

			_, _ = fmt.Fprintln(w)
			if out.Complete {
				_, _ = fmt.Fprintln(w, "All set. Run 'volition focus' to see what to do next.")
				return nil
			}
			_, _ = fmt.Fprintf(w, "Next: %s\n  %s\n", out.NextStep.Display(), out.NextStep.Hint())
			return nil
		},
	}
}
