package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/volition-os/volition/internal/app"
	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase"
)

// newFocusCommand creates the focus command.
func newFocusCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Goal   string
		Energy string
	}

	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Show the jobs that fit your energy",
		Long: `Show the jobs to work on now.

Active jobs are always listed. Pending jobs are filtered by the energy
state: HIGH shows everything, MED hides deep work, LOW shows quick wins
only. Jobs are ordered by milestone, then status, then creation.

The stored energy state is used unless --energy overrides it for this
call only.

Examples:
  volition focus
  volition focus --goal 1a2b --energy low`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.FocusJobsUseCase().Execute(cmd.Context(), usecase.FocusJobsInput{
				GoalRef: opts.Goal,
				Energy:  opts.Energy,
			})
			if err != nil {
				return err
			}

			printFocus(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Goal, "goal", "g", "", "Only jobs of this goal")
	cmd.Flags().StringVarP(&opts.Energy, "energy", "e", "", "Energy override (high, med, low)")

	return cmd
}

func printFocus(w io.Writer, out *usecase.FocusJobsOutput) {
	sel := out.Selection
	scope := "all goals"
	if out.Goal != nil {
		scope = out.Goal.Title
	}
	_, _ = fmt.Fprintf(w, "Energy: %s  (%s)\n\n", sel.Energy.Display(), scope)

	if sel.IsEmpty {
		if sel.Message != "" {
			_, _ = fmt.Fprintln(w, sel.Message)
		} else {
			_, _ = fmt.Fprintln(w, "Nothing to do right now.")
		}
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tTYPE\tEST\tTITLE")
	for _, job := range sel.Jobs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%dm\t%s\n",
			domain.ShortID(job.ID),
			job.Status.Display(),
			job.Type.Display(),
			job.EstimatedMinutes,
			job.Title,
		)
	}
	_ = tw.Flush()

	s := out.Summary
	_, _ = fmt.Fprintf(w, "\n%d active, %d pending, about %dm of work\n", s.Active, s.Pending, s.TotalMinutes)
}

// newEnergyCommand creates the energy command.
func newEnergyCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "energy",
		Short: "Show or set your energy state",
		Long: `Show or set the energy state used to pick jobs.

Without a subcommand, prints the current state.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printEnergy(cmd, c)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Show the energy state",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printEnergy(cmd, c)
			},
		},
		&cobra.Command{
			Use:       "set <high|med|low>",
			Short:     "Set the energy state",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"high", "med", "low"},
			RunE: func(cmd *cobra.Command, args []string) error {
				state, err := domain.ParseEnergyState(args[0])
				if err != nil {
					return fmt.Errorf("%q: %w", args[0], err)
				}
				if err := c.Energy.Set(cmd.Context(), state); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Energy set to %s\n", state.Display())
				return nil
			},
		},
	)
	return cmd
}

func printEnergy(cmd *cobra.Command, c *app.Container) error {
	state, err := c.Energy.Get(cmd.Context())
	if err != nil {
		return err
	}
	chosen, err := c.Energy.IsChosen(cmd.Context())
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Energy: %s", state.Display())
	if !chosen {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), " (default)")
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
