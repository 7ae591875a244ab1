package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/volition-os/volition/internal/app"
	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase"
)

type jobTransitioner interface {
	Execute(ctx context.Context, in usecase.JobTransitionInput) (*usecase.JobTransitionOutput, error)
}

// newJobCommand creates the job command.
func newJobCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Work on jobs",
		Long: `Start, finish and reschedule jobs.

<job> is a job ID or a unique prefix of at least 4 characters, as shown
by 'volition focus' and 'volition goal show'.`,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(
		newJobStartCommand(c),
		newJobTransitionCommand("done <job>", "Mark an active job as completed", "Completed",
			func() jobTransitioner { return c.CompleteJobUseCase() }),
		newJobTransitionCommand("fail <job>", "Mark a job as failed", "Failed",
			func() jobTransitioner { return c.FailJobUseCase() }),
		newJobTransitionCommand("defer <job>", "Put an active job back to pending", "Deferred",
			func() jobTransitioner { return c.DeferJobUseCase() }),
		newJobTransitionCommand("retry <job>", "Put a failed job back to pending", "Retrying",
			func() jobTransitioner { return c.RetryJobUseCase() }),
		newJobHistoryCommand(c),
	)
	return cmd
}

// newJobHistoryCommand creates the job history subcommand.
func newJobHistoryCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "history <job>",
		Short: "Show the status changes of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.JobHistoryUseCase().Execute(cmd.Context(), usecase.JobHistoryInput{JobRef: args[0]})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Job: %s %s (%s)\n\n", domain.ShortID(out.Job.ID), out.Job.Title, out.Job.Status.Display())
			if len(out.Events) == 0 {
				_, _ = fmt.Fprintln(w, "No status changes recorded.")
				return nil
			}

			tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
			_, _ = fmt.Fprintln(tw, "AT\tFROM\tTO")
			for _, e := range out.Events {
				from := "-"
				if e.From != "" {
					from = e.From.Display()
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", e.At.Format(timeLayout), from, e.To.Display())
			}
			return tw.Flush()
		},
	}
}

// newJobStartCommand creates the job start subcommand.
func newJobStartCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "start <job>",
		Short: "Start a job and its timer",
		Long: `Move a pending job to active and start a work session.

At most [jobs] max_active jobs can be active at the same time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.StartJobUseCase().Execute(cmd.Context(), usecase.StartJobInput{JobRef: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Started job %s: %s (%s, ~%dm)\n",
				domain.ShortID(out.Job.ID), out.Job.Title, out.Job.Type.Display(), out.Job.EstimatedMinutes)
			return nil
		},
	}
}

func newJobTransitionCommand(use, short, verb string, uc func() jobTransitioner) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := uc().Execute(cmd.Context(), usecase.JobTransitionInput{JobRef: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s job %s: %s (tracked %s)\n",
				verb, domain.ShortID(out.Job.ID), out.Job.Title, domain.FormatElapsed(out.TotalSeconds))
			return nil
		},
	}
}

// newSessionCommand creates the session command.
func newSessionCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Pause, resume and inspect the timer of an active job",
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "start <job>",
			Short: "Resume the timer of an active job",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := c.StartSessionUseCase().Execute(cmd.Context(), usecase.WorkSessionInput{JobRef: args[0]})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Timer running for %s (session %d)\n",
					domain.ShortID(out.Job.ID), len(out.Sessions))
				return nil
			},
		},
		&cobra.Command{
			Use:   "stop <job>",
			Short: "Pause the timer of an active job",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := c.StopSessionUseCase().Execute(cmd.Context(), usecase.WorkSessionInput{JobRef: args[0]})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Timer paused for %s (total %s)\n",
					domain.ShortID(out.Job.ID), domain.FormatElapsed(out.TotalSeconds))
				return nil
			},
		},
		&cobra.Command{
			Use:   "status <job>",
			Short: "Show tracked time of a job",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := c.ShowTimerUseCase().Execute(cmd.Context(), usecase.ShowTimerInput{JobRef: args[0]})
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "Job: %s %s (%s)\n", domain.ShortID(out.Job.ID), out.Job.Title, out.Job.Status.Display())
				state := "paused"
				if out.Running {
					state = "running"
				}
				_, _ = fmt.Fprintf(w, "Timer: %s\n", state)
				_, _ = fmt.Fprintf(w, "Current: %s\n", domain.FormatElapsed(out.CurrentSeconds))
				_, _ = fmt.Fprintf(w, "Total: %s over %d session(s)\n", domain.FormatElapsed(out.TotalSeconds), out.Sessions)
				return nil
			},
		},
	)
	return cmd
}
