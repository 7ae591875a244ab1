package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/volition-os/volition/internal/app"
	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "2006-01-02 15:04:05"
)

// newGoalCommand creates the goal command.
func newGoalCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals",
		Long:  `Create goals, define their scope and generate plans.`,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(
		newGoalNewCommand(c),
		newGoalListCommand(c),
		newGoalShowCommand(c),
		newGoalScopeCommand(c),
		newGoalPlanCommand(c),
		newGoalAbandonCommand(c),
		newGoalAchieveCommand(c),
	)
	return cmd
}

// newGoalNewCommand creates the goal new subcommand.
func newGoalNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Deadline    string
	}

	cmd := &cobra.Command{
		Use:   "new [title]",
		Short: "Create a new goal",
		Long: `Create a new goal in draft status.

The title can be given as an argument or with --title.

Examples:
  volition goal new "Run a marathon"
  volition goal new --title "Learn Go" --deadline 2026-12-31`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := opts.Title
			if len(args) == 1 {
				if title != "" {
					return errors.New("give the title either as an argument or with --title")
				}
				title = args[0]
			}

			input := usecase.NewGoalInput{
				Title:       title,
				Description: opts.Description,
			}
			if opts.Deadline != "" {
				d, err := time.ParseInLocation(dateLayout, opts.Deadline, time.Local)
				if err != nil {
					return fmt.Errorf("invalid deadline %q (use YYYY-MM-DD): %w", opts.Deadline, err)
				}
				input.Deadline = &d
			}

			out, err := c.NewGoalUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created goal %s: %s (complexity %d, %s)\n",
				domain.ShortID(out.Goal.ID), out.Goal.Title,
				out.Goal.Complexity, domain.ComplexityLabel(out.Goal.Complexity))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "Goal title")
	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Goal description")
	cmd.Flags().StringVar(&opts.Deadline, "deadline", "", "Target date (YYYY-MM-DD)")

	return cmd
}

// newGoalListCommand creates the goal list subcommand.
func newGoalListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status string
		All    bool
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List goals",
		Long: `Display a list of goals.

By default, achieved and abandoned goals are hidden.
Use --all to include them, or --status to show one status only.

Output columns: ID, STATUS, PROGRESS, COMPLEXITY, TITLE`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListGoalsUseCase().Execute(cmd.Context(), usecase.ListGoalsInput{
				Status: domain.GoalStatus(strings.ToLower(opts.Status)),
				All:    opts.All,
			})
			if err != nil {
				return err
			}

			printGoalList(cmd.OutOrStdout(), out.Goals)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "Only goals in this status (draft, scoped, planned, achieved, abandoned)")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Include achieved and abandoned goals")

	return cmd
}

func printGoalList(w io.Writer, goals []usecase.GoalSummary) {
	if len(goals) == 0 {
		_, _ = fmt.Fprintln(w, "No goals.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tPROGRESS\tCOMPLEXITY\tTITLE")
	for _, g := range goals {
		progress := "-"
		if g.Progress.Total > 0 {
			progress = fmt.Sprintf("%d/%d", g.Progress.Completed, g.Progress.Total)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			domain.ShortID(g.Goal.ID),
			g.Goal.Status,
			progress,
			domain.ComplexityLabel(g.Goal.Complexity),
			g.Goal.Title,
		)
	}
	_ = tw.Flush()
}

// newGoalShowCommand creates the goal show subcommand.
func newGoalShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <goal>",
		Short: "Show goal details and plan",
		Long: `Show a goal with its scope, progress and plan.

<goal> is a goal ID or a unique prefix of at least 4 characters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ShowGoalUseCase().Execute(cmd.Context(), usecase.ShowGoalInput{GoalRef: args[0]})
			if err != nil {
				return err
			}

			printGoalDetail(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func printGoalDetail(w io.Writer, out *usecase.ShowGoalOutput) {
	g := out.Goal
	_, _ = fmt.Fprintf(w, "# %s\n\n", g.Title)
	if g.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", g.Description)
	}

	_, _ = fmt.Fprintf(w, "ID: %s\n", g.ID)
	_, _ = fmt.Fprintf(w, "Status: %s\n", g.Status)
	_, _ = fmt.Fprintf(w, "Complexity: %d (%s)\n", g.Complexity, domain.ComplexityLabel(g.Complexity))
	_, _ = fmt.Fprintf(w, "Created: %s\n", g.Created.Format(time.RFC3339))
	if g.Deadline != nil {
		_, _ = fmt.Fprintf(w, "Deadline: %s\n", g.Deadline.Format(dateLayout))
	}

	if g.Scope.IsDefined() {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "## Scope")
		_, _ = fmt.Fprintf(w, "Outcome: %s\n", g.Scope.Outcome)
		for _, item := range g.Scope.InScope {
			_, _ = fmt.Fprintf(w, "  + %s\n", item)
		}
		for _, item := range g.Scope.OutOfScope {
			_, _ = fmt.Fprintf(w, "  - %s\n", item)
		}
		if g.Scope.HorizonWeeks > 0 {
			_, _ = fmt.Fprintf(w, "Horizon: %d weeks\n", g.Scope.HorizonWeeks)
		}
	}

	if out.Plan == nil {
		return
	}

	p := out.Progress
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "## Plan (%d%% done: %d completed, %d active, %d pending, %d failed)\n",
		p.Percent(), p.Completed, p.Active, p.Pending, p.Failed)
	printPlan(w, out.Plan)
}

func printPlan(w io.Writer, plan *domain.Plan) {
	for _, phase := range plan.Phases {
		_, _ = fmt.Fprintf(w, "%d. %s\n", phase.Position, phase.Title)
		for _, ms := range plan.MilestonesOf(phase.ID) {
			_, _ = fmt.Fprintf(w, "   * %s\n", ms.Title)
			for _, cl := range plan.ClustersOf(ms.ID) {
				_, _ = fmt.Fprintf(w, "     %s\n", cl.Title)
				for _, job := range plan.JobsOf(cl.ID) {
					_, _ = fmt.Fprintf(w, "       [%s] %s %-9s %3dm  %s\n",
						statusMark(job.Status), domain.ShortID(job.ID), job.Type.Display(),
						job.EstimatedMinutes, job.Title)
				}
			}
		}
	}
}

func statusMark(s domain.JobStatus) string {
	switch s {
	case domain.JobStatusActive:
		return ">"
	case domain.JobStatusCompleted:
		return "x"
	case domain.JobStatusFailed:
		return "!"
	default:
		return " "
	}
}

// newGoalScopeCommand creates the goal scope subcommand.
func newGoalScopeCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Outcome    string
		InScope    []string
		OutOfScope []string
		Weeks      int
	}

	cmd := &cobra.Command{
		Use:   "scope <goal>",
		Short: "Define what a goal covers",
		Long: `Define the scope of a goal: the outcome that means done, what is in
scope and what is not. Complexity is re-estimated from the scope.

If the goal already has a plan, regenerate it with
'volition goal plan <goal> --force'.

Examples:
  volition goal scope 1a2b --outcome "Finish a 42k race" \
    --in "Training plan" --in "Nutrition" --out "Ultra distances" --weeks 16`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DefineScopeUseCase().Execute(cmd.Context(), usecase.DefineScopeInput{
				GoalRef:      args[0],
				Outcome:      opts.Outcome,
				InScope:      opts.InScope,
				OutOfScope:   opts.OutOfScope,
				HorizonWeeks: opts.Weeks,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Scoped goal %s (complexity %d, %s)\n",
				domain.ShortID(out.Goal.ID), out.Goal.Complexity, domain.ComplexityLabel(out.Goal.Complexity))
			if out.PlanStale {
				_, _ = fmt.Fprintf(w, "The existing plan no longer matches the scope: run 'volition goal plan %s --force'\n",
					domain.ShortID(out.Goal.ID))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Outcome, "outcome", "", "Definition of done (required)")
	cmd.Flags().StringArrayVar(&opts.InScope, "in", nil, "In-scope item (repeatable)")
	cmd.Flags().StringArrayVar(&opts.OutOfScope, "out", nil, "Out-of-scope item (repeatable)")
	cmd.Flags().IntVar(&opts.Weeks, "weeks", 0, "Expected duration in weeks")

	return cmd
}

// newGoalPlanCommand creates the goal plan subcommand.
func newGoalPlanCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Template string
		Force    bool
	}

	cmd := &cobra.Command{
		Use:   "plan <goal>",
		Short: "Generate a plan for a goal",
		Long: `Generate phases, milestones and jobs for a goal from a plan template.

The template is chosen by complexity (sprint, standard or expedition)
unless --template names one. Custom templates are read from the
templates directory ([planner] templates_dir).

An existing plan is kept unless --force is given; --force discards its
jobs and work sessions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.GeneratePlanUseCase().Execute(cmd.Context(), usecase.GeneratePlanInput{
				GoalRef:  args[0],
				Template: opts.Template,
				Force:    opts.Force,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			verb := "Generated"
			if out.Replaced {
				verb = "Regenerated"
			}
			_, _ = fmt.Fprintf(w, "%s plan for %s from template %q: %d phases, %d jobs\n",
				verb, domain.ShortID(out.Goal.ID), out.Template, len(out.Plan.Phases), len(out.Plan.Jobs))
			_, _ = fmt.Fprintln(w)
			printPlan(w, out.Plan)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Template, "template", "", "Plan template name")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Replace an existing plan")

	return cmd
}

// newGoalAbandonCommand creates the goal abandon subcommand.
func newGoalAbandonCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "abandon <goal>",
		Short: "Abandon a goal",
		Long:  `Mark a goal as abandoned. Running work sessions of its jobs are stopped.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.AbandonGoalUseCase().Execute(cmd.Context(), usecase.CloseGoalInput{GoalRef: args[0]})
			if err != nil {
				return err
			}
			printClosedGoal(cmd.OutOrStdout(), "Abandoned", out)
			return nil
		},
	}
}

// newGoalAchieveCommand creates the goal achieve subcommand.
func newGoalAchieveCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "achieve <goal>",
		Short: "Mark a goal as achieved",
		Long:  `Mark a goal as achieved. Running work sessions of its jobs are stopped.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.AchieveGoalUseCase().Execute(cmd.Context(), usecase.CloseGoalInput{GoalRef: args[0]})
			if err != nil {
				return err
			}
			printClosedGoal(cmd.OutOrStdout(), "Achieved", out)
			return nil
		},
	}
}

func printClosedGoal(w io.Writer, verb string, out *usecase.CloseGoalOutput) {
	_, _ = fmt.Fprintf(w, "%s goal %s: %s\n", verb, domain.ShortID(out.Goal.ID), out.Goal.Title)
	if out.StoppedJobs > 0 {
		_, _ = fmt.Fprintf(w, "Stopped %d running session(s)\n", out.StoppedJobs)
	}
}
