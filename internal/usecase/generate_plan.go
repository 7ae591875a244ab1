package usecase

import (
	"context"
	"fmt"

	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase/shared"
)

// GeneratePlanInput contains the parameters for generating a plan.
type GeneratePlanInput struct {
	GoalRef  string
	Template string // Optional template name; chosen by complexity when empty
	Force    bool   // Replace an existing plan (its jobs and sessions are discarded)
}

// GeneratePlanOutput contains the generated plan.
type GeneratePlanOutput struct {
	Goal     *domain.Goal
	Plan     *domain.Plan
	Template string // Name of the template the plan came from
	Replaced bool   // True if an existing plan was replaced
}

// GeneratePlan is the use case for turning a scoped goal into a plan.
type GeneratePlan struct {
	goals     domain.GoalRepository
	plans     domain.PlanRepository
	generator domain.PlanGenerator
	ids       domain.IDGenerator
	clock     domain.Clock
	logger    domain.Logger
	notifier  ChangeNotifier
}

// NewGeneratePlan creates a new GeneratePlan use case.
func NewGeneratePlan(
	goals domain.GoalRepository,
	plans domain.PlanRepository,
	generator domain.PlanGenerator,
	ids domain.IDGenerator,
	clock domain.Clock,
	logger domain.Logger,
	notifier ChangeNotifier,
) *GeneratePlan {
	return &GeneratePlan{
		goals:     goals,
		plans:     plans,
		generator: generator,
		ids:       ids,
		clock:     clock,
		logger:    logger,
		notifier:  notifier,
	}
}

// Execute generates, materializes and stores a plan, then marks the goal planned.
func (uc *GeneratePlan) Execute(ctx context.Context, in GeneratePlanInput) (*GeneratePlanOutput, error) {
	goal, err := shared.GetGoal(uc.goals, in.GoalRef)
	if err != nil {
		return nil, err
	}

	if !goal.Scope.IsDefined() {
		return nil, fmt.Errorf("goal %s has no scope: %w", domain.ShortID(goal.ID), domain.ErrEmptyOutcome)
	}
	if !goal.Status.CanTransitionTo(domain.GoalStatusPlanned) {
		return nil, fmt.Errorf("goal %s is %s: %w", domain.ShortID(goal.ID), goal.Status, domain.ErrInvalidTransition)
	}

	existing, err := uc.plans.GetPlan(goal.ID)
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	replaced := !existing.IsEmpty()
	if replaced && !in.Force {
		return nil, domain.ErrPlanExists
	}

	draft, err := uc.draft(ctx, goal, in.Template)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("template %q: %w", draft.Template, err)
	}

	now := uc.clock.Now()
	plan := draft.Materialize(goal, uc.ids, now)
	if err := uc.plans.SavePlan(plan); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}

	if err := goal.TransitionTo(domain.GoalStatusPlanned, now); err != nil {
		return nil, err
	}
	if err := uc.goals.SaveGoal(goal); err != nil {
		return nil, fmt.Errorf("save goal: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(goal.ID, "plan", fmt.Sprintf("plan generated from %q: %d phases, %d jobs",
			draft.Template, len(plan.Phases), len(plan.Jobs)))
	}
	if uc.notifier != nil {
		uc.notifier.JobsChanged(ctx)
	}

	return &GeneratePlanOutput{
		Goal:     goal,
		Plan:     plan,
		Template: draft.Template,
		Replaced: replaced,
	}, nil
}

func (uc *GeneratePlan) draft(ctx context.Context, goal *domain.Goal, template string) (*domain.PlanDraft, error) {
	if template == "" {
		return uc.generator.Generate(ctx, goal)
	}
	named, ok := uc.generator.(domain.NamedPlanGenerator)
	if !ok {
		return nil, fmt.Errorf("%s: %w", template, domain.ErrTemplateNotFound)
	}
	return named.GenerateNamed(ctx, goal, template)
}
