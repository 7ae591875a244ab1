package usecase

import (
	"context"
	"fmt"

	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase/shared"
)

// ShowGoalInput contains the parameters for showing a goal.
type ShowGoalInput struct {
	GoalRef string
}

// ShowGoalOutput contains the goal, its plan and progress.
type ShowGoalOutput struct {
	Goal     *domain.Goal
	Plan     *domain.Plan // Nil if no plan was generated
	Progress domain.GoalProgress
}

// ShowGoal is the use case for displaying a goal.
type ShowGoal struct {
	goals domain.GoalRepository
	plans domain.PlanRepository
}

// NewShowGoal creates a new ShowGoal use case.
func NewShowGoal(goals domain.GoalRepository, plans domain.PlanRepository) *ShowGoal {
	return &ShowGoal{goals: goals, plans: plans}
}

// Execute loads the goal and its plan.
func (uc *ShowGoal) Execute(_ context.Context, in ShowGoalInput) (*ShowGoalOutput, error) {
	goal, err := shared.GetGoal(uc.goals, in.GoalRef)
	if err != nil {
		return nil, err
	}

	plan, err := uc.plans.GetPlan(goal.ID)
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}

	out := &ShowGoalOutput{Goal: goal, Plan: plan}
	if plan != nil {
		out.Progress = domain.ComputeProgress(plan.Jobs)
	}
	return out, nil
}
