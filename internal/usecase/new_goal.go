package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/volition-os/volition/internal/domain"
)

// NewGoalInput contains the parameters for creating a goal.
// Fields are ordered to minimize memory padding.
type NewGoalInput struct {
	Deadline    *time.Time // Optional target date
	Title       string     // Goal title (required)
	Description string     // Goal description (optional)
}

// NewGoalOutput contains the result of creating a goal.
type NewGoalOutput struct {
	Goal *domain.Goal
}

// NewGoal is the use case for creating a new goal.
type NewGoal struct {
	goals  domain.GoalRepository
	ids    domain.IDGenerator
	clock  domain.Clock
	logger domain.Logger
}

// NewNewGoal creates a new NewGoal use case.
func NewNewGoal(goals domain.GoalRepository, ids domain.IDGenerator, clock domain.Clock, logger domain.Logger) *NewGoal {
	return &NewGoal{
		goals:  goals,
		ids:    ids,
		clock:  clock,
		logger: logger,
	}
}

// Execute creates a new draft goal and estimates its complexity.
func (uc *NewGoal) Execute(_ context.Context, in NewGoalInput) (*NewGoalOutput, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}

	now := uc.clock.Now()
	goal := &domain.Goal{
		ID:          uc.ids.NewID(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Deadline:    in.Deadline,
		Status:      domain.GoalStatusDraft,
		Created:     now,
		Updated:     now,
	}
	goal.Complexity = domain.EstimateComplexity(goal)

	if err := uc.goals.SaveGoal(goal); err != nil {
		return nil, fmt.Errorf("save goal: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(goal.ID, "goal", fmt.Sprintf("goal created: %q (complexity %d)", goal.Title, goal.Complexity))
	}

	return &NewGoalOutput{Goal: goal}, nil
}
