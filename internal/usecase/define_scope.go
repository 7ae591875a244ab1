package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase/shared"
)

// DefineScopeInput contains the scope to set on a goal.
// Fields are ordered to minimize memory padding.
type DefineScopeInput struct {
	GoalRef      string
	Outcome      string   // Definition of done (required)
	InScope      []string // What the goal covers
	OutOfScope   []string // What it explicitly does not
	HorizonWeeks int      // Expected duration in weeks (0 = unknown)
}

// DefineScopeOutput contains the updated goal.
type DefineScopeOutput struct {
	Goal      *domain.Goal
	PlanStale bool // True if the goal had a plan that should be regenerated
}

// DefineScope is the use case for setting the scope of a goal.
type DefineScope struct {
	goals  domain.GoalRepository
	clock  domain.Clock
	logger domain.Logger
}

// NewDefineScope creates a new DefineScope use case.
func NewDefineScope(goals domain.GoalRepository, clock domain.Clock, logger domain.Logger) *DefineScope {
	return &DefineScope{goals: goals, clock: clock, logger: logger}
}

// Execute sets the scope, re-estimates complexity and marks the goal scoped.
func (uc *DefineScope) Execute(_ context.Context, in DefineScopeInput) (*DefineScopeOutput, error) {
	outcome := strings.TrimSpace(in.Outcome)
	if outcome == "" {
		return nil, domain.ErrEmptyOutcome
	}

	goal, err := shared.GetGoal(uc.goals, in.GoalRef)
	if err != nil {
		return nil, err
	}

	wasPlanned := goal.Status == domain.GoalStatusPlanned
	if err := goal.TransitionTo(domain.GoalStatusScoped, uc.clock.Now()); err != nil {
		return nil, fmt.Errorf("goal %s is %s: %w", domain.ShortID(goal.ID), goal.Status, err)
	}

	goal.Scope = domain.Scope{
		Outcome:      outcome,
		InScope:      cleanList(in.InScope),
		OutOfScope:   cleanList(in.OutOfScope),
		HorizonWeeks: max(in.HorizonWeeks, 0),
	}
	goal.Complexity = domain.EstimateComplexity(goal)

	if err := uc.goals.SaveGoal(goal); err != nil {
		return nil, fmt.Errorf("save goal: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(goal.ID, "goal", fmt.Sprintf("scope defined (complexity %d)", goal.Complexity))
	}

	return &DefineScopeOutput{Goal: goal, PlanStale: wasPlanned}, nil
}

// cleanList trims items and drops empty ones.
func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
