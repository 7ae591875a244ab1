package usecase

import (
	"context"
	"fmt"

	"github.com/volition-os/volition/internal/domain"
)

// ListGoalsInput contains the parameters for listing goals.
type ListGoalsInput struct {
	Status domain.GoalStatus // Only goals in this status (empty = any)
	All    bool              // Include achieved and abandoned goals
}

// GoalSummary is one row of the goal list.
type GoalSummary struct {
	Goal     *domain.Goal
	Progress domain.GoalProgress
}

// ListGoalsOutput contains the listed goals.
type ListGoalsOutput struct {
	Goals []GoalSummary
}

// ListGoals is the use case for listing goals.
type ListGoals struct {
	goals domain.GoalRepository
	jobs  domain.JobRepository
}

// NewListGoals creates a new ListGoals use case.
func NewListGoals(goals domain.GoalRepository, jobs domain.JobRepository) *ListGoals {
	return &ListGoals{goals: goals, jobs: jobs}
}

// Execute returns goals ordered by creation time with their job progress.
// Closed goals are hidden unless All is set or they match Status.
func (uc *ListGoals) Execute(_ context.Context, in ListGoalsInput) (*ListGoalsOutput, error) {
	if in.Status != "" && !in.Status.IsValid() {
		return nil, fmt.Errorf("%q: %w", in.Status, domain.ErrInvalidStatus)
	}

	goals, err := uc.goals.ListGoals()
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	out := &ListGoalsOutput{Goals: make([]GoalSummary, 0, len(goals))}
	for _, g := range goals {
		if in.Status != "" && g.Status != in.Status {
			continue
		}
		if in.Status == "" && !in.All && g.Status.IsTerminal() {
			continue
		}
		jobs, err := uc.jobs.ListJobs(domain.JobFilter{GoalID: g.ID})
		if err != nil {
			return nil, fmt.Errorf("list jobs: %w", err)
		}
		out.Goals = append(out.Goals, GoalSummary{
			Goal:     g,
			Progress: domain.ComputeProgress(jobs),
		})
	}
	return out, nil
}
