package usecase

import (
	"context"
	"fmt"

	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase/shared"
)

// FocusJobsInput contains the parameters for building a focus list.
type FocusJobsInput struct {
	GoalRef string // Goal ID or prefix (empty = all open goals)
	Energy  string // Energy override (empty = stored state)
}

// FocusJobsOutput contains the focus list.
type FocusJobsOutput struct {
	Goal      *domain.Goal // Nil when all goals are in scope
	Selection domain.JobSelection
	Summary   domain.SelectionSummary
}

// FocusJobs is the use case for listing what to work on now.
type FocusJobs struct {
	goals  domain.GoalRepository
	jobs   domain.JobRepository
	energy *EnergySettings
}

// NewFocusJobs creates a new FocusJobs use case.
func NewFocusJobs(goals domain.GoalRepository, jobs domain.JobRepository, energy *EnergySettings) *FocusJobs {
	return &FocusJobs{
		goals:  goals,
		jobs:   jobs,
		energy: energy,
	}
}

// Execute runs the context engine for the requested scope and energy state.
func (uc *FocusJobs) Execute(ctx context.Context, in FocusJobsInput) (*FocusJobsOutput, error) {
	var goal *domain.Goal
	if in.GoalRef != "" {
		g, err := shared.GetGoal(uc.goals, in.GoalRef)
		if err != nil {
			return nil, err
		}
		goal = g
	}

	var state domain.EnergyState
	if in.Energy != "" {
		s, err := domain.ParseEnergyState(in.Energy)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", in.Energy, err)
		}
		state = s
	} else {
		s, err := uc.energy.Get(ctx)
		if err != nil {
			return nil, err
		}
		state = s
	}

	goalID := ""
	if goal != nil {
		goalID = goal.ID
	}
	sel, err := selectFocus(uc.goals, uc.jobs, goalID, state)
	if err != nil {
		return nil, err
	}

	return &FocusJobsOutput{
		Goal:      goal,
		Selection: sel,
		Summary:   domain.SummarizeSelection(sel),
	}, nil
}

// selectFocus loads the candidate jobs for a goal (or every open goal when
// goalID is empty) and runs domain.SelectJobs over them.
func selectFocus(goals domain.GoalRepository, jobs domain.JobRepository, goalID string, state domain.EnergyState) (domain.JobSelection, error) {
	candidates, err := jobs.ListJobs(domain.JobFilter{
		GoalID:   goalID,
		Statuses: []domain.JobStatus{domain.JobStatusActive, domain.JobStatusPending},
	})
	if err != nil {
		return domain.JobSelection{}, fmt.Errorf("list jobs: %w", err)
	}
	clusters, err := jobs.ListClusters(domain.ClusterFilter{GoalID: goalID})
	if err != nil {
		return domain.JobSelection{}, fmt.Errorf("list clusters: %w", err)
	}

	if goalID == "" {
		candidates, err = dropClosedGoals(goals, candidates)
		if err != nil {
			return domain.JobSelection{}, err
		}
	}

	return domain.SelectJobs(candidates, state, clusters), nil
}

// dropClosedGoals removes jobs whose goal was achieved or abandoned.
func dropClosedGoals(goals domain.GoalRepository, jobs []*domain.Job) ([]*domain.Job, error) {
	all, err := goals.ListGoals()
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	closed := make(map[string]bool)
	for _, g := range all {
		if g.Status.IsTerminal() {
			closed[g.ID] = true
		}
	}
	if len(closed) == 0 {
		return jobs, nil
	}
	out := make([]*domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if !closed[j.GoalID] {
			out = append(out, j)
		}
	}
	return out, nil
}
