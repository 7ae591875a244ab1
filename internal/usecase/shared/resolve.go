// Package shared provides shared utilities for use cases.
package shared

import (
	"fmt"
	"strings"

	"github.com/volition-os/volition/internal/domain"
)

// GetGoal retrieves a goal by ID or unique ID prefix.
// It returns domain.ErrGoalNotFound if nothing matches.
// This centralizes the common pattern of:
//
//	goal, err := repo.GetGoal(id)
//	if err != nil { return nil, fmt.Errorf("get goal: %w", err) }
//	if goal == nil { return nil, domain.ErrGoalNotFound }
func GetGoal(repo domain.GoalRepository, ref string) (*domain.Goal, error) {
	ref = strings.TrimSpace(ref)
	goal, err := repo.GetGoal(ref)
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	if goal != nil {
		return goal, nil
	}
	if len(ref) < domain.MinIDPrefixLen {
		return nil, fmt.Errorf("goal %q: %w", ref, domain.ErrIDTooShort)
	}

	goals, err := repo.ListGoals()
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	match, err := matchPrefix(ref, goals, func(g *domain.Goal) string { return g.ID })
	if err != nil {
		return nil, fmt.Errorf("goal %q: %w", ref, err)
	}
	if match == nil {
		return nil, domain.ErrGoalNotFound
	}
	return match, nil
}

// GetJob retrieves a job by ID or unique ID prefix.
// It returns domain.ErrJobNotFound if nothing matches.
func GetJob(repo domain.JobRepository, ref string) (*domain.Job, error) {
	ref = strings.TrimSpace(ref)
	job, err := repo.GetJob(ref)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job != nil {
		return job, nil
	}
	if len(ref) < domain.MinIDPrefixLen {
		return nil, fmt.Errorf("job %q: %w", ref, domain.ErrIDTooShort)
	}

	jobs, err := repo.ListJobs(domain.JobFilter{})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	match, err := matchPrefix(ref, jobs, func(j *domain.Job) string { return j.ID })
	if err != nil {
		return nil, fmt.Errorf("job %q: %w", ref, err)
	}
	if match == nil {
		return nil, domain.ErrJobNotFound
	}
	return match, nil
}

// matchPrefix returns the single item whose id starts with prefix,
// nil when none does, and domain.ErrAmbiguousID when several do.
func matchPrefix[T any](prefix string, items []*T, id func(*T) string) (*T, error) {
	var found *T
	for _, item := range items {
		if !strings.HasPrefix(id(item), prefix) {
			continue
		}
		if found != nil {
			return nil, domain.ErrAmbiguousID
		}
		found = item
	}
	return found, nil
}
