package usecase

import (
	"context"
	"fmt"

	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase/shared"
)

// CloseGoalInput identifies the goal to close.
type CloseGoalInput struct {
	GoalRef string
}

// CloseGoalOutput contains the closed goal.
type CloseGoalOutput struct {
	Goal        *domain.Goal
	StoppedJobs int // Active jobs whose running session was stopped
}

// AbandonGoal is the use case for dropping a goal.
type AbandonGoal struct {
	closer goalCloser
}

// NewAbandonGoal creates a new AbandonGoal use case.
func NewAbandonGoal(
	goals domain.GoalRepository,
	jobs domain.JobRepository,
	sessions domain.SessionRepository,
	clock domain.Clock,
	logger domain.Logger,
	notifier ChangeNotifier,
) *AbandonGoal {
	return &AbandonGoal{closer: goalCloser{
		goals: goals, jobs: jobs, sessions: sessions,
		clock: clock, logger: logger, notifier: notifier,
		target: domain.GoalStatusAbandoned,
	}}
}

// Execute marks the goal abandoned.
func (uc *AbandonGoal) Execute(ctx context.Context, in CloseGoalInput) (*CloseGoalOutput, error) {
	return uc.closer.close(ctx, in.GoalRef)
}

// AchieveGoal is the use case for marking a goal as achieved.
type AchieveGoal struct {
	closer goalCloser
}

// NewAchieveGoal creates a new AchieveGoal use case.
func NewAchieveGoal(
	goals domain.GoalRepository,
	jobs domain.JobRepository,
	sessions domain.SessionRepository,
	clock domain.Clock,
	logger domain.Logger,
	notifier ChangeNotifier,
) *AchieveGoal {
	return &AchieveGoal{closer: goalCloser{
		goals: goals, jobs: jobs, sessions: sessions,
		clock: clock, logger: logger, notifier: notifier,
		target: domain.GoalStatusAchieved,
	}}
}

// Execute marks the goal achieved.
func (uc *AchieveGoal) Execute(ctx context.Context, in CloseGoalInput) (*CloseGoalOutput, error) {
	return uc.closer.close(ctx, in.GoalRef)
}

type goalCloser struct {
	goals    domain.GoalRepository
	jobs     domain.JobRepository
	sessions domain.SessionRepository
	clock    domain.Clock
	logger   domain.Logger
	notifier ChangeNotifier
	target   domain.GoalStatus
}

// close transitions the goal and stops the work sessions still running on
// its jobs, so no timer keeps counting for a closed goal.
func (c goalCloser) close(ctx context.Context, ref string) (*CloseGoalOutput, error) {
	goal, err := shared.GetGoal(c.goals, ref)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	if err := goal.TransitionTo(c.target, now); err != nil {
		return nil, fmt.Errorf("goal %s is %s: %w", domain.ShortID(goal.ID), goal.Status, err)
	}

	active, err := c.jobs.ListJobs(domain.JobFilter{
		GoalID:   goal.ID,
		Statuses: []domain.JobStatus{domain.JobStatusActive},
	})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	stopped := 0
	for _, job := range active {
		sessions, err := c.sessions.GetSessions(job.ID)
		if err != nil {
			return nil, fmt.Errorf("get sessions: %w", err)
		}
		if !domain.IsSessionActive(sessions) {
			continue
		}
		if err := c.sessions.SaveSessions(job.ID, domain.EndCurrentSession(sessions, now)); err != nil {
			return nil, fmt.Errorf("save sessions: %w", err)
		}
		stopped++
	}

	if err := c.goals.SaveGoal(goal); err != nil {
		return nil, fmt.Errorf("save goal: %w", err)
	}

	if c.logger != nil {
		c.logger.Info(goal.ID, "goal", fmt.Sprintf("goal %s", c.target))
	}
	if c.notifier != nil {
		c.notifier.JobsChanged(ctx)
	}

	return &CloseGoalOutput{Goal: goal, StoppedJobs: stopped}, nil
}
