package usecase

import (
	"context"
	"fmt"

	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase/shared"
)

// StartJobInput contains the parameters for starting a job.
type StartJobInput struct {
	JobRef string // Job ID or prefix
}

// StartJobOutput contains the started job.
type StartJobOutput struct {
	Job      *domain.Job
	Sessions []domain.WorkSession
}

// StartJob is the use case for committing to a job and starting its timer.
// Fields are ordered to minimize memory padding.
type StartJob struct {
	goals        domain.GoalRepository
	jobs         domain.JobRepository
	sessions     domain.SessionRepository
	configLoader domain.ConfigLoader
	clock        domain.Clock
	logger       domain.Logger
	notifier     ChangeNotifier
}

// NewStartJob creates a new StartJob use case.
func NewStartJob(
	goals domain.GoalRepository,
	jobs domain.JobRepository,
	sessions domain.SessionRepository,
	configLoader domain.ConfigLoader,
	clock domain.Clock,
	logger domain.Logger,
	notifier ChangeNotifier,
) *StartJob {
	return &StartJob{
		goals:        goals,
		jobs:         jobs,
		sessions:     sessions,
		configLoader: configLoader,
		clock:        clock,
		logger:       logger,
		notifier:     notifier,
	}
}

// Execute moves a PENDING job to ACTIVE and opens a work session.
// It refuses when the number of active jobs has reached jobs.max_active.
func (uc *StartJob) Execute(ctx context.Context, in StartJobInput) (*StartJobOutput, error) {
	job, err := shared.GetJob(uc.jobs, in.JobRef)
	if err != nil {
		return nil, err
	}
	if !job.Status.CanTransitionTo(domain.JobStatusActive) {
		return nil, fmt.Errorf("cannot start job %s (status: %s): %w", domain.ShortID(job.ID), job.Status, domain.ErrInvalidTransition)
	}

	goal, err := uc.goals.GetGoal(job.GoalID)
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	if goal != nil && goal.Status.IsTerminal() {
		return nil, fmt.Errorf("goal %s is %s: %w", domain.ShortID(goal.ID), goal.Status, domain.ErrInvalidTransition)
	}

	cfg, err := uc.configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if limit := cfg.Jobs.MaxActive; limit > 0 {
		active, err := uc.jobs.ListJobs(domain.JobFilter{Statuses: []domain.JobStatus{domain.JobStatusActive}})
		if err != nil {
			return nil, fmt.Errorf("list active jobs: %w", err)
		}
		if len(active) >= limit {
			return nil, fmt.Errorf("%d of %d jobs already active: %w", len(active), limit, domain.ErrTooManyActive)
		}
	}

	now := uc.clock.Now()
	if err := job.TransitionTo(domain.JobStatusActive, now); err != nil {
		return nil, err
	}
	if err := uc.jobs.SaveJob(job); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}

	sessions, err := uc.sessions.GetSessions(job.ID)
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}
	sessions = domain.StartSession(sessions, now)
	if err := uc.sessions.SaveSessions(job.ID, sessions); err != nil {
		return nil, fmt.Errorf("save sessions: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(job.GoalID, "job", fmt.Sprintf("job started: %q", job.Title))
	}
	if uc.notifier != nil {
		uc.notifier.JobsChanged(ctx)
	}

	return &StartJobOutput{Job: job, Sessions: sessions}, nil
}
