package usecase

import (
	"context"
	"fmt"

	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase/shared"
)

// JobTransitionInput identifies the job to move.
type JobTransitionInput struct {
	JobRef string // Job ID or prefix
}

// JobTransitionOutput contains the moved job and its tracked time.
type JobTransitionOutput struct {
	Job          *domain.Job
	TotalSeconds int64 // Time tracked on the job across all sessions
}

// jobTransition moves a job to a target status, closing its running work
// session first. Shared by CompleteJob, FailJob, DeferJob and RetryJob.
type jobTransition struct {
	jobs     domain.JobRepository
	sessions domain.SessionRepository
	clock    domain.Clock
	logger   domain.Logger
	notifier ChangeNotifier
	from     domain.JobStatus // Required current status (empty = any that can reach target)
	target   domain.JobStatus
	verb     string
}

func (t jobTransition) execute(ctx context.Context, ref string) (*JobTransitionOutput, error) {
	job, err := shared.GetJob(t.jobs, ref)
	if err != nil {
		return nil, err
	}
	if (t.from != "" && job.Status != t.from) || !job.Status.CanTransitionTo(t.target) {
		return nil, fmt.Errorf("cannot %s job %s (status: %s): %w", t.verb, domain.ShortID(job.ID), job.Status, domain.ErrInvalidTransition)
	}

	now := t.clock.Now()
	sessions, err := t.sessions.GetSessions(job.ID)
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}
	if domain.IsSessionActive(sessions) {
		sessions = domain.EndCurrentSession(sessions, now)
		if err := t.sessions.SaveSessions(job.ID, sessions); err != nil {
			return nil, fmt.Errorf("save sessions: %w", err)
		}
	}

	if err := job.TransitionTo(t.target, now); err != nil {
		return nil, err
	}
	if err := t.jobs.SaveJob(job); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}

	if t.logger != nil {
		t.logger.Info(job.GoalID, "job", fmt.Sprintf("job %s: %q -> %s", t.verb, job.Title, job.Status))
	}
	if t.notifier != nil {
		t.notifier.JobsChanged(ctx)
	}

	return &JobTransitionOutput{
		Job:          job,
		TotalSeconds: domain.TotalDuration(sessions, now),
	}, nil
}

func newJobTransition(
	jobs domain.JobRepository,
	sessions domain.SessionRepository,
	clock domain.Clock,
	logger domain.Logger,
	notifier ChangeNotifier,
	from, target domain.JobStatus,
	verb string,
) jobTransition {
	return jobTransition{
		jobs:     jobs,
		sessions: sessions,
		clock:    clock,
		logger:   logger,
		notifier: notifier,
		from:     from,
		target:   target,
		verb:     verb,
	}
}
