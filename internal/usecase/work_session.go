package usecase

import (
	"context"
	"fmt"

	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase/shared"
)

// WorkSessionInput identifies the job whose timer is controlled.
type WorkSessionInput struct {
	JobRef string // Job ID or prefix
}

// WorkSessionOutput contains the job's sessions after the change.
type WorkSessionOutput struct {
	Job          *domain.Job
	Sessions     []domain.WorkSession
	TotalSeconds int64
}

// StartSession is the use case for resuming the timer on an active job.
type StartSession struct {
	jobs     domain.JobRepository
	sessions domain.SessionRepository
	clock    domain.Clock
	logger   domain.Logger
}

// NewStartSession creates a new StartSession use case.
func NewStartSession(jobs domain.JobRepository, sessions domain.SessionRepository, clock domain.Clock, logger domain.Logger) *StartSession {
	return &StartSession{jobs: jobs, sessions: sessions, clock: clock, logger: logger}
}

// Execute opens a work session. The job must be ACTIVE and not already timed.
func (uc *StartSession) Execute(_ context.Context, in WorkSessionInput) (*WorkSessionOutput, error) {
	job, sessions, err := loadActiveJob(uc.jobs, uc.sessions, in.JobRef)
	if err != nil {
		return nil, err
	}
	if domain.IsSessionActive(sessions) {
		return nil, fmt.Errorf("job %s: %w", domain.ShortID(job.ID), domain.ErrSessionRunning)
	}

	now := uc.clock.Now()
	sessions = domain.StartSession(sessions, now)
	if err := uc.sessions.SaveSessions(job.ID, sessions); err != nil {
		return nil, fmt.Errorf("save sessions: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Debug(job.GoalID, "session", fmt.Sprintf("session started on %q", job.Title))
	}

	return &WorkSessionOutput{
		Job:          job,
		Sessions:     sessions,
		TotalSeconds: domain.TotalDuration(sessions, now),
	}, nil
}

// StopSession is the use case for pausing the timer on an active job.
type StopSession struct {
	jobs     domain.JobRepository
	sessions domain.SessionRepository
	clock    domain.Clock
	logger   domain.Logger
}

// NewStopSession creates a new StopSession use case.
func NewStopSession(jobs domain.JobRepository, sessions domain.SessionRepository, clock domain.Clock, logger domain.Logger) *StopSession {
	return &StopSession{jobs: jobs, sessions: sessions, clock: clock, logger: logger}
}

// Execute closes the running work session.
func (uc *StopSession) Execute(_ context.Context, in WorkSessionInput) (*WorkSessionOutput, error) {
	job, sessions, err := loadActiveJob(uc.jobs, uc.sessions, in.JobRef)
	if err != nil {
		return nil, err
	}
	if !domain.IsSessionActive(sessions) {
		return nil, fmt.Errorf("job %s: %w", domain.ShortID(job.ID), domain.ErrNoSession)
	}

	now := uc.clock.Now()
	sessions = domain.EndCurrentSession(sessions, now)
	if err := uc.sessions.SaveSessions(job.ID, sessions); err != nil {
		return nil, fmt.Errorf("save sessions: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Debug(job.GoalID, "session", fmt.Sprintf("session stopped on %q", job.Title))
	}

	return &WorkSessionOutput{
		Job:          job,
		Sessions:     sessions,
		TotalSeconds: domain.TotalDuration(sessions, now),
	}, nil
}

func loadActiveJob(jobs domain.JobRepository, sessions domain.SessionRepository, ref string) (*domain.Job, []domain.WorkSession, error) {
	job, err := shared.GetJob(jobs, ref)
	if err != nil {
		return nil, nil, err
	}
	if job.Status != domain.JobStatusActive {
		return nil, nil, fmt.Errorf("job %s is %s: %w", domain.ShortID(job.ID), job.Status, domain.ErrJobNotActive)
	}
	ss, err := sessions.GetSessions(job.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("get sessions: %w", err)
	}
	return job, ss, nil
}
