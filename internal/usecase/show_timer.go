package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase/shared"
)

// ShowTimerInput identifies the job.
type ShowTimerInput struct {
	JobRef string
}

// ShowTimerOutput contains the timer readings of a job.
// Fields are ordered to minimize memory padding.
type ShowTimerOutput struct {
	ReadAt         time.Time // Instant the readings were taken at
	Job            *domain.Job
	TotalSeconds   int64 // All sessions, open one counted up to now
	CurrentSeconds int64 // Open session only (0 when paused)
	Sessions       int
	Running        bool
}

// ShowTimer is the use case for reading a job's tracked time.
type ShowTimer struct {
	jobs     domain.JobRepository
	sessions domain.SessionRepository
	clock    domain.Clock
}

// NewShowTimer creates a new ShowTimer use case.
func NewShowTimer(jobs domain.JobRepository, sessions domain.SessionRepository, clock domain.Clock) *ShowTimer {
	return &ShowTimer{jobs: jobs, sessions: sessions, clock: clock}
}

// Execute samples the clock once and derives every reading from it.
func (uc *ShowTimer) Execute(_ context.Context, in ShowTimerInput) (*ShowTimerOutput, error) {
	job, err := shared.GetJob(uc.jobs, in.JobRef)
	if err != nil {
		return nil, err
	}
	sessions, err := uc.sessions.GetSessions(job.ID)
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}

	now := uc.clock.Now()
	return &ShowTimerOutput{
		ReadAt:         now,
		Job:            job,
		TotalSeconds:   domain.TotalDuration(sessions, now),
		CurrentSeconds: domain.CurrentSessionDuration(sessions, now),
		Sessions:       len(sessions),
		Running:        domain.IsSessionActive(sessions),
	}, nil
}
