package usecase

import (
	"context"

	"github.com/volition-os/volition/internal/domain"
)

// DeferJob is the use case for putting an active job back into the queue.
type DeferJob struct {
	transition jobTransition
}

// NewDeferJob creates a new DeferJob use case.
func NewDeferJob(
	jobs domain.JobRepository,
	sessions domain.SessionRepository,
	clock domain.Clock,
	logger domain.Logger,
	notifier ChangeNotifier,
) *DeferJob {
	return &DeferJob{transition: newJobTransition(jobs, sessions, clock, logger, notifier, domain.JobStatusActive, domain.JobStatusPending, "defer")}
}

// Execute stops the running session and returns the job to PENDING.
func (uc *DeferJob) Execute(ctx context.Context, in JobTransitionInput) (*JobTransitionOutput, error) {
	return uc.transition.execute(ctx, in.JobRef)
}
