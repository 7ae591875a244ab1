package usecase

import (
	"context"

	"github.com/volition-os/volition/internal/domain"
)

// CompleteJob is the use case for finishing an active job.
type CompleteJob struct {
	transition jobTransition
}

// NewCompleteJob creates a new CompleteJob use case.
func NewCompleteJob(
	jobs domain.JobRepository,
	sessions domain.SessionRepository,
	clock domain.Clock,
	logger domain.Logger,
	notifier ChangeNotifier,
) *CompleteJob {
	return &CompleteJob{transition: newJobTransition(jobs, sessions, clock, logger, notifier, "", domain.JobStatusCompleted, "complete")}
}

// Execute stops the running session and marks the job COMPLETED.
func (uc *CompleteJob) Execute(ctx context.Context, in JobTransitionInput) (*JobTransitionOutput, error) {
	return uc.transition.execute(ctx, in.JobRef)
}
