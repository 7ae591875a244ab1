package usecase

import (
	"context"

	"github.com/volition-os/volition/internal/domain"
)

// RetryJob is the use case for giving a failed job another chance.
type RetryJob struct {
	transition jobTransition
}

// NewRetryJob creates a new RetryJob use case.
func NewRetryJob(
	jobs domain.JobRepository,
	sessions domain.SessionRepository,
	clock domain.Clock,
	logger domain.Logger,
	notifier ChangeNotifier,
) *RetryJob {
	return &RetryJob{transition: newJobTransition(jobs, sessions, clock, logger, notifier, domain.JobStatusFailed, domain.JobStatusPending, "retry")}
}

// Execute returns a FAILED job to PENDING.
func (uc *RetryJob) Execute(ctx context.Context, in JobTransitionInput) (*JobTransitionOutput, error) {
	return uc.transition.execute(ctx, in.JobRef)
}
