package usecase

import (
	"context"

	"github.com/volition-os/volition/internal/domain"
)

// FailJob is the use case for giving up on a job.
type FailJob struct {
	transition jobTransition
}

// NewFailJob creates a new FailJob use case.
func NewFailJob(
	jobs domain.JobRepository,
	sessions domain.SessionRepository,
	clock domain.Clock,
	logger domain.Logger,
	notifier ChangeNotifier,
) *FailJob {
	return &FailJob{transition: newJobTransition(jobs, sessions, clock, logger, notifier, "", domain.JobStatusFailed, "fail")}
}

// Execute stops the running session, marks the job FAILED and counts the failure.
func (uc *FailJob) Execute(ctx context.Context, in JobTransitionInput) (*JobTransitionOutput, error) {
	return uc.transition.execute(ctx, in.JobRef)
}
