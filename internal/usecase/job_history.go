package usecase

import (
	"context"
	"fmt"

	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase/shared"
)

// JobHistoryInput identifies the job.
type JobHistoryInput struct {
	JobRef string
}

// JobHistoryOutput contains a job and its status changes, oldest first.
type JobHistoryOutput struct {
	Job    *domain.Job
	Events []domain.JobEvent
}

// JobHistory is the use case for reading a job's status history.
type JobHistory struct {
	jobs    domain.JobRepository
	history domain.JobHistoryRepository
}

// NewJobHistory creates a new JobHistory use case.
func NewJobHistory(jobs domain.JobRepository, history domain.JobHistoryRepository) *JobHistory {
	return &JobHistory{jobs: jobs, history: history}
}

// Execute resolves the job reference and loads its events.
func (uc *JobHistory) Execute(_ context.Context, in JobHistoryInput) (*JobHistoryOutput, error) {
	job, err := shared.GetJob(uc.jobs, in.JobRef)
	if err != nil {
		return nil, err
	}
	events, err := uc.history.ListJobEvents(job.ID)
	if err != nil {
		return nil, fmt.Errorf("list job events: %w", err)
	}
	return &JobHistoryOutput{Job: job, Events: events}, nil
}
