// Package domain contains core business entities and interfaces.
package domain

import "time"

// JobType reflects the energy and focus a job demands.
type JobType string

const (
	JobTypeQuickWin JobType = "QUICK_WIN" // Short, low-friction job
	JobTypeDeepWork JobType = "DEEP_WORK" // Long, focus-heavy job
	JobTypeAnchor   JobType = "ANCHOR"    // Routine job that keeps the plan moving
)

// AllJobTypes returns all valid job types.
func AllJobTypes() []JobType {
	return []JobType{JobTypeQuickWin, JobTypeDeepWork, JobTypeAnchor}
}

// IsValid returns true if the job type is a known value.
func (t JobType) IsValid() bool {
	switch t {
	case JobTypeQuickWin, JobTypeDeepWork, JobTypeAnchor:
		return true
	default:
		return false
	}
}

// Display returns a human-readable representation of the job type.
func (t JobType) Display() string {
	switch t {
	case JobTypeQuickWin:
		return "Quick Win"
	case JobTypeDeepWork:
		return "Deep Work"
	case JobTypeAnchor:
		return "Anchor"
	default:
		return string(t)
	}
}

// JobStatus represents the lifecycle state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"   // Planned, not started
	JobStatusActive    JobStatus = "ACTIVE"    // User is committed to it
	JobStatusCompleted JobStatus = "COMPLETED" // Done
	JobStatusFailed    JobStatus = "FAILED"    // Given up on (may be retried)
)

// AllJobStatuses returns all valid job statuses.
func AllJobStatuses() []JobStatus {
	return []JobStatus{JobStatusPending, JobStatusActive, JobStatusCompleted, JobStatusFailed}
}

// jobTransitions defines the allowed job status transitions.
// Flow: PENDING → ACTIVE → COMPLETED
//
//	  ↑  ↓      ↓
//	  └─ FAILED ←┘
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusPending:   {JobStatusActive, JobStatusFailed},
	JobStatusActive:    {JobStatusCompleted, JobStatusFailed, JobStatusPending},
	JobStatusFailed:    {JobStatusPending},
	JobStatusCompleted: {},
}

// CanTransitionTo returns true if the status can transition to the target status.
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	for _, t := range jobTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsValid returns true if the status is a known value.
func (s JobStatus) IsValid() bool {
	_, ok := jobTransitions[s]
	return ok
}

// IsTerminal returns true if no further transitions are possible.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted
}

// priority orders statuses for display: ACTIVE first, FAILED last.
func (s JobStatus) priority() int {
	switch s {
	case JobStatusActive:
		return 0
	case JobStatusPending:
		return 1
	case JobStatusCompleted:
		return 2
	case JobStatusFailed:
		return 3
	default:
		return 4
	}
}

// Display returns a human-readable representation of the status.
func (s JobStatus) Display() string {
	switch s {
	case JobStatusPending:
		return "Pending"
	case JobStatusActive:
		return "Active"
	case JobStatusCompleted:
		return "Completed"
	case JobStatusFailed:
		return "Failed"
	default:
		return string(s)
	}
}

// Job is a single actionable unit of work inside a job cluster.
// Fields are ordered to minimize memory padding.
type Job struct {
	Created          time.Time  `json:"created"`
	Started          time.Time  `json:"started,omitzero"`  // When the job last became ACTIVE
	Finished         time.Time  `json:"finished,omitzero"` // When the job reached COMPLETED or FAILED
	Deadline         *time.Time `json:"deadline,omitempty"`
	ID               string     `json:"id"`
	ClusterID        string     `json:"clusterID"`
	GoalID           string     `json:"goalID"`
	Title            string     `json:"title"`
	Type             JobType    `json:"type"`
	Status           JobStatus  `json:"status"`
	EstimatedMinutes int        `json:"estimatedMinutes"`
	FailureCount     int        `json:"failureCount"`
}

// JobEvent is one entry of a job's status history.
// Fields are ordered to minimize memory padding.
type JobEvent struct {
	At    time.Time `json:"at"`
	ID    string    `json:"id"`
	JobID string    `json:"jobID"`
	From  JobStatus `json:"from,omitempty"` // Empty for the event that created the job
	To    JobStatus `json:"to"`
}

// TransitionTo moves the job to the target status, stamping Started/Finished
// and counting failures. Returns ErrInvalidTransition if not allowed.
func (j *Job) TransitionTo(target JobStatus, now time.Time) error {
	if !j.Status.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	switch target {
	case JobStatusActive:
		j.Started = now
		j.Finished = time.Time{}
	case JobStatusCompleted:
		j.Finished = now
	case JobStatusFailed:
		j.Finished = now
		j.FailureCount++
	case JobStatusPending:
		j.Finished = time.Time{}
	}
	j.Status = target
	return nil
}

// IsOverdue returns true if the job has a deadline before now and is not completed.
func (j *Job) IsOverdue(now time.Time) bool {
	return j.Deadline != nil && j.Status != JobStatusCompleted && j.Deadline.Before(now)
}

// JobCluster groups related jobs under one milestone.
type JobCluster struct {
	Created     time.Time `json:"created"`
	ID          string    `json:"id"`
	MilestoneID string    `json:"milestoneID"`
	GoalID      string    `json:"goalID"`
	Title       string    `json:"title"`
}

// JobFilter specifies criteria for listing jobs.
// Empty fields match everything.
type JobFilter struct {
	GoalID    string
	ClusterID string
	Statuses  []JobStatus
}

// Matches reports whether the job satisfies the filter.
func (f JobFilter) Matches(j *Job) bool {
	if f.GoalID != "" && j.GoalID != f.GoalID {
		return false
	}
	if f.ClusterID != "" && j.ClusterID != f.ClusterID {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if j.Status == s {
			return true
		}
	}
	return false
}

// ClusterFilter specifies criteria for listing job clusters.
type ClusterFilter struct {
	GoalID string
}
