package domain

import (
	"context"
	"time"
)

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize() error

	// IsInitialized reports whether the store exists.
	IsInitialized() bool
}

// GoalRepository manages goal persistence.
type GoalRepository interface {
	// GetGoal retrieves a goal by ID. Returns nil if not found.
	GetGoal(id string) (*Goal, error)

	// ListGoals retrieves all goals ordered by creation time.
	ListGoals() ([]*Goal, error)

	// SaveGoal creates or updates a goal.
	SaveGoal(goal *Goal) error

	// DeleteGoal removes a goal and its plan.
	DeleteGoal(id string) error
}

// PlanRepository manages the phase/milestone/cluster/job hierarchy of a goal.
type PlanRepository interface {
	// GetPlan retrieves the plan of a goal. Returns nil if the goal has none.
	GetPlan(goalID string) (*Plan, error)

	// SavePlan replaces the whole plan of plan.GoalID, including its jobs
	// and their work sessions.
	SavePlan(plan *Plan) error
}

// JobRepository manages jobs and their clusters.
type JobRepository interface {
	// GetJob retrieves a job by ID. Returns nil if not found.
	GetJob(id string) (*Job, error)

	// ListJobs retrieves jobs matching the filter, ordered by creation time.
	ListJobs(filter JobFilter) ([]*Job, error)

	// SaveJob updates a job. Status changes are recorded as job events.
	SaveJob(job *Job) error

	// ListClusters retrieves job clusters matching the filter.
	ListClusters(filter ClusterFilter) ([]*JobCluster, error)
}

// JobHistoryRepository reads the status history recorded by SaveJob and
// SavePlan.
type JobHistoryRepository interface {
	// ListJobEvents returns the events of a job, oldest first.
	ListJobEvents(jobID string) ([]JobEvent, error)
}

// SessionRepository manages the work sessions of jobs.
type SessionRepository interface {
	// GetSessions retrieves the ordered sessions of a job (empty if none).
	GetSessions(jobID string) ([]WorkSession, error)

	// SaveSessions replaces the sessions of a job.
	SaveSessions(jobID string, sessions []WorkSession) error

	// CountSessions returns the number of sessions across all jobs.
	CountSessions() (int, error)
}

// SettingsRepository stores user preferences as key/value pairs.
type SettingsRepository interface {
	// GetSetting returns the value and whether it was set.
	GetSetting(key string) (string, bool, error)

	// SetSetting creates or overwrites a value.
	SetSetting(key, value string) error
}

// Setting keys.
const (
	SettingEnergyState    = "energy_state"
	SettingTrialStartedAt = "trial_started_at"
)

// Store bundles every repository a storage backend provides.
type Store interface {
	StoreInitializer
	GoalRepository
	PlanRepository
	JobRepository
	JobHistoryRepository
	SessionRepository
	SettingsRepository

	// Close releases the backend's resources.
	Close() error
}

// PlanGenerator produces a plan draft for a goal.
type PlanGenerator interface {
	// Generate returns a draft for the goal. The draft is not yet validated.
	Generate(ctx context.Context, goal *Goal) (*PlanDraft, error)

	// Templates lists the template names the generator can use.
	Templates() []string
}

// NamedPlanGenerator is a PlanGenerator that can also use a template
// chosen by name instead of by complexity.
type NamedPlanGenerator interface {
	PlanGenerator

	// GenerateNamed returns a draft built from the named template.
	// Returns ErrTemplateNotFound for unknown names.
	GenerateNamed(ctx context.Context, goal *Goal, name string) (*PlanDraft, error)
}

// IDGenerator creates unique record identifiers.
type IDGenerator interface {
	NewID() string
}

// Logger writes operational logs, optionally scoped to a goal.
type Logger interface {
	Info(goalID, category, msg string)
	Debug(goalID, category, msg string)
	Warn(goalID, category, msg string)
	Error(goalID, category, msg string)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults + global + home + env).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigInfo describes one configuration file.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetHomeConfigInfo returns information about the home config file.
	GetHomeConfigInfo() ConfigInfo

	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// InitHomeConfig writes the default template to the home config file.
	InitHomeConfig() error

	// InitGlobalConfig writes the default template to the global config file.
	InitGlobalConfig() error
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
