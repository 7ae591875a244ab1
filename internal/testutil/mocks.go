// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/volition-os/volition/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the clock forward.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// MockIDGenerator returns predictable ids: <prefix>0001, <prefix>0002, ...
type MockIDGenerator struct {
	Prefix string
	n      int
}

// NewID returns the next id.
func (m *MockIDGenerator) NewID() string {
	m.n++
	prefix := m.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s%04d", prefix, m.n)
}

// MockStore is an in-memory domain.Store.
// Fields are ordered to minimize memory padding.
type MockStore struct {
	Clock       domain.Clock // Stamps job events; zero times when nil
	Goals       map[string]*domain.Goal
	Plans       map[string]*domain.Plan
	Jobs        map[string]*domain.Job
	Clusters    map[string]*domain.JobCluster
	Sessions    map[string][]domain.WorkSession
	Events      map[string][]domain.JobEvent
	Settings    map[string]string
	SaveErr     error
	GetErr      error
	InitErr     error
	saved       map[string]domain.JobStatus // Status at the last save
	mu          sync.Mutex
	Initialized bool
	Closed      bool
}

// NewMockStore creates a new MockStore with initialized maps.
func NewMockStore() *MockStore {
	return &MockStore{
		Goals:       make(map[string]*domain.Goal),
		Plans:       make(map[string]*domain.Plan),
		Jobs:        make(map[string]*domain.Job),
		Clusters:    make(map[string]*domain.JobCluster),
		Sessions:    make(map[string][]domain.WorkSession),
		Events:      make(map[string][]domain.JobEvent),
		Settings:    make(map[string]string),
		saved:       make(map[string]domain.JobStatus),
		Initialized: true,
	}
}

// Ensure MockStore implements domain.Store interface.
var _ domain.Store = (*MockStore)(nil)

// Initialize marks the store as initialized.
func (m *MockStore) Initialize() error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Initialized = true
	return nil
}

// IsInitialized returns the Initialized field.
func (m *MockStore) IsInitialized() bool {
	return m.Initialized
}

// Close records the call.
func (m *MockStore) Close() error {
	m.Closed = true
	return nil
}

// GetGoal retrieves a goal by ID.
func (m *MockStore) GetGoal(id string) (*domain.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Goals[id], nil
}

// ListGoals returns goals ordered by creation time.
func (m *MockStore) ListGoals() ([]*domain.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	goals := make([]*domain.Goal, 0, len(m.Goals))
	for _, g := range m.Goals {
		goals = append(goals, g)
	}
	slices.SortFunc(goals, func(a, b *domain.Goal) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return goals, nil
}

// SaveGoal saves a goal.
func (m *MockStore) SaveGoal(goal *domain.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Goals[goal.ID] = goal
	return nil
}

// DeleteGoal removes a goal and its plan.
func (m *MockStore) DeleteGoal(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Goals, id)
	m.dropPlan(id)
	return nil
}

// GetPlan returns the plan of a goal.
func (m *MockStore) GetPlan(goalID string) (*domain.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Plans[goalID], nil
}

// SavePlan replaces the plan of a goal and indexes its jobs and clusters.
func (m *MockStore) SavePlan(plan *domain.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.dropPlan(plan.GoalID)
	m.Plans[plan.GoalID] = plan
	for _, c := range plan.Clusters {
		m.Clusters[c.ID] = c
	}
	for _, j := range plan.Jobs {
		m.Jobs[j.ID] = j
		m.recordEvent(j.ID, "", j.Status)
	}
	return nil
}

func (m *MockStore) dropPlan(goalID string) {
	delete(m.Plans, goalID)
	for id, j := range m.Jobs {
		if j.GoalID == goalID {
			delete(m.Jobs, id)
			delete(m.Sessions, id)
			delete(m.Events, id)
			delete(m.saved, id)
		}
	}
	for id, c := range m.Clusters {
		if c.GoalID == goalID {
			delete(m.Clusters, id)
		}
	}
}

// AddJobs stores jobs directly, bypassing plans.
func (m *MockStore) AddJobs(jobs ...*domain.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range jobs {
		m.Jobs[j.ID] = j
		m.saved[j.ID] = j.Status
	}
}

// GetJob retrieves a job by ID.
func (m *MockStore) GetJob(id string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Jobs[id], nil
}

// ListJobs returns jobs matching the filter ordered by creation time.
func (m *MockStore) ListJobs(filter domain.JobFilter) ([]*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	var jobs []*domain.Job
	for _, j := range m.Jobs {
		if filter.Matches(j) {
			jobs = append(jobs, j)
		}
	}
	slices.SortFunc(jobs, func(a, b *domain.Job) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return jobs, nil
}

// SaveJob saves a job.
func (m *MockStore) SaveJob(job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Jobs[job.ID] = job
	if previous := m.saved[job.ID]; previous != job.Status {
		m.recordEvent(job.ID, previous, job.Status)
	}
	return nil
}

// ListJobEvents returns the recorded status changes of a job.
func (m *MockStore) ListJobEvents(jobID string) ([]domain.JobEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Events[jobID], nil
}

func (m *MockStore) recordEvent(jobID string, from, to domain.JobStatus) {
	var at time.Time
	if m.Clock != nil {
		at = m.Clock.Now()
	}
	m.saved[jobID] = to
	m.Events[jobID] = append(m.Events[jobID], domain.JobEvent{
		At:    at,
		ID:    fmt.Sprintf("%s-ev%d", jobID, len(m.Events[jobID])+1),
		JobID: jobID,
		From:  from,
		To:    to,
	})
}

// ListClusters returns clusters matching the filter.
func (m *MockStore) ListClusters(filter domain.ClusterFilter) ([]*domain.JobCluster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var clusters []*domain.JobCluster
	for _, c := range m.Clusters {
		if filter.GoalID == "" || c.GoalID == filter.GoalID {
			clusters = append(clusters, c)
		}
	}
	return clusters, nil
}

// GetSessions returns the sessions of a job.
func (m *MockStore) GetSessions(jobID string) ([]domain.WorkSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Sessions[jobID], nil
}

// SaveSessions replaces the sessions of a job.
func (m *MockStore) SaveSessions(jobID string, sessions []domain.WorkSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Sessions[jobID] = sessions
	return nil
}

// CountSessions returns the number of stored sessions.
func (m *MockStore) CountSessions() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.Sessions {
		n += len(s)
	}
	return n, nil
}

// GetSetting returns a stored value.
func (m *MockStore) GetSetting(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.Settings[key]
	return v, ok, nil
}

// SetSetting stores a value.
func (m *MockStore) SetSetting(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Settings[key] = value
	return nil
}

// MockPlanGenerator is a test double for domain.PlanGenerator.
type MockPlanGenerator struct {
	Draft       *domain.PlanDraft
	Err         error
	LastGoal    *domain.Goal
	Names       []string
	CalledTimes int
}

// Ensure MockPlanGenerator implements domain.PlanGenerator interface.
var _ domain.PlanGenerator = (*MockPlanGenerator)(nil)

// Generate returns the configured draft.
func (m *MockPlanGenerator) Generate(_ context.Context, goal *domain.Goal) (*domain.PlanDraft, error) {
	m.CalledTimes++
	m.LastGoal = goal
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Draft, nil
}

// Templates returns the configured names.
func (m *MockPlanGenerator) Templates() []string {
	return m.Names
}

// SimpleDraft returns a one-phase draft with one job of each type.
func SimpleDraft() *domain.PlanDraft {
	return &domain.PlanDraft{
		Template: "test",
		Phases: []domain.PhaseDraft{{
			Title: "Phase",
			Milestones: []domain.MilestoneDraft{{
				Title: "Milestone",
				Clusters: []domain.ClusterDraft{{
					Title: "Cluster",
					Jobs: []domain.JobDraft{
						{Title: "Quick", Type: domain.JobTypeQuickWin, Minutes: 10},
						{Title: "Deep", Type: domain.JobTypeDeepWork, Minutes: 90},
						{Title: "Anchor", Type: domain.JobTypeAnchor, Minutes: 20},
					},
				}},
			}},
		}},
	}
}

// MockLogger records log lines.
type MockLogger struct {
	Lines []string
	mu    sync.Mutex
}

func (m *MockLogger) record(level, goalID, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lines = append(m.Lines, fmt.Sprintf("%s %s %s %s", level, goalID, category, msg))
}

// Info records an info line.
func (m *MockLogger) Info(goalID, category, msg string) { m.record("INFO", goalID, category, msg) }

// Debug records a debug line.
func (m *MockLogger) Debug(goalID, category, msg string) { m.record("DEBUG", goalID, category, msg) }

// Warn records a warn line.
func (m *MockLogger) Warn(goalID, category, msg string) { m.record("WARN", goalID, category, msg) }

// Error records an error line.
func (m *MockLogger) Error(goalID, category, msg string) { m.record("ERROR", goalID, category, msg) }

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LoadErr      error
	GlobalErr    error
}

// NewMockConfigLoader creates a new MockConfigLoader with default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config: domain.NewDefaultConfig(),
	}
}

// Ensure MockConfigLoader implements domain.ConfigLoader interface.
var _ domain.ConfigLoader = (*MockConfigLoader)(nil)

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured config or error.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.GlobalErr != nil {
		return nil, m.GlobalErr
	}
	if m.GlobalConfig != nil {
		return m.GlobalConfig, nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitHomeErr      error
	InitGlobalErr    error
	HomeConfigInfo   domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitHomeCalled   bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		HomeConfigInfo: domain.ConfigInfo{
			Path: "/home/test/.local/share/volition/config.toml",
		},
		GlobalConfigInfo: domain.ConfigInfo{
			Path: "/home/test/.config/volition/config.toml",
		},
	}
}

// Ensure MockConfigManager implements domain.ConfigManager interface.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetHomeConfigInfo returns the configured home config info.
func (m *MockConfigManager) GetHomeConfigInfo() domain.ConfigInfo {
	return m.HomeConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitHomeConfig records the call and returns configured error.
func (m *MockConfigManager) InitHomeConfig() error {
	m.InitHomeCalled = true
	return m.InitHomeErr
}

// InitGlobalConfig records the call and returns configured error.
func (m *MockConfigManager) InitGlobalConfig() error {
	m.InitGlobalCalled = true
	return m.InitGlobalErr
}
