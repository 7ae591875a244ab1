// Package jsonstore provides a JSON file-based implementation of domain.Store.
package jsonstore

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/volition-os/volition/internal/domain"
)

// schemaVersion is bumped when the file layout changes.
const schemaVersion = 1

// storeData represents the JSON file structure.
// Fields are ordered to minimize memory padding.
type storeData struct {
	Goals    map[string]*domain.Goal         `json:"goals"`
	Plans    map[string]*planData            `json:"plans"`
	Clusters map[string]*domain.JobCluster   `json:"clusters"`
	Jobs     map[string]*domain.Job          `json:"jobs"`
	Sessions map[string][]domain.WorkSession `json:"sessions"`
	Events   map[string][]domain.JobEvent    `json:"events"`
	Settings map[string]string               `json:"settings"`
	Meta     meta                            `json:"meta"`
}

// meta contains store metadata.
type meta struct {
	Version int `json:"version"`
}

// planData holds the upper levels of a plan. Clusters and jobs live in
// their own maps so they can be updated without rewriting the plan.
type planData struct {
	Phases     []*domain.Phase     `json:"phases"`
	Milestones []*domain.Milestone `json:"milestones"`
}

// Store implements domain.Store using a JSON file.
type Store struct {
	clock    domain.Clock
	path     string
	lockPath string
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock that stamps job events.
func WithClock(clock domain.Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// New creates a new Store for the given file path.
// The file does not need to exist; Initialize creates it.
func New(path string, opts ...Option) *Store {
	s := &Store{
		clock:    domain.RealClock{},
		path:     path,
		lockPath: path + ".lock",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure Store implements domain.Store.
var _ domain.Store = (*Store)(nil)

// === Goals ===

// GetGoal retrieves a goal by ID.
func (s *Store) GetGoal(id string) (*domain.Goal, error) {
	var goal *domain.Goal
	err := s.withLock(func(data *storeData) error {
		goal = data.Goals[id]
		return nil
	})
	return goal, err
}

// ListGoals retrieves all goals ordered by creation time.
func (s *Store) ListGoals() ([]*domain.Goal, error) {
	var goals []*domain.Goal
	err := s.withLock(func(data *storeData) error {
		for _, g := range data.Goals {
			goals = append(goals, g)
		}
		return nil
	})

	slices.SortFunc(goals, func(a, b *domain.Goal) int {
		return byCreated(a.Created, b.Created, a.ID, b.ID)
	})

	return goals, err
}

// SaveGoal creates or updates a goal.
func (s *Store) SaveGoal(goal *domain.Goal) error {
	return s.withLockWrite(func(data *storeData) error {
		data.Goals[goal.ID] = goal
		return nil
	})
}

// DeleteGoal removes a goal together with its plan, jobs and sessions.
func (s *Store) DeleteGoal(id string) error {
	return s.withLockWrite(func(data *storeData) error {
		delete(data.Goals, id)
		dropPlan(data, id)
		return nil
	})
}

// === Plans ===

// GetPlan assembles the plan of a goal. Returns nil if the goal has none.
func (s *Store) GetPlan(goalID string) (*domain.Plan, error) {
	var plan *domain.Plan
	err := s.withLock(func(data *storeData) error {
		pd, ok := data.Plans[goalID]
		if !ok {
			return nil
		}
		plan = &domain.Plan{
			GoalID:     goalID,
			Phases:     pd.Phases,
			Milestones: pd.Milestones,
			Clusters:   clustersOf(data, goalID),
			Jobs:       jobsMatching(data, domain.JobFilter{GoalID: goalID}),
		}
		return nil
	})
	return plan, err
}

// SavePlan replaces the plan of plan.GoalID. Jobs and sessions of the old
// plan are removed.
func (s *Store) SavePlan(plan *domain.Plan) error {
	return s.withLockWrite(func(data *storeData) error {
		dropPlan(data, plan.GoalID)
		data.Plans[plan.GoalID] = &planData{
			Phases:     plan.Phases,
			Milestones: plan.Milestones,
		}
		for _, c := range plan.Clusters {
			data.Clusters[c.ID] = c
		}
		for _, j := range plan.Jobs {
			data.Jobs[j.ID] = j
			s.recordEvent(data, j.ID, "", j.Status)
		}
		return nil
	})
}

func dropPlan(data *storeData, goalID string) {
	delete(data.Plans, goalID)
	for id, c := range data.Clusters {
		if c.GoalID == goalID {
			delete(data.Clusters, id)
		}
	}
	for id, j := range data.Jobs {
		if j.GoalID == goalID {
			delete(data.Jobs, id)
			delete(data.Sessions, id)
			delete(data.Events, id)
		}
	}
}

// === Jobs ===

// GetJob retrieves a job by ID.
func (s *Store) GetJob(id string) (*domain.Job, error) {
	var job *domain.Job
	err := s.withLock(func(data *storeData) error {
		job = data.Jobs[id]
		return nil
	})
	return job, err
}

// ListJobs retrieves jobs matching the filter, ordered by creation time.
func (s *Store) ListJobs(filter domain.JobFilter) ([]*domain.Job, error) {
	var jobs []*domain.Job
	err := s.withLock(func(data *storeData) error {
		jobs = jobsMatching(data, filter)
		return nil
	})
	return jobs, err
}

// SaveJob creates or updates a job. A status change appends a job event.
func (s *Store) SaveJob(job *domain.Job) error {
	return s.withLockWrite(func(data *storeData) error {
		var previous domain.JobStatus
		if old, ok := data.Jobs[job.ID]; ok {
			previous = old.Status
		}
		data.Jobs[job.ID] = job
		if previous != job.Status {
			s.recordEvent(data, job.ID, previous, job.Status)
		}
		return nil
	})
}

// ListJobEvents returns the status history of a job, oldest first.
func (s *Store) ListJobEvents(jobID string) ([]domain.JobEvent, error) {
	var events []domain.JobEvent
	err := s.withLock(func(data *storeData) error {
		events = data.Events[jobID]
		return nil
	})
	return events, err
}

func (s *Store) recordEvent(data *storeData, jobID string, from, to domain.JobStatus) {
	data.Events[jobID] = append(data.Events[jobID], domain.JobEvent{
		At:    s.clock.Now().UTC(),
		ID:    uuid.NewString(),
		JobID: jobID,
		From:  from,
		To:    to,
	})
}

// ListClusters retrieves job clusters matching the filter.
func (s *Store) ListClusters(filter domain.ClusterFilter) ([]*domain.JobCluster, error) {
	var clusters []*domain.JobCluster
	err := s.withLock(func(data *storeData) error {
		clusters = clustersOf(data, filter.GoalID)
		return nil
	})
	return clusters, err
}

func jobsMatching(data *storeData, filter domain.JobFilter) []*domain.Job {
	var jobs []*domain.Job
	for _, j := range data.Jobs {
		if filter.Matches(j) {
			jobs = append(jobs, j)
		}
	}
	slices.SortFunc(jobs, func(a, b *domain.Job) int {
		return byCreated(a.Created, b.Created, a.ID, b.ID)
	})
	return jobs
}

// clustersOf returns the clusters of a goal, or all clusters when goalID is empty.
func clustersOf(data *storeData, goalID string) []*domain.JobCluster {
	var clusters []*domain.JobCluster
	for _, c := range data.Clusters {
		if goalID == "" || c.GoalID == goalID {
			clusters = append(clusters, c)
		}
	}
	slices.SortFunc(clusters, func(a, b *domain.JobCluster) int {
		return byCreated(a.Created, b.Created, a.ID, b.ID)
	})
	return clusters
}

// === Sessions ===

// GetSessions retrieves the sessions of a job.
func (s *Store) GetSessions(jobID string) ([]domain.WorkSession, error) {
	var sessions []domain.WorkSession
	err := s.withLock(func(data *storeData) error {
		if ss, ok := data.Sessions[jobID]; ok {
			sessions = ss
		} else {
			sessions = []domain.WorkSession{} // Return empty slice, not nil
		}
		return nil
	})
	return sessions, err
}

// SaveSessions replaces the sessions of a job.
func (s *Store) SaveSessions(jobID string, sessions []domain.WorkSession) error {
	return s.withLockWrite(func(data *storeData) error {
		if len(sessions) == 0 {
			delete(data.Sessions, jobID)
			return nil
		}
		data.Sessions[jobID] = sessions
		return nil
	})
}

// CountSessions returns the number of sessions across all jobs.
func (s *Store) CountSessions() (int, error) {
	var n int
	err := s.withLock(func(data *storeData) error {
		for _, ss := range data.Sessions {
			n += len(ss)
		}
		return nil
	})
	return n, err
}

// === Settings ===

// GetSetting returns a stored value.
func (s *Store) GetSetting(key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := s.withLock(func(data *storeData) error {
		value, ok = data.Settings[key]
		return nil
	})
	return value, ok, err
}

// SetSetting creates or overwrites a value.
func (s *Store) SetSetting(key, value string) error {
	return s.withLockWrite(func(data *storeData) error {
		data.Settings[key] = value
		return nil
	})
}

// === Lifecycle ===

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates an empty store file if it doesn't exist.
func (s *Store) Initialize() error {
	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil // Already exists
	}

	return s.write(newStoreData())
}

// Close is a no-op; every operation opens and closes the file itself.
func (s *Store) Close() error {
	return nil
}

func newStoreData() *storeData {
	return &storeData{
		Goals:    make(map[string]*domain.Goal),
		Plans:    make(map[string]*planData),
		Clusters: make(map[string]*domain.JobCluster),
		Jobs:     make(map[string]*domain.Job),
		Sessions: make(map[string][]domain.WorkSession),
		Events:   make(map[string][]domain.JobEvent),
		Settings: make(map[string]string),
		Meta:     meta{Version: schemaVersion},
	}
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	data := newStoreData()
	if err := json.Unmarshal(content, data); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}

	// Ensure maps are initialized
	if data.Goals == nil {
		data.Goals = make(map[string]*domain.Goal)
	}
	if data.Plans == nil {
		data.Plans = make(map[string]*planData)
	}
	if data.Clusters == nil {
		data.Clusters = make(map[string]*domain.JobCluster)
	}
	if data.Jobs == nil {
		data.Jobs = make(map[string]*domain.Job)
	}
	if data.Sessions == nil {
		data.Sessions = make(map[string][]domain.WorkSession)
	}
	if data.Events == nil {
		data.Events = make(map[string][]domain.JobEvent)
	}
	if data.Settings == nil {
		data.Settings = make(map[string]string)
	}

	return data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

func byCreated(a, b time.Time, aID, bID string) int {
	if c := a.Compare(b); c != 0 {
		return c
	}
	return cmp.Compare(aID, bID)
}
