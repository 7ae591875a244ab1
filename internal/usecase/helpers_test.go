package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/testutil"
)

var t0 = time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)

// fixture bundles the doubles most use case tests need.
type fixture struct {
	store  *testutil.MockStore
	clock  *testutil.MockClock
	ids    *testutil.MockIDGenerator
	config *testutil.MockConfigLoader
	logger *testutil.MockLogger
}

func newFixture() *fixture {
	return &fixture{
		store:  testutil.NewMockStore(),
		clock:  &testutil.MockClock{NowTime: t0},
		ids:    &testutil.MockIDGenerator{},
		config: testutil.NewMockConfigLoader(),
		logger: &testutil.MockLogger{},
	}
}

// addGoal stores a goal in the given status.
func (f *fixture) addGoal(id string, status domain.GoalStatus) *domain.Goal {
	g := &domain.Goal{
		ID:      id,
		Title:   "Goal " + id,
		Status:  status,
		Created: t0,
		Updated: t0,
	}
	if status != domain.GoalStatusDraft {
		g.Scope = domain.Scope{Outcome: "done"}
	}
	f.store.Goals[id] = g
	return g
}

// addJob stores a job belonging to goalID.
func (f *fixture) addJob(id, goalID string, typ domain.JobType, status domain.JobStatus) *domain.Job {
	j := &domain.Job{
		ID:               id,
		GoalID:           goalID,
		ClusterID:        "cluster-" + goalID,
		Title:            "Job " + id,
		Type:             typ,
		Status:           status,
		EstimatedMinutes: 25,
		Created:          t0.Add(time.Duration(len(f.store.Jobs)) * time.Minute),
	}
	f.store.AddJobs(j)
	return j
}

// countingNotifier records JobsChanged calls.
type countingNotifier struct {
	calls int
}

func (n *countingNotifier) JobsChanged(_ context.Context) {
	n.calls++
}

func openSession(start time.Time) []domain.WorkSession {
	return []domain.WorkSession{{Start: start}}
}

func requireJob(t *testing.T, store *testutil.MockStore, id string) *domain.Job {
	t.Helper()
	job, err := store.GetJob(id)
	require.NoError(t, err)
	require.NotNil(t, job)
	return job
}
