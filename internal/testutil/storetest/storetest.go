// Package storetest provides behaviour tests shared by every domain.Store backend.
package storetest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volition-os/volition/internal/domain"
)

// Base is truncated to microseconds so every backend round-trips it exactly.
var Base = time.Date(2026, 2, 10, 7, 15, 0, 0, time.UTC)

// Run exercises a store created by newStore. newStore must return an
// initialized, empty store.
func Run(t *testing.T, newStore func(t *testing.T) domain.Store) {
	t.Run("goals", func(t *testing.T) { testGoals(t, newStore(t)) })
	t.Run("plan replace", func(t *testing.T) { testPlanReplace(t, newStore(t)) })
	t.Run("job filters", func(t *testing.T) { testJobFilters(t, newStore(t)) })
	t.Run("sessions", func(t *testing.T) { testSessions(t, newStore(t)) })
	t.Run("settings", func(t *testing.T) { testSettings(t, newStore(t)) })
	t.Run("delete goal", func(t *testing.T) { testDeleteGoal(t, newStore(t)) })
	t.Run("job history", func(t *testing.T) { testJobHistory(t, newStore(t)) })
}

// Goal returns a goal with every field set.
func Goal(id string, created time.Time) *domain.Goal {
	deadline := created.Add(30 * 24 * time.Hour)
	return &domain.Goal{
		ID:          id,
		Title:       "Goal " + id,
		Description: "description of " + id,
		Status:      domain.GoalStatusScoped,
		Created:     created,
		Updated:     created,
		Deadline:    &deadline,
		Scope: domain.Scope{
			Outcome:      "shipped",
			InScope:      []string{"draft", "review"},
			OutOfScope:   []string{"marketing"},
			HorizonWeeks: 4,
		},
		Complexity: 2,
	}
}

// Plan returns a one-phase plan for goalID with the given jobs.
func Plan(goalID string, jobs ...*domain.Job) *domain.Plan {
	phaseID := goalID + "-ph"
	msID := goalID + "-ms"
	clusterID := goalID + "-cl"
	for _, j := range jobs {
		j.GoalID = goalID
		j.ClusterID = clusterID
	}
	return &domain.Plan{
		GoalID: goalID,
		Phases: []*domain.Phase{
			{ID: phaseID, GoalID: goalID, Title: "Phase", Position: 0, Created: Base},
		},
		Milestones: []*domain.Milestone{
			{ID: msID, PhaseID: phaseID, GoalID: goalID, Title: "Milestone", Position: 0, Created: Base},
		},
		Clusters: []*domain.JobCluster{
			{ID: clusterID, MilestoneID: msID, GoalID: goalID, Title: "Cluster", Created: Base},
		},
		Jobs: jobs,
	}
}

// Job returns a pending job created offset minutes after Base.
func Job(id string, typ domain.JobType, offset int) *domain.Job {
	return &domain.Job{
		ID:               id,
		Title:            "Job " + id,
		Type:             typ,
		Status:           domain.JobStatusPending,
		EstimatedMinutes: 30,
		Created:          Base.Add(time.Duration(offset) * time.Minute),
	}
}

func testGoals(t *testing.T, store domain.Store) {
	missing, err := store.GetGoal("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	second := Goal("goal-b", Base.Add(time.Hour))
	first := Goal("goal-a", Base)
	require.NoError(t, store.SaveGoal(second))
	require.NoError(t, store.SaveGoal(first))

	got, err := store.GetGoal("goal-a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.Title, got.Title)
	assert.Equal(t, first.Scope, got.Scope)
	assert.Equal(t, first.Status, got.Status)
	assert.Equal(t, first.Complexity, got.Complexity)
	assert.True(t, first.Created.Equal(got.Created))
	require.NotNil(t, got.Deadline)
	assert.True(t, first.Deadline.Equal(*got.Deadline))

	goals, err := store.ListGoals()
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, "goal-a", goals[0].ID)
	assert.Equal(t, "goal-b", goals[1].ID)

	first.Status = domain.GoalStatusPlanned
	first.Title = "Renamed"
	require.NoError(t, store.SaveGoal(first))
	got, err = store.GetGoal("goal-a")
	require.NoError(t, err)
	assert.Equal(t, domain.GoalStatusPlanned, got.Status)
	assert.Equal(t, "Renamed", got.Title)
}

func testPlanReplace(t *testing.T, store domain.Store) {
	require.NoError(t, store.SaveGoal(Goal("g1", Base)))

	plan, err := store.GetPlan("g1")
	require.NoError(t, err)
	assert.Nil(t, plan)

	old := Job("old-job", domain.JobTypeDeepWork, 1)
	require.NoError(t, store.SavePlan(Plan("g1", old)))
	require.NoError(t, store.SaveSessions("old-job", []domain.WorkSession{{Start: Base}}))

	fresh := []*domain.Job{
		Job("new-2", domain.JobTypeAnchor, 2),
		Job("new-1", domain.JobTypeQuickWin, 1),
	}
	require.NoError(t, store.SavePlan(Plan("g1", fresh...)))

	plan, err = store.GetPlan("g1")
	require.NoError(t, err)
	require.NotNil(t, plan)
	require.Len(t, plan.Phases, 1)
	require.Len(t, plan.Milestones, 1)
	require.Len(t, plan.Clusters, 1)
	require.Len(t, plan.Jobs, 2)
	assert.Equal(t, "new-1", plan.Jobs[0].ID)
	assert.Equal(t, "new-2", plan.Jobs[1].ID)
	assert.Equal(t, "g1-ph", plan.Milestones[0].PhaseID)
	assert.Equal(t, "g1-ms", plan.Clusters[0].MilestoneID)

	gone, err := store.GetJob("old-job")
	require.NoError(t, err)
	assert.Nil(t, gone)
	sessions, err := store.GetSessions("old-job")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func testJobFilters(t *testing.T, store domain.Store) {
	require.NoError(t, store.SaveGoal(Goal("g1", Base)))
	require.NoError(t, store.SaveGoal(Goal("g2", Base.Add(time.Minute))))

	active := Job("j-active", domain.JobTypeDeepWork, 3)
	require.NoError(t, store.SavePlan(Plan("g1", Job("j-pending", domain.JobTypeQuickWin, 1), active)))
	require.NoError(t, store.SavePlan(Plan("g2", Job("j-other", domain.JobTypeAnchor, 2))))

	active.Status = domain.JobStatusActive
	active.Started = Base.Add(time.Hour)
	require.NoError(t, store.SaveJob(active))

	all, err := store.ListJobs(domain.JobFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"j-pending", "j-other", "j-active"}, jobIDs(all))

	byGoal, err := store.ListJobs(domain.JobFilter{GoalID: "g1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"j-pending", "j-active"}, jobIDs(byGoal))

	byStatus, err := store.ListJobs(domain.JobFilter{Statuses: []domain.JobStatus{domain.JobStatusActive}})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "j-active", byStatus[0].ID)
	assert.True(t, byStatus[0].Started.Equal(Base.Add(time.Hour)))

	byCluster, err := store.ListJobs(domain.JobFilter{ClusterID: "g2-cl"})
	require.NoError(t, err)
	assert.Equal(t, []string{"j-other"}, jobIDs(byCluster))

	clusters, err := store.ListClusters(domain.ClusterFilter{GoalID: "g2"})
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, "g2-cl", clusters[0].ID)

	allClusters, err := store.ListClusters(domain.ClusterFilter{})
	require.NoError(t, err)
	assert.Len(t, allClusters, 2)

	job, err := store.GetJob("j-active")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, domain.JobStatusActive, job.Status)
	assert.Equal(t, domain.JobTypeDeepWork, job.Type)
	assert.Equal(t, 30, job.EstimatedMinutes)
}

func testSessions(t *testing.T, store domain.Store) {
	require.NoError(t, store.SaveGoal(Goal("g1", Base)))
	require.NoError(t, store.SavePlan(Plan("g1", Job("j1", domain.JobTypeDeepWork, 0), Job("j2", domain.JobTypeQuickWin, 1))))

	empty, err := store.GetSessions("j1")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	end := Base.Add(10 * time.Minute)
	sessions := []domain.WorkSession{
		{Start: Base, End: &end},
		{Start: Base.Add(20 * time.Minute)},
	}
	require.NoError(t, store.SaveSessions("j1", sessions))
	require.NoError(t, store.SaveSessions("j2", []domain.WorkSession{{Start: Base}}))

	got, err := store.GetSessions("j1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Start.Equal(Base))
	require.NotNil(t, got[0].End)
	assert.True(t, got[0].End.Equal(end))
	assert.True(t, got[1].IsOpen())
	assert.Equal(t, int64(600+300), domain.TotalDuration(got, Base.Add(25*time.Minute)))

	count, err := store.CountSessions()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Replacing shrinks the list
	require.NoError(t, store.SaveSessions("j1", got[:1]))
	got, err = store.GetSessions("j1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func testSettings(t *testing.T, store domain.Store) {
	_, ok, err := store.GetSetting(domain.SettingEnergyState)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetSetting(domain.SettingEnergyState, "LOW"))
	require.NoError(t, store.SetSetting(domain.SettingEnergyState, "HIGH"))

	value, ok, err := store.GetSetting(domain.SettingEnergyState)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "HIGH", value)
}

func testDeleteGoal(t *testing.T, store domain.Store) {
	require.NoError(t, store.SaveGoal(Goal("g1", Base)))
	require.NoError(t, store.SavePlan(Plan("g1", Job("j1", domain.JobTypeDeepWork, 0))))
	require.NoError(t, store.SaveSessions("j1", []domain.WorkSession{{Start: Base}}))

	require.NoError(t, store.DeleteGoal("g1"))

	goal, err := store.GetGoal("g1")
	require.NoError(t, err)
	assert.Nil(t, goal)
	plan, err := store.GetPlan("g1")
	require.NoError(t, err)
	assert.Nil(t, plan)
	jobs, err := store.ListJobs(domain.JobFilter{})
	require.NoError(t, err)
	assert.Empty(t, jobs)
	count, err := store.CountSessions()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func testJobHistory(t *testing.T, store domain.Store) {
	require.NoError(t, store.SaveGoal(Goal("g1", Base)))
	job := Job("j1", domain.JobTypeDeepWork, 0)
	require.NoError(t, store.SavePlan(Plan("g1", job)))

	require.NoError(t, job.TransitionTo(domain.JobStatusActive, Base.Add(time.Minute)))
	require.NoError(t, store.SaveJob(job))
	job.Title = "renamed" // no status change, no event
	require.NoError(t, store.SaveJob(job))
	require.NoError(t, job.TransitionTo(domain.JobStatusCompleted, Base.Add(2*time.Minute)))
	require.NoError(t, store.SaveJob(job))

	events, err := store.ListJobEvents("j1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	transitions := make([]string, len(events))
	for i, e := range events {
		transitions[i] = string(e.From) + ">" + string(e.To)
		assert.Equal(t, "j1", e.JobID)
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.At.IsZero())
	}
	assert.ElementsMatch(t, []string{">PENDING", "PENDING>ACTIVE", "ACTIVE>COMPLETED"}, transitions)

	none, err := store.ListJobEvents("missing")
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, store.DeleteGoal("g1"))
	events, err = store.ListJobEvents("j1")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func jobIDs(jobs []*domain.Job) []string {
	ids := make([]string, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	return ids
}
