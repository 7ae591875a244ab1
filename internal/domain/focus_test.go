package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newJob(id string, typ JobType, status JobStatus, createdOffset time.Duration) *Job {
	return &Job{
		ID:      id,
		Title:   "job " + id,
		Type:    typ,
		Status:  status,
		Created: baseTime.Add(createdOffset),
	}
}

func ids(jobs []*Job) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.ID)
	}
	return out
}

func mixedJobs() []*Job {
	return []*Job{
		newJob("p-quick", JobTypeQuickWin, JobStatusPending, 1*time.Minute),
		newJob("p-deep", JobTypeDeepWork, JobStatusPending, 2*time.Minute),
		newJob("p-anchor", JobTypeAnchor, JobStatusPending, 3*time.Minute),
		newJob("a-deep", JobTypeDeepWork, JobStatusActive, 4*time.Minute),
		newJob("a-quick", JobTypeQuickWin, JobStatusActive, 5*time.Minute),
		newJob("c-quick", JobTypeQuickWin, JobStatusCompleted, 6*time.Minute),
		newJob("f-anchor", JobTypeAnchor, JobStatusFailed, 7*time.Minute),
	}
}

func TestSelectJobs_ExampleMed(t *testing.T) {
	jobs := []*Job{
		newJob("j1", JobTypeDeepWork, JobStatusActive, 0),
		newJob("j2", JobTypeQuickWin, JobStatusPending, time.Minute),
		newJob("j3", JobTypeDeepWork, JobStatusPending, 2*time.Minute),
	}

	sel := SelectJobs(jobs, EnergyMed, nil)

	assert.Equal(t, []string{"j1", "j2"}, ids(sel.Jobs))
	assert.False(t, sel.IsEmpty)
	assert.Empty(t, sel.Message)
	assert.Equal(t, EnergyMed, sel.Energy)
}

func TestSelectJobs_EnergyFiltering(t *testing.T) {
	tests := []struct {
		name  string
		state EnergyState
		want  []string
	}{
		{"high admits all pending", EnergyHigh, []string{"a-deep", "a-quick", "p-quick", "p-deep", "p-anchor"}},
		{"med drops deep work", EnergyMed, []string{"a-deep", "a-quick", "p-quick", "p-anchor"}},
		{"low keeps quick wins", EnergyLow, []string{"a-deep", "a-quick", "p-quick"}},
		{"unknown fails open", EnergyState("SLEEPY"), []string{"a-deep", "a-quick", "p-quick", "p-deep", "p-anchor"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := SelectJobs(mixedJobs(), tt.state, nil)
			assert.Equal(t, tt.want, ids(sel.Jobs))
		})
	}
}

func TestSelectJobs_ActiveAlwaysIncluded(t *testing.T) {
	jobs := []*Job{
		newJob("a1", JobTypeDeepWork, JobStatusActive, 0),
		newJob("a2", JobTypeAnchor, JobStatusActive, time.Minute),
		newJob("a3", JobTypeQuickWin, JobStatusActive, 2*time.Minute),
	}

	for _, state := range append(AllEnergyStates(), EnergyState("")) {
		sel := SelectJobs(jobs, state, nil)
		assert.Equal(t, []string{"a1", "a2", "a3"}, ids(sel.Jobs), "state %q", state)
	}
}

func TestSelectJobs_PendingSubsets(t *testing.T) {
	jobs := mixedJobs()

	low := SelectJobs(jobs, EnergyLow, nil)
	for _, j := range low.Jobs {
		if j.Status == JobStatusPending {
			assert.Equal(t, JobTypeQuickWin, j.Type)
		}
	}

	med := SelectJobs(jobs, EnergyMed, nil)
	for _, j := range med.Jobs {
		if j.Status == JobStatusPending {
			assert.NotEqual(t, JobTypeDeepWork, j.Type)
		}
	}
}

func TestSelectJobs_EmptyLowHasAdvice(t *testing.T) {
	sel := SelectJobs(nil, EnergyLow, nil)

	assert.True(t, sel.IsEmpty)
	assert.Empty(t, sel.Jobs)
	assert.Equal(t, LowEnergyAdvice, sel.Message)
}

func TestSelectJobs_EmptyOtherStatesHaveNoAdvice(t *testing.T) {
	jobs := []*Job{newJob("d", JobTypeDeepWork, JobStatusPending, 0)}

	sel := SelectJobs(jobs, EnergyMed, nil)

	assert.True(t, sel.IsEmpty)
	assert.Empty(t, sel.Message)
}

func TestSelectJobs_ClusterOrdering(t *testing.T) {
	clusters := []*JobCluster{
		{ID: "late", Created: baseTime.Add(time.Hour)},
		{ID: "early", Created: baseTime},
	}
	// j-late was created first but lives in the later cluster
	jobs := []*Job{
		{ID: "j-late", ClusterID: "late", Type: JobTypeQuickWin, Status: JobStatusPending, Created: baseTime},
		{ID: "j-early", ClusterID: "early", Type: JobTypeQuickWin, Status: JobStatusPending, Created: baseTime.Add(time.Minute)},
		{ID: "j-orphan", ClusterID: "missing", Type: JobTypeQuickWin, Status: JobStatusPending, Created: baseTime.Add(-time.Hour)},
	}

	sel := SelectJobs(jobs, EnergyHigh, clusters)

	assert.Equal(t, []string{"j-early", "j-late", "j-orphan"}, ids(sel.Jobs))
}

func TestSelectJobs_WithoutClustersOrdersByCreation(t *testing.T) {
	jobs := []*Job{
		{ID: "b", ClusterID: "c2", Type: JobTypeAnchor, Status: JobStatusPending, Created: baseTime.Add(time.Minute)},
		{ID: "a", ClusterID: "c1", Type: JobTypeAnchor, Status: JobStatusPending, Created: baseTime.Add(2 * time.Minute)},
	}

	sel := SelectJobs(jobs, EnergyMed, nil)

	assert.Equal(t, []string{"b", "a"}, ids(sel.Jobs))
}

func TestSelectJobs_Deterministic(t *testing.T) {
	jobs := []*Job{
		{ID: "z", Type: JobTypeQuickWin, Status: JobStatusPending, Created: baseTime},
		{ID: "y", Type: JobTypeQuickWin, Status: JobStatusPending, Created: baseTime},
		{ID: "x", Type: JobTypeQuickWin, Status: JobStatusPending, Created: baseTime},
	}
	reversed := []*Job{jobs[2], jobs[1], jobs[0]}

	first := SelectJobs(jobs, EnergyLow, nil)
	second := SelectJobs(reversed, EnergyLow, nil)

	assert.Equal(t, []string{"x", "y", "z"}, ids(first.Jobs))
	assert.Equal(t, ids(first.Jobs), ids(second.Jobs))
}

func TestSelectJobs_DoesNotMutateInput(t *testing.T) {
	jobs := mixedJobs()
	before := ids(jobs)

	_ = SelectJobs(jobs, EnergyHigh, nil)

	assert.Equal(t, before, ids(jobs))
}

func TestSelectJobs_SkipsNilEntries(t *testing.T) {
	jobs := []*Job{nil, newJob("a", JobTypeQuickWin, JobStatusPending, 0), nil}
	clusters := []*JobCluster{nil}

	sel := SelectJobs(jobs, EnergyLow, clusters)

	require.Len(t, sel.Jobs, 1)
	assert.Equal(t, "a", sel.Jobs[0].ID)
}

func TestSummarizeSelection(t *testing.T) {
	jobs := mixedJobs()
	for i, j := range jobs {
		j.EstimatedMinutes = (i + 1) * 10
	}

	sum := SummarizeSelection(SelectJobs(jobs, EnergyLow, nil))

	assert.Equal(t, 2, sum.Active)
	assert.Equal(t, 1, sum.Pending)
	assert.Equal(t, 2, sum.ByType[JobTypeQuickWin])
	assert.Equal(t, 1, sum.ByType[JobTypeDeepWork])
	// a-deep (40) + a-quick (50) + p-quick (10)
	assert.Equal(t, 100, sum.TotalMinutes)
}
