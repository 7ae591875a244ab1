package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("id-%02d", s.n)
}

func sampleDraft() *PlanDraft {
	return &PlanDraft{
		Template: "sprint",
		Phases: []PhaseDraft{{
			Title: "Build",
			Milestones: []MilestoneDraft{{
				Title: "First draft",
				Clusters: []ClusterDraft{
					{Title: "Setup", Jobs: []JobDraft{
						{Title: "Install tools", Type: JobTypeQuickWin, Minutes: 10},
						{Title: "Write outline", Type: JobTypeDeepWork, DueInDays: 3},
					}},
					{Title: "Habit", Jobs: []JobDraft{
						{Title: "Daily check-in", Type: JobTypeAnchor, Minutes: 5},
					}},
				},
			}},
		}},
	}
}

func TestPlanDraft_Validate(t *testing.T) {
	require.NoError(t, sampleDraft().Validate())

	tests := []struct {
		name   string
		mutate func(d *PlanDraft)
	}{
		{"no phases", func(d *PlanDraft) { d.Phases = nil }},
		{"blank phase title", func(d *PlanDraft) { d.Phases[0].Title = " " }},
		{"blank milestone title", func(d *PlanDraft) { d.Phases[0].Milestones[0].Title = "" }},
		{"blank cluster title", func(d *PlanDraft) { d.Phases[0].Milestones[0].Clusters[0].Title = "" }},
		{"blank job title", func(d *PlanDraft) { d.Phases[0].Milestones[0].Clusters[0].Jobs[0].Title = "" }},
		{"bad job type", func(d *PlanDraft) { d.Phases[0].Milestones[0].Clusters[0].Jobs[0].Type = "NAP" }},
		{"negative minutes", func(d *PlanDraft) { d.Phases[0].Milestones[0].Clusters[0].Jobs[0].Minutes = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sampleDraft()
			tt.mutate(d)
			assert.ErrorIs(t, d.Validate(), ErrInvalidPlan)
		})
	}
}

func TestPlanDraft_JobCount(t *testing.T) {
	assert.Equal(t, 3, sampleDraft().JobCount())
	assert.Equal(t, 0, (&PlanDraft{}).JobCount())
}

func TestPlanDraft_Materialize(t *testing.T) {
	goal := &Goal{ID: "goal-1"}

	plan := sampleDraft().Materialize(goal, &seqIDs{}, baseTime)

	require.Len(t, plan.Phases, 1)
	require.Len(t, plan.Milestones, 1)
	require.Len(t, plan.Clusters, 2)
	require.Len(t, plan.Jobs, 3)
	assert.Equal(t, "goal-1", plan.GoalID)
	assert.False(t, plan.IsEmpty())

	phase := plan.Phases[0]
	assert.Equal(t, "id-01", phase.ID)
	assert.Equal(t, 1, phase.Position)

	ms := plan.MilestonesOf(phase.ID)
	require.Len(t, ms, 1)
	clusters := plan.ClustersOf(ms[0].ID)
	require.Len(t, clusters, 2)
	setupJobs := plan.JobsOf(clusters[0].ID)
	require.Len(t, setupJobs, 2)

	install, outline := setupJobs[0], setupJobs[1]
	assert.Equal(t, JobStatusPending, install.Status)
	assert.Equal(t, 10, install.EstimatedMinutes)
	assert.Equal(t, DefaultJobMinutes, outline.EstimatedMinutes)
	assert.Equal(t, "goal-1", outline.GoalID)
	require.NotNil(t, outline.Deadline)
	assert.Equal(t, baseTime.AddDate(0, 0, 3), *outline.Deadline)
	assert.Nil(t, install.Deadline)

	// creation order follows draft order
	assert.True(t, clusters[0].Created.Before(install.Created))
	assert.True(t, install.Created.Before(outline.Created))
	assert.True(t, outline.Created.Before(clusters[1].Created))
	assert.Equal(t, baseTime.Add(4*time.Millisecond), plan.Jobs[2].Created)
}

func TestPlan_IsEmpty(t *testing.T) {
	var nilPlan *Plan
	assert.True(t, nilPlan.IsEmpty())
	assert.True(t, (&Plan{}).IsEmpty())
}
