package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase"
)

func jobIDs(sel domain.JobSelection) []string {
	out := make([]string, 0, len(sel.Jobs))
	for _, j := range sel.Jobs {
		out = append(out, j.ID)
	}
	return out
}

func TestFocusJobs_UsesStoredEnergy(t *testing.T) {
	// Setup
	f := newFixture()
	f.addGoal("goal-a", domain.GoalStatusPlanned)
	f.addJob("active-deep", "goal-a", domain.JobTypeDeepWork, domain.JobStatusActive)
	f.addJob("pending-quick", "goal-a", domain.JobTypeQuickWin, domain.JobStatusPending)
	f.addJob("pending-deep", "goal-a", domain.JobTypeDeepWork, domain.JobStatusPending)
	f.addJob("done", "goal-a", domain.JobTypeQuickWin, domain.JobStatusCompleted)
	energy := usecase.NewEnergySettings(f.store, domain.EnergyMed, nil)

	uc := usecase.NewFocusJobs(f.store, f.store, energy)

	// Execute
	out, err := uc.Execute(context.Background(), usecase.FocusJobsInput{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"active-deep", "pending-quick"}, jobIDs(out.Selection))
	assert.Equal(t, domain.EnergyMed, out.Selection.Energy)
	assert.Equal(t, 1, out.Summary.Active)
	assert.Equal(t, 50, out.Summary.TotalMinutes)
	assert.Nil(t, out.Goal)
}

func TestFocusJobs_EnergyOverride(t *testing.T) {
	f := newFixture()
	f.addGoal("goal-a", domain.GoalStatusPlanned)
	f.addJob("pending-deep", "goal-a", domain.JobTypeDeepWork, domain.JobStatusPending)
	energy := usecase.NewEnergySettings(f.store, domain.EnergyLow, nil)

	uc := usecase.NewFocusJobs(f.store, f.store, energy)
	out, err := uc.Execute(context.Background(), usecase.FocusJobsInput{Energy: "high"})

	require.NoError(t, err)
	assert.Equal(t, []string{"pending-deep"}, jobIDs(out.Selection))
	assert.Equal(t, domain.EnergyHigh, out.Selection.Energy)
}

func TestFocusJobs_InvalidOverride(t *testing.T) {
	f := newFixture()
	energy := usecase.NewEnergySettings(f.store, domain.EnergyMed, nil)

	uc := usecase.NewFocusJobs(f.store, f.store, energy)
	_, err := uc.Execute(context.Background(), usecase.FocusJobsInput{Energy: "exhausted"})

	assert.ErrorIs(t, err, domain.ErrInvalidEnergy)
}

func TestFocusJobs_GoalScope(t *testing.T) {
	f := newFixture()
	f.addGoal("goal-aaaa", domain.GoalStatusPlanned)
	f.addGoal("goal-bbbb", domain.GoalStatusPlanned)
	f.addJob("a1", "goal-aaaa", domain.JobTypeQuickWin, domain.JobStatusPending)
	f.addJob("b1", "goal-bbbb", domain.JobTypeQuickWin, domain.JobStatusPending)
	energy := usecase.NewEnergySettings(f.store, domain.EnergyMed, nil)

	uc := usecase.NewFocusJobs(f.store, f.store, energy)
	out, err := uc.Execute(context.Background(), usecase.FocusJobsInput{GoalRef: "goal-b"})

	require.NoError(t, err)
	require.NotNil(t, out.Goal)
	assert.Equal(t, "goal-bbbb", out.Goal.ID)
	assert.Equal(t, []string{"b1"}, jobIDs(out.Selection))
}

func TestFocusJobs_HidesClosedGoals(t *testing.T) {
	f := newFixture()
	f.addGoal("open", domain.GoalStatusPlanned)
	f.addGoal("dropped", domain.GoalStatusAbandoned)
	f.addJob("keep", "open", domain.JobTypeQuickWin, domain.JobStatusPending)
	f.addJob("hide", "dropped", domain.JobTypeQuickWin, domain.JobStatusActive)
	energy := usecase.NewEnergySettings(f.store, domain.EnergyMed, nil)

	uc := usecase.NewFocusJobs(f.store, f.store, energy)
	out, err := uc.Execute(context.Background(), usecase.FocusJobsInput{})

	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, jobIDs(out.Selection))
}

func TestFocusJobs_EmptyLowAdvice(t *testing.T) {
	f := newFixture()
	f.addGoal("goal-a", domain.GoalStatusPlanned)
	f.addJob("deep", "goal-a", domain.JobTypeDeepWork, domain.JobStatusPending)
	energy := usecase.NewEnergySettings(f.store, domain.EnergyMed, nil)
	require.NoError(t, energy.Set(context.Background(), domain.EnergyLow))

	uc := usecase.NewFocusJobs(f.store, f.store, energy)
	out, err := uc.Execute(context.Background(), usecase.FocusJobsInput{})

	require.NoError(t, err)
	assert.True(t, out.Selection.IsEmpty)
	assert.Equal(t, domain.LowEnergyAdvice, out.Selection.Message)
}

func TestFocusFeed_RecomputesOnEnergyChange(t *testing.T) {
	// Setup
	f := newFixture()
	f.addGoal("goal-a", domain.GoalStatusPlanned)
	f.addJob("quick", "goal-a", domain.JobTypeQuickWin, domain.JobStatusPending)
	f.addJob("deep", "goal-a", domain.JobTypeDeepWork, domain.JobStatusPending)
	energy := usecase.NewEnergySettings(f.store, domain.EnergyMed, nil)
	feed := usecase.NewFocusFeed(f.store, f.store, energy, nil)
	defer feed.Close()

	var pushed []domain.JobSelection
	feed.Subscribe(func(sel domain.JobSelection) { pushed = append(pushed, sel) })

	sel, err := feed.Recompute(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"quick"}, jobIDs(sel))

	// Execute
	require.NoError(t, energy.Set(context.Background(), domain.EnergyHigh))

	// Assert
	require.Len(t, pushed, 2)
	assert.Equal(t, []string{"quick", "deep"}, jobIDs(pushed[1]))
	assert.Equal(t, domain.EnergyHigh, feed.Current().Energy)
}

func TestFocusFeed_JobsChanged(t *testing.T) {
	f := newFixture()
	f.addGoal("goal-a", domain.GoalStatusPlanned)
	energy := usecase.NewEnergySettings(f.store, domain.EnergyLow, nil)
	feed := usecase.NewFocusFeed(f.store, f.store, energy, nil)
	defer feed.Close()

	_, err := feed.Recompute(context.Background())
	require.NoError(t, err)
	assert.True(t, feed.Current().IsEmpty)

	f.addJob("quick", "goal-a", domain.JobTypeQuickWin, domain.JobStatusPending)
	feed.JobsChanged(context.Background())

	assert.Equal(t, []string{"quick"}, jobIDs(feed.Current()))
}

func TestFocusFeed_SetScope(t *testing.T) {
	f := newFixture()
	f.addGoal("goal-aaaa", domain.GoalStatusPlanned)
	f.addGoal("goal-bbbb", domain.GoalStatusPlanned)
	f.addJob("a1", "goal-aaaa", domain.JobTypeQuickWin, domain.JobStatusPending)
	f.addJob("b1", "goal-bbbb", domain.JobTypeQuickWin, domain.JobStatusPending)
	energy := usecase.NewEnergySettings(f.store, domain.EnergyMed, nil)
	feed := usecase.NewFocusFeed(f.store, f.store, energy, nil)
	defer feed.Close()

	sel, err := feed.SetScope(context.Background(), "goal-aaaa")

	require.NoError(t, err)
	assert.Equal(t, "goal-aaaa", feed.Scope())
	assert.Equal(t, []string{"a1"}, jobIDs(sel))
}

func TestFocusFeed_CloseStopsEnergyUpdates(t *testing.T) {
	f := newFixture()
	energy := usecase.NewEnergySettings(f.store, domain.EnergyMed, nil)
	feed := usecase.NewFocusFeed(f.store, f.store, energy, nil)
	calls := 0
	feed.Subscribe(func(domain.JobSelection) { calls++ })

	feed.Close()
	require.NoError(t, energy.Set(context.Background(), domain.EnergyHigh))

	assert.Equal(t, 0, calls)
}

func TestFocusFeed_OrdersActiveFirst(t *testing.T) {
	f := newFixture()
	f.addGoal("goal-a", domain.GoalStatusPlanned)
	f.addJob("pending", "goal-a", domain.JobTypeQuickWin, domain.JobStatusPending)
	f.addJob("active", "goal-a", domain.JobTypeDeepWork, domain.JobStatusActive)
	energy := usecase.NewEnergySettings(f.store, domain.EnergyLow, nil)
	feed := usecase.NewFocusFeed(f.store, f.store, energy, nil)
	defer feed.Close()

	sel, err := feed.Recompute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"active", "pending"}, jobIDs(sel))
}
