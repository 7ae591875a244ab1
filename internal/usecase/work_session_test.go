package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase"
)

func TestWorkSession_StopAndResume(t *testing.T) {
	// Setup
	f := newFixture()
	f.addJob("job-1", "goal-1", domain.JobTypeDeepWork, domain.JobStatusActive)
	f.store.Sessions["job-1"] = openSession(t0)
	start := usecase.NewStartSession(f.store, f.store, f.clock, nil)
	stop := usecase.NewStopSession(f.store, f.store, f.clock, nil)
	in := usecase.WorkSessionInput{JobRef: "job-1"}

	// Execute: 10 minutes of work, 5 minutes break, 3 more minutes of work
	f.clock.Advance(10 * time.Minute)
	stopped, err := stop.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(600), stopped.TotalSeconds)

	f.clock.Advance(5 * time.Minute)
	resumed, err := start.Execute(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, resumed.Sessions, 2)

	f.clock.Advance(3 * time.Minute)
	timer, err := usecase.NewShowTimer(f.store, f.store, f.clock).Execute(context.Background(), usecase.ShowTimerInput{JobRef: "job-1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(780), timer.TotalSeconds)
	assert.Equal(t, int64(180), timer.CurrentSeconds)
	assert.True(t, timer.Running)
	assert.Equal(t, 2, timer.Sessions)
}

func TestStartSession_AlreadyRunning(t *testing.T) {
	f := newFixture()
	f.addJob("job-1", "goal-1", domain.JobTypeDeepWork, domain.JobStatusActive)
	f.store.Sessions["job-1"] = openSession(t0)

	_, err := usecase.NewStartSession(f.store, f.store, f.clock, nil).Execute(context.Background(), usecase.WorkSessionInput{JobRef: "job-1"})

	assert.ErrorIs(t, err, domain.ErrSessionRunning)
	assert.Len(t, f.store.Sessions["job-1"], 1)
}

func TestStartSession_JobNotActive(t *testing.T) {
	f := newFixture()
	f.addJob("job-1", "goal-1", domain.JobTypeDeepWork, domain.JobStatusPending)

	_, err := usecase.NewStartSession(f.store, f.store, f.clock, nil).Execute(context.Background(), usecase.WorkSessionInput{JobRef: "job-1"})

	assert.ErrorIs(t, err, domain.ErrJobNotActive)
}

func TestStopSession_NothingRunning(t *testing.T) {
	f := newFixture()
	f.addJob("job-1", "goal-1", domain.JobTypeDeepWork, domain.JobStatusActive)

	_, err := usecase.NewStopSession(f.store, f.store, f.clock, nil).Execute(context.Background(), usecase.WorkSessionInput{JobRef: "job-1"})

	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestShowTimer_NoSessions(t *testing.T) {
	f := newFixture()
	f.addJob("job-1", "goal-1", domain.JobTypeQuickWin, domain.JobStatusPending)

	out, err := usecase.NewShowTimer(f.store, f.store, f.clock).Execute(context.Background(), usecase.ShowTimerInput{JobRef: "job-1"})

	require.NoError(t, err)
	assert.Equal(t, int64(0), out.TotalSeconds)
	assert.False(t, out.Running)
	assert.Equal(t, 0, out.Sessions)
}

func TestShowTimer_ReportsSampleInstant(t *testing.T) {
	// Setup
	f := newFixture()
	f.addJob("job-1", "goal-1", domain.JobTypeDeepWork, domain.JobStatusActive)
	f.store.Sessions["job-1"] = openSession(t0)
	f.clock.Advance(90 * time.Second)
	sampled := f.clock.Now()

	// Execute
	out, err := usecase.NewShowTimer(f.store, f.store, f.clock).Execute(context.Background(), usecase.ShowTimerInput{JobRef: "job-1"})
	f.clock.Advance(time.Minute)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, sampled, out.ReadAt)
	assert.Equal(t, int64(sampled.Sub(t0)/time.Second), out.TotalSeconds)
}
