package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volition-os/volition/internal/domain"
)

// =============================================================================
// Loading and Energy Tests
// =============================================================================

func TestModel_InitialLoad(t *testing.T) {
	env := newTestModel(t)

	assert.Equal(t, domain.EnergyMed, env.m.energy)
	assert.False(t, env.m.chosen)
	assert.Len(t, env.m.sel.Jobs, 4)
	assert.NotContains(t, titles(env.m.sel.Jobs), "Work on syntax")
	assert.Empty(t, env.m.timers)
	assert.Equal(t, 0, env.m.jobList.Index())
}

func TestModel_Init(t *testing.T) {
	env := newTestModel(t)

	cmd := env.m.Init()

	assert.NotNil(t, cmd)
}

func TestModel_EnergyKeysFollowFeed(t *testing.T) {
	// Setup
	env := newTestModel(t)

	// Execute: low energy keeps quick wins only
	env.press(t, "3")

	// Assert
	assert.Equal(t, domain.EnergyLow, env.m.energy)
	assert.True(t, env.m.chosen)
	assert.Equal(t, "LOW", env.store.Settings[domain.SettingEnergyState])
	assert.Equal(t, "Energy set to Low", env.m.notice)
	require.Len(t, env.m.sel.Jobs, 3)
	for _, job := range env.m.sel.Jobs {
		assert.Equal(t, domain.JobTypeQuickWin, job.Type)
	}

	// Execute: high energy shows everything
	env.press(t, "1")
	assert.Equal(t, domain.EnergyHigh, env.m.energy)
	assert.Len(t, env.m.sel.Jobs, 5)
	assert.Contains(t, titles(env.m.sel.Jobs), "Work on syntax")

	env.press(t, "2")
	assert.Equal(t, domain.EnergyMed, env.m.energy)
	assert.Len(t, env.m.sel.Jobs, 4)
}

func TestModel_CursorFollowsJobAcrossReloads(t *testing.T) {
	env := newTestModel(t)
	job := env.selectJob(t, "Collect everything")

	env.press(t, "3")

	selected := env.m.selectedJob()
	require.NotNil(t, selected)
	assert.Equal(t, job.ID, selected.ID)
}

func TestModel_CursorClampsWhenJobDisappears(t *testing.T) {
	env := newTestModel(t)
	env.press(t, "1")
	env.selectJob(t, "Work on syntax")

	env.press(t, "3")

	assert.Less(t, env.m.jobList.Index(), len(env.m.sel.Jobs))
	require.NotNil(t, env.m.selectedJob())
	assert.Contains(t, env.m.sel.Jobs, env.m.selectedJob())
}

func TestModel_Refresh(t *testing.T) {
	env := newTestModel(t)
	env.store.Settings[domain.SettingEnergyState] = "HIGH"

	env.press(t, "r")

	assert.Equal(t, domain.EnergyHigh, env.m.energy)
	assert.Len(t, env.m.sel.Jobs, 5)
}

// =============================================================================
// Timer and Completion Tests
// =============================================================================

func TestModel_TimerStartPauseResume(t *testing.T) {
	// Setup
	env := newTestModel(t)
	job := env.selectJob(t, "Daily check-in")

	// Execute: start the pending job
	env.press(t, "s")

	// Assert
	require.NoError(t, env.m.err)
	assert.Equal(t, "Started Daily check-in on Learn Go", env.m.notice)
	assert.Equal(t, domain.JobStatusActive, env.store.Jobs[job.ID].Status)
	assert.Equal(t, job.ID, env.m.selectedJob().ID)
	require.Contains(t, env.m.timers, job.ID)
	assert.True(t, env.m.timers[job.ID].running)

	env.clock.Advance(65 * time.Second)
	assert.Contains(t, env.m.View(), "00:01:05")

	// Execute: pause
	env.press(t, "s")
	require.NoError(t, env.m.err)
	assert.Equal(t, "Paused Daily check-in on Learn Go at 00:01:05", env.m.notice)
	assert.False(t, env.m.timers[job.ID].running)
	assert.Equal(t, domain.JobStatusActive, env.store.Jobs[job.ID].Status)

	env.clock.Advance(time.Hour)
	assert.Contains(t, env.m.View(), "00:01:05 paused")

	// Execute: resume
	env.press(t, "enter")
	require.NoError(t, env.m.err)
	assert.Equal(t, "Resumed Daily check-in on Learn Go", env.m.notice)

	env.clock.Advance(5 * time.Second)
	assert.Contains(t, env.m.View(), "00:01:10")
}

func TestModel_DoneCompletesActiveJob(t *testing.T) {
	// Setup
	env := newTestModel(t)
	job := env.selectJob(t, "Daily check-in")
	env.press(t, "s")
	env.clock.Advance(10 * time.Minute)

	// Execute
	env.press(t, "d")

	// Assert
	require.NoError(t, env.m.err)
	assert.Equal(t, "Completed Daily check-in on Learn Go (tracked 00:10:00)", env.m.notice)
	assert.Equal(t, domain.JobStatusCompleted, env.store.Jobs[job.ID].Status)
	assert.NotContains(t, titles(env.m.sel.Jobs), job.Title)
	assert.Len(t, env.m.sel.Jobs, 3)
}

func TestModel_DonePendingJobShowsError(t *testing.T) {
	env := newTestModel(t)
	job := env.selectJob(t, "Daily check-in")

	env.press(t, "d")

	assert.ErrorIs(t, env.m.err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.JobStatusPending, env.store.Jobs[job.ID].Status)
	assert.Contains(t, env.m.View(), "Error: ")
}

func TestModel_ActionsIgnoredOnEmptyList(t *testing.T) {
	env := newEmptyModel(t)

	_, cmd := env.m.Update(keyMsg("s"))
	assert.Nil(t, cmd)

	_, cmd = env.m.Update(keyMsg("d"))
	assert.Nil(t, cmd)
}

// =============================================================================
// Navigation and Messages Tests
// =============================================================================

func TestModel_CursorNavigation(t *testing.T) {
	env := newTestModel(t)
	n := len(env.m.sel.Jobs)

	env.press(t, "up")
	assert.Equal(t, 0, env.m.jobList.Index())

	env.press(t, "j")
	assert.Equal(t, 1, env.m.jobList.Index())
	assert.Equal(t, env.m.sel.Jobs[1].ID, env.m.selectedJob().ID)

	for i := 0; i < n+2; i++ {
		env.press(t, "down")
	}
	assert.Equal(t, n-1, env.m.jobList.Index())

	env.press(t, "k")
	assert.Equal(t, n-2, env.m.jobList.Index())
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m := &Model{keys: DefaultKeyMap()}

			_, cmd := m.Update(keyMsg(k))

			require.NotNil(t, cmd)
			assert.Equal(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestModel_HelpToggle(t *testing.T) {
	env := newTestModel(t)

	env.press(t, "?")
	assert.True(t, env.m.help.ShowAll)

	env.press(t, "?")
	assert.False(t, env.m.help.ShowAll)
}

func TestModel_WindowSize(t *testing.T) {
	m := New(nil)

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, 80, m.width)
	assert.Equal(t, 24, m.height)
	assert.Equal(t, 80, m.help.Width)
}

func TestModel_SelectionPush(t *testing.T) {
	env := newTestModel(t)
	pushed := domain.JobSelection{
		Jobs:   env.m.sel.Jobs[:1],
		Energy: domain.EnergyLow,
	}

	env.m.Update(MsgSelection{Selection: pushed})

	assert.Equal(t, domain.EnergyLow, env.m.energy)
	assert.Len(t, env.m.sel.Jobs, 1)
	assert.Equal(t, 0, env.m.jobList.Index())
}

func TestModel_ErrorClearedByLoad(t *testing.T) {
	env := newTestModel(t)

	env.m.Update(MsgError{Err: errors.New("boom")})
	assert.Contains(t, env.m.View(), "Error: boom")

	env.press(t, "r")
	assert.NoError(t, env.m.err)
	assert.NotContains(t, env.m.View(), "boom")
}

func TestModel_TickSchedulesNextTick(t *testing.T) {
	m := New(nil)

	_, cmd := m.Update(MsgTick{Time: time.Now()})

	assert.NotNil(t, cmd)
}
