package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volition-os/volition/internal/domain"
)

var renderAt = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func renderRow(t *testing.T, width, index int, items ...list.Item) string {
	t.Helper()
	now := func() time.Time { return renderAt }
	jobs := newJobList(DefaultStyles(), now)
	jobs.SetSize(width, 10)
	jobs.SetItems(items)

	var buf bytes.Buffer
	newJobDelegate(DefaultStyles(), now).Render(&buf, jobs, index, items[index])
	return buf.String()
}

// =============================================================================
// Delegate Rendering Tests
// =============================================================================

func TestJobDelegate_Render(t *testing.T) {
	anchor := &domain.Job{ID: "abcdef123456", Title: "Daily check-in", Type: domain.JobTypeAnchor, Status: domain.JobStatusPending, EstimatedMinutes: 10}
	deep := &domain.Job{ID: "0123456789ab", Title: "Work on syntax", Type: domain.JobTypeDeepWork, Status: domain.JobStatusActive, EstimatedMinutes: 90}

	tests := []struct {
		name     string
		items    []list.Item
		index    int
		contains []string
		excludes []string
	}{
		{
			name:     "selected pending row",
			items:    []list.Item{jobItem{job: anchor}},
			contains: []string{"> ", "○", "abcdef12", "Anchor 10m", "Daily check-in"},
			excludes: []string{"paused", "00:"},
		},
		{
			name:     "unselected row has no cursor",
			items:    []list.Item{jobItem{job: anchor}, jobItem{job: deep}},
			index:    1,
			contains: []string{"Deep Work 90m", "Work on syntax"},
			excludes: []string{"> "},
		},
		{
			name:     "running timer counts from the reading",
			items:    []list.Item{jobItem{job: deep, timer: &timerReading{readAt: renderAt.Add(-5 * time.Second), total: 60, running: true}}},
			contains: []string{"●", "00:01:05"},
			excludes: []string{"paused"},
		},
		{
			name:     "paused timer",
			items:    []list.Item{jobItem{job: deep, timer: &timerReading{readAt: renderAt.Add(-time.Hour), total: 60}}},
			contains: []string{"00:01:00 paused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Execute
			row := renderRow(t, 100, tt.index, tt.items...)

			// Assert
			for _, want := range tt.contains {
				assert.Contains(t, row, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, row, unwanted)
			}
			assert.NotContains(t, row, "\n")
		})
	}
}

func TestJobDelegate_TruncatesLongTitles(t *testing.T) {
	// Setup
	job := &domain.Job{ID: "j1", Title: strings.Repeat("long title ", 20), Type: domain.JobTypeQuickWin, Status: domain.JobStatusPending, EstimatedMinutes: 5}

	// Execute
	row := renderRow(t, 80, 0, jobItem{job: job})

	// Assert
	assert.Contains(t, row, "...")
	assert.NotContains(t, row, strings.TrimSpace(job.Title))
}

func TestJobDelegate_IgnoresForeignItems(t *testing.T) {
	// Setup
	var buf bytes.Buffer
	jobs := newJobList(DefaultStyles(), time.Now)

	// Execute
	newJobDelegate(DefaultStyles(), time.Now).Render(&buf, jobs, 0, list.Item(nil))

	// Assert
	assert.Empty(t, buf.String())
}

func TestJobItem_FilterValue(t *testing.T) {
	item := jobItem{job: &domain.Job{Title: "Ship it"}}

	assert.Equal(t, "Ship it", item.FilterValue())
}

// =============================================================================
// List Wiring Tests
// =============================================================================

func TestNewJobList_LeavesKeysToTheDashboard(t *testing.T) {
	// Execute
	jobs := newJobList(DefaultStyles(), time.Now)

	// Assert
	assert.False(t, jobs.FilteringEnabled())
	assert.False(t, jobs.KeyMap.Quit.Enabled())
	assert.False(t, jobs.KeyMap.ForceQuit.Enabled())
	assert.False(t, jobs.ShowTitle())
	assert.False(t, jobs.ShowStatusBar())
	assert.False(t, jobs.ShowHelp())
}

func TestModel_ListSizedToWindow(t *testing.T) {
	// Setup
	env := newTestModel(t)
	assert.Equal(t, 120-env.m.styles.App.GetHorizontalFrameSize(), env.m.jobList.Width())
	assert.Equal(t, 40-chromeHeight, env.m.jobList.Height())

	// Execute
	env.m.Update(tea.WindowSizeMsg{Width: 30, Height: 4})

	// Assert
	assert.Equal(t, 1, env.m.jobList.Height())
}

func TestModel_ListItemsCarryTimers(t *testing.T) {
	// Setup
	env := newTestModel(t)
	job := env.selectJob(t, "Daily check-in")

	// Execute
	env.press(t, "s")

	// Assert
	require.Len(t, env.m.jobList.Items(), len(env.m.sel.Jobs))
	for _, item := range env.m.jobList.Items() {
		ji := item.(jobItem)
		if ji.job.ID == job.ID {
			require.NotNil(t, ji.timer)
			assert.True(t, ji.timer.running)
			assert.Equal(t, env.clock.Now(), ji.timer.readAt)
			continue
		}
		assert.Nil(t, ji.timer)
	}
	assert.Equal(t, job.ID, env.m.selectedJob().ID)
}
