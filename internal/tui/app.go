// Package tui provides the interactive focus dashboard.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/volition-os/volition/internal/app"
	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase"
)

// Model is the main Bubbletea model for the focus dashboard.
// Fields are ordered to minimize memory padding.
type Model struct {
	container *app.Container
	err       error
	timers    map[string]timerReading
	keys      KeyMap
	notice    string
	energy    domain.EnergyState
	sel       domain.JobSelection
	help      help.Model
	styles    Styles
	jobList   list.Model
	width     int
	height    int
	chosen    bool
}

// New creates a new TUI model backed by the container.
func New(c *app.Container) *Model {
	m := &Model{
		container: c,
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		help:      help.New(),
		timers:    make(map[string]timerReading),
		energy:    domain.DefaultEnergyState,
	}
	m.jobList = newJobList(m.styles, m.now)
	return m
}

func (m *Model) now() time.Time {
	return m.container.Clock.Now()
}

// Init loads the focus list and starts the timer ticks.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return MsgTick{Time: t}
	})
}

// refresh recomputes the focus feed and reloads timers.
func (m *Model) refresh() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		sel, err := m.container.Feed.Recompute(ctx)
		if err != nil {
			return MsgError{Err: err}
		}
		return m.snapshot(ctx, sel, "")
	}
}

// perform runs action and reports the feed state it left behind.
// Actions that change energy or jobs recompute the feed as a side effect.
func (m *Model) perform(action func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		notice, err := action(ctx)
		if err != nil {
			return MsgError{Err: err}
		}

		sel := m.container.Feed.Current()
		if sel.Energy == "" {
			if sel, err = m.container.Feed.Recompute(ctx); err != nil {
				return MsgError{Err: err}
			}
		}
		return m.snapshot(ctx, sel, notice)
	}
}

func (m *Model) snapshot(ctx context.Context, sel domain.JobSelection, notice string) tea.Msg {
	state, err := m.container.Energy.Get(ctx)
	if err != nil {
		return MsgError{Err: err}
	}
	chosen, err := m.container.Energy.IsChosen(ctx)
	if err != nil {
		return MsgError{Err: err}
	}

	timers := make(map[string]timerReading)
	show := m.container.ShowTimerUseCase()
	for _, job := range sel.Jobs {
		if job.Status != domain.JobStatusActive {
			continue
		}
		out, err := show.Execute(ctx, usecase.ShowTimerInput{JobRef: job.ID})
		if err != nil {
			return MsgError{Err: err}
		}
		timers[job.ID] = timerReading{
			readAt:  out.ReadAt,
			total:   out.TotalSeconds,
			running: out.Running,
		}
	}

	return MsgLoaded{
		Selection: sel,
		Energy:    state,
		Chosen:    chosen,
		Timers:    timers,
		Notice:    notice,
	}
}

func (m *Model) setEnergy(state domain.EnergyState) tea.Cmd {
	return m.perform(func(ctx context.Context) (string, error) {
		if err := m.container.Energy.Set(ctx, state); err != nil {
			return "", err
		}
		return "Energy set to " + state.Display(), nil
	})
}

// toggleTimer starts a pending job, or pauses/resumes an active one.
func (m *Model) toggleTimer(job *domain.Job) tea.Cmd {
	id := job.ID
	return m.perform(func(ctx context.Context) (string, error) {
		if job.Status == domain.JobStatusPending {
			out, err := m.container.StartJobUseCase().Execute(ctx, usecase.StartJobInput{JobRef: id})
			if err != nil {
				return "", err
			}
			return "Started " + out.Job.Title, nil
		}

		timer, err := m.container.ShowTimerUseCase().Execute(ctx, usecase.ShowTimerInput{JobRef: id})
		if err != nil {
			return "", err
		}
		if timer.Running {
			out, err := m.container.StopSessionUseCase().Execute(ctx, usecase.WorkSessionInput{JobRef: id})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Paused %s at %s", out.Job.Title, domain.FormatElapsed(out.TotalSeconds)), nil
		}
		out, err := m.container.StartSessionUseCase().Execute(ctx, usecase.WorkSessionInput{JobRef: id})
		if err != nil {
			return "", err
		}
		return "Resumed " + out.Job.Title, nil
	})
}

func (m *Model) completeJob(job *domain.Job) tea.Cmd {
	id := job.ID
	return m.perform(func(ctx context.Context) (string, error) {
		out, err := m.container.CompleteJobUseCase().Execute(ctx, usecase.JobTransitionInput{JobRef: id})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Completed %s (tracked %s)", out.Job.Title, domain.FormatElapsed(out.TotalSeconds)), nil
	})
}

// selectedJob returns the job under the cursor, or nil.
func (m *Model) selectedJob() *domain.Job {
	if item, ok := m.jobList.SelectedItem().(jobItem); ok {
		return item.job
	}
	return nil
}

// setSelection replaces the list items, keeping the cursor on the same job
// when it is still listed.
func (m *Model) setSelection(sel domain.JobSelection) {
	index := m.jobList.Index()
	if prev := m.selectedJob(); prev != nil {
		for i, job := range sel.Jobs {
			if job.ID == prev.ID {
				index = i
				break
			}
		}
	}

	m.sel = sel
	items := make([]list.Item, 0, len(sel.Jobs))
	for _, job := range sel.Jobs {
		item := jobItem{job: job}
		if reading, ok := m.timers[job.ID]; ok {
			item.timer = &reading
		}
		items = append(items, item)
	}
	m.jobList.SetItems(items)

	if index >= len(items) {
		index = len(items) - 1
	}
	if index >= 0 {
		m.jobList.Select(index)
	}
}

// resize fits the list between the header and the footer.
func (m *Model) resize() {
	height := m.height - chromeHeight
	if height < 1 {
		height = 1
	}
	m.jobList.SetSize(m.width-m.styles.App.GetHorizontalFrameSize(), height)
}
