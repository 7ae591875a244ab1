package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"github.com/volition-os/volition/internal/app"
	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/infra/planner"
	"github.com/volition-os/volition/internal/testutil"
	"github.com/volition-os/volition/internal/usecase"
)

type testEnv struct {
	c     *app.Container
	store *testutil.MockStore
	clock *testutil.MockClock
	m     *Model
}

// newEmptyModel builds a model over a container with no goals and applies
// the initial load.
func newEmptyModel(t *testing.T) *testEnv {
	t.Helper()
	return newModel(t, false)
}

// newTestModel builds a model over a container holding one planned goal
// ("Learn Go", sprint template) and applies the initial load.
func newTestModel(t *testing.T) *testEnv {
	t.Helper()
	return newModel(t, true)
}

func newModel(t *testing.T, planned bool) *testEnv {
	t.Helper()

	store := testutil.NewMockStore()
	clock := &testutil.MockClock{NowTime: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	c := app.NewWithDeps(
		app.Config{HomeDir: t.TempDir()},
		store,
		clock,
		&testutil.MockIDGenerator{},
		planner.New(""),
		testutil.NewMockConfigLoader(),
		nil,
	)
	t.Cleanup(func() { _ = c.Close() })

	if planned {
		planGoal(t, c)
	}

	env := &testEnv{c: c, store: store, clock: clock, m: New(c)}
	env.m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	env.apply(t, env.m.refresh())
	return env
}

func planGoal(t *testing.T, c *app.Container) {
	t.Helper()

	ctx := context.Background()
	goal, err := c.NewGoalUseCase().Execute(ctx, usecase.NewGoalInput{Title: "Learn Go"})
	require.NoError(t, err)
	_, err = c.DefineScopeUseCase().Execute(ctx, usecase.DefineScopeInput{
		GoalRef: goal.Goal.ID,
		Outcome: "Ship a CLI",
		InScope: []string{"syntax"},
	})
	require.NoError(t, err)
	_, err = c.GeneratePlanUseCase().Execute(ctx, usecase.GeneratePlanInput{GoalRef: goal.Goal.ID})
	require.NoError(t, err)
}

// apply runs cmd synchronously and feeds its message back into the model.
func (e *testEnv) apply(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	e.m.Update(cmd())
}

// press sends a key and applies the command it returns, if any.
func (e *testEnv) press(t *testing.T, k string) {
	t.Helper()
	_, cmd := e.m.Update(keyMsg(k))
	if cmd != nil {
		e.m.Update(cmd())
	}
}

// selectJob moves the cursor to the listed job whose title starts with prefix.
func (e *testEnv) selectJob(t *testing.T, prefix string) *domain.Job {
	t.Helper()
	for i, job := range e.m.sel.Jobs {
		if strings.HasPrefix(job.Title, prefix) {
			e.m.jobList.Select(i)
			return job
		}
	}
	t.Fatalf("no listed job titled %q", prefix)
	return nil
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func titles(jobs []*domain.Job) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Title)
	}
	return out
}
