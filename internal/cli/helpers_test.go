package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/volition-os/volition/internal/app"
	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/infra/planner"
	"github.com/volition-os/volition/internal/testutil"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	c     *app.Container
	store *testutil.MockStore
	clock *testutil.MockClock
}

// newTestContainer creates an app.Container with mock dependencies and the
// built-in plan templates.
func newTestContainer(t *testing.T) *testEnv {
	t.Helper()

	store := testutil.NewMockStore()
	clock := &testutil.MockClock{NowTime: t0}
	store.Clock = clock
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
	return &testEnv{c: c, store: store, clock: clock}
}

// run executes the root command with args and returns stdout and stderr combined.
func (e *testEnv) run(args ...string) (string, error) {
	return execute(e.c, args...)
}

func execute(c *app.Container, args ...string) (string, error) {
	root := NewRootCommand(c, "test")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// plannedGoal creates "Learn Go", scopes it and plans it from the sprint template.
func (e *testEnv) plannedGoal(t *testing.T) string {
	t.Helper()

	_, err := e.run("goal", "new", "Learn Go")
	require.NoError(t, err)
	_, err = e.run("goal", "scope", "id0001", "--outcome", "Ship a CLI", "--in", "syntax")
	require.NoError(t, err)
	_, err = e.run("goal", "plan", "id0001")
	require.NoError(t, err)
	return "id0001"
}

// jobByTitle returns the id of the job whose title starts with prefix.
func (e *testEnv) jobByTitle(t *testing.T, prefix string) string {
	t.Helper()

	jobs, err := e.store.ListJobs(domain.JobFilter{})
	require.NoError(t, err)
	for _, j := range jobs {
		if strings.HasPrefix(j.Title, prefix) {
			return j.ID
		}
	}
	t.Fatalf("no job titled %q", prefix)
	return ""
}
