package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volition-os/volition/internal/domain"
)

// =============================================================================
// Goal New Command Tests
// =============================================================================

func TestGoalNew_TitleArgument(t *testing.T) {
	// Setup
	env := newTestContainer(t)

	// Execute
	out, err := env.run("goal", "new", "Learn Go", "-d", "Enough to build a CLI")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Created goal id0001: Learn Go (complexity 1, trivial)")

	goal := env.store.Goals["id0001"]
	require.NotNil(t, goal)
	assert.Equal(t, "Enough to build a CLI", goal.Description)
	assert.Equal(t, domain.GoalStatusDraft, goal.Status)
}

func TestGoalNew_TitleFlagAndDeadline(t *testing.T) {
	env := newTestContainer(t)

	_, err := env.run("goal", "new", "--title", "Run a marathon", "--deadline", "2026-10-04")

	require.NoError(t, err)
	goal := env.store.Goals["id0001"]
	require.NotNil(t, goal)
	require.NotNil(t, goal.Deadline)
	assert.Equal(t, "2026-10-04", goal.Deadline.Format(dateLayout))
}

func TestGoalNew_Errors(t *testing.T) {
	env := newTestContainer(t)

	_, err := env.run("goal", "new", "A", "--title", "B")
	assert.Error(t, err)

	_, err = env.run("goal", "new", "A", "--deadline", "next friday")
	assert.ErrorContains(t, err, "invalid deadline")

	_, err = env.run("goal", "new")
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)

	assert.Empty(t, env.store.Goals)
}

// =============================================================================
// Goal Lifecycle Tests
// =============================================================================

func TestGoal_ScopePlanShow(t *testing.T) {
	// Setup
	env := newTestContainer(t)
	_, err := env.run("goal", "new", "Learn Go")
	require.NoError(t, err)

	// Execute: scope
	out, err := env.run("goal", "scope", "id0001", "--outcome", "Ship a CLI", "--in", "syntax", "--out", "generics", "--weeks", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Scoped goal id0001")
	assert.NotContains(t, out, "no longer matches")

	// Execute: plan
	out, err = env.run("goal", "plan", "id0001")
	require.NoError(t, err)
	assert.Contains(t, out, `Generated plan for id0001 from template "sprint": 1 phases, 5 jobs`)
	assert.Contains(t, out, "1. Ship Learn Go")
	assert.Contains(t, out, "Work on syntax")

	// Execute: show
	out, err = env.run("goal", "show", "id0001")
	require.NoError(t, err)

	// Assert
	assert.Contains(t, out, "# Learn Go")
	assert.Contains(t, out, "Status: planned")
	assert.Contains(t, out, "Outcome: Ship a CLI")
	assert.Contains(t, out, "  + syntax")
	assert.Contains(t, out, "  - generics")
	assert.Contains(t, out, "Horizon: 3 weeks")
	assert.Contains(t, out, "## Plan (0% done: 0 completed, 0 active, 5 pending, 0 failed)")
}

func TestGoal_PlanRequiresForce(t *testing.T) {
	env := newTestContainer(t)
	goalID := env.plannedGoal(t)

	_, err := env.run("goal", "plan", goalID)
	assert.ErrorIs(t, err, domain.ErrPlanExists)

	out, err := env.run("goal", "plan", goalID, "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Regenerated plan")
	assert.Len(t, env.store.Jobs, 5)
}

func TestGoal_PlanUnknownTemplate(t *testing.T) {
	env := newTestContainer(t)
	_, err := env.run("goal", "new", "Learn Go")
	require.NoError(t, err)
	_, err = env.run("goal", "scope", "id0001", "--outcome", "Ship a CLI")
	require.NoError(t, err)

	_, err = env.run("goal", "plan", "id0001", "--template", "marathon")

	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestGoal_RescopeMarksPlanStale(t *testing.T) {
	env := newTestContainer(t)
	goalID := env.plannedGoal(t)

	out, err := env.run("goal", "scope", goalID, "--outcome", "Ship two CLIs")

	require.NoError(t, err)
	assert.Contains(t, out, "goal plan id0001 --force")
}

func TestGoal_ListAndClose(t *testing.T) {
	// Setup
	env := newTestContainer(t)
	goalID := env.plannedGoal(t)
	_, err := env.run("goal", "new", "Read more")
	require.NoError(t, err)

	// Execute & Assert: list shows open goals
	out, err := env.run("goal", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "PROGRESS")
	assert.Contains(t, out, "planned")
	assert.Contains(t, out, "0/5")
	assert.Contains(t, out, "Read more")

	out, err = env.run("goal", "achieve", goalID)
	require.NoError(t, err)
	assert.Contains(t, out, "Achieved goal id0001: Learn Go")

	out, err = env.run("goal", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Learn Go")

	out, err = env.run("goal", "list", "--status", "achieved")
	require.NoError(t, err)
	assert.Contains(t, out, "Learn Go")
	assert.NotContains(t, out, "Read more")

	_, err = env.run("goal", "abandon", goalID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestGoal_ListEmptyAndInvalidStatus(t *testing.T) {
	env := newTestContainer(t)

	out, err := env.run("goal", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No goals.")

	_, err = env.run("goal", "list", "--status", "someday")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestGoal_AbandonStopsRunningSessions(t *testing.T) {
	env := newTestContainer(t)
	goalID := env.plannedGoal(t)
	_, err := env.run("job", "start", env.jobByTitle(t, "Work on"))
	require.NoError(t, err)

	out, err := env.run("goal", "abandon", goalID)

	require.NoError(t, err)
	assert.Contains(t, out, "Abandoned goal id0001")
	assert.Contains(t, out, "Stopped 1 running session(s)")
}

func TestGoal_ShowNotFound(t *testing.T) {
	env := newTestContainer(t)

	_, err := env.run("goal", "show", "nope-1234")

	assert.ErrorIs(t, err, domain.ErrGoalNotFound)
}
