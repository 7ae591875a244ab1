package planner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volition-os/volition/internal/domain"
)

func newGoal(complexity int, inScope ...string) *domain.Goal {
	return &domain.Goal{
		ID:         "g1",
		Title:      "Learn Go",
		Status:     domain.GoalStatusScoped,
		Complexity: complexity,
		Scope: domain.Scope{
			Outcome: "Ship a CLI",
			InScope: inScope,
		},
	}
}

func jobTitles(d *domain.PlanDraft) []string {
	var titles []string
	for _, ph := range d.Phases {
		for _, ms := range ph.Milestones {
			for _, cl := range ms.Clusters {
				for _, jd := range cl.Jobs {
					titles = append(titles, jd.Title)
				}
			}
		}
	}
	return titles
}

func TestTemplateFor(t *testing.T) {
	tests := []struct {
		want       string
		complexity int
	}{
		{TemplateSprint, 0},
		{TemplateSprint, 1},
		{TemplateSprint, 2},
		{TemplateStandard, 3},
		{TemplateExpedition, 4},
		{TemplateExpedition, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TemplateFor(tt.complexity), "complexity %d", tt.complexity)
	}
}

func TestGenerator_Templates(t *testing.T) {
	g := New("")
	assert.Equal(t, []string{"expedition", "sprint", "standard"}, g.Templates())
}

func TestGenerator_BuiltinsAreValid(t *testing.T) {
	g := New("")
	goal := newGoal(3, "a", "b", "c", "d", "e")

	for _, name := range g.Templates() {
		t.Run(name, func(t *testing.T) {
			draft, err := g.GenerateNamed(context.Background(), goal, name)
			require.NoError(t, err)
			assert.Equal(t, name, draft.Template)
			assert.NoError(t, draft.Validate())
			assert.Positive(t, draft.JobCount())
		})
	}
}

func TestGenerator_Generate_Sprint(t *testing.T) {
	// Setup
	g := New("")
	goal := newGoal(1, "syntax")

	// Execute
	draft, err := g.Generate(context.Background(), goal)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, TemplateSprint, draft.Template)
	require.Len(t, draft.Phases, 1)
	assert.Equal(t, "Ship Learn Go", draft.Phases[0].Title)
	assert.Equal(t, []string{
		"Write down what done looks like: Ship a CLI",
		"Collect everything needed for Learn Go",
		"Work on syntax",
		"Daily check-in on Learn Go",
		"Review the result against the outcome",
	}, jobTitles(draft))

	last := draft.Phases[0].Milestones[2].Clusters[0].Jobs[0]
	assert.Equal(t, domain.JobTypeQuickWin, last.Type)
	assert.Equal(t, 20, last.Minutes)
	assert.Equal(t, 14, last.DueInDays)
}

func TestGenerator_Generate_DropsMissingScope(t *testing.T) {
	g := New("")

	draft, err := g.Generate(context.Background(), newGoal(3))
	require.NoError(t, err)
	assert.Equal(t, TemplateStandard, draft.Template)
	require.Len(t, draft.Phases, 3)

	build := draft.Phases[1]
	assert.Equal(t, "Build", build.Title)
	require.Len(t, build.Milestones, 1, "milestones left without clusters are dropped")
	assert.Equal(t, "Keep momentum", build.Milestones[0].Title)
	assert.Equal(t, 6, draft.JobCount())
	assert.NoError(t, draft.Validate())

	full, err := g.Generate(context.Background(), newGoal(3, "a", "b", "c"))
	require.NoError(t, err)
	assert.Equal(t, 11, full.JobCount())
	assert.Equal(t, "a", full.Phases[1].Milestones[0].Clusters[0].Title)
}

func TestGenerator_Generate_Expedition(t *testing.T) {
	g := New("")

	draft, err := g.Generate(context.Background(), newGoal(5, "a", "b"))
	require.NoError(t, err)

	assert.Equal(t, TemplateExpedition, draft.Template)
	assert.Len(t, draft.Phases, 4)
	assert.Equal(t, 12, draft.JobCount())
	assert.Contains(t, jobTitles(draft), "Build b")
	assert.NotContains(t, jobTitles(draft), "Build c")
}

func TestGenerator_CustomDir(t *testing.T) {
	dir := t.TempDir()
	override := `
name: ignored
phases:
  - title: "Only phase for {{goal}}"
    milestones:
      - title: "M"
        clusters:
          - title: "C"
            jobs:
              - title: "Just do {{scope.1}}"
                type: DEEP_WORK
                minutes: 50
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sprint.yaml"), []byte(override), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "weekend.yml"), []byte(override), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	g := New(dir)

	assert.Equal(t, []string{"expedition", "sprint", "standard", "weekend"}, g.Templates())

	draft, err := g.Generate(context.Background(), newGoal(1, "tests"))
	require.NoError(t, err)
	assert.Equal(t, TemplateSprint, draft.Template)
	assert.Equal(t, []string{"Just do tests"}, jobTitles(draft))

	named, err := g.GenerateNamed(context.Background(), newGoal(5, "x"), "weekend")
	require.NoError(t, err)
	assert.Equal(t, "weekend", named.Template)
	assert.Equal(t, "Only phase for Learn Go", named.Phases[0].Title)
}

func TestGenerator_Errors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "typo.yaml"), []byte("phases:\n  - titel: x\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.yaml"), []byte("  \n"), 0644))
	g := New(dir)
	goal := newGoal(1)

	_, err := g.GenerateNamed(context.Background(), goal, "missing")
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)

	_, err = g.GenerateNamed(context.Background(), goal, "../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)

	_, err = g.GenerateNamed(context.Background(), goal, "typo")
	assert.Error(t, err)

	_, err = g.GenerateNamed(context.Background(), goal, "empty")
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Generate(ctx, goal)
	assert.ErrorIs(t, err, context.Canceled)
}
