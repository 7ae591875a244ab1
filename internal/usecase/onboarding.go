package usecase

import (
	"context"
	"fmt"

	"github.com/volition-os/volition/internal/domain"
)

// OnboardingInput contains the input for the Onboarding use case.
type OnboardingInput struct{}

// OnboardingOutput describes the trial and the first-run checklist.
// Fields are ordered to minimize memory padding.
type OnboardingOutput struct {
	Trial         domain.Trial
	NextStep      domain.OnboardingStep // Empty when Complete
	State         domain.OnboardingState
	DaysRemaining int
	TrialStarted  bool
	Expired       bool
	Complete      bool
}

// Onboarding reports trial status and which setup steps remain.
// Fields are ordered to minimize memory padding.
type Onboarding struct {
	goals        domain.GoalRepository
	jobs         domain.JobRepository
	sessions     domain.SessionRepository
	settings     domain.SettingsRepository
	configLoader domain.ConfigLoader
	clock        domain.Clock
	energy       *EnergySettings
}

// NewOnboarding creates a new Onboarding use case.
func NewOnboarding(
	goals domain.GoalRepository,
	jobs domain.JobRepository,
	sessions domain.SessionRepository,
	settings domain.SettingsRepository,
	energy *EnergySettings,
	configLoader domain.ConfigLoader,
	clock domain.Clock,
) *Onboarding {
	return &Onboarding{
		goals:        goals,
		jobs:         jobs,
		sessions:     sessions,
		settings:     settings,
		energy:       energy,
		configLoader: configLoader,
		clock:        clock,
	}
}

// Execute derives the checklist from stored data.
func (uc *Onboarding) Execute(ctx context.Context, _ OnboardingInput) (*OnboardingOutput, error) {
	cfg, err := uc.configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var state domain.OnboardingState

	goals, err := uc.goals.ListGoals()
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	state.HasGoal = len(goals) > 0
	for _, g := range goals {
		if g.Scope.IsDefined() {
			state.HasScope = true
		}
	}

	jobs, err := uc.jobs.ListJobs(domain.JobFilter{})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	state.HasPlan = len(jobs) > 0

	if state.EnergyChosen, err = uc.energy.IsChosen(ctx); err != nil {
		return nil, err
	}

	count, err := uc.sessions.CountSessions()
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	state.HasSession = count > 0

	startedAt, err := TrialStart(uc.settings)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	out := &OnboardingOutput{
		State:        state,
		TrialStarted: !startedAt.IsZero(),
	}
	if out.TrialStarted {
		out.Trial = domain.Trial{StartedAt: startedAt, Days: cfg.Trial.Days}
		out.DaysRemaining = out.Trial.DaysRemaining(now)
		out.Expired = out.Trial.Expired(now)
	}

	next, more := state.NextStep()
	out.NextStep = next
	out.Complete = !more
	return out, nil
}
