package domain

import "time"

// Trial tracks the evaluation period that starts when the store is created.
type Trial struct {
	StartedAt time.Time
	Days      int
}

// EndsAt returns when the trial ends.
func (t Trial) EndsAt() time.Time {
	return t.StartedAt.AddDate(0, 0, t.Days)
}

// DaysRemaining returns the whole days left, rounded up, never negative.
func (t Trial) DaysRemaining(now time.Time) int {
	left := t.EndsAt().Sub(now)
	if left <= 0 {
		return 0
	}
	days := int(left / (24 * time.Hour))
	if left%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// Expired returns true once the trial end has passed.
func (t Trial) Expired(now time.Time) bool {
	return !now.Before(t.EndsAt())
}

// OnboardingStep identifies one step of the first-run checklist.
type OnboardingStep string

const (
	StepDefineGoal     OnboardingStep = "define_goal"
	StepDefineScope    OnboardingStep = "define_scope"
	StepGeneratePlan   OnboardingStep = "generate_plan"
	StepChooseEnergy   OnboardingStep = "choose_energy"
	StepFirstSession   OnboardingStep = "first_session"
	onboardingStepNone OnboardingStep = ""
)

// OnboardingSteps returns the checklist in the order it should be done.
func OnboardingSteps() []OnboardingStep {
	return []OnboardingStep{
		StepDefineGoal,
		StepDefineScope,
		StepGeneratePlan,
		StepChooseEnergy,
		StepFirstSession,
	}
}

// Display returns the checklist text for a step.
func (s OnboardingStep) Display() string {
	switch s {
	case StepDefineGoal:
		return "Define a goal"
	case StepDefineScope:
		return "Define its scope"
	case StepGeneratePlan:
		return "Generate a plan"
	case StepChooseEnergy:
		return "Tell us your energy level"
	case StepFirstSession:
		return "Log your first work session"
	default:
		return string(s)
	}
}

// Hint returns the command that completes the step.
func (s OnboardingStep) Hint() string {
	switch s {
	case StepDefineGoal:
		return `volition goal new --title "..."`
	case StepDefineScope:
		return `volition goal scope <goal> --outcome "..."`
	case StepGeneratePlan:
		return "volition goal plan <goal>"
	case StepChooseEnergy:
		return "volition energy set high|med|low"
	case StepFirstSession:
		return "volition job start <job>"
	default:
		return ""
	}
}

// OnboardingState is the set of facts the checklist is derived from.
type OnboardingState struct {
	HasGoal      bool
	HasScope     bool
	HasPlan      bool
	EnergyChosen bool
	HasSession   bool
}

// Done reports whether a step is complete in this state.
func (s OnboardingState) Done(step OnboardingStep) bool {
	switch step {
	case StepDefineGoal:
		return s.HasGoal
	case StepDefineScope:
		return s.HasScope
	case StepGeneratePlan:
		return s.HasPlan
	case StepChooseEnergy:
		return s.EnergyChosen
	case StepFirstSession:
		return s.HasSession
	default:
		return false
	}
}

// NextStep returns the first incomplete step, or false when all are done.
func (s OnboardingState) NextStep() (OnboardingStep, bool) {
	for _, step := range OnboardingSteps() {
		if !s.Done(step) {
			return step, true
		}
	}
	return onboardingStepNone, false
}
