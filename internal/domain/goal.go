package domain

import (
	"strings"
	"time"
)

// GoalStatus represents the lifecycle state of a goal.
type GoalStatus string

const (
	GoalStatusDraft     GoalStatus = "draft"     // Defined, scope not yet set
	GoalStatusScoped    GoalStatus = "scoped"    // Scope defined, no plan
	GoalStatusPlanned   GoalStatus = "planned"   // Plan generated, being executed
	GoalStatusAchieved  GoalStatus = "achieved"  // Done
	GoalStatusAbandoned GoalStatus = "abandoned" // Dropped
)

// AllGoalStatuses returns all valid goal statuses.
func AllGoalStatuses() []GoalStatus {
	return []GoalStatus{
		GoalStatusDraft,
		GoalStatusScoped,
		GoalStatusPlanned,
		GoalStatusAchieved,
		GoalStatusAbandoned,
	}
}

// goalTransitions defines the allowed goal status transitions.
// Flow: draft → scoped → planned → achieved
//
//	       ↑         ↓
//	       └─────────┘ (scope redefined)
var goalTransitions = map[GoalStatus][]GoalStatus{
	GoalStatusDraft:     {GoalStatusScoped, GoalStatusAbandoned},
	GoalStatusScoped:    {GoalStatusScoped, GoalStatusPlanned, GoalStatusAbandoned},
	GoalStatusPlanned:   {GoalStatusScoped, GoalStatusPlanned, GoalStatusAchieved, GoalStatusAbandoned},
	GoalStatusAchieved:  {},
	GoalStatusAbandoned: {},
}

// CanTransitionTo returns true if the status can transition to the target status.
func (s GoalStatus) CanTransitionTo(target GoalStatus) bool {
	for _, t := range goalTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the goal is achieved or abandoned.
func (s GoalStatus) IsTerminal() bool {
	return s == GoalStatusAchieved || s == GoalStatusAbandoned
}

// IsValid returns true if the status is a known value.
func (s GoalStatus) IsValid() bool {
	_, ok := goalTransitions[s]
	return ok
}

// Scope bounds what a goal covers.
type Scope struct {
	Outcome      string   `json:"outcome,omitempty"` // Definition of done
	InScope      []string `json:"inScope,omitempty"`
	OutOfScope   []string `json:"outOfScope,omitempty"`
	HorizonWeeks int      `json:"horizonWeeks,omitempty"`
}

// IsDefined returns true if the scope has an outcome.
func (s Scope) IsDefined() bool {
	return strings.TrimSpace(s.Outcome) != ""
}

// Goal is what the user wants to achieve.
// Fields are ordered to minimize memory padding.
type Goal struct {
	Created     time.Time  `json:"created"`
	Updated     time.Time  `json:"updated"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      GoalStatus `json:"status"`
	Scope       Scope      `json:"scope"`
	Complexity  int        `json:"complexity"`
}

// TransitionTo moves the goal to the target status.
func (g *Goal) TransitionTo(target GoalStatus, now time.Time) error {
	if !g.Status.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	g.Status = target
	g.Updated = now
	return nil
}

// Complexity bounds.
const (
	MinComplexity = 1
	MaxComplexity = 5
)

// EstimateComplexity scores how much planning a goal needs, from 1 to 5.
// Longer descriptions, wide scopes and long horizons raise the score.
func EstimateComplexity(g *Goal) int {
	score := MinComplexity

	words := len(strings.Fields(g.Title)) + len(strings.Fields(g.Description))
	score += min(words/40, 2)

	if len(g.Scope.InScope) > 3 {
		score++
	}
	if g.Scope.HorizonWeeks > 8 {
		score++
	}

	return max(MinComplexity, min(score, MaxComplexity))
}

// ComplexityLabel returns a short label for a complexity score.
func ComplexityLabel(score int) string {
	switch {
	case score <= 1:
		return "trivial"
	case score == 2:
		return "small"
	case score == 3:
		return "moderate"
	case score == 4:
		return "large"
	default:
		return "ambitious"
	}
}

// GoalProgress summarizes job completion for a goal.
type GoalProgress struct {
	Total     int
	Pending   int
	Active    int
	Completed int
	Failed    int
}

// Percent returns the completed share in whole percent.
func (p GoalProgress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Completed * 100 / p.Total
}

// ComputeProgress counts jobs by status.
func ComputeProgress(jobs []*Job) GoalProgress {
	var p GoalProgress
	for _, j := range jobs {
		p.Total++
		switch j.Status {
		case JobStatusPending:
			p.Pending++
		case JobStatusActive:
			p.Active++
		case JobStatusCompleted:
			p.Completed++
		case JobStatusFailed:
			p.Failed++
		}
	}
	return p
}
