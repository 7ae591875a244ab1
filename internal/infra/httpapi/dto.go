package httpapi

import (
	"time"

	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase"
)

// Request bodies.

type createGoalRequest struct {
	Deadline    *time.Time `json:"deadline,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
}

type scopeRequest struct {
	Outcome      string   `json:"outcome"`
	InScope      []string `json:"inScope,omitempty"`
	OutOfScope   []string `json:"outOfScope,omitempty"`
	HorizonWeeks int      `json:"horizonWeeks,omitempty"`
}

type planRequest struct {
	Template string `json:"template,omitempty"`
	Force    bool   `json:"force,omitempty"`
}

type energyRequest struct {
	State string `json:"state"`
}

// Responses.

type errorResponse struct {
	Error string `json:"error"`
}

type progressResponse struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Percent   int `json:"percent"`
}

func newProgressResponse(p domain.GoalProgress) progressResponse {
	return progressResponse{
		Total:     p.Total,
		Pending:   p.Pending,
		Active:    p.Active,
		Completed: p.Completed,
		Failed:    p.Failed,
		Percent:   p.Percent(),
	}
}

type goalSummaryResponse struct {
	Goal     *domain.Goal     `json:"goal"`
	Progress progressResponse `json:"progress"`
}

type planResponse struct {
	GoalID     string               `json:"goalID"`
	Phases     []*domain.Phase      `json:"phases"`
	Milestones []*domain.Milestone  `json:"milestones"`
	Clusters   []*domain.JobCluster `json:"clusters"`
	Jobs       []*domain.Job        `json:"jobs"`
}

func newPlanResponse(p *domain.Plan) *planResponse {
	if p == nil {
		return nil
	}
	return &planResponse{
		GoalID:     p.GoalID,
		Phases:     p.Phases,
		Milestones: p.Milestones,
		Clusters:   p.Clusters,
		Jobs:       p.Jobs,
	}
}

type goalDetailResponse struct {
	Goal     *domain.Goal     `json:"goal"`
	Plan     *planResponse    `json:"plan,omitempty"`
	Progress progressResponse `json:"progress"`
}

type scopeResponse struct {
	Goal      *domain.Goal `json:"goal"`
	PlanStale bool         `json:"planStale"`
}

type generatePlanResponse struct {
	Goal     *domain.Goal  `json:"goal"`
	Plan     *planResponse `json:"plan"`
	Template string        `json:"template"`
	Replaced bool          `json:"replaced"`
}

type closeGoalResponse struct {
	Goal        *domain.Goal `json:"goal"`
	StoppedJobs int          `json:"stoppedJobs"`
}

type focusResponse struct {
	GoalID       string                 `json:"goalID,omitempty"`
	Energy       domain.EnergyState     `json:"energy"`
	Message      string                 `json:"message,omitempty"`
	Jobs         []*domain.Job          `json:"jobs"`
	ByType       map[domain.JobType]int `json:"byType"`
	Active       int                    `json:"active"`
	Pending      int                    `json:"pending"`
	TotalMinutes int                    `json:"totalMinutes"`
	IsEmpty      bool                   `json:"isEmpty"`
}

func newFocusResponse(out *usecase.FocusJobsOutput) focusResponse {
	resp := focusResponse{
		Energy:       out.Selection.Energy,
		Message:      out.Selection.Message,
		Jobs:         out.Selection.Jobs,
		ByType:       out.Summary.ByType,
		Active:       out.Summary.Active,
		Pending:      out.Summary.Pending,
		TotalMinutes: out.Summary.TotalMinutes,
		IsEmpty:      out.Selection.IsEmpty,
	}
	if out.Goal != nil {
		resp.GoalID = out.Goal.ID
	}
	if resp.Jobs == nil {
		resp.Jobs = []*domain.Job{}
	}
	return resp
}

type energyResponse struct {
	State  domain.EnergyState `json:"state"`
	Chosen bool               `json:"chosen"`
}

type jobResponse struct {
	Job          *domain.Job          `json:"job"`
	Sessions     []domain.WorkSession `json:"sessions,omitempty"`
	TotalSeconds int64                `json:"totalSeconds"`
}

type timerResponse struct {
	Job            *domain.Job `json:"job"`
	Elapsed        string      `json:"elapsed"`
	TotalSeconds   int64       `json:"totalSeconds"`
	CurrentSeconds int64       `json:"currentSeconds"`
	Sessions       int         `json:"sessions"`
	Running        bool        `json:"running"`
}

type jobEventsResponse struct {
	Job    *domain.Job       `json:"job"`
	Events []domain.JobEvent `json:"events"`
}

type onboardingResponse struct {
	TrialStartedAt *time.Time `json:"trialStartedAt,omitempty"`
	NextStep       string     `json:"nextStep,omitempty"`
	Hint           string     `json:"hint,omitempty"`
	Steps          []stepInfo `json:"steps"`
	TrialDays      int        `json:"trialDays"`
	DaysRemaining  int        `json:"daysRemaining"`
	Expired        bool       `json:"expired"`
	Complete       bool       `json:"complete"`
}

type stepInfo struct {
	Step string `json:"step"`
	Done bool   `json:"done"`
}

func newOnboardingResponse(out *usecase.OnboardingOutput) onboardingResponse {
	resp := onboardingResponse{
		TrialDays:     out.Trial.Days,
		DaysRemaining: out.DaysRemaining,
		Expired:       out.Expired,
		Complete:      out.Complete,
		NextStep:      string(out.NextStep),
	}
	if out.TrialStarted {
		started := out.Trial.StartedAt
		resp.TrialStartedAt = &started
	}
	if out.NextStep != "" {
		resp.Hint = out.NextStep.Hint()
	}
	for _, step := range domain.OnboardingSteps() {
		resp.Steps = append(resp.Steps, stepInfo{Step: string(step), Done: out.State.Done(step)})
	}
	return resp
}
