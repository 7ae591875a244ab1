package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/usecase"
)

// jobTransitioner is satisfied by CompleteJob, FailJob, DeferJob and RetryJob.
type jobTransitioner interface {
	Execute(ctx context.Context, in usecase.JobTransitionInput) (*usecase.JobTransitionOutput, error)
}

// Services holds the use cases the API exposes.
type Services struct {
	NewGoal      *usecase.NewGoal
	ListGoals    *usecase.ListGoals
	ShowGoal     *usecase.ShowGoal
	DefineScope  *usecase.DefineScope
	GeneratePlan *usecase.GeneratePlan
	AbandonGoal  *usecase.AbandonGoal
	AchieveGoal  *usecase.AchieveGoal
	FocusJobs    *usecase.FocusJobs
	Energy       *usecase.EnergySettings
	StartJob     *usecase.StartJob
	CompleteJob  *usecase.CompleteJob
	FailJob      *usecase.FailJob
	DeferJob     *usecase.DeferJob
	RetryJob     *usecase.RetryJob
	StartSession *usecase.StartSession
	StopSession  *usecase.StopSession
	ShowTimer    *usecase.ShowTimer
	JobHistory   *usecase.JobHistory
	Onboarding   *usecase.Onboarding
}

// Handler serves the JSON API.
type Handler struct {
	logger *slog.Logger
	svc    Services
}

// NewHandler creates a Handler. A nil logger discards errors.
func NewHandler(svc Services, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{svc: svc, logger: logger}
}

// GET /health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /v1/goals
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if !decode(w, r, &req) {
		return
	}
	out, err := h.svc.NewGoal.Execute(r.Context(), usecase.NewGoalInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out.Goal)
}

// GET /v1/goals?status=&all=
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := usecase.ListGoalsInput{
		Status: domain.GoalStatus(q.Get("status")),
		All:    q.Get("all") == "true",
	}
	if in.Status != "" && !in.Status.IsValid() {
		h.fail(w, r, fmt.Errorf("%q: %w", in.Status, domain.ErrInvalidStatus))
		return
	}
	out, err := h.svc.ListGoals.Execute(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := make([]goalSummaryResponse, 0, len(out.Goals))
	for _, s := range out.Goals {
		resp = append(resp, goalSummaryResponse{Goal: s.Goal, Progress: newProgressResponse(s.Progress)})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /v1/goals/{id}
func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ShowGoal.Execute(r.Context(), usecase.ShowGoalInput{GoalRef: mux.Vars(r)["id"]})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goalDetailResponse{
		Goal:     out.Goal,
		Plan:     newPlanResponse(out.Plan),
		Progress: newProgressResponse(out.Progress),
	})
}

// PUT /v1/goals/{id}/scope
func (h *Handler) PutScope(w http.ResponseWriter, r *http.Request) {
	var req scopeRequest
	if !decode(w, r, &req) {
		return
	}
	out, err := h.svc.DefineScope.Execute(r.Context(), usecase.DefineScopeInput{
		GoalRef:      mux.Vars(r)["id"],
		Outcome:      req.Outcome,
		InScope:      req.InScope,
		OutOfScope:   req.OutOfScope,
		HorizonWeeks: req.HorizonWeeks,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scopeResponse{Goal: out.Goal, PlanStale: out.PlanStale})
}

// POST /v1/goals/{id}/plan
func (h *Handler) PostPlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	out, err := h.svc.GeneratePlan.Execute(r.Context(), usecase.GeneratePlanInput{
		GoalRef:  mux.Vars(r)["id"],
		Template: req.Template,
		Force:    req.Force,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, generatePlanResponse{
		Goal:     out.Goal,
		Plan:     newPlanResponse(out.Plan),
		Template: out.Template,
		Replaced: out.Replaced,
	})
}

// POST /v1/goals/{id}/abandon
func (h *Handler) AbandonGoal(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.AbandonGoal.Execute(r.Context(), usecase.CloseGoalInput{GoalRef: mux.Vars(r)["id"]})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, closeGoalResponse{Goal: out.Goal, StoppedJobs: out.StoppedJobs})
}

// POST /v1/goals/{id}/achieve
func (h *Handler) AchieveGoal(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.AchieveGoal.Execute(r.Context(), usecase.CloseGoalInput{GoalRef: mux.Vars(r)["id"]})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, closeGoalResponse{Goal: out.Goal, StoppedJobs: out.StoppedJobs})
}

// GET /v1/focus?goal=&energy=
func (h *Handler) Focus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.svc.FocusJobs.Execute(r.Context(), usecase.FocusJobsInput{
		GoalRef: q.Get("goal"),
		Energy:  q.Get("energy"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newFocusResponse(out))
}

// GET /v1/energy
func (h *Handler) GetEnergy(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.Energy.Get(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	chosen, err := h.svc.Energy.IsChosen(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, energyResponse{State: state, Chosen: chosen})
}

// PUT /v1/energy
func (h *Handler) PutEnergy(w http.ResponseWriter, r *http.Request) {
	var req energyRequest
	if !decode(w, r, &req) {
		return
	}
	state, err := domain.ParseEnergyState(req.State)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.Energy.Set(r.Context(), state); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, energyResponse{State: state, Chosen: true})
}

// POST /v1/jobs/{id}/start
func (h *Handler) StartJob(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.StartJob.Execute(r.Context(), usecase.StartJobInput{JobRef: mux.Vars(r)["id"]})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobResponse{Job: out.Job, Sessions: out.Sessions})
}

// transition returns the handler of POST /v1/jobs/{id}/complete|fail|defer|retry.
func (h *Handler) transition(uc jobTransitioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := uc.Execute(r.Context(), usecase.JobTransitionInput{JobRef: mux.Vars(r)["id"]})
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, jobResponse{Job: out.Job, TotalSeconds: out.TotalSeconds})
	}
}

// POST /v1/jobs/{id}/sessions/start
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.StartSession.Execute(r.Context(), usecase.WorkSessionInput{JobRef: mux.Vars(r)["id"]})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobResponse{Job: out.Job, Sessions: out.Sessions, TotalSeconds: out.TotalSeconds})
}

// POST /v1/jobs/{id}/sessions/stop
func (h *Handler) StopSession(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.StopSession.Execute(r.Context(), usecase.WorkSessionInput{JobRef: mux.Vars(r)["id"]})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobResponse{Job: out.Job, Sessions: out.Sessions, TotalSeconds: out.TotalSeconds})
}

// GET /v1/jobs/{id}/timer
func (h *Handler) Timer(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ShowTimer.Execute(r.Context(), usecase.ShowTimerInput{JobRef: mux.Vars(r)["id"]})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, timerResponse{
		Job:            out.Job,
		Elapsed:        domain.FormatElapsed(out.TotalSeconds),
		TotalSeconds:   out.TotalSeconds,
		CurrentSeconds: out.CurrentSeconds,
		Sessions:       out.Sessions,
		Running:        out.Running,
	})
}

// GET /v1/jobs/{id}/events
func (h *Handler) JobEvents(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.JobHistory.Execute(r.Context(), usecase.JobHistoryInput{JobRef: mux.Vars(r)["id"]})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	events := out.Events
	if events == nil {
		events = []domain.JobEvent{}
	}
	writeJSON(w, http.StatusOK, jobEventsResponse{Job: out.Job, Events: events})
}

// GET /v1/onboarding
func (h *Handler) Onboarding(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Onboarding.Execute(r.Context(), usecase.OnboardingInput{})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newOnboardingResponse(out))
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// fail writes the status mapped from err. Unmapped errors are logged and
// reported as 500 without detail.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrGoalNotFound),
		errors.Is(err, domain.ErrJobNotFound),
		errors.Is(err, domain.ErrPlanNotFound),
		errors.Is(err, domain.ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrEmptyOutcome),
		errors.Is(err, domain.ErrInvalidEnergy),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPlan),
		errors.Is(err, domain.ErrIDTooShort),
		errors.Is(err, domain.ErrAmbiguousID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrSessionRunning),
		errors.Is(err, domain.ErrNoSession),
		errors.Is(err, domain.ErrJobNotActive),
		errors.Is(err, domain.ErrTooManyActive),
		errors.Is(err, domain.ErrPlanExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotInitialized):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
