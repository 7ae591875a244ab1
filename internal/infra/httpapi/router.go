// Package httpapi exposes the use cases as a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// NewRouter wires every route of the API.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(accessLog(h.logger))

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/v1").Subrouter()

	// Goal endpoints
	api.HandleFunc("/goals", h.CreateGoal).Methods(http.MethodPost)
	api.HandleFunc("/goals", h.ListGoals).Methods(http.MethodGet)
	api.HandleFunc("/goals/{id}", h.GetGoal).Methods(http.MethodGet)
	api.HandleFunc("/goals/{id}/scope", h.PutScope).Methods(http.MethodPut)
	api.HandleFunc("/goals/{id}/plan", h.PostPlan).Methods(http.MethodPost)
	api.HandleFunc("/goals/{id}/abandon", h.AbandonGoal).Methods(http.MethodPost)
	api.HandleFunc("/goals/{id}/achieve", h.AchieveGoal).Methods(http.MethodPost)

	// Focus and energy
	api.HandleFunc("/focus", h.Focus).Methods(http.MethodGet)
	api.HandleFunc("/energy", h.GetEnergy).Methods(http.MethodGet)
	api.HandleFunc("/energy", h.PutEnergy).Methods(http.MethodPut)

	// Job endpoints
	api.HandleFunc("/jobs/{id}/start", h.StartJob).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id}/complete", h.transition(h.svc.CompleteJob)).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id}/fail", h.transition(h.svc.FailJob)).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id}/defer", h.transition(h.svc.DeferJob)).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id}/retry", h.transition(h.svc.RetryJob)).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id}/sessions/start", h.StartSession).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id}/sessions/stop", h.StopSession).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id}/timer", h.Timer).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}/events", h.JobEvents).Methods(http.MethodGet)

	api.HandleFunc("/onboarding", h.Onboarding).Methods(http.MethodGet)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	notAllowed := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	// Subrouters match on their own, so each needs the handlers.
	for _, router := range []*mux.Router{r, api} {
		router.NotFoundHandler = notFound
		router.MethodNotAllowedHandler = notAllowed
	}
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func accessLog(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

// Serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout. ready, when set, receives the bound
// address once the listener is open.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger, shutdownTimeout time.Duration, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	if ready != nil {
		ready(ln.Addr())
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server exited")
	return <-errCh
}
