// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	service "github.com/okian/outgoing/internal/app"
	"github.com/okian/outgoing/internal/domain/catalog"
	"github.com/okian/outgoing/internal/domain/challenge"
	"github.com/okian/outgoing/internal/domain/session"
	"github.com/okian/outgoing/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ChallengeDependencies
	ActionDependencies
	TotalsDependencies
	DayDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	challengeHandler *ChallengeHandler
	actionsHandler   *ActionsHandler
	totalsHandler    *TotalsHandler
	dayHandler       *DayHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		challengeHandler: NewChallengeHandler(deps),
		actionsHandler:   NewActionsHandler(deps),
		totalsHandler:    NewTotalsHandler(deps),
		dayHandler:       NewDayHandler(deps),
	}
}

// NewRouter returns a chi router with the common middleware stack.
func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Metrics)
	r.Use(middleware.Recoverer)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Get("/challenge", s.challengeHandler.HandleGetChallenge)
	r.Post("/challenge/complete", s.challengeHandler.HandleComplete)
	r.Get("/progress", s.challengeHandler.HandleGetProgress)

	r.Get("/actions", s.actionsHandler.HandleListActions)
	r.Post("/actions/{id}/log", s.actionsHandler.HandleLogAction)
	r.Get("/log", s.actionsHandler.HandleGetLog)

	r.Get("/totals", s.totalsHandler.HandleGetTotals)
	r.Get("/history", s.totalsHandler.HandleGetHistory)

	r.Get("/view", s.dayHandler.HandleGetView)
	r.Put("/view", s.dayHandler.HandlePutView)
	r.Post("/day/rollover", s.dayHandler.HandleRollover)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// statusFor maps domain error kinds to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, challenge.ErrChallengeFinished):
		return http.StatusConflict, "challenge_finished"
	case errors.Is(err, challenge.ErrAlreadyCompleted):
		return http.StatusConflict, "already_completed"
	case errors.Is(err, service.ErrRequestConflict):
		return http.StatusConflict, "request_conflict"
	case errors.Is(err, catalog.ErrInvalidAction):
		return http.StatusBadRequest, "invalid_action"
	case errors.Is(err, session.ErrInvalidView):
		return http.StatusBadRequest, "invalid_view"
	case errors.Is(err, service.ErrInvalidLimit):
		return http.StatusBadRequest, "invalid_limit"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// fail writes err with its mapped status. Server errors are logged with the request id.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Get().Named("api").Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("requestID", middleware.GetReqID(r.Context())),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}
