// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/ninebox/internal/adapters/repository"
	service "github.com/okian/ninebox/internal/app"
	"github.com/okian/ninebox/internal/domain/fault"
)

const defaultMaxUploadBytes = 10 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SessionDependencies
	EmployeeDependencies
	ReviewDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	sessionsHandler  *SessionsHandler
	employeesHandler *EmployeesHandler
	reviewHandler    *ReviewHandler
}

// NewServer creates a new API server with all handlers. maxUploadBytes
// bounds session-creation bodies; zero or less selects the default.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxUploadBytes int64) *Server {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		sessionsHandler:  NewSessionsHandler(deps, maxUploadBytes),
		employeesHandler: NewEmployeesHandler(deps),
		reviewHandler:    NewReviewHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /sessions", MetricsMiddleware(s.sessionsHandler.HandleCreate, "sessions"))
	mux.HandleFunc("GET /sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleGet, "session"))
	mux.HandleFunc("DELETE /sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleDelete, "session"))
	mux.HandleFunc("GET /sessions/{id}/export", MetricsMiddleware(s.sessionsHandler.HandleExport, "export"))

	mux.HandleFunc("GET /sessions/{id}/employees", MetricsMiddleware(s.employeesHandler.HandleList, "employees"))
	mux.HandleFunc("GET /sessions/{id}/employees/{eid}", MetricsMiddleware(s.employeesHandler.HandleGet, "employee"))
	mux.HandleFunc("GET /sessions/{id}/employees/{eid}/big-mover", MetricsMiddleware(s.employeesHandler.HandleBigMover, "big_mover"))
	mux.HandleFunc("POST /sessions/{id}/employees/{eid}/revert", MetricsMiddleware(s.employeesHandler.HandleRevert, "revert"))

	mux.HandleFunc("POST /sessions/{id}/moves", MetricsMiddleware(s.reviewHandler.HandleMove, "moves"))
	mux.HandleFunc("PUT /sessions/{id}/notes", MetricsMiddleware(s.reviewHandler.HandleNote, "notes"))
	mux.HandleFunc("POST /sessions/{id}/donut", MetricsMiddleware(s.reviewHandler.HandleDonut, "donut"))
	mux.HandleFunc("GET /sessions/{id}/changes", MetricsMiddleware(s.reviewHandler.HandleChanges, "changes"))
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

// writeFailure translates an upstream error into a status and error code.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, fault.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, fault.ErrValidation):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, fault.ErrDuplicateID):
		return http.StatusConflict, "duplicate_id"
	case errors.Is(err, fault.ErrOutOfScope):
		return http.StatusUnprocessableEntity, "out_of_scope"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrCapacity):
		return http.StatusServiceUnavailable, "capacity"
	case errors.Is(err, repository.ErrClosed), errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
