// Package api exposes the progression engine over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lifeforge/internal/engine"
)

// Server is the lifeforge HTTP API server.
type Server struct {
	svc            *engine.Service
	log            *slog.Logger
	metricsEnabled bool
}

func NewServer(svc *engine.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, log: logger}
}

// EnableMetrics mounts the Prometheus /metrics endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/characters", func(r chi.Router) {
		r.Post("/", s.handleCreateCharacter)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleStatus)
			r.Get("/templates", s.handleTemplates)
			r.Post("/templates/{tid}/accept", s.handleAcceptTemplate)

			r.Post("/quests", s.handleCreateQuest)
			r.Post("/quests/{qid}/start", s.handleStartQuest)
			r.Post("/quests/{qid}/complete", s.handleCompleteQuest)
			r.Post("/quests/{qid}/abandon", s.handleAbandonQuest)
			r.Post("/quests/{qid}/objectives", s.handleAddObjective)
			r.Post("/quests/{qid}/objectives/{oid}/complete", s.handleCompleteObjective)

			r.Post("/recurring", s.handleAddRecurring)
			r.Post("/needs/{nid}/complete", s.handleCompleteNeed)
			r.Post("/dailies/{did}/complete", s.handleCompleteDaily)

			r.Post("/buffs", s.handleActivateBuff)
			r.Delete("/buffs/{bid}", s.handleDeactivateBuff)

			r.Post("/resources/{kind}", s.handleAdjustResource)
			r.Post("/housekeeping", s.handleHousekeep)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": msg,
		},
	})
}

// statusFor maps engine error categories onto HTTP statuses.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, engine.ErrValidation):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, engine.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, engine.ErrIncompleteObjectives):
		return http.StatusConflict, "incomplete_objectives"
	case errors.Is(err, engine.ErrAlreadySatisfied):
		return http.StatusConflict, "already_satisfied"
	case errors.Is(err, engine.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, engine.ErrLocked):
		return http.StatusConflict, "locked"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()), "err", err)
		msg = "internal error"
	}
	writeError(w, status, code, msg)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return engine.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}
