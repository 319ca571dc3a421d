// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/sor/internal/adapters/repository"
	"github.com/okian/sor/internal/domain/model"
	"github.com/okian/sor/internal/domain/types"
	"golang.org/x/time/rate"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	LeaderboardDependencies
	RankDependencies
	EventDependencies
}

// StandingRow mirrors the read shape returned by leaderboard queries.
type StandingRow = types.StandingRow

// ResultRow mirrors the read shape returned by event queries.
type ResultRow = types.ResultRow

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	eventHandler       *EventHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	limiter            *rate.Limiter
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRateLimit bounds requests per second across all routes. A non-positive
// rps disables limiting.
func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		eventHandler:       NewEventHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		rankHandler:        NewRankHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", s.wrap(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /leaderboard", s.wrap(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /rank/{competitor_id}", s.wrap(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("GET /events/{event_code}", s.wrap(s.eventHandler.HandleGetEvent, "events"))
}

// wrap applies rate limiting inside the metrics middleware, so rejected
// requests are still counted.
func (s *Server) wrap(h http.HandlerFunc, endpoint string) http.HandlerFunc {
	if s.limiter != nil {
		h = RateLimitMiddleware(h, s.limiter)
	}
	return MetricsMiddleware(h, endpoint)
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

// writeFailure maps store and request errors to a status and error code.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrUnknownEvent):
		writeError(w, http.StatusNotFound, "unknown_event", err)
	case errors.Is(err, repository.ErrNotReady):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// metricParam reads ?metric=, defaulting to single.
func metricParam(op string, r *http.Request) (model.Metric, error) {
	m, err := model.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		return 0, WrapKind(op, ErrBadRequest, err)
	}
	return m, nil
}
