// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	service "github.com/benitoschiffler/nba-props-lab/internal/app"
	"github.com/benitoschiffler/nba-props-lab/internal/domain/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Season() string
	Dashboard(ctx context.Context) model.Dashboard
	Games(ctx context.Context) []model.EventView
	Entity(ctx context.Context, id string) (model.EntityView, error)
	Tracking(ctx context.Context) map[string]model.Tracking
	Teams() []model.Team
	Refresh(ctx context.Context) service.RefreshAck
}

// Server wires HTTP routes for the business API.
type Server struct {
	rootHandler      *RootHandler
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dashboardHandler *DashboardHandler
	playerHandler    *PlayerHandler
	refreshHandler   *RefreshHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		rootHandler:      NewRootHandler(deps),
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		dashboardHandler: NewDashboardHandler(deps),
		playerHandler:    NewPlayerHandler(deps),
		refreshHandler:   NewRefreshHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/api/games", MetricsMiddleware(s.dashboardHandler.HandleGames, "games"))
	mux.HandleFunc("/api/tracking", MetricsMiddleware(s.dashboardHandler.HandleTracking, "tracking"))
	mux.HandleFunc("/api/teams", MetricsMiddleware(s.dashboardHandler.HandleTeams, "teams"))
	mux.HandleFunc("/api/player/", MetricsMiddleware(s.playerHandler.HandleGetPlayer, "player"))
	mux.HandleFunc("/api/refresh", MetricsMiddleware(s.refreshHandler.HandleRefresh, "refresh"))
	mux.HandleFunc("/", MetricsMiddleware(s.rootHandler.HandleRoot, "root"))
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

func isNotFound(err error) bool {
	return errors.Is(err, service.ErrEntityNotFound)
}
