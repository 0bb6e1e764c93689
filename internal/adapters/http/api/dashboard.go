package api

import (
	"context"
	"net/http"

	"github.com/benitoschiffler/nba-props-lab/internal/domain/model"
)

// DashboardDependencies defines the read operations behind the dashboard routes.
type DashboardDependencies interface {
	Dashboard(ctx context.Context) model.Dashboard
	Games(ctx context.Context) []model.EventView
	Tracking(ctx context.Context) map[string]model.Tracking
	Teams() []model.Team
}

// DashboardHandler serves the aggregate and its slices.
type DashboardHandler struct {
	deps DashboardDependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps DashboardDependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandleDashboard handles GET /api/dashboard.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Dashboard(r.Context()))
}

type gamesResponse struct {
	Games []model.EventView `json:"games"`
}

// HandleGames handles GET /api/games.
func (h *DashboardHandler) HandleGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, gamesResponse{Games: h.deps.Games(r.Context())})
}

type trackingResponse struct {
	Tracking map[string]model.Tracking `json:"tracking"`
}

// HandleTracking handles GET /api/tracking.
func (h *DashboardHandler) HandleTracking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, trackingResponse{Tracking: h.deps.Tracking(r.Context())})
}

type teamsResponse struct {
	Teams []model.Team `json:"teams"`
}

// HandleTeams handles GET /api/teams.
func (h *DashboardHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, teamsResponse{Teams: h.deps.Teams()})
}
