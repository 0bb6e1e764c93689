package api

import (
	"context"
	"net/http"

	service "github.com/benitoschiffler/nba-props-lab/internal/app"
)

// RefreshDependencies defines the cache reset operation.
type RefreshDependencies interface {
	Refresh(ctx context.Context) service.RefreshAck
}

// RefreshHandler clears cached data and queues a rebuild.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandleRefresh handles POST /api/refresh. It answers 202 without waiting
// for the rebuild.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusAccepted, h.deps.Refresh(r.Context()))
}
