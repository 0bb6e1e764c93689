package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/benitoschiffler/nba-props-lab/pkg/metrics"
)

// Root status fields.
const (
	serviceName    = "NBA Props Lab API"
	serviceVersion = "1.0.0"
	statusHealthy  = "healthy"
)

// HealthHandler serves the Prometheus exposition.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HandleHealth handles GET /healthz requests from the custom metrics registry.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

// SeasonProvider reports the current season label.
type SeasonProvider interface {
	Season() string
}

// RootHandler answers liveness checks at /.
type RootHandler struct {
	deps SeasonProvider
}

// NewRootHandler creates a new root handler.
func NewRootHandler(deps SeasonProvider) *RootHandler {
	return &RootHandler{deps: deps}
}

type rootResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Season  string `json:"season"`
}

// HandleRoot handles GET / and 404s every other unmatched path.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, rootResponse{
		Status:  statusHealthy,
		Service: serviceName,
		Version: serviceVersion,
		Season:  h.deps.Season(),
	})
}
