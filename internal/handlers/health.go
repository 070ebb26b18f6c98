package handlers

import (
	"context"
	"net/http"
	"time"

	"notegraph/internal/contextutil"
	"notegraph/internal/indexer"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SyncMonitor exposes the state of the search synchronizer.
type SyncMonitor interface {
	Ping(ctx context.Context) error
	Stats() indexer.SyncStats
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	db                 Pinger
	sync               SyncMonitor
	healthCheckTimeout time.Duration
	now                func() time.Time
}

// NewHealthHandler creates a new HealthHandler. sync may be nil when search
// is disabled.
func NewHealthHandler(db Pinger, sync SyncMonitor) *HealthHandler {
	return &HealthHandler{
		db:                 db,
		sync:               sync,
		healthCheckTimeout: 2 * time.Second,
		now:                time.Now,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Status is "ok" while the process serves requests.
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	// Checks holds "ok", "error" or "disabled" per dependency.
	Checks map[string]string  `json:"checks"`
	Sync   *indexer.SyncStats `json:"sync,omitempty"`
}

// ServeHTTP handles GET /health. It always replies 200: a failing
// dependency is reported in Checks, not in the status code.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := map[string]string{"database": "ok", "search": "disabled"}

	if h.db != nil {
		if err := h.db.PingContext(checkCtx); err != nil {
			logger.WarnContext(ctx, "database health check failed", "error", err)
			checks["database"] = "error"
		}
	}

	resp := HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if h.sync != nil {
		checks["search"] = "ok"
		if err := h.sync.Ping(checkCtx); err != nil {
			logger.WarnContext(ctx, "search index health check failed", "error", err)
			checks["search"] = "error"
		}
		stats := h.sync.Stats()
		resp.Sync = &stats
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}
