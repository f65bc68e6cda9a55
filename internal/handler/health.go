package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports database and upstream readiness.
type HealthHandler struct {
	db           Pinger
	jobAPIReady  func() bool
	aiReady      func() bool
	cacheEnabled func() bool
	version      string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, jobAPIReady, aiReady, cacheEnabled func() bool, version string) *HealthHandler {
	return &HealthHandler{
		db:           db,
		jobAPIReady:  jobAPIReady,
		aiReady:      aiReady,
		cacheEnabled: cacheEnabled,
		version:      version,
	}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Version   string            `json:"version"`
}

// HandleHealth handles GET /health requests. It answers 503 unless the
// database responds and the job API has credentials.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Services:  make(map[string]string),
		Version:   h.version,
	}

	resp.Services["database"] = "healthy"
	if h.db == nil {
		resp.Services["database"] = "unhealthy"
	} else if err := h.db.PingContext(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		resp.Services["database"] = "unhealthy"
	}

	resp.Services["adzuna_api"] = readiness(h.jobAPIReady, "healthy", "unhealthy")
	resp.Services["ai_summary"] = readiness(h.aiReady, "configured", "not configured")
	resp.Services["cache"] = readiness(h.cacheEnabled, "enabled", "disabled")

	status := http.StatusOK
	if resp.Services["database"] != "healthy" || resp.Services["adzuna_api"] != "healthy" {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}

func readiness(check func() bool, yes, no string) string {
	if check != nil && check() {
		return yes
	}
	return no
}
