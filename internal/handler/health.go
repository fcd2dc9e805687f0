package handler

import (
	"net/http"
	"time"
)

type HealthHandler struct {
	version string
	started time.Time
}

func NewHealthHandler(version string, started time.Time) *HealthHandler {
	return &HealthHandler{version: version, started: started}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"version":   h.version,
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
