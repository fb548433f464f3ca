package handlers

import (
	"net/http"
	"runtime"
	"time"

	"photo-manager/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
)

var startTime = time.Now()

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`

	// Stats summary
	ActiveImages   int `json:"activeImages,omitempty"`
	RecycledImages int `json:"recycledImages,omitempty"`
	TotalUsers     int `json:"totalUsers,omitempty"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	stats := h.db.GetStats()

	response := HealthResponse{
		Status:         statusHealthy,
		Ready:          true,
		Version:        startup.Version,
		Uptime:         time.Since(startTime).Round(time.Second).String(),
		GoVersion:      runtime.Version(),
		NumCPU:         runtime.NumCPU(),
		NumGoroutine:   runtime.NumGoroutine(),
		ActiveImages:   stats.ActiveImages,
		RecycledImages: stats.RecycledImages,
		TotalUsers:     stats.TotalUsers,
	}

	writeJSON(w, response)
}

// Livez is a minimal liveness probe
func (h *Handlers) Livez(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatus(w, "ok")
}

// Readyz reports whether the database answers queries
func (h *Handlers) Readyz(w http.ResponseWriter, _ *http.Request) {
	if _, err := h.db.CountActiveSessions(); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{"status": statusStarting, "error": err.Error()})
		return
	}
	writeJSONStatus(w, "ok")
}
