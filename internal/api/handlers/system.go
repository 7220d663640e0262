package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/rcastaneda/portfolio-dashboard/internal/api/response"
)

// Version is the application version reported by /api/system/version.
const Version = "0.4.0"

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	started time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{
		started: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// Health reports liveness. There is no database to ping; the service is
// healthy as long as it can answer.
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(h.started).Round(time.Second).String(),
	})
}

// VersionResponse represents the version information response
type VersionResponse struct {
	Version   string `json:"version"`
	GoVersion string `json:"goVersion"`
}

// Version reports build information.
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, VersionResponse{
		Version:   Version,
		GoVersion: runtime.Version(),
	})
}
