package handlers

import (
	"context"
	"net/http"
	"time"
)

const version = "0.1.0"

// Check represents the status of a health check.
type Check struct {
	Status  string `json:"status"`            // "pass" or "fail"
	Latency string `json:"latency,omitempty"` // e.g., "2ms"
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string           `json:"status"` // "healthy" or "degraded"
	Version     string           `json:"version"`
	Uptime      string           `json:"uptime"`
	Connections int              `json:"connections"`
	Rooms       int              `json:"rooms"`
	Checks      map[string]Check `json:"checks,omitempty"`
	Timestamp   string           `json:"timestamp"`
}

// Health handles the health check endpoint: read-only introspection
// into the registry and tracker plus the optional redis dependency.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]Check)
	allHealthy := true

	if h.redis != nil {
		redisStart := time.Now()
		if err := h.redis.Ping(ctx); err != nil {
			checks["redis"] = Check{Status: "fail", Message: "connection failed"}
			allHealthy = false
		} else {
			checks["redis"] = Check{Status: "pass", Latency: time.Since(redisStart).String()}
		}
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	h.JSON(w, statusCode, HealthResponse{
		Status:      status,
		Version:     version,
		Uptime:      h.coord.Uptime().Round(time.Second).String(),
		Connections: h.coord.ConnectionCount(),
		Rooms:       h.coord.RoomCount(),
		Checks:      checks,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}
