// Package handlers contains the HTTP handlers for the realtime
// service's REST surface: health, stats, the polling fallback for room
// presence, and the internal publish routes.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kiranchoudharyy/BroCode-sub000/internal/fanout"
	"github.com/kiranchoudharyy/BroCode-sub000/internal/realtime"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	coord *realtime.Coordinator
	redis *fanout.Redis // nil unless cross-process fan-out is configured
}

// NewHandler creates a new Handler.
func NewHandler(coord *realtime.Coordinator, redis *fanout.Redis) *Handler {
	return &Handler{coord: coord, redis: redis}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
