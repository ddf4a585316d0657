package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kiranchoudharyy/BroCode-sub000/internal/realtime"
)

// PublishRequest represents the generic internal publish body.
type PublishRequest struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// PublishResponse reports how many live sockets the room had at publish
// time. Zero recipients is still a success: delivery is best-effort and
// the durable write already happened on the caller's side.
type PublishResponse struct {
	RoomID     string `json:"roomId"`
	Event      string `json:"event"`
	Recipients int    `json:"recipients"`
}

// Publish handles POST /internal/rooms/{id}/publish. It lets the
// platform's request handlers push server-originated events into a room
// without holding a connection themselves.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	var req PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Event == "" {
		h.Error(w, http.StatusBadRequest, "event is required")
		return
	}
	if !realtime.IsOutboundEvent(req.Event) {
		h.Error(w, http.StatusBadRequest, "unknown event name")
		return
	}

	recipients := h.coord.MemberCount(roomID)
	if err := h.coord.Publish(roomID, req.Event, req.Data); err != nil {
		h.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.JSON(w, http.StatusOK, PublishResponse{
		RoomID:     roomID,
		Event:      req.Event,
		Recipients: recipients,
	})
}

// LeaderboardPublish handles POST /internal/challenges/{id}/leaderboard,
// the convenience route the submission pipeline calls after recomputing
// a challenge leaderboard.
func (h *Handler) LeaderboardPublish(w http.ResponseWriter, r *http.Request) {
	challengeID := chi.URLParam(r, "id")

	var payload json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	recipients := h.coord.MemberCount(challengeID)
	if err := h.coord.Publish(challengeID, realtime.EventLeaderboardUpdate, payload); err != nil {
		h.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.JSON(w, http.StatusOK, PublishResponse{
		RoomID:     challengeID,
		Event:      realtime.EventLeaderboardUpdate,
		Recipients: recipients,
	})
}
