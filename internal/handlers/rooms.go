package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RoomListResponse represents the active room listing.
type RoomListResponse struct {
	Rooms []RoomStats `json:"rooms"`
	Total int         `json:"total"`
}

// ListRooms lists rooms with at least one present member. This is part
// of the polling fallback: clients that lost their socket read presence
// from here until they reconnect.
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	snapshot := h.coord.RoomSnapshot()

	rooms := make([]RoomStats, 0, len(snapshot))
	for _, room := range snapshot {
		rooms = append(rooms, RoomStats{
			ID:      room.ID,
			Kind:    string(room.Kind),
			Members: room.Members,
		})
	}

	h.JSON(w, http.StatusOK, RoomListResponse{Rooms: rooms, Total: len(rooms)})
}

// RoomMembersResponse represents a room's current presence.
type RoomMembersResponse struct {
	RoomID  string   `json:"roomId"`
	Count   int      `json:"count"`
	Members []string `json:"members"`
}

// RoomMembers returns the member IDs present in one room. Unknown rooms
// report an empty set, not an error; rooms are ephemeral and may have
// been pruned since the client last saw them.
func (h *Handler) RoomMembers(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	members := h.coord.Members(roomID)
	if members == nil {
		members = []string{}
	}

	h.JSON(w, http.StatusOK, RoomMembersResponse{
		RoomID:  roomID,
		Count:   len(members),
		Members: members,
	})
}
