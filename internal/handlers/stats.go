package handlers

import "net/http"

// RoomStats represents one room in the stats response.
type RoomStats struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Members int    `json:"members"`
}

// StatsResponse represents the response from the stats endpoint.
type StatsResponse struct {
	Connections           int         `json:"connections"`
	IdentifiedConnections int         `json:"identified_connections"`
	Rooms                 int         `json:"rooms"`
	TopRooms              []RoomStats `json:"top_rooms"`
}

// Stats returns realtime usage figures for the admin dashboard.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	snapshot := h.coord.RoomSnapshot()
	if len(snapshot) > 10 {
		snapshot = snapshot[:10]
	}

	topRooms := make([]RoomStats, 0, len(snapshot))
	for _, room := range snapshot {
		topRooms = append(topRooms, RoomStats{
			ID:      room.ID,
			Kind:    string(room.Kind),
			Members: room.Members,
		})
	}

	h.JSON(w, http.StatusOK, StatsResponse{
		Connections:           h.coord.ConnectionCount(),
		IdentifiedConnections: h.coord.IdentifiedCount(),
		Rooms:                 h.coord.RoomCount(),
		TopRooms:              topRooms,
	})
}

// RootResponse represents the root endpoint response.
type RootResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Root handles the root endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, RootResponse{
		Name:    "BroCode Realtime",
		Version: version,
	})
}
