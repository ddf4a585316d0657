package realtime

import (
	"sync"

	"github.com/kiranchoudharyy/BroCode-sub000/internal/metrics"
)

// Sink is the delivery end of one client connection. Send must not
// block: implementations buffer internally and return an error when the
// buffer is full, at which point the hub drops the connection from the
// room rather than stalling delivery to everyone else.
type Sink interface {
	ID() string
	Send(frame []byte) error
}

// Subscription is the handle returned by Attach. Unsubscribe detaches
// exactly the sink it was issued for and is safe to call twice.
type Subscription struct {
	hub    *SocketHub
	roomID string
	connID string
	once   sync.Once
}

// Unsubscribe removes the subscription from its room.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.detach(s.roomID, s.connID)
	})
}

// SocketHub indexes live sinks two ways: by room for fan-out, and by
// connection for teardown on disconnect. Both maps mutate under one
// mutex so a join racing a disconnect cannot strand a sink.
type SocketHub struct {
	mu     sync.RWMutex
	byRoom map[string]map[string]Sink
	byConn map[string]map[string]struct{} // connID -> room set
}

// NewSocketHub creates an empty hub.
func NewSocketHub() *SocketHub {
	return &SocketHub{
		byRoom: make(map[string]map[string]Sink),
		byConn: make(map[string]map[string]struct{}),
	}
}

// Attach subscribes a sink to a room and returns its unsubscribe handle.
// Attaching the same connection twice is idempotent.
func (h *SocketHub) Attach(roomID string, sink Sink) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	connID := sink.ID()
	if h.byRoom[roomID] == nil {
		h.byRoom[roomID] = make(map[string]Sink)
	}
	h.byRoom[roomID][connID] = sink
	if h.byConn[connID] == nil {
		h.byConn[connID] = make(map[string]struct{})
	}
	h.byConn[connID][roomID] = struct{}{}
	return &Subscription{hub: h, roomID: roomID, connID: connID}
}

// DetachAll removes a connection from every room and returns the rooms
// it was subscribed to. Called on transport disconnect.
func (h *SocketHub) DetachAll(connID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	roomSet, ok := h.byConn[connID]
	if !ok {
		return nil
	}
	rooms := make([]string, 0, len(roomSet))
	for roomID := range roomSet {
		rooms = append(rooms, roomID)
		if members := h.byRoom[roomID]; members != nil {
			delete(members, connID)
			if len(members) == 0 {
				delete(h.byRoom, roomID)
			}
		}
	}
	delete(h.byConn, connID)
	return rooms
}

func (h *SocketHub) detach(roomID, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members := h.byRoom[roomID]; members != nil {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.byRoom, roomID)
		}
	}
	if roomSet := h.byConn[connID]; roomSet != nil {
		delete(roomSet, roomID)
		if len(roomSet) == 0 {
			delete(h.byConn, connID)
		}
	}
}

// Broadcast delivers a frame to every sink in the room except exclude.
// Sends are non-blocking: a sink that cannot accept the frame is dropped
// from every room so one dead peer never delays the rest. Per-recipient
// errors are counted, not propagated.
func (h *SocketHub) Broadcast(roomID string, frame []byte, exclude string) {
	h.mu.RLock()
	members := h.byRoom[roomID]
	targets := make([]Sink, 0, len(members))
	for connID, sink := range members {
		if connID == exclude {
			continue
		}
		targets = append(targets, sink)
	}
	h.mu.RUnlock()

	for _, sink := range targets {
		if err := sink.Send(frame); err != nil {
			metrics.EventsDropped.WithLabelValues("slow_peer").Inc()
			h.DetachAll(sink.ID())
		}
	}
}

// RoomSize returns the number of sinks subscribed to the room.
func (h *SocketHub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byRoom[roomID])
}
