package realtime

import (
	"github.com/kiranchoudharyy/BroCode-sub000/internal/metrics"
)

// JoinRoom handles an explicit join: the user enters the room's member
// set and the connection's sink starts receiving the room's broadcasts.
// Unresolved or unidentified connections are dropped silently; the
// transport may legitimately deliver a join before its identify during a
// reconnect race.
func (c *Coordinator) JoinRoom(connID, roomID string, kind RoomKind, sink Sink) {
	info, ok := c.registry.Touch(connID)
	if !ok || !info.Identity.Valid() {
		metrics.EventsDropped.WithLabelValues("unidentified").Inc()
		c.log.Debug().Str("conn", connID).Str("room", roomID).Msg("join from unidentified connection")
		return
	}
	c.announce(connID, roomID, kind, info, sink)
	c.log.Debug().Str("user", info.Identity.UserID).Str("room", roomID).Msg("joined room")
}

// Heartbeat refreshes a member's presence. A heartbeat is sufficient to
// (re)establish presence even when the explicit join was missed, so
// membership and the socket subscription are both ensured before the
// presence events go out.
func (c *Coordinator) Heartbeat(connID, roomID string, kind RoomKind, sink Sink) {
	info, ok := c.registry.Touch(connID)
	if !ok || !info.Identity.Valid() {
		metrics.EventsDropped.WithLabelValues("unidentified").Inc()
		c.log.Debug().Str("conn", connID).Str("room", roomID).Msg("heartbeat from unidentified connection")
		return
	}
	c.announce(connID, roomID, kind, info, sink)
}

// announce performs the shared join/heartbeat transition: membership
// refresh, sink attach, then member-active to the others and the count
// to everyone. The event vocabulary follows the room's actual kind, not
// the caller's, so a heartbeat defaulting to group on an existing
// challenge room still speaks participant events.
func (c *Coordinator) announce(connID, roomID string, kind RoomKind, info ConnectionInfo, sink Sink) {
	count, kind := c.rooms.Join(roomID, kind, info.Identity.UserID)
	if sink != nil {
		c.sockets.Attach(roomID, sink)
	}
	metrics.ActiveRooms.Set(float64(c.rooms.Len()))

	c.broadcast(roomID, activeEventName(kind), MemberEvent{
		RoomID: roomID,
		UserID: info.Identity.UserID,
		Name:   info.Identity.Name,
		Image:  info.Identity.Image,
	}, connID)
	c.broadcast(roomID, countEventName(kind), CountEvent{RoomID: roomID, Count: count}, "")
}

// RelayTyping forwards a typing-indicator transition to the rest of the
// room. No typing state is kept server-side; receivers expire the
// indicator locally after a few seconds.
func (c *Coordinator) RelayTyping(connID, roomID string, isTyping bool) {
	info, ok := c.registry.Touch(connID)
	if !ok || !info.Identity.Valid() {
		metrics.EventsDropped.WithLabelValues("unidentified").Inc()
		return
	}
	c.broadcast(roomID, EventUserTyping, TypingEvent{
		RoomID:   roomID,
		UserID:   info.Identity.UserID,
		Name:     info.Identity.Name,
		IsTyping: isTyping,
	}, connID)
}
