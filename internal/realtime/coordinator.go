package realtime

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/kiranchoudharyy/BroCode-sub000/internal/metrics"
	"github.com/kiranchoudharyy/BroCode-sub000/internal/models"
)

// Fanout is the cross-process broadcast extension point. A nil Fanout
// means single-process operation; the redis adapter implements this to
// mirror broadcasts to sibling instances.
type Fanout interface {
	Publish(roomID, event string, data json.RawMessage) error
}

// Options configures a Coordinator.
type Options struct {
	PresenceWindow  time.Duration
	MaxPayloadBytes int64
	Fanout          Fanout
	Logger          zerolog.Logger
}

// Coordinator owns the realtime state: the connection registry, the room
// membership tracker and the socket hub. It is the single mutation path
// for all of them; handlers and the transport hold only a *Coordinator.
type Coordinator struct {
	registry *Registry
	rooms    *Tracker
	sockets  *SocketHub
	fanout   Fanout
	log      zerolog.Logger

	maxPayload int64
	started    time.Time
}

// NewCoordinator wires the realtime core from explicit options rather
// than ambient globals, so lifetime and test isolation stay explicit.
func NewCoordinator(opts Options) *Coordinator {
	window := opts.PresenceWindow
	if window <= 0 {
		window = 5 * time.Minute
	}
	maxPayload := opts.MaxPayloadBytes
	if maxPayload <= 0 {
		maxPayload = 4096
	}
	return &Coordinator{
		registry:   NewRegistry(window),
		rooms:      NewTracker(window),
		sockets:    NewSocketHub(),
		fanout:     opts.Fanout,
		log:        opts.Logger,
		maxPayload: maxPayload,
		started:    time.Now(),
	}
}

// SetFanout wires the cross-process adapter after construction; the
// adapter's subscriber needs the coordinator's DeliverRemote first.
// Call before serving traffic.
func (c *Coordinator) SetFanout(f Fanout) {
	c.fanout = f
}

// Connect registers a new, not-yet-identified transport connection.
func (c *Coordinator) Connect(connID string) {
	c.registry.Add(connID)
	metrics.ActiveConnections.Set(float64(c.registry.Len()))
	c.log.Debug().Str("conn", connID).Msg("connection opened")
}

// Identify associates a connection with the user tuple supplied by the
// auth system.
func (c *Coordinator) Identify(connID string, identity models.Identity) {
	if !identity.Valid() {
		c.log.Debug().Str("conn", connID).Msg("identify without user id ignored")
		return
	}
	c.registry.Identify(connID, identity)
	c.log.Debug().Str("conn", connID).Str("user", identity.UserID).Msg("connection identified")
}

// Disconnect tears down a connection: registry entry, socket
// subscriptions, and room membership for the identified user. Each
// affected room gets a count broadcast; rooms left empty wait for the
// next prune cycle rather than being deleted here.
func (c *Coordinator) Disconnect(connID string) {
	info, known := c.registry.Touch(connID)
	c.registry.Remove(connID)
	rooms := c.sockets.DetachAll(connID)
	metrics.ActiveConnections.Set(float64(c.registry.Len()))

	if !known || !info.Identity.Valid() {
		return
	}
	for _, roomID := range rooms {
		kind := c.rooms.Kind(roomID)
		count := c.rooms.Leave(roomID, info.Identity.UserID)
		c.broadcast(roomID, countEventName(kind), CountEvent{RoomID: roomID, Count: count}, "")
	}
	c.log.Debug().Str("conn", connID).Str("user", info.Identity.UserID).
		Int("rooms", len(rooms)).Msg("connection closed")
}

// broadcast is the single fan-out primitive. It delivers locally,
// excluding at most the originating connection, and mirrors the event to
// sibling processes when a fanout adapter is wired. Marshal failures are
// logged and swallowed: realtime delivery is best-effort by contract.
func (c *Coordinator) broadcast(roomID, event string, payload any, exclude string) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.log.Error().Err(err).Str("event", event).Msg("broadcast payload marshal failed")
		return
	}
	if int64(len(data)) > c.maxPayload {
		metrics.EventsDropped.WithLabelValues("payload").Inc()
		c.log.Debug().Str("event", event).Int("bytes", len(data)).Msg("broadcast payload too large")
		return
	}
	frame, err := EncodeFrame(event, data)
	if err != nil {
		c.log.Error().Err(err).Str("event", event).Msg("broadcast frame encode failed")
		return
	}
	c.sockets.Broadcast(roomID, frame, exclude)
	metrics.EventsRelayed.WithLabelValues(event).Inc()

	if c.fanout != nil {
		if err := c.fanout.Publish(roomID, event, data); err != nil {
			// Remote fan-out is best-effort on top of best-effort.
			c.log.Warn().Err(err).Str("room", roomID).Msg("remote fanout failed")
		}
	}
}

// DeliverRemote injects an event received from a sibling process into
// the local socket hub. Used by the fanout adapter's subscriber loop.
func (c *Coordinator) DeliverRemote(roomID, event string, data json.RawMessage) {
	frame, err := EncodeFrame(event, data)
	if err != nil {
		return
	}
	c.sockets.Broadcast(roomID, frame, "")
	metrics.PublishesTotal.WithLabelValues("redis").Inc()
}

// Cleanup runs one lifecycle pass: registry sweep, then room prune.
// Only the scheduler calls this; no other timer competes over the maps.
func (c *Coordinator) Cleanup(now time.Time) (swept, pruned int) {
	swept = c.registry.Sweep(now)
	pruned = c.rooms.Prune(now)
	if swept > 0 {
		metrics.ConnectionsSwept.Add(float64(swept))
	}
	if pruned > 0 {
		metrics.RoomsPruned.Add(float64(pruned))
	}
	metrics.ActiveConnections.Set(float64(c.registry.Len()))
	metrics.ActiveRooms.Set(float64(c.rooms.Len()))
	return swept, pruned
}

// Uptime reports how long this coordinator has been running.
func (c *Coordinator) Uptime() time.Duration {
	return time.Since(c.started)
}

// ConnectionCount returns the number of live connections.
func (c *Coordinator) ConnectionCount() int { return c.registry.Len() }

// IdentifiedCount returns the number of identified connections.
func (c *Coordinator) IdentifiedCount() int { return c.registry.IdentifiedLen() }

// RoomCount returns the number of rooms with at least one member.
func (c *Coordinator) RoomCount() int { return c.rooms.Len() }

// MemberCount returns the member count for one room.
func (c *Coordinator) MemberCount(roomID string) int { return c.rooms.MemberCount(roomID) }

// Members returns the user IDs present in a room.
func (c *Coordinator) Members(roomID string) []string { return c.rooms.Members(roomID) }

// RoomSnapshot lists rooms ordered by member count.
func (c *Coordinator) RoomSnapshot() []RoomInfo { return c.rooms.Snapshot() }
