package realtime

import (
	"errors"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kiranchoudharyy/BroCode-sub000/internal/metrics"
	"github.com/kiranchoudharyy/BroCode-sub000/internal/models"
)

// ErrNotDelivered signals that a relay produced no broadcast. Callers
// fall back to the request/response write path; this service promises
// low-latency delivery, not guaranteed delivery.
var ErrNotDelivered = errors.New("realtime: message not delivered")

// RelayMessage forwards a client-originated chat message to every
// connection in the room, including the sender so its optimistic local
// copy reconciles against the canonical server copy. The returned
// message carries the server-assigned ULID and timestamp.
func (c *Coordinator) RelayMessage(connID, roomID, content string) (*models.ChatMessage, error) {
	info, ok := c.registry.Touch(connID)
	if !ok || !info.Identity.Valid() {
		metrics.EventsDropped.WithLabelValues("unidentified").Inc()
		c.log.Debug().Str("conn", connID).Str("room", roomID).Msg("message from unidentified connection")
		return nil, ErrNotDelivered
	}
	if content == "" {
		return nil, ErrNotDelivered
	}

	msg := &models.ChatMessage{
		ID:          ulid.Make().String(),
		RoomID:      roomID,
		SenderID:    info.Identity.UserID,
		SenderName:  info.Identity.Name,
		SenderImage: info.Identity.Image,
		Content:     content,
		Timestamp:   time.Now().UnixMilli(),
	}

	c.broadcast(roomID, EventNewMessage, msg, "")
	metrics.PublishesTotal.WithLabelValues("socket").Inc()
	return msg, nil
}
