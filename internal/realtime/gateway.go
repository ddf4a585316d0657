package realtime

import (
	"fmt"

	"github.com/kiranchoudharyy/BroCode-sub000/internal/metrics"
)

// Publish pushes a server-originated event into a room on behalf of a
// caller that holds no live connection, typically an HTTP handler that
// just recomputed a leaderboard. Safe for concurrent use; it serializes
// through the same broadcast primitive the message relay uses.
func (c *Coordinator) Publish(roomID, event string, payload any) error {
	if !IsOutboundEvent(event) {
		return fmt.Errorf("realtime: unknown outbound event %q", event)
	}
	c.broadcast(roomID, event, payload, "")
	metrics.PublishesTotal.WithLabelValues("http").Inc()
	return nil
}
