// Package fanout implements the cross-process broadcast extension point.
// A single realtime instance needs none of this; when the platform runs
// more than one process, the redis adapter mirrors room broadcasts over
// a pub/sub channel so every instance can deliver to its local sockets.
package fanout

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const channelName = "brocode:rooms"

// DeliverFunc hands a remote event to the local socket hub.
type DeliverFunc func(roomID, event string, data json.RawMessage)

// Envelope is the wire format published on the redis channel. Instance
// identifies the originating process so it can skip its own envelopes;
// local delivery already happened before the publish.
type Envelope struct {
	Instance string          `json:"instance"`
	RoomID   string          `json:"roomId"`
	Event    string          `json:"event"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// Redis mirrors broadcasts across processes. Publishes go through a
// buffered outbox drained by one writer goroutine, so a slow redis never
// stalls the broadcast path; when the outbox is full the envelope is
// dropped, consistent with best-effort delivery.
type Redis struct {
	client   *redis.Client
	instance string
	deliver  DeliverFunc
	log      zerolog.Logger
	out      chan Envelope
	cancel   context.CancelFunc
}

// NewRedis connects, starts the subscriber and writer loops, and
// returns the adapter. deliver is invoked for every remote envelope.
func NewRedis(ctx context.Context, redisURL string, deliver DeliverFunc, log zerolog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r := &Redis{
		client:   client,
		instance: uuid.New().String(),
		deliver:  deliver,
		log:      log,
		out:      make(chan Envelope, 256),
		cancel:   cancel,
	}
	go r.writeLoop(runCtx)
	go r.readLoop(runCtx)
	return r, nil
}

// Publish enqueues an envelope for the sibling processes. Never blocks.
func (r *Redis) Publish(roomID, event string, data json.RawMessage) error {
	env := Envelope{Instance: r.instance, RoomID: roomID, Event: event, Data: data}
	select {
	case r.out <- env:
		return nil
	default:
		r.log.Warn().Str("room", roomID).Msg("fanout outbox full, envelope dropped")
		return nil
	}
}

// Ping checks the redis connection, for the health surface.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close stops both loops and closes the connection.
func (r *Redis) Close() error {
	r.cancel()
	return r.client.Close()
}

func (r *Redis) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-r.out:
			payload, err := json.Marshal(env)
			if err != nil {
				continue
			}
			if err := r.client.Publish(ctx, channelName, payload).Err(); err != nil {
				r.log.Warn().Err(err).Msg("fanout publish failed")
			}
		}
	}
}

func (r *Redis) readLoop(ctx context.Context) {
	sub := r.client.Subscribe(ctx, channelName)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				r.log.Warn().Err(err).Msg("fanout envelope decode failed")
				continue
			}
			r.handleEnvelope(env)
		}
	}
}

// handleEnvelope delivers a subscribed envelope to the local hub.
// Envelopes this instance published are skipped: local delivery already
// happened before the publish.
func (r *Redis) handleEnvelope(env Envelope) {
	if env.Instance == r.instance {
		return
	}
	r.deliver(env.RoomID, env.Event, env.Data)
}
