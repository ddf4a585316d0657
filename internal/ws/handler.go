// Package ws is the persistent transport for the realtime core: one
// websocket per client, named events in a JSON envelope both ways.
// Clients without a live socket fall back to polling the REST surface.
package ws

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/kiranchoudharyy/BroCode-sub000/internal/models"
	"github.com/kiranchoudharyy/BroCode-sub000/internal/realtime"
)

// Server upgrades HTTP requests and dispatches inbound events to the
// coordinator.
type Server struct {
	coord      *realtime.Coordinator
	upgrader   websocket.Upgrader
	maxPayload int64
	log        zerolog.Logger
}

// NewServer creates the websocket endpoint handler.
func NewServer(coord *realtime.Coordinator, maxPayload int64, log zerolog.Logger) *Server {
	return &Server{
		coord: coord,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from the platform's web origin;
			// origin policy is enforced at the edge proxy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		maxPayload: maxPayload,
		log:        log,
	}
}

// Handle is the GET /ws endpoint.
func (s *Server) Handle(w http.ResponseWriter, r *http.Request) {
	wsc, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := newConn(uuid.New().String(), wsc, s.coord, s.maxPayload, s.log)
	s.coord.Connect(conn.id)
	conn.start()
}

// Inbound payload shapes. Unknown fields are ignored; missing room IDs
// make the event a no-op.
type joinGroupPayload struct {
	GroupID string `json:"groupId"`
}

type joinChallengePayload struct {
	ChallengeID string `json:"challengeId"`
}

type messagePayload struct {
	RoomID  string `json:"roomId"`
	GroupID string `json:"groupId"` // legacy field name used by group chat clients
	Content string `json:"content"`
}

type heartbeatPayload struct {
	RoomID   string `json:"roomId"`
	RoomType string `json:"roomType,omitempty"`
}

type typingPayload struct {
	RoomID   string `json:"roomId"`
	IsTyping bool   `json:"isTyping"`
}

// dispatch decodes one inbound frame and routes it. Malformed frames
// are dropped at debug level; a transport hiccup must never take the
// connection down.
func (c *Conn) dispatch(data []byte) {
	var env realtime.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.log.Debug().Str("conn", c.id).Err(err).Msg("malformed frame")
		return
	}

	switch env.Event {
	case realtime.EventIdentify:
		var identity models.Identity
		if err := json.Unmarshal(env.Data, &identity); err != nil {
			return
		}
		c.coord.Identify(c.id, identity)

	case realtime.EventJoinGroup:
		var p joinGroupPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.GroupID == "" {
			return
		}
		c.coord.JoinRoom(c.id, p.GroupID, realtime.RoomGroup, c)

	case realtime.EventJoinChallenge:
		var p joinChallengePayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.ChallengeID == "" {
			return
		}
		c.coord.JoinRoom(c.id, p.ChallengeID, realtime.RoomChallenge, c)

	case realtime.EventSendMessage:
		var p messagePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		roomID := p.RoomID
		if roomID == "" {
			roomID = p.GroupID
		}
		if roomID == "" {
			return
		}
		if _, err := c.coord.RelayMessage(c.id, roomID, p.Content); err != nil {
			c.log.Debug().Str("conn", c.id).Str("room", roomID).Msg("message not delivered")
		}

	case realtime.EventHeartbeat:
		var p heartbeatPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.RoomID == "" {
			return
		}
		kind := realtime.RoomGroup
		if p.RoomType == string(realtime.RoomChallenge) {
			kind = realtime.RoomChallenge
		}
		c.coord.Heartbeat(c.id, p.RoomID, kind, c)

	case realtime.EventTyping:
		var p typingPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.RoomID == "" {
			return
		}
		c.coord.RelayTyping(c.id, p.RoomID, p.IsTyping)

	case realtime.EventDisconnect:
		// Client-initiated teardown. Closing the socket ends the read
		// pump, whose exit path runs the coordinator disconnect.
		c.ws.Close()

	default:
		c.log.Debug().Str("conn", c.id).Str("event", env.Event).Msg("unknown event")
	}
}
