package ws

import (
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/kiranchoudharyy/BroCode-sub000/internal/realtime"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 256
)

// errSendBufferFull tells the hub this peer cannot keep up; the hub
// drops it rather than waiting.
var errSendBufferFull = errors.New("ws: send buffer full")

// Conn adapts one gorilla websocket connection into a realtime.Sink.
// Outbound frames pass through a buffered channel drained by a single
// writer goroutine, which preserves per-connection ordering.
type Conn struct {
	id    string
	ws    *websocket.Conn
	send  chan []byte
	done  chan struct{} // closed by readPump so writePump exits promptly
	coord *realtime.Coordinator
	log   zerolog.Logger

	maxPayload int64
}

func newConn(id string, wsc *websocket.Conn, coord *realtime.Coordinator, maxPayload int64, log zerolog.Logger) *Conn {
	return &Conn{
		id:         id,
		ws:         wsc,
		send:       make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
		coord:      coord,
		log:        log,
		maxPayload: maxPayload,
	}
}

// ID returns the transport-assigned connection identifier.
func (c *Conn) ID() string { return c.id }

// Send queues a frame for the writer goroutine. Never blocks.
func (c *Conn) Send(frame []byte) error {
	select {
	case c.send <- frame:
		return nil
	default:
		return errSendBufferFull
	}
}

func (c *Conn) start() {
	go c.writePump()
	go c.readPump()
}

func (c *Conn) readPump() {
	defer func() {
		c.coord.Disconnect(c.id)
		c.ws.Close()
		close(c.done)
	}()

	c.ws.SetReadLimit(c.maxPayload)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Debug().Str("conn", c.id).Err(err).Msg("read error")
			}
			return
		}
		c.dispatch(data)
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
