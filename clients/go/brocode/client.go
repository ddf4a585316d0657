// Package brocode provides a Go client for the BroCode realtime
// server. Platform services use it when they need a live subscription
// to a room instead of the polling fallback; the repository's
// end-to-end tests drive the server through it.
package brocode

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one decoded server-to-client envelope.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client is a connected realtime session.
type Client struct {
	conn   *websocket.Conn
	events chan Event

	writeMu sync.Mutex
	closing chan struct{}
	once    sync.Once
}

// Dial connects to a realtime server. baseURL accepts http(s) or ws(s)
// schemes; the /ws path is appended when missing.
func Dial(ctx context.Context, baseURL string) (*Client, error) {
	wsURL := strings.Replace(baseURL, "http", "ws", 1)
	if !strings.HasSuffix(wsURL, "/ws") {
		wsURL = strings.TrimRight(wsURL, "/") + "/ws"
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", wsURL, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	c := &Client{
		conn:    conn,
		events:  make(chan Event, 64),
		closing: make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Close tears down the connection; the server treats it as a transport
// disconnect.
func (c *Client) Close() error {
	c.once.Do(func() { close(c.closing) })
	return c.conn.Close()
}

// Events returns the stream of server events. The channel closes when
// the connection drops.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Identify announces the user tuple for this connection.
func (c *Client) Identify(userID, name, image string) error {
	return c.send("identify", map[string]string{
		"userId": userID,
		"name":   name,
		"image":  image,
	})
}

// JoinGroup enters a group room.
func (c *Client) JoinGroup(groupID string) error {
	return c.send("joinGroup", map[string]string{"groupId": groupID})
}

// JoinChallenge enters a challenge room.
func (c *Client) JoinChallenge(challengeID string) error {
	return c.send("joinChallenge", map[string]string{"challengeId": challengeID})
}

// Heartbeat refreshes presence in a room. roomType is "group" or
// "challenge"; empty means group.
func (c *Client) Heartbeat(roomID, roomType string) error {
	return c.send("heartbeat", map[string]string{
		"roomId":   roomID,
		"roomType": roomType,
	})
}

// SendMessage relays a chat message into a room.
func (c *Client) SendMessage(roomID, content string) error {
	return c.send("sendMessage", map[string]string{
		"roomId":  roomID,
		"content": content,
	})
}

// Typing signals a typing-indicator transition.
func (c *Client) Typing(roomID string, isTyping bool) error {
	return c.send("typing", map[string]any{
		"roomId":   roomID,
		"isTyping": isTyping,
	})
}

// Disconnect asks the server to tear the session down. The transport
// close that follows is observed as a closed Events channel.
func (c *Client) Disconnect() error {
	return c.send("disconnect", nil)
}

// WaitFor blocks until an event with the given name arrives, skipping
// others, or the timeout elapses.
func (c *Client) WaitFor(name string, timeout time.Duration) (Event, error) {
	deadline := time.After(timeout)
	for {
		select {
		case evt, ok := <-c.events:
			if !ok {
				return Event{}, fmt.Errorf("connection closed waiting for %s", name)
			}
			if evt.Event == name {
				return evt, nil
			}
		case <-deadline:
			return Event{}, fmt.Errorf("timed out waiting for %s", name)
		}
	}
}

func (c *Client) send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(Event{Event: event, Data: data})
}

func (c *Client) readLoop() {
	defer close(c.events)
	for {
		var evt Event
		if err := c.conn.ReadJSON(&evt); err != nil {
			return
		}
		select {
		case c.events <- evt:
		case <-c.closing:
			return
		}
	}
}
