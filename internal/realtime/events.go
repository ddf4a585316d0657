package realtime

import "encoding/json"

// Inbound event names, sent by clients over the websocket transport.
const (
	EventIdentify      = "identify"
	EventJoinGroup     = "joinGroup"
	EventJoinChallenge = "joinChallenge"
	EventSendMessage   = "sendMessage"
	EventHeartbeat     = "heartbeat"
	EventTyping        = "typing"
	EventDisconnect    = "disconnect"
)

// Outbound event names, pushed by the server into rooms.
const (
	EventNewMessage             = "newMessage"
	EventMemberActive           = "memberActive"
	EventMemberCountUpdate      = "memberCountUpdate"
	EventParticipantJoined      = "participantJoined"
	EventParticipantCountUpdate = "participantCountUpdate"
	EventUserTyping             = "userTyping"
	EventLeaderboardUpdate      = "leaderboardUpdate"
)

// outboundEvents is the set of names the Broadcast Gateway accepts from
// non-socket publishers.
var outboundEvents = map[string]bool{
	EventNewMessage:             true,
	EventMemberActive:           true,
	EventMemberCountUpdate:      true,
	EventParticipantJoined:      true,
	EventParticipantCountUpdate: true,
	EventUserTyping:             true,
	EventLeaderboardUpdate:      true,
}

// IsOutboundEvent reports whether name is a known server-to-client event.
func IsOutboundEvent(name string) bool {
	return outboundEvents[name]
}

// Envelope is the wire framing for every event in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// EncodeFrame marshals an envelope around already-encoded payload bytes.
func EncodeFrame(event string, data json.RawMessage) ([]byte, error) {
	return json.Marshal(Envelope{Event: event, Data: data})
}

// MemberEvent announces a member's activity or arrival in a room.
type MemberEvent struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Image  string `json:"image,omitempty"`
}

// CountEvent carries a room's current member count.
type CountEvent struct {
	RoomID string `json:"roomId"`
	Count  int    `json:"count"`
}

// TypingEvent relays a typing-indicator transition. The server keeps no
// typing state; receivers expire the indicator locally.
type TypingEvent struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	Name     string `json:"name,omitempty"`
	IsTyping bool   `json:"isTyping"`
}

// activeEventName returns the kind-appropriate arrival event name.
func activeEventName(kind RoomKind) string {
	if kind == RoomChallenge {
		return EventParticipantJoined
	}
	return EventMemberActive
}

// countEventName returns the kind-appropriate count event name.
func countEventName(kind RoomKind) string {
	if kind == RoomChallenge {
		return EventParticipantCountUpdate
	}
	return EventMemberCountUpdate
}
