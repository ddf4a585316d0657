package models

// ChatMessage is a relayed chat message enriched with sender identity.
// The shape stays compatible with the persistence API's message record
// (room id, sender id, content, timestamp); delivery is this service's
// job, storage is not.
type ChatMessage struct {
	ID          string `json:"id"` // ULID, stable across optimistic-echo reconciliation
	RoomID      string `json:"roomId"`
	SenderID    string `json:"senderId"`
	SenderName  string `json:"senderName,omitempty"`
	SenderImage string `json:"senderImage,omitempty"`
	Content     string `json:"content"`
	Timestamp   int64  `json:"ts"` // Unix ms, server-assigned
}
