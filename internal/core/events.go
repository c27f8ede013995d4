package core

import "encoding/json"

// Event names on the wire. Inbound ones arrive from clients, outbound ones
// are produced by the session layer.
const (
	EventJoinRoom    = "join_room"
	EventLeaveRoom   = "leave_room"
	EventSendMessage = "send_message"
	EventSendPrivate = "send_private_message"
	EventSendFile    = "send_file"
	EventSendImage   = "send_image"

	EventAllUsers         = "all_users"
	EventRoomUsers        = "room_users"
	EventUserConnected    = "user_connected"
	EventUserDisconnected = "user_disconnected"
	EventReceiveMessage   = "receive_message"
	EventReceivePrivate   = "receive_private_message"
	EventReceiveFile      = "receive_file"
	EventReceiveImage     = "receive_image"
)

// Envelope is the wire framing for every event in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Outbound payloads. Time fields pass through opaquely from the sender.
type (
	MessagePayload struct {
		Author  string `json:"author"`
		Message string `json:"message"`
		Time    string `json:"time,omitempty"`
	}

	PrivateMessagePayload struct {
		From    string `json:"from"`
		Message string `json:"message"`
		Time    string `json:"time,omitempty"`
	}

	FilePayload struct {
		Author   string `json:"author"`
		Filename string `json:"filename"`
		File     string `json:"file"`
		Time     string `json:"time,omitempty"`
	}

	ImagePayload struct {
		Author    string `json:"author"`
		ImageURL  string `json:"imageUrl"`
		Timestamp string `json:"timestamp,omitempty"`
	}
)
