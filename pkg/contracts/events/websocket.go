// Package events contains the WebSocket event contracts pushed to dashboard clients.
package events

import (
	"time"
)

// ProtocolVersion is sent in the connect message.
const ProtocolVersion = "1.0"

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Dataset messages
	MessageTypeDatasetReloaded MessageType = "dataset:reloaded"
	MessageTypeDatasetFailed   MessageType = "dataset:failed"

	// System messages. A client sends system:status to request one.
	MessageTypeSystemStatus MessageType = "system:status"
	MessageTypeHeartbeat    MessageType = "heartbeat"

	// Connection messages
	MessageTypeConnect    MessageType = "connect"
	MessageTypeDisconnect MessageType = "disconnect"
	MessageTypeError      MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data interface{} `json:"data,omitempty"`
}

// DatasetReloaded is the payload of MessageTypeDatasetReloaded.
type DatasetReloaded struct {
	Path         string    `json:"path"`
	Records      int       `json:"records"`
	InvalidYears int       `json:"invalid_years"`
	LoadedAt     time.Time `json:"loaded_at"`
}

// DatasetFailed is the payload of MessageTypeDatasetFailed.
type DatasetFailed struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// ConnectInfo is the payload of MessageTypeConnect.
type ConnectInfo struct {
	ClientID string `json:"client_id"`
	Protocol string `json:"protocol"`
	Records  int    `json:"records"`
}

// SystemStatus is the payload of MessageTypeSystemStatus.
type SystemStatus struct {
	Clients  int    `json:"clients"`
	Records  int    `json:"records"`
	Protocol string `json:"protocol"`
}

// ErrorData is the payload of MessageTypeError.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
