// Package events contains the WebSocket message contracts pushed to
// dashboard clients.
package events

import (
	"time"

	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// MessageTypeConnect greets a newly registered client.
	MessageTypeConnect MessageType = "connection"

	// MessageTypeDatasetLoaded announces that the current dataset was replaced.
	MessageTypeDatasetLoaded MessageType = "dataset:loaded"

	// MessageTypeDatasetFailed reports a load that left the current dataset untouched.
	MessageTypeDatasetFailed MessageType = "dataset:failed"
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

// ConnectionData is the payload of MessageTypeConnect.
type ConnectionData struct {
	Status   string `json:"status"`
	ClientID string `json:"client_id"`
}

// DatasetLoaded is the payload of MessageTypeDatasetLoaded. Clients refetch
// the summary and table when they receive it.
type DatasetLoaded struct {
	Dataset  domain.DatasetInfo `json:"dataset"`
	Critical int                `json:"critical"`
	Warning  int                `json:"warning"`
}

// DatasetFailed is the payload of MessageTypeDatasetFailed.
type DatasetFailed struct {
	Source  domain.DatasetSource `json:"source"`
	Name    string               `json:"name,omitempty"`
	Message string               `json:"message"`
}
