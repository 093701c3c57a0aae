package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtap1997/dashbord-tr/internal/infrastructure"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts/events"
)

const broadcastBuffer = 64

// Hub maintains the set of active clients and broadcasts messages to them.
// Only Run touches the client map's membership; other goroutines go through
// the channels.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger *slog.Logger

	totalConnections int64
	messagesSent     int64
	messagesDropped  int64

	quit    chan struct{}
	done    chan struct{}
	running bool
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start runs the hub loop in its own goroutine. Calling it twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
}

func (h *Hub) run() {
	defer close(h.done)

	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("Hub shut down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.totalConnections++
			count := len(h.clients)
			h.mu.Unlock()

			ctx := infrastructure.WithTraceID(context.Background(), client.traceID)
			h.logger.InfoContext(ctx, "Client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			welcome, err := encode(ctx, events.MessageTypeConnect, events.ConnectionData{
				Status:   "connected",
				ClientID: client.id,
			})
			if err == nil {
				select {
				case client.send <- welcome:
				default:
					h.logger.WarnContext(ctx, "Client buffer full, welcome dropped",
						slog.String("client_id", client.id))
				}
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.Info("Client unregistered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.Duration("connection_duration", time.Since(client.connectedAt)))

		case message := <-h.broadcast:
			h.mu.Lock()
			sent := 0
			for client := range h.clients {
				select {
				case client.send <- message:
					sent++
				default:
					// slow consumer
					close(client.send)
					delete(h.clients, client)
					h.logger.Warn("Client send buffer full, disconnecting",
						slog.String("client_id", client.id))
				}
			}
			h.messagesSent += int64(sent)
			h.mu.Unlock()

			h.logger.Debug("Broadcast delivered",
				slog.Int("client_count", sent),
				slog.Int("message_size", len(message)))
		}
	}
}

// Broadcast queues a typed message for every connected client. The trace id
// in ctx, if any, is copied onto the message. Messages are dropped when the
// hub is stopped or its queue is full.
func (h *Hub) Broadcast(ctx context.Context, msgType events.MessageType, data interface{}) {
	payload, err := encode(ctx, msgType, data)
	if err != nil {
		h.logger.ErrorContext(ctx, "Error marshaling message",
			slog.String("error", err.Error()),
			slog.String("message_type", string(msgType)))
		return
	}

	select {
	case <-h.quit:
		return
	default:
	}

	select {
	case h.broadcast <- payload:
	default:
		h.mu.Lock()
		h.messagesDropped++
		h.mu.Unlock()
		h.logger.WarnContext(ctx, "Broadcast queue full, message dropped",
			slog.String("message_type", string(msgType)))
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
		close(client.send)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns counters for the health endpoint.
func (h *Hub) Stats() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return map[string]interface{}{
		"active_clients":    len(h.clients),
		"total_connections": h.totalConnections,
		"messages_sent":     h.messagesSent,
		"messages_dropped":  h.messagesDropped,
	}
}

// Stop shuts the hub down and closes every client's send channel. It blocks
// until the loop has exited.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	<-h.done
}

func encode(ctx context.Context, msgType events.MessageType, data interface{}) ([]byte, error) {
	return json.Marshal(events.WebSocketMessage{
		BaseMessage: events.BaseMessage{
			ID:        uuid.NewString(),
			Type:      msgType,
			Timestamp: time.Now().UTC(),
			TraceID:   infrastructure.GetTraceID(ctx),
		},
		Data: data,
	})
}
