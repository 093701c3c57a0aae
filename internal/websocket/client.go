package websocket

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tomtap1997/dashbord-tr/internal/infrastructure"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	defaultPongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	defaultPingPeriod = (defaultPongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	sendBuffer = 256
)

var heartbeat = []byte(`{"type":"heartbeat"}`)

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub  *Hub
	conn Connection

	// Buffered channel of outbound messages. Closed by the hub.
	send chan []byte

	id          string
	traceID     string
	remoteAddr  string
	connectedAt time.Time

	pongWait   time.Duration
	pingPeriod time.Duration

	logger *slog.Logger
}

// NewClient wraps conn for hub. The trace id ties the connection's log lines
// to the upgrade request.
func NewClient(hub *Hub, conn Connection, traceID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	id := uuid.NewString()
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		id:          id,
		traceID:     traceID,
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		pongWait:    defaultPongWait,
		pingPeriod:  defaultPingPeriod,
		logger: logger.With(
			slog.String("component", "websocket.client"),
			slog.String("client_id", id),
		),
	}
}

// ID returns the client's unique identifier.
func (c *Client) ID() string {
	return c.id
}

func (c *Client) ctx() context.Context {
	return infrastructure.WithTraceID(context.Background(), c.traceID)
}

// ReadPump drains the connection until it fails. Clients only send
// heartbeats; anything else is ignored.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.ErrorContext(c.ctx(), "Unexpected WebSocket close error",
					slog.String("error", err.Error()))
			}
			return
		}

		if bytes.Equal(bytes.TrimSpace(message), heartbeat) {
			c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
			continue
		}
		c.logger.DebugContext(c.ctx(), "Ignoring client message",
			slog.Int("size", len(message)))
	}
}

// WritePump pumps messages from the hub to the websocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.ErrorContext(c.ctx(), "Error writing message to WebSocket",
					slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.DebugContext(c.ctx(), "Failed to send ping message",
					slog.String("error", err.Error()))
				return
			}
		}
	}
}
