package websocket

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/tomtap1997/dashbord-tr/internal/config"
)

// Handler upgrades HTTP requests and attaches the connection to a hub.
type Handler struct {
	hub        *Hub
	upgrader   websocket.Upgrader
	pongWait   time.Duration
	pingPeriod time.Duration
	logger     *slog.Logger
}

// NewHandler creates an upgrade handler. Requests without an Origin header
// are accepted; otherwise the origin must be listed, or the list must
// contain "*". Zero timings fall back to the client defaults; a ping period
// that is not shorter than the pong wait is ignored.
func NewHandler(hub *Hub, cfg config.WebSocketConfig, allowedOrigins []string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(strings.TrimSpace(o), "/")] = true
	}

	pongWait := defaultPongWait
	if cfg.PongWait > 0 {
		pongWait = cfg.PongWait
	}
	pingPeriod := (pongWait * 9) / 10
	if cfg.PingPeriod > 0 && cfg.PingPeriod < pongWait {
		pingPeriod = cfg.PingPeriod
	}

	return &Handler{
		hub:        hub,
		pongWait:   pongWait,
		pingPeriod: pingPeriod,
		logger:     logger.With(slog.String("component", "websocket.handler")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		h.logger.WarnContext(r.Context(), "WebSocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("origin", r.Header.Get("Origin")))
		return
	}

	client := NewClient(h.hub, gorillaConn{conn}, middleware.GetReqID(r.Context()), h.logger)
	client.pongWait = h.pongWait
	client.pingPeriod = h.pingPeriod
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
