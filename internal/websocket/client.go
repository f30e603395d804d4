package websocket

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"vgsales/internal/infrastructure"
	"vgsales/pkg/contracts/events"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Default time allowed to read the next pong message from the peer
	defaultPongWait = 60 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 512

	sendBufferSize = 256
)

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub  *Hub
	conn Connection

	// Buffered channel of outbound messages. Only the hub closes it.
	send chan []byte

	id          string
	traceID     string
	remoteAddr  string
	connectedAt time.Time

	pongWait   time.Duration
	pingPeriod time.Duration

	logger *slog.Logger
}

// NewClient creates a client for an upgraded connection. traceID ties the
// client's log lines to the upgrade request.
func NewClient(hub *Hub, conn Connection, traceID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	id := uuid.NewString()
	logger = logger.With(
		slog.String("component", "websocket.client"),
		slog.String("client_id", id),
	)
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		id:          id,
		traceID:     traceID,
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		pongWait:    defaultPongWait,
		pingPeriod:  (defaultPongWait * 9) / 10,
		logger:      logger,
	}
}

// SetKeepalive overrides the pong wait and ping period. The ping period must
// be shorter than the pong wait.
func (c *Client) SetKeepalive(pingPeriod, pongWait time.Duration) {
	if pongWait > 0 {
		c.pongWait = pongWait
	}
	if pingPeriod > 0 && pingPeriod < c.pongWait {
		c.pingPeriod = pingPeriod
	} else {
		c.pingPeriod = (c.pongWait * 9) / 10
	}
}

// ID returns the client id.
func (c *Client) ID() string {
	return c.id
}

func (c *Client) context() context.Context {
	ctx := context.Background()
	if c.traceID != "" {
		ctx = infrastructure.WithTraceID(ctx, c.traceID)
	}
	return ctx
}

// ReadPump reads client requests until the connection fails, then
// unregisters the client.
func (c *Client) ReadPump() {
	ctx := c.context()
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
				c.logger.WarnContext(ctx, "Unexpected WebSocket close error",
					slog.String("error", err.Error()))
			}
			return
		}
		c.handle(ctx, bytes.TrimSpace(message))
	}
}

func (c *Client) handle(ctx context.Context, message []byte) {
	var req struct {
		Type events.MessageType `json:"type"`
	}
	if err := json.Unmarshal(message, &req); err != nil || req.Type == "" {
		c.hub.metrics.received(ctx, "invalid")
		c.reply(ctx, events.MessageTypeError, events.ErrorData{
			Code:    "INVALID_MESSAGE",
			Message: "messages must be JSON objects with a type",
		})
		return
	}
	c.hub.metrics.received(ctx, string(req.Type))

	switch req.Type {
	case events.MessageTypeHeartbeat:
		c.logger.DebugContext(ctx, "Heartbeat received")
	case events.MessageTypeSystemStatus:
		c.reply(ctx, events.MessageTypeSystemStatus, c.hub.Status())
	default:
		c.reply(ctx, events.MessageTypeError, events.ErrorData{
			Code:    "UNSUPPORTED_MESSAGE",
			Message: "unsupported message type " + string(req.Type),
		})
	}
}

func (c *Client) reply(ctx context.Context, msgType events.MessageType, data interface{}) {
	if err := c.hub.sendTo(ctx, c, msgType, data); err != nil {
		c.logger.DebugContext(ctx, "Reply not sent", slog.String("error", err.Error()))
	}
}

// WritePump writes hub messages and keepalive pings to the connection until
// the hub closes the send channel or a write fails.
func (c *Client) WritePump() {
	ctx := c.context()
	ticker := time.NewTicker(c.pingPeriod)
	sent := 0
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger.InfoContext(ctx, "WebSocket write pump stopped",
			slog.Int("messages_sent", sent))
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
				c.logger.ErrorContext(ctx, "Error writing message to WebSocket",
					slog.String("error", err.Error()))
				return
			}
			sent++
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.DebugContext(ctx, "Failed to send ping message",
					slog.String("error", err.Error()))
				return
			}
		}
	}
}
