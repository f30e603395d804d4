package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"vgsales/internal/infrastructure"
	"vgsales/pkg/contracts/domain"
	"vgsales/pkg/contracts/events"
)

// ErrHubStopped is returned when sending through a stopped hub.
var ErrHubStopped = errors.New("websocket hub stopped")

// Disconnect reasons.
const (
	reasonClosed   = "closed"
	reasonSlow     = "slow_consumer"
	reasonShutdown = "shutdown"
)

// outbound is a serialized message for every client, or only target.
type outbound struct {
	msgType string
	data    []byte
	target  *Client
}

// Hub maintains the set of active clients and pushes dataset events to them.
// All client bookkeeping happens on the run goroutine.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	outbound   chan outbound

	mu      sync.RWMutex
	running bool
	quit    chan struct{}
	done    chan struct{}

	records func() int
	metrics *OTelMetrics
	logger  *slog.Logger
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithRecordCount sets the function reporting the served record count, sent
// in connect and status messages.
func WithRecordCount(fn func() int) HubOption {
	return func(h *Hub) { h.records = fn }
}

// WithMetrics records hub activity on m.
func WithMetrics(m *OTelMetrics) HubOption {
	return func(h *Hub) { h.metrics = m }
}

// NewHub creates a hub. It does nothing until Start is called.
func NewHub(logger *slog.Logger, opts ...HubOption) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	h := &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan outbound, 16),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		records:    func() int { return 0 },
		logger:     infrastructure.WithComponent(logger, "websocket.hub"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start runs the hub loop. A stopped hub cannot be started again.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	select {
	case <-h.quit:
		return
	default:
	}
	h.running = true
	go h.run()
}

// Stop closes every client and waits for the hub loop to exit.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	close(h.quit)
	h.mu.Unlock()
	<-h.done
}

func (h *Hub) run() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			h.closeAll()
			h.logger.Info("Hub shutting down")
			return
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c, reasonClosed)
		case msg := <-h.outbound:
			h.deliver(msg)
		}
	}
}

// Register adds a client. It returns false when the hub is stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	ctx := c.context()
	infrastructure.WebSocketClients.Set(float64(count))
	h.metrics.connected(ctx)
	h.logger.InfoContext(ctx, "Client registered",
		slog.Int("total_clients", count),
		slog.String("client_id", c.id),
		slog.String("remote_addr", c.remoteAddr))

	welcome, err := h.encode(ctx, events.MessageTypeConnect, events.ConnectInfo{
		ClientID: c.id,
		Protocol: events.ProtocolVersion,
		Records:  h.records(),
	})
	if err == nil {
		h.deliver(outbound{msgType: string(events.MessageTypeConnect), data: welcome, target: c})
	}
}

func (h *Hub) remove(c *Client, reason string) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	count := len(h.clients)
	h.mu.Unlock()

	ctx := c.context()
	infrastructure.WebSocketClients.Set(float64(count))
	h.metrics.disconnected(ctx, time.Since(c.connectedAt), reason)

	level := slog.LevelInfo
	if reason == reasonSlow {
		level = slog.LevelWarn
	}
	h.logger.Log(ctx, level, "Client unregistered",
		slog.Int("total_clients", count),
		slog.String("client_id", c.id),
		slog.String("reason", reason),
		slog.Duration("connection_duration", time.Since(c.connectedAt)))
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		h.remove(c, reasonShutdown)
	}
}

// deliver queues msg without blocking. A client whose buffer is full is
// disconnected.
func (h *Hub) deliver(msg outbound) {
	var targets []*Client
	h.mu.RLock()
	if msg.target != nil {
		if _, ok := h.clients[msg.target]; ok {
			targets = []*Client{msg.target}
		}
	} else {
		targets = make([]*Client, 0, len(h.clients))
		for c := range h.clients {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range targets {
		select {
		case c.send <- msg.data:
			sent++
		default:
			h.remove(c, reasonSlow)
		}
	}
	h.metrics.sent(context.Background(), msg.msgType, sent)

	if msg.target == nil {
		h.logger.Debug("Message broadcast",
			slog.String("type", msg.msgType),
			slog.Int("clients", sent),
			slog.Int("dropped", len(targets)-sent))
	}
}

func (h *Hub) encode(ctx context.Context, msgType events.MessageType, data interface{}) ([]byte, error) {
	msg := events.WebSocketMessage{
		BaseMessage: events.BaseMessage{
			ID:        uuid.NewString(),
			Type:      msgType,
			Timestamp: time.Now().UTC(),
			TraceID:   infrastructure.GetTraceID(ctx),
		},
		Data: data,
	}
	b, err := json.Marshal(msg)
	if err != nil {
		h.logger.ErrorContext(ctx, "Error marshaling message",
			slog.String("message_type", string(msgType)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("marshal %s message: %w", msgType, err)
	}
	return b, nil
}

func (h *Hub) send(ctx context.Context, msg outbound) error {
	select {
	case <-h.quit:
		return ErrHubStopped
	default:
	}
	select {
	case h.outbound <- msg:
		return nil
	case <-h.quit:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Broadcast sends a message of the given type to every connected client.
func (h *Hub) Broadcast(ctx context.Context, msgType events.MessageType, data interface{}) error {
	b, err := h.encode(ctx, msgType, data)
	if err != nil {
		return err
	}
	return h.send(ctx, outbound{msgType: string(msgType), data: b})
}

// sendTo queues a message for a single client.
func (h *Hub) sendTo(ctx context.Context, c *Client, msgType events.MessageType, data interface{}) error {
	b, err := h.encode(ctx, msgType, data)
	if err != nil {
		return err
	}
	return h.send(ctx, outbound{msgType: string(msgType), data: b, target: c})
}

// Status describes the hub for system:status replies.
func (h *Hub) Status() events.SystemStatus {
	return events.SystemStatus{
		Clients:  h.ClientCount(),
		Records:  h.records(),
		Protocol: events.ProtocolVersion,
	}
}

// DatasetReloaded announces a new dataset. Its signature matches the dataset
// store reload hook.
func (h *Hub) DatasetReloaded(ctx context.Context, ds *domain.Dataset) {
	payload := events.DatasetReloaded{
		Path:         ds.Path,
		Records:      ds.Len(),
		InvalidYears: ds.Report.InvalidYears,
		LoadedAt:     ds.LoadedAt,
	}
	if err := h.Broadcast(ctx, events.MessageTypeDatasetReloaded, payload); err != nil {
		h.logger.WarnContext(ctx, "Failed to broadcast dataset reload",
			slog.String("error", err.Error()))
	}
}

// DatasetFailed announces a failed reload. The previous dataset stays active.
func (h *Hub) DatasetFailed(ctx context.Context, path string, cause error) {
	payload := events.DatasetFailed{Path: path, Error: cause.Error()}
	if err := h.Broadcast(ctx, events.MessageTypeDatasetFailed, payload); err != nil {
		h.logger.WarnContext(ctx, "Failed to broadcast dataset failure",
			slog.String("error", err.Error()))
	}
}
