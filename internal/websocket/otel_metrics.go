package websocket

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "vgsales/websocket"

// OTelMetrics provides OpenTelemetry metrics for the event hub. A nil
// *OTelMetrics records nothing.
type OTelMetrics struct {
	connectionsTotal   metric.Int64Counter
	connectionsActive  metric.Int64UpDownCounter
	connectionDuration metric.Float64Histogram
	messagesSent       metric.Int64Counter
	messagesReceived   metric.Int64Counter
	droppedClients     metric.Int64Counter
}

// NewOTelMetrics creates the hub instruments. A nil meter uses the global
// meter provider.
func NewOTelMetrics(meter metric.Meter) (*OTelMetrics, error) {
	if meter == nil {
		meter = otel.Meter(meterName)
	}
	m := &OTelMetrics{}
	var err error

	if m.connectionsTotal, err = meter.Int64Counter("websocket_connections_total",
		metric.WithDescription("Total number of WebSocket connections")); err != nil {
		return nil, err
	}
	if m.connectionsActive, err = meter.Int64UpDownCounter("websocket_connections_active",
		metric.WithDescription("Number of active WebSocket connections")); err != nil {
		return nil, err
	}
	if m.connectionDuration, err = meter.Float64Histogram("websocket_connection_duration_seconds",
		metric.WithDescription("Duration of WebSocket connections"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.messagesSent, err = meter.Int64Counter("websocket_messages_sent_total",
		metric.WithDescription("Messages queued to clients by type")); err != nil {
		return nil, err
	}
	if m.messagesReceived, err = meter.Int64Counter("websocket_messages_received_total",
		metric.WithDescription("Messages received from clients")); err != nil {
		return nil, err
	}
	if m.droppedClients, err = meter.Int64Counter("websocket_dropped_clients_total",
		metric.WithDescription("Clients disconnected because their send buffer was full")); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *OTelMetrics) connected(ctx context.Context) {
	if m == nil {
		return
	}
	m.connectionsTotal.Add(ctx, 1)
	m.connectionsActive.Add(ctx, 1)
}

func (m *OTelMetrics) disconnected(ctx context.Context, d time.Duration, reason string) {
	if m == nil {
		return
	}
	m.connectionsActive.Add(ctx, -1)
	m.connectionDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("reason", reason)))
	if reason == reasonSlow {
		m.droppedClients.Add(ctx, 1)
	}
}

func (m *OTelMetrics) sent(ctx context.Context, messageType string, clients int) {
	if m == nil || clients == 0 {
		return
	}
	m.messagesSent.Add(ctx, int64(clients), metric.WithAttributes(attribute.String("type", messageType)))
}

func (m *OTelMetrics) received(ctx context.Context, messageType string) {
	if m == nil {
		return
	}
	m.messagesReceived.Add(ctx, 1, metric.WithAttributes(attribute.String("type", messageType)))
}
