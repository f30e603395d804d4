package websocket

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vgsales/internal/infrastructure"
	"vgsales/pkg/contracts/domain"
	"vgsales/pkg/contracts/events"
)

type decoded struct {
	events.BaseMessage
	Data json.RawMessage `json:"data"`
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startHub(t *testing.T, opts ...HubOption) *Hub {
	t.Helper()
	h := NewHub(testLogger(), opts...)
	h.Start()
	t.Cleanup(h.Stop)
	return h
}

func receive(t *testing.T, c *Client) decoded {
	t.Helper()
	select {
	case b, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var msg decoded
		require.NoError(t, json.Unmarshal(b, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
		return decoded{}
	}
}

func TestHubRegisterSendsWelcome(t *testing.T) {
	h := startHub(t, WithRecordCount(func() int { return 16598 }))
	c := NewClient(h, NewMockConnection(), "trace-1", testLogger())

	require.True(t, h.Register(c))
	msg := receive(t, c)
	assert.Equal(t, events.MessageTypeConnect, msg.Type)
	assert.Equal(t, "trace-1", msg.TraceID)
	assert.NotEmpty(t, msg.ID)

	var info events.ConnectInfo
	require.NoError(t, json.Unmarshal(msg.Data, &info))
	assert.Equal(t, c.ID(), info.ClientID)
	assert.Equal(t, events.ProtocolVersion, info.Protocol)
	assert.Equal(t, 16598, info.Records)
	assert.Equal(t, 1, h.ClientCount())
}

func TestHubBroadcastDatasetReloaded(t *testing.T) {
	h := startHub(t)
	clients := []*Client{
		NewClient(h, NewMockConnection(), "", testLogger()),
		NewClient(h, NewMockConnection(), "", testLogger()),
	}
	for _, c := range clients {
		require.True(t, h.Register(c))
		receive(t, c)
	}

	loadedAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	ds := domain.NewDataset("data/vgsales.csv", make([]domain.Record, 3),
		domain.CleanReport{Rows: 3, InvalidYears: 1}, loadedAt)
	ctx := infrastructure.WithTraceID(context.Background(), "reload-trace")
	h.DatasetReloaded(ctx, ds)

	for _, c := range clients {
		msg := receive(t, c)
		assert.Equal(t, events.MessageTypeDatasetReloaded, msg.Type)
		assert.Equal(t, "reload-trace", msg.TraceID)

		var payload events.DatasetReloaded
		require.NoError(t, json.Unmarshal(msg.Data, &payload))
		assert.Equal(t, "data/vgsales.csv", payload.Path)
		assert.Equal(t, 3, payload.Records)
		assert.Equal(t, 1, payload.InvalidYears)
		assert.True(t, loadedAt.Equal(payload.LoadedAt))
	}
}

func TestHubDatasetFailed(t *testing.T) {
	h := startHub(t)
	c := NewClient(h, NewMockConnection(), "", testLogger())
	require.True(t, h.Register(c))
	receive(t, c)

	h.DatasetFailed(context.Background(), "data/vgsales.csv", errors.New("missing required columns"))
	msg := receive(t, c)
	assert.Equal(t, events.MessageTypeDatasetFailed, msg.Type)

	var payload events.DatasetFailed
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Equal(t, "missing required columns", payload.Error)
}

func TestHubUnregisterClosesSend(t *testing.T) {
	h := startHub(t)
	c := NewClient(h, NewMockConnection(), "", testLogger())
	require.True(t, h.Register(c))
	receive(t, c)

	h.Unregister(c)
	assert.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	_, ok := <-c.send
	assert.False(t, ok)

	// A second unregister is ignored.
	h.Unregister(c)
}

func TestHubDropsSlowClient(t *testing.T) {
	h := startHub(t)
	slow := NewClient(h, NewMockConnection(), "", testLogger())
	fast := NewClient(h, NewMockConnection(), "", testLogger())
	require.True(t, h.Register(slow))
	require.True(t, h.Register(fast))
	receive(t, fast)

	// The welcome message is still queued, so the buffer fills one short.
	for i := 0; i < sendBufferSize-1; i++ {
		slow.send <- []byte("{}")
	}

	require.NoError(t, h.Broadcast(context.Background(), events.MessageTypeSystemStatus, h.Status()))
	msg := receive(t, fast)
	assert.Equal(t, events.MessageTypeSystemStatus, msg.Type)
	assert.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestHubStop(t *testing.T) {
	h := NewHub(testLogger())
	h.Start()
	c := NewClient(h, NewMockConnection(), "", testLogger())
	require.True(t, h.Register(c))

	h.Stop()
	h.Stop()
	assert.Zero(t, h.ClientCount())

	assert.False(t, h.Register(NewClient(h, NewMockConnection(), "", testLogger())))
	err := h.Broadcast(context.Background(), events.MessageTypeSystemStatus, nil)
	assert.ErrorIs(t, err, ErrHubStopped)

	// Restarting a stopped hub is a no-op.
	h.Start()
	assert.False(t, h.Register(NewClient(h, NewMockConnection(), "", testLogger())))
}

func TestBroadcastHonoursContext(t *testing.T) {
	// An unstarted hub never drains its queue.
	h := NewHub(testLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var err error
	for i := 0; i < 32 && err == nil; i++ {
		err = h.Broadcast(ctx, events.MessageTypeSystemStatus, nil)
	}
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientPumps(t *testing.T) {
	h := startHub(t, WithRecordCount(func() int { return 42 }))
	conn := NewMockConnection()
	c := NewClient(h, conn, "", testLogger())
	require.True(t, h.Register(c))

	done := make(chan struct{})
	go func() {
		c.WritePump()
		close(done)
	}()
	go c.ReadPump()

	conn.Push(websocket.TextMessage, []byte(`{"type":"heartbeat"}`))
	conn.Push(websocket.TextMessage, []byte(`{"type":"system:status"}`))
	conn.Push(websocket.TextMessage, []byte(`not json`))
	conn.Push(websocket.TextMessage, []byte(`{"type":"subscribe"}`))

	assert.Eventually(t, func() bool {
		return len(writtenTypes(conn)) == 4
	}, 2*time.Second, 10*time.Millisecond)

	types := writtenTypes(conn)
	assert.Equal(t, []events.MessageType{
		events.MessageTypeConnect,
		events.MessageTypeSystemStatus,
		events.MessageTypeError,
		events.MessageTypeError,
	}, types)
	assert.Equal(t, int64(maxMessageSize), conn.ReadLimit())

	conn.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("write pump did not stop")
	}
	assert.Zero(t, h.ClientCount())
}

func writtenTypes(conn *MockConnection) []events.MessageType {
	var types []events.MessageType
	for _, m := range conn.Written() {
		var msg decoded
		if json.Unmarshal(m.Data, &msg) == nil {
			types = append(types, msg.Type)
		}
	}
	return types
}

func TestWritePumpStopsOnWriteError(t *testing.T) {
	h := startHub(t)
	conn := NewMockConnection()
	conn.WriteErr = errors.New("broken pipe")
	c := NewClient(h, conn, "", testLogger())
	require.True(t, h.Register(c))

	done := make(chan struct{})
	go func() {
		c.WritePump()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("write pump did not stop")
	}
	assert.True(t, conn.IsClosed())
}

func TestSetKeepalive(t *testing.T) {
	c := NewClient(NewHub(testLogger()), NewMockConnection(), "", testLogger())
	c.SetKeepalive(10*time.Second, 20*time.Second)
	assert.Equal(t, 10*time.Second, c.pingPeriod)
	assert.Equal(t, 20*time.Second, c.pongWait)

	c.SetKeepalive(30*time.Second, 0)
	assert.Equal(t, 18*time.Second, c.pingPeriod)
}
