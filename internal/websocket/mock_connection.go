package websocket

import (
	"errors"
	"sync"
	"time"
)

// ErrMockClosed is returned by a closed MockConnection.
var ErrMockClosed = errors.New("mock connection closed")

// MockConnection is an in-memory Connection for tests. ReadMessage blocks
// until a message is pushed or the connection is closed.
type MockConnection struct {
	mu sync.Mutex

	inbound chan MockMessage
	closed  chan struct{}
	once    sync.Once

	written       []MockMessage
	readDeadline  time.Time
	writeDeadline time.Time
	readLimit     int64
	pongHandler   func(string) error

	// WriteErr, when set, is returned by every WriteMessage call.
	WriteErr error

	RemoteAddress string
}

// MockMessage is one frame read from or written to a MockConnection.
type MockMessage struct {
	Type int
	Data []byte
}

// NewMockConnection creates an open mock connection.
func NewMockConnection() *MockConnection {
	return &MockConnection{
		inbound:       make(chan MockMessage, 16),
		closed:        make(chan struct{}),
		written:       make([]MockMessage, 0),
		RemoteAddress: "127.0.0.1:50000",
	}
}

// Push queues a frame for ReadMessage.
func (m *MockConnection) Push(messageType int, data []byte) {
	select {
	case m.inbound <- MockMessage{Type: messageType, Data: data}:
	case <-m.closed:
	}
}

// WriteMessage records the frame.
func (m *MockConnection) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.written = append(m.written, MockMessage{Type: messageType, Data: buf})
	return nil
}

// ReadMessage returns the next pushed frame, or ErrMockClosed once closed.
func (m *MockConnection) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-m.inbound:
		return msg.Type, msg.Data, nil
	case <-m.closed:
		return 0, nil, ErrMockClosed
	}
}

// Close unblocks pending reads. It is safe to call more than once.
func (m *MockConnection) Close() error {
	m.once.Do(func() { close(m.closed) })
	return nil
}

// IsClosed reports whether Close was called.
func (m *MockConnection) IsClosed() bool {
	select {
	case <-m.closed:
		return true
	default:
		return false
	}
}

func (m *MockConnection) SetReadDeadline(t time.Time) error {
	m.mu.Lock()
	m.readDeadline = t
	m.mu.Unlock()
	return nil
}

func (m *MockConnection) SetWriteDeadline(t time.Time) error {
	m.mu.Lock()
	m.writeDeadline = t
	m.mu.Unlock()
	return nil
}

func (m *MockConnection) SetReadLimit(limit int64) {
	m.mu.Lock()
	m.readLimit = limit
	m.mu.Unlock()
}

func (m *MockConnection) SetPongHandler(h func(string) error) {
	m.mu.Lock()
	m.pongHandler = h
	m.mu.Unlock()
}

func (m *MockConnection) RemoteAddr() string {
	return m.RemoteAddress
}

// Written returns a copy of the frames written so far.
func (m *MockConnection) Written() []MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockMessage, len(m.written))
	copy(out, m.written)
	return out
}

// ReadLimit returns the limit set by the client.
func (m *MockConnection) ReadLimit() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readLimit
}
