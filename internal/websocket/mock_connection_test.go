package websocket

import (
	"errors"
	"sync"
	"time"
)

// mockConnection is an in-memory Connection. ReadMessage blocks until a
// message is queued or the connection is closed.
type mockConnection struct {
	mu      sync.Mutex
	written [][]byte
	types   []int
	closed  bool

	incoming chan []byte
	done     chan struct{}
	writes   chan struct{}
}

func newMockConnection() *mockConnection {
	return &mockConnection{
		incoming: make(chan []byte, 8),
		done:     make(chan struct{}),
		writes:   make(chan struct{}, 64),
	}
}

func (m *mockConnection) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("connection closed")
	}
	m.types = append(m.types, messageType)
	m.written = append(m.written, append([]byte(nil), data...))
	select {
	case m.writes <- struct{}{}:
	default:
	}
	return nil
}

func (m *mockConnection) ReadMessage() (int, []byte, error) {
	select {
	case msg := <-m.incoming:
		return 1, msg, nil
	case <-m.done:
		return 0, nil, errors.New("connection closed")
	}
}

func (m *mockConnection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

func (m *mockConnection) SetReadDeadline(time.Time) error   { return nil }
func (m *mockConnection) SetWriteDeadline(time.Time) error  { return nil }
func (m *mockConnection) SetReadLimit(int64)                {}
func (m *mockConnection) SetPongHandler(func(string) error) {}
func (m *mockConnection) RemoteAddr() string                { return "127.0.0.1:9999" }

func (m *mockConnection) messages() ([]int, [][]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.types...), append([][]byte(nil), m.written...)
}

func (m *mockConnection) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
