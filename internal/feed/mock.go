package feed

import (
	"context"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// MockSubscriber is a mock implementation of Subscriber for testing.
// It is safe for concurrent use.
type MockSubscriber struct {
	mu sync.Mutex

	// Spies for method calls
	OpenFunc  func() error
	CloseFunc func() error

	// Call records
	OpenCalls  int
	CloseCalls int
}

// NewMock creates a new mock Subscriber.
func NewMock() *MockSubscriber {
	return &MockSubscriber{}
}

func (m *MockSubscriber) Open(ctx context.Context) error {
	m.mu.Lock()
	m.OpenCalls++
	fn := m.OpenFunc
	m.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return nil
}

func (m *MockSubscriber) Close(ctx context.Context) error {
	m.mu.Lock()
	m.CloseCalls++
	fn := m.CloseFunc
	m.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return nil
}

// EncodeEvent marshals a ChangeEvent the way the backend publishes them.
// Used by tests and the push handler.
func EncodeEvent(event ChangeEvent) ([]byte, error) {
	return msgpack.Marshal(event)
}

// DecodeEvent unmarshals a published change event.
func DecodeEvent(data []byte, event *ChangeEvent) error {
	return msgpack.Unmarshal(data, event)
}
