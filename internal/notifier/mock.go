package notifier

import "sync"

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	NotifyFunc      func(message string) error
	NotifyErrorFunc func(message string) error

	// Call records
	Notices      []string
	ErrorNotices []string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notices = nil
	m.ErrorNotices = nil
}

func (m *Mock) Notify(message string, dryRun bool) error {
	m.mu.Lock()
	m.Notices = append(m.Notices, message)
	fn := m.NotifyFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(message)
	}
	return nil
}

func (m *Mock) NotifyError(message string, dryRun bool) error {
	m.mu.Lock()
	m.ErrorNotices = append(m.ErrorNotices, message)
	fn := m.NotifyErrorFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(message)
	}
	return nil
}

// All returns every notice in send order, successes and failures combined.
func (m *Mock) All() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]string, 0, len(m.Notices)+len(m.ErrorNotices))
	all = append(all, m.Notices...)
	all = append(all, m.ErrorNotices...)
	return all
}
