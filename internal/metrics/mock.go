package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                      sync.Mutex
	fetches                 int
	fetchFailures           int
	fetchDurations          []float64
	staleResponsesDiscarded int
	feedEvents              int
	actionSuccesses         map[string]int
	actionFailures          map[string]int
	noticesSent             int
	noticesFailed           int
	startupTime             float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		fetchDurations:  make([]float64, 0),
		actionSuccesses: make(map[string]int),
		actionFailures:  make(map[string]int),
	}
}

func (m *Mock) IncFetches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
}

func (m *Mock) IncFetchFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchFailures++
}

func (m *Mock) ObserveFetchDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchDurations = append(m.fetchDurations, duration)
}

func (m *Mock) IncStaleResponsesDiscarded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staleResponsesDiscarded++
}

func (m *Mock) IncFeedEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedEvents++
}

func (m *Mock) IncActionSuccess(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actionSuccesses[action]++
}

func (m *Mock) IncActionFailure(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actionFailures[action]++
}

func (m *Mock) IncNoticesSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.noticesSent++
}

func (m *Mock) IncNoticesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.noticesFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// Accessors for assertions.

func (m *Mock) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}

func (m *Mock) FetchFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchFailures
}

func (m *Mock) StaleResponsesDiscarded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.staleResponsesDiscarded
}

func (m *Mock) FeedEvents() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.feedEvents
}

func (m *Mock) ActionSuccesses(action string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.actionSuccesses[action]
}

func (m *Mock) ActionFailures(action string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.actionFailures[action]
}

func (m *Mock) NoticesSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.noticesSent
}

func (m *Mock) NoticesFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.noticesFailed
}
