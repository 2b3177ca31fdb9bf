package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncFetches()
	IncFetchFailures()
	ObserveFetchDuration(duration float64)
	IncStaleResponsesDiscarded()
	IncFeedEvents()
	IncActionSuccess(action string)
	IncActionFailure(action string)
	IncNoticesSent()
	IncNoticesFailed()
	SetStartupTime(duration float64)
}
