package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// Service is the Prometheus-backed Metrics implementation.
type Service struct {
	Fetches                 prometheus.Counter
	FetchFailures           prometheus.Counter
	FetchDuration           prometheus.Histogram
	StaleResponsesDiscarded prometheus.Counter
	FeedEvents              prometheus.Counter
	Actions                 *prometheus.CounterVec
	NoticesSent             prometheus.Counter
	NoticesFailed           prometheus.Counter
	StartupTimeSeconds      prometheus.Gauge
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Fetches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_session_fetches_total",
			Help: "The total number of session list fetches executed.",
		}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_session_fetch_failures_total",
			Help: "The total number of session list fetches that failed.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courtside_session_fetch_duration_seconds",
			Help:    "The duration of individual session list fetches.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StaleResponsesDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_stale_responses_discarded_total",
			Help: "The total number of fetch responses discarded because a newer fetch already landed.",
		}),
		FeedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_feed_events_total",
			Help: "The total number of change-feed events received.",
		}),
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtside_session_actions_total",
			Help: "The total number of session lifecycle actions, by action and outcome.",
		}, []string{"action", "outcome"}),
		NoticesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_notices_sent_total",
			Help: "The total number of user-facing notices successfully sent.",
		}),
		NoticesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_notices_failed_total",
			Help: "The total number of user-facing notices that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "courtside_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.Fetches,
		s.FetchFailures,
		s.FetchDuration,
		s.StaleResponsesDiscarded,
		s.FeedEvents,
		s.Actions,
		s.NoticesSent,
		s.NoticesFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncFetches() {
	s.Fetches.Inc()
}

func (s *Service) IncFetchFailures() {
	s.FetchFailures.Inc()
}

func (s *Service) ObserveFetchDuration(duration float64) {
	s.FetchDuration.Observe(duration)
}

func (s *Service) IncStaleResponsesDiscarded() {
	s.StaleResponsesDiscarded.Inc()
}

func (s *Service) IncFeedEvents() {
	s.FeedEvents.Inc()
}

func (s *Service) IncActionSuccess(action string) {
	s.Actions.WithLabelValues(action, "success").Inc()
}

func (s *Service) IncActionFailure(action string) {
	s.Actions.WithLabelValues(action, "failure").Inc()
}

func (s *Service) IncNoticesSent() {
	s.NoticesSent.Inc()
}

func (s *Service) IncNoticesFailed() {
	s.NoticesFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
