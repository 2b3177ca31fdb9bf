package http

import (
	"net/http"

	"github.com/courtsidehq/courtside/internal/config"
	"github.com/courtsidehq/courtside/internal/dispatcher"
	"github.com/courtsidehq/courtside/internal/metrics"
	"github.com/courtsidehq/courtside/internal/snapshot"
	"github.com/courtsidehq/courtside/internal/store"
)

func NewServer(views map[store.View]*ViewHandle, d *dispatcher.Dispatcher, snap snapshot.Store, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Views:          views,
		Dispatcher:     d,
		Snapshot:       snap,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/sessions", Chain(s.ListSessionsHandler(), paramsMiddleware))
	s.Router.Handle("/sessions/refresh", Chain(s.RefreshHandler(), paramsMiddleware))
	s.Router.Handle("/sessions/join", Chain(s.JoinHandler(), paramsMiddleware))
	s.Router.Handle("/sessions/leave", Chain(s.LeaveHandler(), paramsMiddleware))
	s.Router.Handle("/sessions/start", Chain(s.StartHandler(), paramsMiddleware))
	s.Router.Handle("/sessions/complete", Chain(s.CompleteHandler(), paramsMiddleware))
	s.Router.Handle("/sessions/kick", Chain(s.KickHandler(), paramsMiddleware))
	s.Router.Handle("/changes", Chain(s.ChangesPushHandler(), paramsMiddleware))
	s.Router.Handle("/snapshot", Chain(s.SnapshotHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearSnapshotHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
