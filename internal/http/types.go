package http

import (
	"net/http"

	"github.com/courtsidehq/courtside/internal/config"
	"github.com/courtsidehq/courtside/internal/dispatcher"
	"github.com/courtsidehq/courtside/internal/metrics"
	"github.com/courtsidehq/courtside/internal/retry"
	"github.com/courtsidehq/courtside/internal/snapshot"
	"github.com/courtsidehq/courtside/internal/store"
)

// ViewHandle pairs a mounted view's store with its retry-wrapped fetcher.
type ViewHandle struct {
	Store   *store.Store
	Fetcher retry.Fetcher
}

type Server struct {
	Views          map[store.View]*ViewHandle
	Dispatcher     *dispatcher.Dispatcher
	Snapshot       snapshot.Store
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}

type joinRequest struct {
	SessionID string `json:"session_id"`
}

type leaveRequest struct {
	SessionID string `json:"session_id"`
}

type startRequest struct {
	SessionID string `json:"session_id"`
}

type completeRequest struct {
	SessionID       string `json:"session_id"`
	WinnerID        string `json:"winner_id,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

type kickRequest struct {
	SessionID     string `json:"session_id"`
	ParticipantID string `json:"participant_id"`
}
