package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/courtsidehq/courtside/internal/feed"
	"github.com/courtsidehq/courtside/internal/session"
	"github.com/courtsidehq/courtside/internal/store"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// ListSessionsHandler serves a view's cached list, optionally narrowed by
// the pure derived filters. It refreshes the view first so callers always
// see backend-confirmed state.
func (s *Server) ListSessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := store.View(r.URL.Query().Get("view"))
		if view == "" {
			view = store.ViewAvailable
		}
		handle, ok := s.Views[view]
		if !ok {
			http.Error(w, fmt.Sprintf("unknown view %q", view), http.StatusBadRequest)
			return
		}

		if err := handle.Fetcher.Fetch(r.Context()); err != nil {
			http.Error(w, "Failed to fetch sessions", http.StatusBadGateway)
			return
		}

		var sessions []session.Session
		switch scope := r.URL.Query().Get("scope"); scope {
		case "", "all":
			sessions = handle.Store.Sessions()
		case "active":
			sessions = handle.Store.Active()
		case "waiting":
			sessions = handle.Store.Waiting()
		case "created":
			sessions = handle.Store.CreatedByUser()
		case "joined":
			sessions = handle.Store.JoinedNotCreated()
		default:
			http.Error(w, fmt.Sprintf("unknown scope %q", scope), http.StatusBadRequest)
			return
		}

		if sessionType := r.URL.Query().Get("type"); sessionType != "" {
			var filtered []session.Session
			for _, sess := range sessions {
				if sess.SessionType == session.Type(sessionType) {
					filtered = append(filtered, sess)
				}
			}
			sessions = filtered
		}
		if sessions == nil {
			sessions = []session.Session{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(sessions); err != nil {
			log.Error("Failed to encode sessions to JSON", "error", err)
		}
	}
}

// RefreshHandler re-fetches every mounted view.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for view, handle := range s.Views {
			if err := handle.Fetcher.Fetch(r.Context()); err != nil {
				log.Error("Failed to refresh view", "error", err, "view", view)
			}
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Refreshed!")
	}
}

func (s *Server) JoinHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req joinRequest
		if !decodeAction(w, r, &req) {
			return
		}
		if req.SessionID == "" {
			http.Error(w, "session_id is required", http.StatusBadRequest)
			return
		}
		if err := s.Dispatcher.Join(r.Context(), req.SessionID, isDryRunFromContext(r)); err != nil {
			http.Error(w, "Failed to join session", http.StatusBadGateway)
			return
		}
		writeOK(w)
	}
}

func (s *Server) LeaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req leaveRequest
		if !decodeAction(w, r, &req) {
			return
		}
		if req.SessionID == "" {
			http.Error(w, "session_id is required", http.StatusBadRequest)
			return
		}
		if err := s.Dispatcher.Leave(r.Context(), req.SessionID, isDryRunFromContext(r)); err != nil {
			http.Error(w, "Failed to leave session", http.StatusBadGateway)
			return
		}
		writeOK(w)
	}
}

func (s *Server) StartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req startRequest
		if !decodeAction(w, r, &req) {
			return
		}
		if req.SessionID == "" {
			http.Error(w, "session_id is required", http.StatusBadRequest)
			return
		}
		if err := s.Dispatcher.Start(r.Context(), req.SessionID, isDryRunFromContext(r)); err != nil {
			http.Error(w, "Failed to start session", http.StatusBadGateway)
			return
		}
		writeOK(w)
	}
}

func (s *Server) CompleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req completeRequest
		if !decodeAction(w, r, &req) {
			return
		}
		if req.SessionID == "" {
			http.Error(w, "session_id is required", http.StatusBadRequest)
			return
		}
		if err := s.Dispatcher.Complete(r.Context(), req.SessionID, req.WinnerID, req.DurationMinutes, isDryRunFromContext(r)); err != nil {
			http.Error(w, "Failed to complete session", http.StatusBadGateway)
			return
		}
		writeOK(w)
	}
}

func (s *Server) KickHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req kickRequest
		if !decodeAction(w, r, &req) {
			return
		}
		if req.SessionID == "" || req.ParticipantID == "" {
			http.Error(w, "session_id and participant_id are required", http.StatusBadRequest)
			return
		}
		if err := s.Dispatcher.Kick(r.Context(), req.SessionID, req.ParticipantID, isDryRunFromContext(r)); err != nil {
			http.Error(w, "Failed to kick participant", http.StatusBadGateway)
			return
		}
		writeOK(w)
	}
}

// ChangesPushHandler accepts Pub/Sub push deliveries of change events and
// triggers a re-fetch of every mounted view, mirroring the pull subscriber.
func (s *Server) ChangesPushHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received change push", "body", string(bodyBytes))

		var pushMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"`
			} `json:"message"`
		}
		if err := json.Unmarshal(bodyBytes, &pushMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		rawData, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		var event feed.ChangeEvent
		if err := feed.DecodeEvent(rawData, &event); err != nil {
			log.Error("Failed to decode change event, re-fetching anyway", "error", err)
		} else {
			log.Debug("Change event received via push", "type", event.Type, "table", event.Table)
		}
		s.Metrics.IncFeedEvents()

		for view, handle := range s.Views {
			if err := handle.Fetcher.Fetch(r.Context()); err != nil {
				log.Error("Failed to refresh view after change event", "error", err, "view", view)
			}
		}
		w.Write([]byte("OK"))
	}
}

// SnapshotHandler serves the last persisted list for a view, for
// diagnostics when the backend is unreachable.
func (s *Server) SnapshotHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := r.URL.Query().Get("view")
		if view == "" {
			view = string(store.ViewAvailable)
		}
		sessions, err := s.Snapshot.GetSessions(view)
		if err != nil {
			http.Error(w, "Failed to read snapshot", http.StatusInternalServerError)
			log.Error("Failed to read snapshot", "error", err, "view", view)
			return
		}
		if sessions == nil {
			sessions = []session.Session{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(sessions); err != nil {
			log.Error("Failed to encode snapshot to JSON", "error", err)
		}
	}
}

func (s *Server) ClearSnapshotHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to clear snapshot store")
		if err := s.Snapshot.Clear(); err != nil {
			http.Error(w, "Failed to clear snapshot store", http.StatusInternalServerError)
			log.Error("Failed to clear snapshot store", "error", err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Snapshot store cleared!")
	}
}

func decodeAction(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}
