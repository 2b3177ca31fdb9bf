package store

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtsidehq/courtside/internal/backend"
	"github.com/courtsidehq/courtside/internal/session"
)

// New creates a store for one view. The store starts empty; call Fetch to
// populate it.
func New(cfg Config) *Store {
	return &Store{
		view:           cfg.View,
		userID:         cfg.UserID,
		includePrivate: cfg.IncludePrivate,
		backend:        cfg.Backend,
		snapshot:       cfg.Snapshot,
		metrics:        cfg.Metrics,
	}
}

// Fetch re-queries the backend and atomically replaces the in-memory list.
// Concurrent fetches are not cancelled; each carries a sequence number and
// only the newest result is installed, stale responses are discarded.
// Errors are absorbed into the store's state as well as returned, so the
// retry controller can decorate this method directly.
func (s *Store) Fetch(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.inflight++
	s.mu.Unlock()

	seq := s.issued.Add(1)
	s.metrics.IncFetches()
	start := time.Now()

	list, err := s.load(ctx)

	s.mu.Lock()
	s.inflight--
	if s.closed {
		// The owning view is gone; never touch state from a late response.
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.err = err
		s.mu.Unlock()
		s.metrics.IncFetchFailures()
		log.Error("Session fetch failed", "error", err, "view", s.view)
		return err
	}
	if seq <= s.installedSeq {
		s.mu.Unlock()
		s.metrics.IncStaleResponsesDiscarded()
		log.Debug("Discarding stale fetch response", "view", s.view, "seq", seq)
		return nil
	}
	s.installedSeq = seq
	s.sessions = list
	s.err = nil
	s.mu.Unlock()

	s.metrics.ObserveFetchDuration(time.Since(start).Seconds())

	if s.snapshot != nil {
		if err := s.snapshot.SaveSessions(string(s.view), list); err != nil {
			log.Error("Failed to persist session snapshot", "error", err, "view", s.view)
		}
	}
	return nil
}

// load executes the view's queries and computes the derived fields. It
// never touches store state.
func (s *Store) load(ctx context.Context) ([]session.Session, error) {
	memberIDs := s.membershipSessionIDs(ctx)

	q, ok := buildSessionQuery(s.view, s.userID, memberIDs, s.includePrivate)
	if !ok {
		return []session.Session{}, nil
	}

	var sessions []session.Session
	if err := s.backend.Select(ctx, q, &sessions); err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}
	if len(sessions) == 0 {
		return []session.Session{}, nil
	}

	s.decorate(ctx, sessions)
	return sessions, nil
}

// decorate joins participant and creator display-name data onto the fetched
// sessions. Failures of these secondary queries are logged and tolerated;
// the primary list is still useful without them.
func (s *Store) decorate(ctx context.Context, sessions []session.Session) {
	sessionIDs := make([]string, 0, len(sessions))
	creatorSeen := make(map[string]struct{})
	var creatorIDs []string
	for _, sess := range sessions {
		sessionIDs = append(sessionIDs, sess.ID)
		if _, dup := creatorSeen[sess.CreatorID]; !dup {
			creatorSeen[sess.CreatorID] = struct{}{}
			creatorIDs = append(creatorIDs, sess.CreatorID)
		}
	}

	participantsBySession := make(map[string][]session.Participant)
	pq := backend.NewQuery(tableParticipants).
		Eq("status", string(session.ParticipantJoined)).
		In("session_id", sessionIDs)
	var participants []session.Participant
	if err := s.backend.Select(ctx, pq, &participants); err != nil {
		log.Error("Failed to fetch participants for sessions", "error", err, "view", s.view)
	} else {
		for _, p := range participants {
			participantsBySession[p.SessionID] = append(participantsBySession[p.SessionID], p)
		}
	}

	namesByID := make(map[string]string)
	if len(creatorIDs) > 0 {
		cq := backend.NewQuery(tableProfiles).
			Select("id,display_name").
			In("id", creatorIDs)
		var profiles []session.Profile
		if err := s.backend.Select(ctx, cq, &profiles); err != nil {
			log.Error("Failed to fetch creator profiles", "error", err, "view", s.view)
		} else {
			for _, p := range profiles {
				namesByID[p.ID] = p.DisplayName
			}
		}
	}

	for i := range sessions {
		joined := participantsBySession[sessions[i].ID]
		sessions[i].Participants = joined
		sessions[i].ParticipantCount = len(joined)
		sessions[i].CreatorName = namesByID[sessions[i].CreatorID]
		sessions[i].UserJoined = false
		for _, p := range joined {
			if s.userID != "" && p.UserID == s.userID {
				sessions[i].UserJoined = true
				break
			}
		}
	}
}

// Sessions returns a copy of the current list.
func (s *Store) Sessions() []session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]session.Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// State returns the current list together with the loading flag and the
// last absorbed fetch error.
func (s *Store) State() ([]session.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]session.Session, len(s.sessions))
	copy(out, s.sessions)
	return out, s.inflight > 0, s.err
}

// View returns the view this store mirrors.
func (s *Store) View() View {
	return s.view
}

// Close marks the store as unmounted. Late fetch responses are discarded
// instead of updating state, and further fetches are no-ops.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// The derived views below are pure filters over the in-memory list and
// never trigger a fetch.

// ByType returns the cached sessions of one type.
func (s *Store) ByType(t session.Type) []session.Session {
	return s.filter(func(sess session.Session) bool { return sess.SessionType == t })
}

// Active returns the cached sessions currently in play.
func (s *Store) Active() []session.Session {
	return s.filter(func(sess session.Session) bool { return sess.Status == session.StatusActive })
}

// Waiting returns the cached sessions still gathering players.
func (s *Store) Waiting() []session.Session {
	return s.filter(func(sess session.Session) bool { return sess.Status == session.StatusWaiting })
}

// CreatedByUser returns the cached sessions the store's user created.
func (s *Store) CreatedByUser() []session.Session {
	return s.filter(func(sess session.Session) bool { return s.userID != "" && sess.CreatorID == s.userID })
}

// JoinedNotCreated returns the cached sessions the user joined but does not own.
func (s *Store) JoinedNotCreated() []session.Session {
	return s.filter(func(sess session.Session) bool {
		return sess.UserJoined && sess.CreatorID != s.userID
	})
}

func (s *Store) filter(keep func(session.Session) bool) []session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []session.Session
	for _, sess := range s.sessions {
		if keep(sess) {
			out = append(out, sess)
		}
	}
	return out
}
