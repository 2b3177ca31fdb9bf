package store

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/courtsidehq/courtside/internal/backend"
	"github.com/courtsidehq/courtside/internal/session"
)

// buildSessionQuery produces the session filter for a view. ok=false means
// the view must resolve to an empty list without touching the backend
// (membership views with no authenticated user never fall back to "all
// sessions").
func buildSessionQuery(view View, userID string, memberSessionIDs []string, includePrivate bool) (q backend.Query, ok bool) {
	switch view {
	case ViewAvailable:
		q = backend.NewQuery(tableSessions).Eq("status", string(session.StatusWaiting))
		if !includePrivate {
			q = q.Eq("is_private", "false")
		}
		return q.Order("created_at", true), true

	case ViewMySessions:
		if userID == "" {
			return backend.Query{}, false
		}
		q = backend.NewQuery(tableSessions)
		// Never construct an IN () filter against an empty set; it is a
		// known source of false-empty results. Fall back to creator-only.
		if len(memberSessionIDs) == 0 {
			q = q.Eq("creator_id", userID)
		} else {
			q = q.Or(backend.CondEq("creator_id", userID), backend.CondIn("id", memberSessionIDs))
		}
		return q.Order("created_at", true), true

	case ViewCompleted:
		if userID == "" {
			return backend.Query{}, false
		}
		q = backend.NewQuery(tableSessions).Eq("status", string(session.StatusCompleted))
		if len(memberSessionIDs) == 0 {
			q = q.Eq("creator_id", userID)
		} else {
			q = q.Or(backend.CondEq("creator_id", userID), backend.CondIn("id", memberSessionIDs))
		}
		return q.Order("created_at", true), true
	}

	log.Warn("Unknown view, resolving to empty list", "view", view)
	return backend.Query{}, false
}

// membershipSessionIDs runs the dependent query for the ids of sessions the
// user has a joined participant row in. A failure here degrades to the
// creator-only filter rather than failing the whole fetch.
func (s *Store) membershipSessionIDs(ctx context.Context) []string {
	if s.userID == "" || s.view == ViewAvailable {
		return nil
	}

	q := backend.NewQuery(tableParticipants).
		Select("session_id").
		Eq("user_id", s.userID).
		Eq("status", string(session.ParticipantJoined))

	var rows []session.Participant
	if err := s.backend.Select(ctx, q, &rows); err != nil {
		log.Error("Failed to fetch membership ids, proceeding with creator-only filter", "error", err, "view", s.view, "userID", s.userID)
		return nil
	}

	// The backend enforces at most one joined row per (session, user), but
	// duplicates are tolerated here rather than assumed away.
	seen := make(map[string]struct{}, len(rows))
	var ids []string
	for _, row := range rows {
		if _, dup := seen[row.SessionID]; dup {
			continue
		}
		seen[row.SessionID] = struct{}{}
		ids = append(ids, row.SessionID)
	}
	return ids
}
