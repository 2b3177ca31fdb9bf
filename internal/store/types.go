package store

import (
	"sync"
	"sync/atomic"

	"github.com/courtsidehq/courtside/internal/backend"
	"github.com/courtsidehq/courtside/internal/metrics"
	"github.com/courtsidehq/courtside/internal/session"
	"github.com/courtsidehq/courtside/internal/snapshot"
)

// View selects which slice of the session collection a store mirrors.
type View string

const (
	ViewMySessions View = "my-sessions"
	ViewAvailable  View = "available"
	ViewCompleted  View = "completed"
)

// Backend table names.
const (
	tableSessions     = "sessions"
	tableParticipants = "session_participants"
	tableProfiles     = "profiles"
)

// Config bundles the collaborators and scope for one store instance.
type Config struct {
	View   View
	UserID string
	// IncludePrivate opts the available view into private sessions.
	IncludePrivate bool
	Backend        backend.Client
	// Snapshot is optional; when set, every successful fetch is persisted
	// best-effort for offline diagnostics.
	Snapshot snapshot.Store
	Metrics  metrics.Metrics
}

// Store owns the authoritative in-memory session list for one view. It
// never mutates sessions itself; all writes go through the dispatcher and
// the store is refreshed afterward, so it never displays a state it
// invented.
type Store struct {
	view           View
	userID         string
	includePrivate bool
	backend        backend.Client
	snapshot       snapshot.Store
	metrics        metrics.Metrics

	// issued hands out a sequence number per fetch; a completing fetch
	// installs its result only if nothing newer has landed already.
	issued atomic.Uint64

	mu           sync.RWMutex
	sessions     []session.Session
	err          error
	inflight     int
	installedSeq uint64
	closed       bool
}
