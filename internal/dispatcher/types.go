package dispatcher

import (
	"context"

	"github.com/courtsidehq/courtside/internal/backend"
	"github.com/courtsidehq/courtside/internal/metrics"
	"github.com/courtsidehq/courtside/internal/notifier"
)

// Dispatcher performs the session lifecycle operations. Every operation
// follows the same completion contract: exactly one user-facing notice per
// invocation (success or failure, never both, never zero), followed by a
// store re-fetch if and only if the remote call reported success. All
// invariant enforcement (stakes escrow, participant caps, creator-only
// rules, reward math) lives in the remote procedures; the dispatcher only
// orchestrates calls and interprets their structured results.
type Dispatcher struct {
	backend  backend.Client
	notifier notifier.Notifier
	metrics  metrics.Metrics
	userID   string
	// refetch refreshes the mounted stores after a successful action.
	refetch func(ctx context.Context)
}

// Backend table names the leave path touches directly.
const (
	tableSessions     = "sessions"
	tableParticipants = "session_participants"
)

// Remote procedure names.
const (
	procJoinSession     = "join_session"
	procStartSession    = "start_session"
	procCompleteSession = "complete_session"
	procKickParticipant = "kick_participant"
	procAddTokens       = "add_tokens"
)
