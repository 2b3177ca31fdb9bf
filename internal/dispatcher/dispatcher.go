package dispatcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtsidehq/courtside/internal/backend"
	"github.com/courtsidehq/courtside/internal/metrics"
	"github.com/courtsidehq/courtside/internal/notifier"
	"github.com/courtsidehq/courtside/internal/session"
)

// New creates a new Dispatcher acting as the given user.
func New(be backend.Client, n notifier.Notifier, m metrics.Metrics, userID string, refetch func(ctx context.Context)) *Dispatcher {
	return &Dispatcher{
		backend:  be,
		notifier: n,
		metrics:  m,
		userID:   userID,
		refetch:  refetch,
	}
}

// Join enrolls the acting user in a session. Stakes escrow and the
// participant cap are enforced by the remote procedure. A transport failure
// is surfaced as a generic notice and then returned to the caller, which
// may need to react (e.g. a create-and-join sequence stopping its spinner).
func (d *Dispatcher) Join(ctx context.Context, sessionID string, dryRun bool) error {
	if d.userID == "" {
		d.notifyError("You need to be signed in to join a session.", dryRun)
		d.metrics.IncActionFailure("join")
		return fmt.Errorf("join requires an authenticated user")
	}
	if dryRun {
		log.Info("[Dry Run] Would call join_session", "sessionID", sessionID, "userID", d.userID)
		d.notify("You've joined the session!", dryRun)
		return nil
	}

	var result backend.JoinResult
	err := d.backend.RPC(ctx, procJoinSession, map[string]any{
		"session_id": sessionID,
		"user_id":    d.userID,
	}, &result)
	if err != nil {
		log.Error("join_session call failed", "error", err, "sessionID", sessionID)
		d.notifyError("Failed to join session. Please try again.", dryRun)
		d.metrics.IncActionFailure("join")
		return err
	}

	if !result.Success {
		message := result.Error
		if strings.Contains(message, "Insufficient tokens") {
			message = "You don't have enough tokens to cover the stakes for this session."
		}
		if message == "" {
			message = "Failed to join session."
		}
		d.notifyError(message, dryRun)
		d.metrics.IncActionFailure("join")
		return nil
	}

	d.notify("You've joined the session!", dryRun)
	if result.SessionReady {
		log.Info("Session is ready to start", "sessionID", sessionID, "participants", result.ParticipantCount)
		d.notify("Session is ready to start!", dryRun)
	}
	d.metrics.IncActionSuccess("join")
	d.refetch(ctx)
	return nil
}

// Leave marks the acting user's joined participant row as left. It is not a
// remote procedure: the row update and the stakes refund are separate
// calls, and a refund failure never rolls the leave back. The refund is
// issued through add_tokens when the session escrows stakes.
func (d *Dispatcher) Leave(ctx context.Context, sessionID string, dryRun bool) error {
	if d.userID == "" {
		d.notifyError("You need to be signed in to leave a session.", dryRun)
		d.metrics.IncActionFailure("leave")
		return fmt.Errorf("leave requires an authenticated user")
	}
	if dryRun {
		log.Info("[Dry Run] Would leave session", "sessionID", sessionID, "userID", d.userID)
		d.notify("You've left the session.", dryRun)
		return nil
	}

	// Tolerate zero-or-one rows; absence is a user error, not a crash.
	q := backend.NewQuery(tableParticipants).
		Select("id,session_id,user_id,status").
		Eq("session_id", sessionID).
		Eq("user_id", d.userID).
		Eq("status", string(session.ParticipantJoined))
	var rows []session.Participant
	if err := d.backend.Select(ctx, q, &rows); err != nil {
		log.Error("Failed to look up participant row for leave", "error", err, "sessionID", sessionID)
		d.notifyError("Failed to leave session. Please try again.", dryRun)
		d.metrics.IncActionFailure("leave")
		return nil
	}
	if len(rows) == 0 {
		d.notifyError("You're not currently in this session.", dryRun)
		d.metrics.IncActionFailure("leave")
		return nil
	}

	patch := map[string]any{
		"status":  string(session.ParticipantLeft),
		"left_at": time.Now().UTC().Format(time.RFC3339),
	}
	uq := backend.NewQuery(tableParticipants).Eq("id", rows[0].ID)
	if err := d.backend.Update(ctx, tableParticipants, patch, uq); err != nil {
		log.Error("Failed to mark participant as left", "error", err, "sessionID", sessionID, "participantID", rows[0].ID)
		d.notifyError("Failed to leave session. Please try again.", dryRun)
		d.metrics.IncActionFailure("leave")
		return nil
	}

	// The leave has succeeded at this point; everything after is
	// best-effort and must not undo it.
	d.refundStakes(ctx, sessionID)

	d.notify("You've left the session.", dryRun)
	d.metrics.IncActionSuccess("leave")
	d.refetch(ctx)
	return nil
}

// refundStakes returns the user's escrowed stakes after a leave. Failures
// are logged only.
func (d *Dispatcher) refundStakes(ctx context.Context, sessionID string) {
	sq := backend.NewQuery(tableSessions).
		Select("id,stakes_amount").
		Eq("id", sessionID)
	var sessions []session.Session
	if err := d.backend.Select(ctx, sq, &sessions); err != nil {
		log.Error("Failed to look up session for stakes refund", "error", err, "sessionID", sessionID)
		return
	}
	if len(sessions) == 0 || sessions[0].StakesAmount <= 0 {
		return
	}

	stakes := sessions[0].StakesAmount
	var result backend.RPCResult
	err := d.backend.RPC(ctx, procAddTokens, map[string]any{
		"user_id":     d.userID,
		"amount":      stakes,
		"token_type":  "regular",
		"source":      "session_refund",
		"description": fmt.Sprintf("Stakes refund for leaving session %s", sessionID),
	}, &result)
	if err != nil {
		log.Error("Stakes refund call failed, leave stands", "error", err, "sessionID", sessionID, "amount", stakes)
		return
	}
	if !result.Success {
		log.Error("Stakes refund rejected, leave stands", "error", result.Error, "sessionID", sessionID, "amount", stakes)
		return
	}
	log.Info("Stakes refunded", "sessionID", sessionID, "amount", stakes)
}

// Start transitions a waiting session to active. Eligibility (creator-only,
// minimum participants) is checked remotely.
func (d *Dispatcher) Start(ctx context.Context, sessionID string, dryRun bool) error {
	if dryRun {
		log.Info("[Dry Run] Would call start_session", "sessionID", sessionID, "userID", d.userID)
		d.notify("Session started!", dryRun)
		return nil
	}

	var result backend.RPCResult
	err := d.backend.RPC(ctx, procStartSession, map[string]any{
		"session_id": sessionID,
		"starter_id": d.userID,
	}, &result)
	if err != nil {
		log.Error("start_session call failed", "error", err, "sessionID", sessionID)
		d.notifyError("Failed to start session. Please try again.", dryRun)
		d.metrics.IncActionFailure("start")
		return nil
	}
	if !result.Success {
		message := result.Error
		if message == "" {
			message = "Failed to start session."
		}
		d.notifyError(message, dryRun)
		d.metrics.IncActionFailure("start")
		return nil
	}

	d.notify("Session started!", dryRun)
	d.metrics.IncActionSuccess("start")
	d.refetch(ctx)
	return nil
}

// Complete finishes a session. Reward and HP computation happen remotely;
// the structured result is only rendered into a human-readable summary.
func (d *Dispatcher) Complete(ctx context.Context, sessionID, winnerID string, durationMinutes int, dryRun bool) error {
	if dryRun {
		log.Info("[Dry Run] Would call complete_session", "sessionID", sessionID, "winnerID", winnerID, "duration", durationMinutes)
		d.notify("Session complete!", dryRun)
		return nil
	}

	params := map[string]any{"session_id": sessionID}
	if winnerID != "" {
		params["winner_id"] = winnerID
	}
	if durationMinutes > 0 {
		params["session_duration_minutes"] = durationMinutes
	}

	var result backend.CompleteResult
	err := d.backend.RPC(ctx, procCompleteSession, params, &result)
	if err != nil {
		log.Error("complete_session call failed", "error", err, "sessionID", sessionID)
		d.notifyError("Failed to complete session. Please try again.", dryRun)
		d.metrics.IncActionFailure("complete")
		return nil
	}
	if !result.Success {
		message := result.Error
		if message == "" {
			message = "Failed to complete session."
		}
		d.notifyError(message, dryRun)
		d.metrics.IncActionFailure("complete")
		return nil
	}

	summary := session.CompletionSummary{
		Type:              session.Type(result.SessionType),
		DurationMinutes:   result.DurationMinutes,
		XPGranted:         result.XPGranted,
		HPCost:            result.HPCost,
		HPCapped:          result.HPCapped,
		HPRestored:        result.HPRestored,
		ParticipantCount:  result.ParticipantCount,
		TokensRefunded:    result.TokensRefunded,
		StakesDistributed: result.StakesDistributed,
	}
	d.notify(summary.Message(), dryRun)
	d.metrics.IncActionSuccess("complete")
	d.refetch(ctx)
	return nil
}

// Kick removes a participant from a session. Creator-only, enforced remotely.
func (d *Dispatcher) Kick(ctx context.Context, sessionID, participantID string, dryRun bool) error {
	if dryRun {
		log.Info("[Dry Run] Would call kick_participant", "sessionID", sessionID, "participantID", participantID)
		d.notify("Participant removed.", dryRun)
		return nil
	}

	var result backend.RPCResult
	err := d.backend.RPC(ctx, procKickParticipant, map[string]any{
		"session_id":     sessionID,
		"participant_id": participantID,
		"kicker_id":      d.userID,
	}, &result)
	if err != nil {
		log.Error("kick_participant call failed", "error", err, "sessionID", sessionID, "participantID", participantID)
		d.notifyError("Failed to remove participant. Please try again.", dryRun)
		d.metrics.IncActionFailure("kick")
		return nil
	}
	if !result.Success {
		message := result.Error
		if message == "" {
			message = "Failed to remove participant."
		}
		d.notifyError(message, dryRun)
		d.metrics.IncActionFailure("kick")
		return nil
	}

	d.notify("Participant removed.", dryRun)
	d.metrics.IncActionSuccess("kick")
	d.refetch(ctx)
	return nil
}

func (d *Dispatcher) notify(message string, dryRun bool) {
	if err := d.notifier.Notify(message, dryRun); err != nil {
		log.Error("Failed to send notice", "error", err, "message", message)
	}
}

func (d *Dispatcher) notifyError(message string, dryRun bool) {
	if err := d.notifier.NotifyError(message, dryRun); err != nil {
		log.Error("Failed to send error notice", "error", err, "message", message)
	}
}
