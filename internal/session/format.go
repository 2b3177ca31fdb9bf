package session

import (
	"fmt"
	"strings"
)

// CompletionSummary carries the server-computed outcome of a completed
// session. The numbers are taken as-is for display; reward math is never
// recomputed client-side.
type CompletionSummary struct {
	Type              Type
	DurationMinutes   int
	XPGranted         int
	HPCost            int
	HPCapped          bool
	HPRestored        int
	ParticipantCount  int
	TokensRefunded    int
	StakesDistributed bool
}

// Message renders the user-facing completion notice.
//
// Wellbeing sessions restore HP instead of costing it, so they get their own
// shape: "25 HP restored for 3 participants • 50 tokens refunded". All other
// types read like "1h 15m match complete! +40 XP, -10 HP • Stakes distributed".
func (s CompletionSummary) Message() string {
	if s.Type == TypeWellbeing {
		msg := fmt.Sprintf("%d HP restored", s.HPRestored)
		if s.ParticipantCount > 1 {
			msg += fmt.Sprintf(" for %d participants", s.ParticipantCount)
		}
		if s.TokensRefunded > 0 {
			msg += fmt.Sprintf(" • %d tokens refunded", s.TokensRefunded)
		}
		return msg
	}

	msg := fmt.Sprintf("%s %s complete!", FormatDuration(s.DurationMinutes), s.Type.Label())

	var fragments []string
	if s.XPGranted > 0 {
		fragments = append(fragments, fmt.Sprintf("+%d XP", s.XPGranted))
	}
	if s.HPCost > 0 {
		hp := fmt.Sprintf("-%d HP", s.HPCost)
		if s.HPCapped {
			hp += " (capped)"
		}
		fragments = append(fragments, hp)
	}
	if len(fragments) > 0 {
		msg += " " + strings.Join(fragments, ", ")
	}
	if s.StakesDistributed {
		msg += " • Stakes distributed"
	}
	return msg
}

// FormatDuration renders minutes as "1h 15m" once a full hour is reached,
// otherwise "45m".
func FormatDuration(minutes int) string {
	if minutes >= 60 {
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// Label renders the type for human-facing text ("social_play" → "social play").
func (t Type) Label() string {
	return strings.ReplaceAll(string(t), "_", " ")
}
