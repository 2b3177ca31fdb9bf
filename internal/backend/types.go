package backend

// RPCResult is the minimal shape every remote procedure returns. Procedures
// with no extra fields decode into it directly.
type RPCResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// JoinResult is returned by join_session.
type JoinResult struct {
	Success          bool   `json:"success"`
	Error            string `json:"error,omitempty"`
	ParticipantCount int    `json:"participant_count,omitempty"`
	SessionReady     bool   `json:"session_ready,omitempty"`
}

// CompleteResult is returned by complete_session. All reward numbers are
// computed server-side and displayed as-is.
type CompleteResult struct {
	Success           bool   `json:"success"`
	Error             string `json:"error,omitempty"`
	SessionType       string `json:"session_type,omitempty"`
	DurationMinutes   int    `json:"session_duration_minutes,omitempty"`
	XPGranted         int    `json:"xp_granted,omitempty"`
	HPCost            int    `json:"hp_cost,omitempty"`
	HPCapped          bool   `json:"hp_capped,omitempty"`
	HPRestored        int    `json:"hp_restored,omitempty"`
	ParticipantCount  int    `json:"participant_count,omitempty"`
	TokensRefunded    int    `json:"tokens_refunded,omitempty"`
	StakesDistributed bool   `json:"stakes_distributed,omitempty"`
}
