package session

// Type classifies what kind of play a session is for. It is fixed at
// creation and drives the reward and HP rules evaluated by the backend.
type Type string

const (
	TypeMatch      Type = "match"
	TypeSocialPlay Type = "social_play"
	TypeTraining   Type = "training"
	TypeWellbeing  Type = "wellbeing"
)

// Format is only meaningful for match sessions.
type Format string

const (
	FormatSingles Format = "singles"
	FormatDoubles Format = "doubles"
)

// Status is the lifecycle state of a session. Waiting sessions can be
// started or cancelled; active sessions can only complete. Completed and
// cancelled are terminal.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ParticipantStatus is the sub-state of a user's join record.
type ParticipantStatus string

const (
	ParticipantJoined ParticipantStatus = "joined"
	ParticipantLeft   ParticipantStatus = "left"
)

// Session is a plannable unit of play as stored by the backend, plus the
// derived fields computed client-side after a fetch.
type Session struct {
	ID             string `json:"id"`
	CreatorID      string `json:"creator_id"`
	SessionType    Type   `json:"session_type"`
	Format         Format `json:"format,omitempty"`
	MaxPlayers     int    `json:"max_players"`
	StakesAmount   int    `json:"stakes_amount"`
	Status         Status `json:"status"`
	IsPrivate      bool   `json:"is_private"`
	InvitationCode string `json:"invitation_code,omitempty"`
	Location       string `json:"location,omitempty"`
	Notes          string `json:"notes,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`

	// Derived, never persisted. Computed from the participant and profile
	// joins on every fetch.
	ParticipantCount int           `json:"participant_count"`
	CreatorName      string        `json:"creator_name"`
	UserJoined       bool          `json:"user_joined"`
	Participants     []Participant `json:"participants,omitempty"`
}

// Participant is a user's join record against a session. Rows are never
// hard-deleted; leaving or being kicked transitions them to left.
type Participant struct {
	ID        string            `json:"id"`
	SessionID string            `json:"session_id"`
	UserID    string            `json:"user_id"`
	Status    ParticipantStatus `json:"status"`
	JoinedAt  string            `json:"joined_at,omitempty"`
	LeftAt    string            `json:"left_at,omitempty"`
}

// Profile carries the display data resolved for session creators.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
