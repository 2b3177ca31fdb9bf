package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Backend       BackendConfig
	Slack         SlackConfig
	Turso         TursoConfig
	PubSub        PubSubConfig
	Retry         RetryConfig
}

// BackendConfig points at the club backend and carries the credentials the
// session layer acts with.
type BackendConfig struct {
	URL         string
	APIKey      string
	AccessToken string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// PubSubConfig names the change-feed topics the backend publishes row
// changes to.
type PubSubConfig struct {
	ProjectID         string
	SessionsTopic     string
	ParticipantsTopic string
}

// RetryConfig tunes the fetch retry controller.
type RetryConfig struct {
	Attempts    int
	BaseDelayMs int
}
