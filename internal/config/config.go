package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	getEnvInt := func(key string, fallback int) int {
		value, ok := os.LookupEnv(key)
		if !ok {
			return fallback
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			log.Fatalf("Error: Environment variable %s must be an integer, got %q.", key, value)
		}
		return n
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: "./migrations",
		Port:          getEnv("PORT"),
		Backend: BackendConfig{
			URL:         getEnv("BACKEND_URL"),
			APIKey:      getEnv("BACKEND_API_KEY"),
			AccessToken: getEnv("BACKEND_ACCESS_TOKEN"),
		},
		Slack: SlackConfig{
			Token:     getEnv("SLACK_BOT_TOKEN"),
			ChannelID: getEnv("SLACK_CHANNEL_ID"),
		},
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		PubSub: PubSubConfig{
			ProjectID:         getEnv("GCP_PROJECT"),
			SessionsTopic:     getEnvWithDefault("SESSIONS_TOPIC", "session-changes"),
			ParticipantsTopic: getEnvWithDefault("PARTICIPANTS_TOPIC", "participant-changes"),
		},
		Retry: RetryConfig{
			Attempts:    getEnvInt("FETCH_RETRY_ATTEMPTS", 3),
			BaseDelayMs: getEnvInt("FETCH_RETRY_BASE_DELAY_MS", 500),
		},
	}
	return cfg
}

func getEnvWithDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
