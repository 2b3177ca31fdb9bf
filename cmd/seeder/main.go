package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtsidehq/courtside/internal/backend"
	"github.com/courtsidehq/courtside/internal/session"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"BACKEND_URL", "BACKEND_API_KEY", "BACKEND_ACCESS_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

type seedSession struct {
	ID           string `json:"id"`
	CreatorID    string `json:"creator_id"`
	SessionType  string `json:"session_type"`
	Format       string `json:"format,omitempty"`
	MaxPlayers   int    `json:"max_players"`
	StakesAmount int    `json:"stakes_amount"`
	Status       string `json:"status"`
	IsPrivate    bool   `json:"is_private"`
	Location     string `json:"location,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type seedParticipant struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	JoinedAt  string `json:"joined_at"`
}

type seedProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

func main() {
	log.Info("Starting backend seeder...")
	cfg := loadConfig()

	client := backend.NewClient(cfg["BACKEND_URL"], cfg["BACKEND_API_KEY"], cfg["BACKEND_ACCESS_TOKEN"])
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	profiles := []seedProfile{
		{ID: uuid.NewString(), DisplayName: "Seeder Player A"},
		{ID: uuid.NewString(), DisplayName: "Seeder Player B"},
		{ID: uuid.NewString(), DisplayName: "Seeder Player C"},
		{ID: uuid.NewString(), DisplayName: "Seeder Player D"},
	}
	if err := client.Insert(ctx, "profiles", profiles); err != nil {
		log.Fatalf("Failed to insert seed profiles: %s", err)
	}
	log.Info("Ensured seed profiles exist.")

	sessionTypes := []session.Type{
		session.TypeMatch,
		session.TypeSocialPlay,
		session.TypeTraining,
		session.TypeWellbeing,
	}
	locations := []string{"Court 1", "Court 2", "Clubhouse", "Practice Wall"}

	const numSessions = 40
	sessions := make([]seedSession, 0, numSessions)
	participants := make([]seedParticipant, 0, numSessions*2)

	for i := 0; i < numSessions; i++ {
		creator := profiles[rand.Intn(len(profiles))]
		sessionType := sessionTypes[rand.Intn(len(sessionTypes))]

		row := seedSession{
			ID:           uuid.NewString(),
			CreatorID:    creator.ID,
			SessionType:  string(sessionType),
			MaxPlayers:   4,
			StakesAmount: rand.Intn(5) * 10,
			Status:       string(session.StatusWaiting),
			IsPrivate:    rand.Intn(10) == 0,
			Location:     locations[rand.Intn(len(locations))],
		}
		if sessionType == session.TypeMatch {
			row.Format = string(session.FormatDoubles)
		}
		sessions = append(sessions, row)

		// Creators join their own sessions on creation.
		participants = append(participants, seedParticipant{
			ID:        uuid.NewString(),
			SessionID: row.ID,
			UserID:    creator.ID,
			Status:    string(session.ParticipantJoined),
			JoinedAt:  time.Now().UTC().Format(time.RFC3339),
		})
	}

	startTime := time.Now()
	if err := client.Insert(ctx, "sessions", sessions); err != nil {
		log.Fatalf("Failed to insert seed sessions: %s", err)
	}
	if err := client.Insert(ctx, "session_participants", participants); err != nil {
		log.Fatalf("Failed to insert seed participants: %s", err)
	}

	log.Info("Successfully inserted all seed sessions.", "sessions", len(sessions), "duration", time.Since(startTime))
}
