package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	view            string
	scope           string
	sessionType     string
	winnerID        string
	durationMinutes int
)

func init() {
	sessionsCmd.Flags().StringVar(&view, "view", "available", "Which view to list: available, my-sessions or completed")
	sessionsCmd.Flags().StringVar(&scope, "scope", "all", "Narrow the list: all, active, waiting, created or joined")
	sessionsCmd.Flags().StringVar(&sessionType, "type", "", "Only show sessions of this type")
	completeCmd.Flags().StringVar(&winnerID, "winner", "", "The winning participant's user id (matches only)")
	completeCmd.Flags().IntVar(&durationMinutes, "duration", 0, "Session duration in minutes")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(leaveCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(kickCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List sessions for a view",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := fmt.Sprintf("/sessions?view=%s&scope=%s", view, scope)
		if sessionType != "" {
			endpoint += "&type=" + sessionType
		}
		return performGetRequest(endpoint)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-fetch every mounted view from the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/sessions/refresh")
	},
}

var joinCmd = &cobra.Command{
	Use:   "join <session-id>",
	Short: "Join a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/sessions/join", map[string]any{"session_id": args[0]})
	},
}

var leaveCmd = &cobra.Command{
	Use:   "leave <session-id>",
	Short: "Leave a session you previously joined",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/sessions/leave", map[string]any{"session_id": args[0]})
	},
}

var startCmd = &cobra.Command{
	Use:   "start <session-id>",
	Short: "Start a waiting session you created",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/sessions/start", map[string]any{"session_id": args[0]})
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <session-id>",
	Short: "Complete an active session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"session_id": args[0]}
		if winnerID != "" {
			body["winner_id"] = winnerID
		}
		if durationMinutes > 0 {
			body["duration_minutes"] = durationMinutes
		}
		return performPostRequest("/sessions/complete", body)
	},
}

var kickCmd = &cobra.Command{
	Use:   "kick <session-id> <participant-id>",
	Short: "Remove a participant from a session you created",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/sessions/kick", map[string]any{
			"session_id":     args[0],
			"participant_id": args[1],
		})
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Show the last persisted session list for a view",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/snapshot?view=" + view)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, body map[string]any) error {
	url := host + endpoint
	if dryRun {
		url += "?dry_run=true"
	}
	fmt.Printf("Making request to %s\n", url)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
