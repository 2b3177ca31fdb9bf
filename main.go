package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtsidehq/courtside/internal/auth"
	"github.com/courtsidehq/courtside/internal/backend"
	"github.com/courtsidehq/courtside/internal/config"
	"github.com/courtsidehq/courtside/internal/database"
	"github.com/courtsidehq/courtside/internal/dispatcher"
	"github.com/courtsidehq/courtside/internal/feed"
	server "github.com/courtsidehq/courtside/internal/http"
	"github.com/courtsidehq/courtside/internal/metrics"
	"github.com/courtsidehq/courtside/internal/notifier/slack"
	"github.com/courtsidehq/courtside/internal/retry"
	"github.com/courtsidehq/courtside/internal/snapshot"
	"github.com/courtsidehq/courtside/internal/store"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	userID, err := auth.UserIDFromToken(cfg.Backend.AccessToken)
	if err != nil {
		// Anonymous sessions still get the available view; membership views
		// and actions stay disabled.
		log.Warn("Could not resolve user from access token, running unauthenticated", "error", err)
	}

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	backendClient := backend.NewClient(cfg.Backend.URL, cfg.Backend.APIKey, cfg.Backend.AccessToken)
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	snapshotStore := snapshot.New(db)

	views := make(map[store.View]*server.ViewHandle)
	retryOpts := []retry.Option{
		retry.WithAttempts(cfg.Retry.Attempts),
		retry.WithBaseDelay(time.Duration(cfg.Retry.BaseDelayMs) * time.Millisecond),
	}
	for _, view := range []store.View{store.ViewAvailable, store.ViewMySessions, store.ViewCompleted} {
		st := store.New(store.Config{
			View:     view,
			UserID:   userID,
			Backend:  backendClient,
			Snapshot: snapshotStore,
			Metrics:  metricsSvc,
		})
		views[view] = &server.ViewHandle{Store: st, Fetcher: retry.New(st, notifier, retryOpts...)}
	}

	refetchAll := func(ctx context.Context) {
		for view, handle := range views {
			if err := handle.Fetcher.Fetch(ctx); err != nil {
				log.Error("Failed to refresh view", "error", err, "view", view)
			}
		}
	}

	d := dispatcher.New(backendClient, notifier, metricsSvc, userID, refetchAll)

	// The change feed is best-effort: if the subscription cannot be
	// established we keep serving fetch-only and the list just goes stale
	// between explicit refreshes.
	subscriber, err := feed.New(
		cfg.PubSub.ProjectID,
		[]string{cfg.PubSub.SessionsTopic, cfg.PubSub.ParticipantsTopic},
		func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			refetchAll(ctx)
		},
		metricsSvc,
	)
	if err != nil {
		log.Error("Failed to create change feed subscriber, continuing fetch-only", "error", err)
	} else {
		feedCtx, feedCancel := context.WithCancel(context.Background())
		defer feedCancel()
		if err := subscriber.Open(feedCtx); err != nil {
			log.Error("Failed to open change feed, continuing fetch-only", "error", err)
		}
	}

	// Warm every view before accepting traffic.
	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		refetchAll(ctx)
		cancel()
	}

	s := server.NewServer(views, d, snapshotStore, metricsSvc, metricsHandler, cfg)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if subscriber != nil {
			if err := subscriber.Close(ctx); err != nil {
				log.Error("Change feed shutdown failed", "error", err)
			}
		}
		for _, handle := range views {
			handle.Store.Close()
		}

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
