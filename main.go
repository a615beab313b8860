package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avelar/pillreminder-api/auth"
	"github.com/avelar/pillreminder-api/config"
	"github.com/avelar/pillreminder-api/dataset"
	"github.com/avelar/pillreminder-api/handlers"
	"github.com/avelar/pillreminder-api/health"
	"github.com/avelar/pillreminder-api/logging"
	"github.com/avelar/pillreminder-api/schedule"
	"github.com/avelar/pillreminder-api/scheduler"
	"github.com/avelar/pillreminder-api/server"
	"github.com/avelar/pillreminder-api/store"
	"github.com/joho/godotenv"
)

// testUsers are the fixtures the original mobile app seeded on first run.
// Only created when SEED_TEST_USERS is set, and never in prod.
var testUsers = [][2]string{
	{"testUser1", "password123"},
	{"johnDoe", "pass456"},
	{"janeDoe", "secure789"},
	{"admin", "admin123"},
}

func seedTestUsers(authService *auth.Service) {
	for _, user := range testUsers {
		if _, err := authService.Register(user[0], user[1]); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				continue
			}
			logging.Warn("Failed to seed test user", "username", user[0], "error", err)
			continue
		}
		logging.Info("Seeded test user", "username", user[0])
	}
}

func main() {
	// Read the env variables; a missing .env file is fine, the environment
	// may carry everything already.
	if err := godotenv.Load(); err != nil {
		logging.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs")

	entityStore, err := store.NewBadger(cfg.BadgerPath)
	if err != nil {
		logging.Error("Failed to open entity store", "path", cfg.BadgerPath, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := entityStore.Close(); err != nil {
			logging.Error("Failed to close entity store", "error", err)
		}
	}()

	authService := auth.NewService(entityStore)

	if cfg.SeedTestUsers {
		seedTestUsers(authService)
	}

	// Fetch the reference dataset if there is no local copy yet.
	if cfg.DatasetURL != "" {
		if _, err := os.Stat(cfg.DatasetPath); os.IsNotExist(err) {
			if err := dataset.Download(cfg.DatasetPath, cfg.DatasetURL); err != nil {
				logging.Error("Failed to download reference dataset", "error", err)
			}
		}
	}

	gate := dataset.NewGate(dataset.Options{
		Path:       cfg.DatasetPath,
		Match:      dataset.MatchMode(cfg.DatasetMatchMode),
		FailClosed: cfg.DatasetFailClosed,
	})

	var datasetScheduler *scheduler.Scheduler
	if cfg.DatasetRefresh {
		datasetScheduler = scheduler.NewScheduler(gate)
		if err := datasetScheduler.Start(); err != nil {
			logging.Error("Failed to start dataset scheduler", "error", err)
			os.Exit(1)
		}
		defer datasetScheduler.Stop()
	}

	builder := schedule.NewBuilder(entityStore)
	healthChecker := health.NewHealthChecker(entityStore, gate)
	handler := handlers.NewHTTPHandler(entityStore, authService, builder, gate, healthChecker)

	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}
}
