package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/vignette-engine/internal/config"
	"github.com/jwebster45206/vignette-engine/internal/handlers"
	"github.com/jwebster45206/vignette-engine/internal/logger"
	"github.com/jwebster45206/vignette-engine/internal/middleware"
	"github.com/jwebster45206/vignette-engine/internal/services/events"
	"github.com/jwebster45206/vignette-engine/internal/services/queue"
	"github.com/jwebster45206/vignette-engine/internal/storage"
	"github.com/jwebster45206/vignette-engine/pkg/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Vignette Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir,
		"level_config", cfg.LevelConfig,
		"max_step_seconds", cfg.MaxStepSeconds)

	levelCfg, err := session.LoadConfig(cfg.LevelConfig)
	if err != nil {
		log.Error("Failed to load level config", "error", err, "path", cfg.LevelConfig)
		os.Exit(1)
	}

	queueClient, err := queue.NewClient(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	store := storage.NewMemoryStore(cfg.DataDir, log)
	commandQueue := queue.NewCommandQueue(queueClient, log)
	broadcaster := events.NewBroadcaster(queueClient.Redis(), log)

	mux := http.NewServeMux()

	mux.Handle("/health", handlers.NewHealthHandler(queueClient, log))

	sessionHandler := handlers.NewSessionHandler(log, store, commandQueue, broadcaster, levelCfg, cfg.MaxStepSeconds)
	mux.Handle("/v1/sessions", sessionHandler)
	mux.Handle("/v1/sessions/", sessionHandler)

	levelHandler := handlers.NewLevelHandler(log, store)
	mux.Handle("/v1/levels", levelHandler)
	mux.Handle("/v1/levels/", levelHandler)

	mux.Handle("/v1/events/", handlers.NewEventsHandler(queueClient.Redis(), log))

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     middleware.Logger(log, mux),
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: the events endpoint streams
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := queueClient.Close(); err != nil {
		log.Error("Error closing Redis connection", "error", err)
	}

	log.Info("Server exited")
}
