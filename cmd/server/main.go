package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerylCAtieno/ask-relay/internal/config"
	"github.com/BerylCAtieno/ask-relay/internal/router"
	"github.com/BerylCAtieno/ask-relay/internal/services"
	"github.com/BerylCAtieno/ask-relay/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	if cfg.GitHubToken == "" {
		logger.Warn("GITHUB_TOKEN is not set; /api/ask will return 500 until it is configured")
	}

	// Initialize ask pipeline
	askService, err := services.NewService(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize ask service", "error", err)
	}

	// Setup HTTP router
	handler := router.NewRouter(askService, cfg.StaticDir, logger)

	// Write timeout covers the sheet fetch (10s) plus the inference call (30s).
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "model", cfg.GitHubModel, "static_dir", cfg.StaticDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
