package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/grantgg11/gamegrinding/internal/alert"
	"github.com/grantgg11/gamegrinding/internal/api"
	"github.com/grantgg11/gamegrinding/internal/config"
	"github.com/grantgg11/gamegrinding/internal/controllers"
	"github.com/grantgg11/gamegrinding/internal/models"
	"github.com/grantgg11/gamegrinding/internal/scheduler"
	"github.com/grantgg11/gamegrinding/internal/services/mobygames"
	"github.com/grantgg11/gamegrinding/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting GameGrinding")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Initialize services
	alerter := alert.NewLogAlerter(logger)

	mobyClient, err := mobygames.NewClient(cfg, db, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize MobyGames client: %w", err)
	}
	metadata := mobygames.NewService(mobyClient, alerter, logger)
	logger.Info("MobyGames client initialized")

	// 5. Initialize controllers
	userCtrl, err := controllers.NewUserController(db, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize user controller: %w", err)
	}
	collectionCtrl := controllers.NewCollectionController(db, metadata, logger)
	logger.Info("Controllers initialized")

	// 6. Initialize scheduler
	sched := scheduler.NewScheduler(db, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 7. Initialize HTTP server
	server := api.NewServer(cfg, db, userCtrl, collectionCtrl, logger)

	// Start server in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 8. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("GameGrinding is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("GameGrinding stopped")
	return nil
}
