package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/grantgg11/gamegrinding/internal/api/handlers"
	"github.com/grantgg11/gamegrinding/internal/api/middleware"
	"github.com/grantgg11/gamegrinding/internal/config"
	"github.com/grantgg11/gamegrinding/internal/controllers"
	"github.com/grantgg11/gamegrinding/internal/models"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	server     *http.Server
	db         *models.Database
	users      *controllers.UserController
	collection *controllers.CollectionController
	logger     *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, db *models.Database, users *controllers.UserController, collection *controllers.CollectionController, logger *logrus.Logger) *Server {
	s := &Server{
		db:         db,
		users:      users,
		collection: collection,
		logger:     logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // metadata searches serialize through the rate limiter
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// Health check
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.HandleFunc("/health", healthHandler.ServeHTTP)

	// Status endpoint
	statusHandler := handlers.NewStatusHandler(s.db, s.logger)
	mux.HandleFunc("/status", statusHandler.ServeHTTP)

	// Accounts
	usersHandler := handlers.NewUsersHandler(s.users, s.logger)
	mux.HandleFunc("/api/users/register", usersHandler.Register)
	mux.HandleFunc("/api/users/login", usersHandler.Login)

	// Collection
	gamesHandler := handlers.NewGamesHandler(s.collection, s.logger)
	mux.HandleFunc("/api/games", gamesHandler.ServeHTTP)

	// Metadata search
	searchHandler := handlers.NewSearchHandler(s.collection, s.logger)
	mux.HandleFunc("/api/search", searchHandler.ServeHTTP)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
