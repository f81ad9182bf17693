// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer: it connects handlers, middleware, and routes.
// Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go loads config.Config and builds the logger, then:
//
//	Server.New() creates: sqlstore.DB → services → handlers → routes
//
// This is the "composition root" pattern: all dependencies are wired
// in one place (New/setupRoutes), rather than scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/training-journal/internal/auth"
	"github.com/sakif/training-journal/internal/config"
	"github.com/sakif/training-journal/internal/handler"
	"github.com/sakif/training-journal/internal/middleware"
	"github.com/sakif/training-journal/internal/repository/sqlstore"
	"github.com/sakif/training-journal/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection. When the server shuts down we
// close it to flush pending writes and release the SQLite file lock.
type Server struct {
	router  *chi.Mux
	config  config.Config
	logger  *slog.Logger
	db      *sqlstore.DB
	metrics *middleware.Metrics
}

// New opens the database, runs migrations and wires every route.
//
// Each layer only receives what it needs:
// - Services get repository interfaces (the *sqlstore.DB satisfies all of them)
// - Handlers get services, never the DB
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqlstore.New(ctx, cfg.DBDriver, cfg.DBDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: middleware.NewMetrics(),
	}

	if err := s.setupRoutes(); err != nil {
		db.Close() // Clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET    /health                          → liveness
// GET    /metrics                         → Prometheus
// POST   /auth/register, /auth/login      → public
// GET    /auth/me                         → bearer
// /sessions, /sessions/past, /sessions/{id}, /sessions/{id}/notes[/{noteId}]
// /themes, /themes/{id}
// /tasks, /tasks/{id}
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added. Our order:
// 1. RequestID: assigns unique ID to each request (for tracing)
// 2. RealIP: extracts real client IP from proxy headers
// 3. Logger: logs each request with timing info and the request ID
// 4. Recoverer: catches panics and returns 500 instead of crashing
// 5. Metrics: counts requests by matched route pattern
// 6. CORS: answers preflights before auth sees them
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.AccessTokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService(s.config.BcryptCost)

	// === Global Middleware ===
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(s.metrics.Instrument)
	s.router.Use(middleware.CORS(s.config.AllowedOrigins()))

	// DEPENDENCY CHAIN:
	//   s.db (sqlstore.DB) → implements every repository interface
	//   services receive the interfaces
	//   handlers receive the services
	authHandler := handler.NewAuthHandler(service.NewAuthService(s.db, tokens, passwords, s.logger), s.logger)
	sessionHandler := handler.NewSessionHandler(service.NewSessionService(s.db, s.logger), s.logger)
	noteHandler := handler.NewNoteHandler(service.NewNoteService(s.db, s.db, s.logger), s.logger)
	themeHandler := handler.NewThemeHandler(service.NewThemeService(s.db, s.logger), s.logger)
	taskHandler := handler.NewTaskHandler(service.NewTaskService(s.db, s.logger), s.logger)

	// === Public Routes ===
	s.router.Get("/health", handler.HealthHandler)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	s.router.Post("/auth/register", authHandler.HandleRegister)
	s.router.Post("/auth/login", authHandler.HandleLogin)

	// === Protected Routes ===
	// RequireAuth runs before every handler in this group; the handler only
	// runs once a valid bearer token put the user ID into the context.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens, s.logger))

		r.Get("/auth/me", authHandler.HandleMe)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", sessionHandler.HandleList)
			r.Post("/", sessionHandler.HandleCreate)
			r.Get("/past", sessionHandler.HandleListPast)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sessionHandler.HandleGetByID)
				r.Put("/", sessionHandler.HandleUpdate)
				r.Delete("/", sessionHandler.HandleDelete)

				r.Get("/notes", noteHandler.HandleList)
				r.Post("/notes", noteHandler.HandleCreate)
				r.Put("/notes/{noteId}", noteHandler.HandleUpdate)
				r.Delete("/notes/{noteId}", noteHandler.HandleDelete)
			})
		})

		r.Route("/themes", func(r chi.Router) {
			r.Get("/", themeHandler.HandleList)
			r.Post("/", themeHandler.HandleCreate)
			r.Get("/{id}", themeHandler.HandleGetByID)
			r.Delete("/{id}", themeHandler.HandleDelete)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.HandleList)
			r.Post("/", taskHandler.HandleCreate)
			r.Get("/{id}", taskHandler.HandleGetByID)
			r.Put("/{id}", taskHandler.HandleUpdate)
			r.Delete("/{id}", taskHandler.HandleDelete)
		})
	})

	return nil
}

// Handler exposes the router, for httptest servers and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (SHUTDOWN_TIMEOUT)
// 3. Close the database connection (flushes WAL, releases file lock)
//
// The `defer s.db.Close()` ensures step 3 happens on every return path.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Channel to receive OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	// Channel to receive server errors
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("driver", s.config.DBDriver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
