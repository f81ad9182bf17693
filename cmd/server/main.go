// Package main is the entry point for the training journal API server.
//
// MAIN PACKAGE IN GO:
// Every Go program starts execution in the main() function of the "main" package.
// The main package should be kept minimal. Its job is to:
// 1. Read configuration (from env vars and an optional .env file)
// 2. Create dependencies (logger, data directory)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
//
// WHY cmd/server/?
// The cmd/ directory is a Go convention for executable entry points.
// This project has two: cmd/server (the API) and cmd/journal (the CLI client).
// Each gets its own directory with its own main.go.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/training-journal/internal/config"
	"github.com/sakif/training-journal/internal/server"
)

func main() {
	// === 1. READ CONFIGURATION ===
	// config.Load reads .env (if present), then the environment, then validates.
	// A bad value stops the process before anything is opened.
	cfg, err := config.Load()
	if err != nil {
		// No configured logger yet, so use a plain one for this single line.
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	// LOG_FORMAT=json is what you want behind a log collector; text is nicer
	// in a terminal. LOG_LEVEL filters out anything below it.
	logger := cfg.NewLogger(os.Stdout)

	if cfg.UsingDevSecret() {
		logger.Warn("JWT_SECRET not set, falling back to the development secret")
	}

	// === 3. DATABASE DIRECTORY ===
	// SQLite creates the file but not its parent directory.
	// os.MkdirAll is `mkdir -p`; 0755 = owner rwx, others r-x.
	if cfg.DBDriver == "sqlite" && cfg.DBDSN != ":memory:" {
		dbDir := filepath.Dir(cfg.DBDSN)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	// === 4. CREATE AND START THE SERVER ===
	srv, err := server.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
