package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rowanhale/tally/internal/database"
	"github.com/rowanhale/tally/internal/logging"
	"github.com/rowanhale/tally/internal/seed"
	"github.com/rowanhale/tally/internal/server"
)

func main() {
	logger := logging.FromEnv()

	port := os.Getenv("TALLY_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("TALLY_DB_PATH")
	if dbPath == "" {
		dbPath = "tally.db"
	}

	// Observer timezone for period boundaries. Defaults to the host zone;
	// set TALLY_TZ (e.g. "Europe/Berlin") to pin it.
	observer := time.Local
	if tz := os.Getenv("TALLY_TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			logger.Error("invalid TALLY_TZ", "tz", tz, "error", err)
			os.Exit(1)
		}
		observer = loc
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := seed.Run(db, observer, logger.With("component", "seed")); err != nil {
			logger.Error("seed demo data", "error", err)
			os.Exit(1)
		}
		fmt.Println("Demo data loaded. Log in as 'demo' with password 'demo'.")
		return
	}

	srv := server.New(db, observer, logger)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("tally running", "addr", "http://localhost:"+port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Drop expired sessions periodically.
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Warn("session cleanup", "error", err)
				} else if n > 0 {
					logger.Debug("session cleanup", "deleted", n)
				}
				srv.RateLimiter().Cleanup()
			case <-cleanupDone:
				return
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	close(cleanupDone)

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
