// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/cinescope/docs" // Import generated swagger docs
	"github.com/tomtom215/cinescope/internal/analytics"
	"github.com/tomtom215/cinescope/internal/api"
	"github.com/tomtom215/cinescope/internal/auth"
	"github.com/tomtom215/cinescope/internal/authz"
	"github.com/tomtom215/cinescope/internal/catalog"
	"github.com/tomtom215/cinescope/internal/config"
	"github.com/tomtom215/cinescope/internal/logging"
	"github.com/tomtom215/cinescope/internal/notify"
	"github.com/tomtom215/cinescope/internal/recommend"
	"github.com/tomtom215/cinescope/internal/store"
	"github.com/tomtom215/cinescope/internal/supervisor"
	"github.com/tomtom215/cinescope/internal/supervisor/services"
	"github.com/tomtom215/cinescope/internal/telemetry"
	"github.com/tomtom215/cinescope/internal/uploads"
)

const (
	analyticsCacheTTL = 5 * time.Minute
	badgerGCInterval  = 10 * time.Minute
	badgerGCDiscard   = 0.5
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("CineScope stopped with an error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // Sequential setup steps
func run(cfg *config.Config) error {
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("db_backend", cfg.Database.Backend).
		Msg("Starting CineScope with supervisor tree")

	if _, err := telemetry.Init(&cfg.Telemetry, cfg.Server.Environment); err != nil {
		logging.Warn().Err(err).Msg("Error reporting disabled")
	}
	defer telemetry.Flush()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := openBackend(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	db := store.New(store.Instrument(backend))
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()
	logging.Info().Msg("Store initialized successfully")

	tokens, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("initialize JWT manager: %w", err)
	}
	authorizer, err := authz.New(cfg.Security.AuthzCacheTTL)
	if err != nil {
		return fmt.Errorf("initialize authorizer: %w", err)
	}
	photos, err := uploads.NewPhotos(&cfg.Uploads)
	if err != nil {
		return fmt.Errorf("initialize uploads: %w", err)
	}
	reports, err := analytics.NewReports(&cfg.Reports)
	if err != nil {
		return fmt.Errorf("initialize reports: %w", err)
	}

	if cfg.Catalog.APIKey == "" {
		logging.Warn().Msg("TMDB_API_KEY is not set, catalog requests will fail")
	}
	movies := catalog.New(&cfg.Catalog)

	limiter := auth.NewLoginLimiter(cfg.Security.LoginAttemptsPerMinute)
	insights := analytics.NewService(db, analyticsCacheTTL)

	notifications := notify.NewService(db.Notifications, &cfg.Notifications)
	defer func() {
		if err := notifications.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing notification feed")
		}
	}()
	var hub *notify.Hub
	if cfg.Notifications.StreamEnabled {
		hub = notify.NewHub(notifications)
	} else {
		logging.Info().Msg("Live notification stream disabled (NOTIFICATION_STREAM_ENABLED=false)")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.IsProduction() && hasWildcardOrigin(cfg.Security.CORSOrigins) {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*). Set explicit origins in production.")
	}

	handler := api.NewHandler(api.Dependencies{
		Config:     cfg,
		Store:      db,
		Auth:       auth.NewService(db.Accounts, tokens, &cfg.Security, limiter),
		Authorizer: authorizer,
		Catalog:    movies,
		Recommend:  recommend.NewService(movies),
		Analytics:  insights,
		Reports:    reports,
		Photos:     photos,
		Notify:     notifications,
		Hub:        hub,
	})
	router := api.NewRouter(handler, tokens, cfg)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer services
	tree.AddDataService(reports)
	if badgerDB, ok := backend.(*store.BadgerBackend); ok && !cfg.Database.InMemory {
		tree.AddDataService(services.NewPeriodicService("badger-gc", badgerGCInterval, func(context.Context) error {
			return badgerDB.RunGC(badgerGCDiscard)
		}))
	}

	// Messaging layer services
	if hub != nil {
		tree.AddMessagingService(hub)
		logging.Info().Msg("Notification hub added to supervisor tree")
	}

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))
	tree.AddAPIService(limiter)
	tree.AddAPIService(authorizer)
	tree.AddAPIService(insights.Cache())
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			treeErr = fmt.Errorf("supervisor tree: %w", err)
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}
	return treeErr
}

// openBackend connects the configured document store.
func openBackend(ctx context.Context, cfg *config.DatabaseConfig) (store.Backend, error) {
	switch cfg.Backend {
	case "mongo":
		backend, err := store.OpenMongo(ctx, store.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
			Timeout:  cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("open MongoDB store: %w", err)
		}
		return backend, nil
	default:
		backend, err := store.OpenBadger(store.BadgerConfig{
			Path:       cfg.Path,
			InMemory:   cfg.InMemory,
			SyncWrites: cfg.SyncWrites,
		})
		if err != nil {
			return nil, fmt.Errorf("open BadgerDB store: %w", err)
		}
		return backend, nil
	}
}

func hasWildcardOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
