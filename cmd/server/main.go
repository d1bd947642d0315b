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

	"github.com/chemsearch/backend/config"
	"github.com/chemsearch/backend/internal/app"
	httpDelivery "github.com/chemsearch/backend/internal/delivery/http"
	"github.com/chemsearch/backend/internal/observability"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		ServiceName: "chemsearch-backend",
	})

	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("starting chemsearch backend v1.0.0")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise services")
	}
	defer services.Close()

	if cfg.Rates.APIKey == "" {
		logger.Info().Str("rates_url", cfg.Rates.BaseURL).Msg("exchange rate API configured without key")
	}
	if !cfg.Snapshot.Enabled {
		logger.Warn().Msg("snapshot storage disabled")
	}
	logger.Info().
		Float64("min_score", cfg.Matching.MinScore).
		Bool("fuzzy", cfg.Matching.EnableFuzzy).
		Bool("debug", cfg.Matching.EnableDebugLogging).
		Msg("matching configured")

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(services.Listings, services.Converter, logger)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
