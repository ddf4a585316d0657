package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/kiranchoudharyy/BroCode-sub000/internal/api"
	"github.com/kiranchoudharyy/BroCode-sub000/internal/config"
	"github.com/kiranchoudharyy/BroCode-sub000/internal/fanout"
	"github.com/kiranchoudharyy/BroCode-sub000/internal/realtime"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()

	// Realtime core
	coord := realtime.NewCoordinator(realtime.Options{
		PresenceWindow:  cfg.PresenceWindow,
		MaxPayloadBytes: cfg.MaxPayloadBytes,
		Logger:          logger.With().Str("component", "realtime").Logger(),
	})

	// Optional cross-process fan-out
	var redisFanout *fanout.Redis
	if cfg.RedisURL != "" {
		var err error
		redisFanout, err = fanout.NewRedis(ctx, cfg.RedisURL, coord.DeliverRemote,
			logger.With().Str("component", "fanout").Logger())
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisFanout.Close()
		coord.SetFanout(redisFanout)
		logger.Info().Msg("cross-process fan-out enabled")
	}

	// Cleanup scheduler: the only timer over the registry and room maps
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	janitor := realtime.NewJanitor(coord, cfg.SweepInterval,
		logger.With().Str("component", "janitor").Logger())
	go janitor.Run(janitorCtx)

	// Create router
	router := api.NewRouter(logger, cfg, coord, redisFanout)

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Dur("presence_window", cfg.PresenceWindow).
			Msg("starting realtime server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Stop the cleanup ticker first; no per-connection drain is attempted
	stopJanitor()

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
