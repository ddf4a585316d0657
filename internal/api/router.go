package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/kiranchoudharyy/BroCode-sub000/internal/api/middleware"
	"github.com/kiranchoudharyy/BroCode-sub000/internal/config"
	"github.com/kiranchoudharyy/BroCode-sub000/internal/fanout"
	"github.com/kiranchoudharyy/BroCode-sub000/internal/handlers"
	"github.com/kiranchoudharyy/BroCode-sub000/internal/realtime"
	"github.com/kiranchoudharyy/BroCode-sub000/internal/ws"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(logger zerolog.Logger, cfg *config.Config, coord *realtime.Coordinator, redisFanout *fanout.Redis) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(cfg.MaxPayloadBytes))

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// CORS - the web client connects from the platform origin; polling
	// fallback requests arrive cross-origin in development.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := handlers.NewHandler(coord, redisFanout)
	wsServer := ws.NewServer(coord, cfg.MaxPayloadBytes, logger)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Public routes
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/stats", h.Stats)
	r.Get("/ws", wsServer.Handle)

	// Polling fallback for clients without a live socket
	r.Get("/rooms", h.ListRooms)
	r.Get("/rooms/{id}/members", h.RoomMembers)

	// Internal publish surface (service-to-service)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireInternalToken(cfg.InternalToken))

		r.Post("/internal/rooms/{id}/publish", h.Publish)
		r.Post("/internal/challenges/{id}/leaderboard", h.LeaderboardPublish)
	})

	return r
}
