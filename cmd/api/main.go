package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.temporal.io/sdk/client"

	"github.com/pathpal/pathpal/internal/adapters/googlemaps"
	"github.com/pathpal/pathpal/internal/adapters/http"
	natsadapter "github.com/pathpal/pathpal/internal/adapters/nats"
	"github.com/pathpal/pathpal/internal/adapters/postgres"
	"github.com/pathpal/pathpal/internal/adapters/tmap"
	"github.com/pathpal/pathpal/internal/adapters/valkey"
	"github.com/pathpal/pathpal/internal/core/ports"
	"github.com/pathpal/pathpal/internal/core/usecases"
	"github.com/pathpal/pathpal/internal/pkg/config"
	"github.com/pathpal/pathpal/internal/pkg/logging"
	"github.com/pathpal/pathpal/internal/pkg/metrics"
	"github.com/pathpal/pathpal/internal/pkg/telemetry"
	"github.com/pathpal/pathpal/internal/workflows"
)

// routingBackend is what both routing clients offer.
type routingBackend interface {
	ports.RouteProvider
	ports.PlaceSearcher
}

func main() {
	cfg, err := config.Load("pathpal-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database (optional: history is not kept without it)
	var sessions ports.SessionRepository
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		slog.Warn("database unavailable, session history disabled", "error", err)
	} else {
		defer db.Close()
		sessions = postgres.NewSessionRepo(db)
		go reportPoolStats(ctx, db)
	}

	// Cache
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// NATS
	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	// Routing
	backend, err := newRoutingBackend(cfg.Routing)
	if err != nil {
		log.Fatalf("routing: %v", err)
	}
	routeSvc := usecases.NewRouteService(backend, cfg.Routing.Provider, cacheSvc, cfg.Routing.CacheTTLSeconds)
	placeSvc := usecases.NewPlaceService(backend, cacheSvc)

	var planner ports.SessionPlanner = usecases.NewDirectPlanner(routeSvc, sessions, publisher)
	if cfg.Temporal.Enabled {
		tc, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
		})
		if err != nil {
			log.Fatalf("temporal client: %v", err)
		}
		defer tc.Close()
		planner = workflows.NewPlanner(tc, cfg.Temporal.TaskQueue)
		slog.Info("planning sessions through temporal", "task_queue", cfg.Temporal.TaskQueue)
	}

	navSvc := usecases.NewNavigationService(planner, sessions, publisher, usecases.NavigationSettings{
		ProximityThresholdM: cfg.Navigation.ProximityThresholdM,
		ArrivalRadiusM:      cfg.Navigation.ArrivalRadiusM,
		HeadingToleranceDeg: cfg.Navigation.HeadingToleranceDeg,
	})

	// Samples published by devices straight to the broker
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats subscriber unavailable", "error", err)
	} else {
		defer sub.Close()
		if err := navSvc.Consume(ctx, sub); err != nil {
			slog.Error("subscribe to samples", "error", err)
		}
	}

	deps := &http.Dependencies{
		Navigation: navSvc,
		Places:     placeSvc,
		NATS:       natsConn,
		DB:         db,
		Cache:      cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    256 * 1024, // samples and session requests are small
		AppName:      "PathPal API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "provider", cfg.Routing.Provider)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String(), "active_sessions", navSvc.Count())
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

func newRoutingBackend(cfg config.RoutingConfig) (routingBackend, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	switch cfg.Provider {
	case "google":
		return googlemaps.New(cfg.GoogleAPIKey, timeout)
	default:
		if cfg.TmapAppKey == "" {
			slog.Warn("routing.tmap_app_key is empty; requests will be rejected upstream")
		}
		return tmap.New(cfg.TmapBaseURL, cfg.TmapAppKey, timeout), nil
	}
}

func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Pool.Stat())
		case <-ctx.Done():
			return
		}
	}
}
