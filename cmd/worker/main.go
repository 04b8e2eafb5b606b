package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/pathpal/pathpal/internal/adapters/googlemaps"
	natsadapter "github.com/pathpal/pathpal/internal/adapters/nats"
	"github.com/pathpal/pathpal/internal/adapters/postgres"
	"github.com/pathpal/pathpal/internal/adapters/tmap"
	"github.com/pathpal/pathpal/internal/adapters/valkey"
	"github.com/pathpal/pathpal/internal/core/ports"
	"github.com/pathpal/pathpal/internal/core/usecases"
	"github.com/pathpal/pathpal/internal/pkg/config"
	"github.com/pathpal/pathpal/internal/pkg/logging"
	"github.com/pathpal/pathpal/internal/workflows"
)

func main() {
	cfg, err := config.Load("pathpal-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	var provider ports.RouteProvider
	timeout := time.Duration(cfg.Routing.TimeoutSeconds) * time.Second
	if cfg.Routing.Provider == "google" {
		g, err := googlemaps.New(cfg.Routing.GoogleAPIKey, timeout)
		if err != nil {
			log.Fatalf("google maps: %v", err)
		}
		provider = g
	} else {
		provider = tmap.New(cfg.Routing.TmapBaseURL, cfg.Routing.TmapAppKey, timeout)
	}

	acts := &workflows.NavigationActivities{}

	var cacheSvc ports.CacheService
	if cache, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}
	acts.Routes = usecases.NewRouteService(provider, cfg.Routing.Provider, cacheSvc, cfg.Routing.CacheTTLSeconds)

	if db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns); err != nil {
		slog.Warn("database unavailable, session history disabled", "error", err)
	} else {
		defer db.Close()
		acts.Sessions = postgres.NewSessionRepo(db)
	}

	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, routes will not be announced", "error", err)
	} else {
		defer pub.Close()
		acts.Publisher = pub
	}

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.PlanSessionWorkflow)
	w.RegisterActivity(acts)

	slog.Info("navigation worker started", "task_queue", cfg.Temporal.TaskQueue, "provider", cfg.Routing.Provider)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
