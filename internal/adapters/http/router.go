package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/pathpal/pathpal/internal/pkg/metrics"
)

// Route planning waits on the routing service, and on the workflow when
// Temporal is enabled.
const (
	planTimeout    = 30 * time.Second
	requestTimeout = 10 * time.Second
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// A walker streams roughly one position and a few heading samples per
	// second.
	app.Use(limiter.New(limiter.Config{
		Max:        600,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	v1.Get("/places/search", timeout.NewWithContext(SearchPlacesHandler(deps), requestTimeout))

	v1.Post("/sessions", timeout.NewWithContext(StartSessionHandler(deps), planTimeout))
	v1.Get("/sessions/:id", GetSessionHandler(deps))
	v1.Delete("/sessions/:id", timeout.NewWithContext(EndSessionHandler(deps), requestTimeout))
	v1.Get("/sessions/:id/instructions", SessionInstructionsHandler(deps))
	v1.Get("/sessions/:id/shape", SessionShapeHandler(deps))
	v1.Post("/sessions/:id/reroute", timeout.NewWithContext(RerouteHandler(deps), planTimeout))
	v1.Post("/sessions/:id/position", timeout.NewWithContext(PositionHandler(deps), requestTimeout))
	v1.Post("/sessions/:id/heading", timeout.NewWithContext(HeadingHandler(deps), requestTimeout))

	v1.Get("/history", timeout.NewWithContext(HistoryHandler(deps), requestTimeout))
	v1.Get("/history/:id", timeout.NewWithContext(HistoryRecordHandler(deps), requestTimeout))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	specPath := deps.SpecPath
	if specPath == "" {
		specPath = DefaultSpecPath
	}
	SetupDocs(app, specPath)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.Navigation, deps.NATS)))
}
