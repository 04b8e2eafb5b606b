package http

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pathpal/pathpal/internal/pkg/logging"
)

// AccessLogMiddleware logs HTTP requests with structured slog output.
// Position and heading posts arrive every second or so per walker, so
// successful ones are logged at debug level.
func AccessLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		status := c.Response().StatusCode()
		attrs := []slog.Attr{
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.String("latency", time.Since(start).String()),
			slog.Int("bytes_out", len(c.Response().Body())),
		}

		level := slog.LevelInfo
		switch {
		case err != nil:
			attrs = append(attrs, slog.String("error", err.Error()))
			level = slog.LevelError
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		case isSampleRoute(c):
			level = slog.LevelDebug
		}

		logger := logging.FromContext(c.UserContext())
		logger.LogAttrs(c.UserContext(), level, fmt.Sprintf("%s %s", method, path), attrs...)

		return err
	}
}

func isSampleRoute(c *fiber.Ctx) bool {
	r := c.Route()
	return r != nil && (r.Path == "/v1/sessions/:id/position" || r.Path == "/v1/sessions/:id/heading")
}
