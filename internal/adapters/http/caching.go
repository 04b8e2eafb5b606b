package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses that did
// not set their own.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "no-cache"

		case path == "/metrics":
			ttl = "no-cache"

		case strings.HasPrefix(path, "/v1/places/search"):
			ttl = "public, max-age=300" // matches the place search cache

		case strings.HasSuffix(path, "/shape") || strings.HasSuffix(path, "/instructions"):
			ttl = "private, max-age=60" // fixed until the next reroute

		case strings.HasPrefix(path, "/v1/sessions"), strings.HasPrefix(path, "/v1/history"):
			ttl = "no-store" // live guidance state

		case strings.HasPrefix(path, "/docs"):
			ttl = "public, max-age=3600"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}
