package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/pkg/logging"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, not_found, no_route, upstream_error, internal_error
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

const noRouteMessage = "경로를 찾을 수 없습니다"

// errFromDomain maps navigation errors onto HTTP statuses. Anything not
// recognised came from an upstream service and is reported as 502.
func errFromDomain(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinate):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrSessionNotFound):
		return errNotFound(c, "session not found")
	case errors.Is(err, domain.ErrNoRoute), errors.Is(err, domain.ErrMalformedGeometry):
		logging.FromContext(c.UserContext()).Warn("no usable route", "error", err)
		return newError(c, 422, "no_route", noRouteMessage)
	default:
		logging.LogError(logging.FromContext(c.UserContext()), "request failed", err)
		return newError(c, 502, "upstream_error", err.Error())
	}
}
