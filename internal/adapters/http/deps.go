package http

import (
	"github.com/nats-io/nats.go"

	"github.com/pathpal/pathpal/internal/adapters/postgres"
	"github.com/pathpal/pathpal/internal/adapters/valkey"
	"github.com/pathpal/pathpal/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Navigation *usecases.NavigationService
	Places     *usecases.PlaceService
	NATS       *nats.Conn
	DB         *postgres.DB
	Cache      *valkey.Cache

	// SpecPath overrides DefaultSpecPath for /docs.
	SpecPath string
}
