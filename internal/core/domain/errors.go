package domain

import "errors"

var (
	// ErrMalformedGeometry means a feature's declared geometry type does not
	// match its coordinate payload. The whole route is rejected.
	ErrMalformedGeometry = errors.New("malformed geometry")

	// ErrNoRoute means the routing provider returned no usable route.
	ErrNoRoute = errors.New("no route found")

	// ErrSessionNotFound is returned for unknown session IDs.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidCoordinate is returned when a request carries an
	// out-of-range coordinate. Live samples never produce it.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)
