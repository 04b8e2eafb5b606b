package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/core/geometry"
)

type pointBody struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

func (p *pointBody) point() (domain.GeoPoint, bool) {
	if p == nil || p.Lat == nil || p.Lon == nil {
		return domain.GeoPoint{}, false
	}
	return domain.GeoPoint{Lat: *p.Lat, Lon: *p.Lon}, true
}

type startSessionBody struct {
	Origin           *pointBody `json:"origin"`
	Destination      *pointBody `json:"destination"`
	OriginName       string     `json:"origin_name"`
	DestinationName  string     `json:"destination_name"`
	DestinationPOIID string     `json:"destination_poi_id"`
}

type rerouteBody struct {
	Origin *pointBody `json:"origin"`
}

type positionBody struct {
	pointBody
	Timestamp *time.Time `json:"timestamp"`
}

type headingBody struct {
	Degrees *float64 `json:"degrees"`
}

// SearchPlacesHandler resolves a destination name into places.
func SearchPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len([]rune(query)) > 100 {
			return errBadRequest(c, "query too long (max 100 characters)")
		}
		limit := c.QueryInt("limit", 15)

		var near *domain.GeoPoint
		if c.Query("lat") != "" && c.Query("lon") != "" {
			p := domain.GeoPoint{Lat: c.QueryFloat("lat"), Lon: c.QueryFloat("lon")}
			if !p.Valid() {
				return errBadRequest(c, "lat/lon out of range")
			}
			near = &p
		}

		places, err := deps.Places.Search(c.UserContext(), query, near, limit)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(places)
	}
}

// StartSessionHandler plans a route and starts live guidance on it.
func StartSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body startSessionBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		origin, ok := body.Origin.point()
		if !ok {
			return errBadRequest(c, "origin.lat and origin.lon are required")
		}
		dest, ok := body.Destination.point()
		if !ok {
			return errBadRequest(c, "destination.lat and destination.lon are required")
		}

		view, err := deps.Navigation.StartSession(c.UserContext(), domain.RouteRequest{
			Origin:           origin,
			Destination:      dest,
			OriginName:       body.OriginName,
			DestinationName:  body.DestinationName,
			DestinationPOIID: body.DestinationPOIID,
		})
		if err != nil {
			return errFromDomain(c, err)
		}

		c.Location("/v1/sessions/" + view.ID)
		return c.Status(fiber.StatusCreated).JSON(view)
	}
}

// GetSessionHandler returns a snapshot of a live session.
func GetSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := deps.Navigation.Get(c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(view)
	}
}

// EndSessionHandler stops guidance for a session.
func EndSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Navigation.EndSession(c.UserContext(), c.Params("id")); err != nil {
			return errFromDomain(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SessionInstructionsHandler lists the full-route instructions, paginated.
func SessionInstructionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lines, err := deps.Navigation.Instructions(c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}

		pg, start, end := paginate(c, len(lines), 50, 200)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: lines[start:end], Pagination: pg})
	}
}

// SessionShapeHandler returns the route as a GeoJSON FeatureCollection for
// drawing on a map.
func SessionShapeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		route, err := deps.Navigation.Route(c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		data, err := geometry.ShapeCollection(route).MarshalJSON()
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set(fiber.HeaderContentType, "application/geo+json")
		return c.Send(data)
	}
}

// RerouteHandler plans a new route from the walker's current position.
func RerouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body rerouteBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		origin, ok := body.Origin.point()
		if !ok {
			return errBadRequest(c, "origin.lat and origin.lon are required")
		}

		view, err := deps.Navigation.Reroute(c.UserContext(), c.Params("id"), origin)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(view)
	}
}

// PositionHandler feeds a location fix and returns the narrations it
// produced, possibly none.
func PositionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body positionBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		loc, ok := body.point()
		if !ok {
			return errBadRequest(c, "lat and lon are required")
		}
		sample := domain.PositionSample{SessionID: c.Params("id"), Location: loc}
		if body.Timestamp != nil {
			sample.Timestamp = *body.Timestamp
		}

		out, err := deps.Navigation.UpdatePosition(c.UserContext(), sample)
		if err != nil {
			return errFromDomain(c, err)
		}
		if out == nil {
			out = []domain.Narration{}
		}
		return c.JSON(fiber.Map{"narrations": out})
	}
}

// HeadingHandler feeds a compass reading and returns the alignment status.
func HeadingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body headingBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if body.Degrees == nil {
			return errBadRequest(c, "degrees is required")
		}

		st, err := deps.Navigation.UpdateHeading(c.UserContext(), domain.HeadingSample{
			SessionID: c.Params("id"),
			Degrees:   *body.Degrees,
		})
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(st)
	}
}

// HistoryHandler lists recently planned sessions, newest first.
func HistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		records, err := deps.Navigation.History(c.UserContext(), c.QueryInt("limit", 20))
		if err != nil {
			return errInternal(c, err.Error())
		}
		if records == nil {
			records = []domain.SessionRecord{}
		}
		return c.JSON(records)
	}
}

// HistoryRecordHandler returns the stored row of one session.
func HistoryRecordHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rec, err := deps.Navigation.HistoryRecord(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(rec)
	}
}
