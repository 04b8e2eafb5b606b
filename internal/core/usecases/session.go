package usecases

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/core/geometry"
	"github.com/pathpal/pathpal/internal/core/guidance"
	"github.com/pathpal/pathpal/internal/core/tracker"
)

// NavigationSettings tunes live guidance.
type NavigationSettings struct {
	ProximityThresholdM float64
	ArrivalRadiusM      float64
	HeadingToleranceDeg float64
}

// DefaultNavigationSettings mirrors the configuration defaults.
func DefaultNavigationSettings() NavigationSettings {
	return NavigationSettings{
		ProximityThresholdM: 10,
		ArrivalRadiusM:      50,
		HeadingToleranceDeg: 5,
	}
}

// Session is the single owner of one navigation: the parsed route, its
// waypoints and the live trackers. Route commits and samples serialize on
// one mutex, so a sample never observes a half-replaced route.
type Session struct {
	mu sync.Mutex

	id              string
	settings        NavigationSettings
	log             *slog.Logger
	createdAt       time.Time
	destinationName string

	route     *domain.Route
	waypoints []domain.Waypoint
	proximity *tracker.Proximity
	arrival   *tracker.Arrival
	heading   *tracker.Heading
}

// NewSession creates a session with no route. log may be nil.
func NewSession(id string, settings NavigationSettings, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		id:        id,
		settings:  settings,
		log:       log.With("session_id", id),
		createdAt: time.Now(),
	}
}

func (s *Session) ID() string { return s.id }

// OnRouteFetched commits a new route and resets every tracker. destination
// is the user's chosen target; when it is not a valid coordinate the last
// point of the route is used. It returns how many point features had to be
// skipped for lack of a following path.
func (s *Session) OnRouteFetched(route *domain.Route, destination domain.GeoPoint, destinationName string) int {
	waypoints := geometry.BuildWaypoints(route.Features, s.log)
	if !destination.Valid() {
		if d, ok := route.Destination(); ok {
			destination = d
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.route = route
	s.waypoints = waypoints
	s.destinationName = destinationName
	s.proximity = tracker.NewProximity(waypoints, s.settings.ProximityThresholdM)
	s.arrival = tracker.NewArrival(destination, s.settings.ArrivalRadiusM)
	s.heading = tracker.NewHeading(waypoints, s.settings.HeadingToleranceDeg)

	unpaired := geometry.CountPoints(route.Features) - len(waypoints)
	s.log.Info("route committed",
		"waypoints", len(waypoints),
		"unpaired_points", unpaired,
		"total_distance_m", route.Summary.TotalDistanceMeters,
	)
	return unpaired
}

// OnPositionUpdate feeds one live position. It returns the waypoint
// narration, if the user reached the next waypoint, followed by the arrival
// narration, if the user entered the destination radius for the first time.
func (s *Session) OnPositionUpdate(pos domain.GeoPoint, at time.Time) []domain.Narration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.route == nil {
		return nil
	}

	var out []domain.Narration
	if n, ok := s.proximity.Update(pos); ok {
		n.SessionID, n.At = s.id, at
		out = append(out, n)
	}
	if s.arrival.Update(pos) {
		out = append(out, domain.Narration{
			SessionID:     s.id,
			Kind:          domain.NarrationArrival,
			Text:          guidance.ArrivalText(),
			Alert:         true,
			WaypointIndex: s.proximity.Index(),
			At:            at,
		})
	}
	return out
}

// OnHeadingUpdate compares one compass sample with the departure bearing.
func (s *Session) OnHeadingUpdate(degrees float64) domain.HeadingStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.heading == nil {
		return domain.HeadingStatus{SessionID: s.id}
	}
	st := s.heading.Update(degrees)
	st.SessionID = s.id
	return st
}

// Route returns the committed route, nil before the first commit.
func (s *Session) Route() *domain.Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route
}

// Instructions returns the full-route instruction listing.
func (s *Session) Instructions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return guidance.InstructionList(s.route)
}

// View snapshots the session for presentation.
func (s *Session) View() domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := domain.SessionView{
		ID:              s.id,
		DestinationName: s.destinationName,
		CreatedAt:       s.createdAt,
	}
	if s.route == nil {
		return v
	}

	v.Destination = s.arrival.Destination()
	v.Summary = s.route.Summary
	v.SummaryText = guidance.FormatSummary(s.route.Summary.TotalDistanceMeters, s.route.Summary.TotalTimeSeconds)
	v.Waypoints = s.proximity.Len()
	v.CurrentIndex = s.proximity.Index()
	v.Complete = s.proximity.Complete()
	v.Arrived = s.arrival.Arrived()
	v.LastAnnounced = s.proximity.LastAnnounced()
	if b, ok := s.heading.Bearing(); ok {
		v.DepartureBearing = &b
	}
	return v
}
