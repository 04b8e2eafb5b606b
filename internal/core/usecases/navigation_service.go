package usecases

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/core/ports"
	"github.com/pathpal/pathpal/internal/pkg/logging"
	"github.com/pathpal/pathpal/internal/pkg/metrics"
)

// NavigationService owns the live sessions of this process and routes
// samples to them.
type NavigationService struct {
	planner   ports.SessionPlanner
	sessions  ports.SessionRepository
	publisher ports.EventPublisher
	settings  NavigationSettings

	mu   sync.RWMutex
	live map[string]*Session

	now   func() time.Time
	newID func() string
}

// NewNavigationService creates a new NavigationService. sessions and
// publisher may be nil.
func NewNavigationService(
	planner ports.SessionPlanner,
	sessions ports.SessionRepository,
	publisher ports.EventPublisher,
	settings NavigationSettings,
) *NavigationService {
	return &NavigationService{
		planner:   planner,
		sessions:  sessions,
		publisher: publisher,
		settings:  settings,
		live:      make(map[string]*Session),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// StartSession plans a route from origin to destination and begins
// guidance on it.
func (s *NavigationService) StartSession(ctx context.Context, req domain.RouteRequest) (*domain.SessionView, error) {
	if !req.Origin.Valid() || !req.Destination.Valid() {
		return nil, domain.ErrInvalidCoordinate
	}

	id := s.newID()
	route, err := s.planner.Plan(ctx, id, req)
	if err != nil {
		return nil, err
	}

	sess := NewSession(id, s.settings, logging.FromContext(ctx))
	s.commit(sess, route, req)

	s.mu.Lock()
	s.live[id] = sess
	s.mu.Unlock()
	metrics.SessionsActive.Inc()

	v := sess.View()
	return &v, nil
}

// Reroute plans a new route for an existing session from a new origin,
// keeping the destination. The previous cursor, arrival flag and heading
// state are discarded.
func (s *NavigationService) Reroute(ctx context.Context, id string, origin domain.GeoPoint) (*domain.SessionView, error) {
	if !origin.Valid() {
		return nil, domain.ErrInvalidCoordinate
	}
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	prev := sess.View()
	req := domain.RouteRequest{
		Origin:          origin,
		Destination:     prev.Destination,
		DestinationName: prev.DestinationName,
	}
	route, err := s.planner.Plan(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.commit(sess, route, req)

	v := sess.View()
	return &v, nil
}

func (s *NavigationService) commit(sess *Session, route *domain.Route, req domain.RouteRequest) {
	if unpaired := sess.OnRouteFetched(route, req.Destination, req.DestinationName); unpaired > 0 {
		metrics.UnpairedPoints.Add(float64(unpaired))
	}
}

// Get returns a snapshot of a live session.
func (s *NavigationService) Get(id string) (*domain.SessionView, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	v := sess.View()
	return &v, nil
}

// Route returns the committed route of a live session.
func (s *NavigationService) Route(id string) (*domain.Route, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	route := sess.Route()
	if route == nil {
		return nil, domain.ErrNoRoute
	}
	return route, nil
}

// Instructions returns the full-route listing of a live session.
func (s *NavigationService) Instructions(id string) ([]string, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return sess.Instructions(), nil
}

// UpdatePosition feeds a live position to a session and publishes what it
// produced. Arrival is stamped on the session history.
func (s *NavigationService) UpdatePosition(ctx context.Context, sample domain.PositionSample) ([]domain.Narration, error) {
	sess, err := s.get(sample.SessionID)
	if err != nil {
		return nil, err
	}
	at := sample.Timestamp
	if at.IsZero() {
		at = s.now()
	}

	out := sess.OnPositionUpdate(sample.Location, at)
	log := logging.FromContext(ctx).With("session_id", sample.SessionID)
	for i := range out {
		n := &out[i]
		metrics.NarrationsEmitted.WithLabelValues(string(n.Kind)).Inc()
		log.Info("narration", "kind", n.Kind, "waypoint", n.WaypointIndex, "alert", n.Alert)

		if s.publisher != nil {
			if err := s.publisher.PublishNarration(ctx, n); err != nil {
				log.Warn("publish narration", "error", err)
			}
		}
		if n.Kind == domain.NarrationArrival && s.sessions != nil {
			if err := s.sessions.MarkArrived(ctx, sample.SessionID, at); err != nil {
				logging.LogError(log, "mark arrived", err)
			}
		}
	}
	return out, nil
}

// UpdateHeading feeds a compass sample to a session.
func (s *NavigationService) UpdateHeading(ctx context.Context, sample domain.HeadingSample) (*domain.HeadingStatus, error) {
	sess, err := s.get(sample.SessionID)
	if err != nil {
		return nil, err
	}

	st := sess.OnHeadingUpdate(sample.Degrees)
	if st.JustAligned {
		metrics.HeadingAlignments.Inc()
	}
	if s.publisher != nil {
		if err := s.publisher.PublishHeadingStatus(ctx, &st); err != nil {
			logging.FromContext(ctx).Warn("publish heading status", "session_id", sample.SessionID, "error", err)
		}
	}
	return &st, nil
}

// EndSession stops guidance and stamps the history row.
func (s *NavigationService) EndSession(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.live[id]
	delete(s.live, id)
	s.mu.Unlock()
	if !ok {
		return domain.ErrSessionNotFound
	}
	metrics.SessionsActive.Dec()

	if s.sessions != nil {
		if err := s.sessions.MarkEnded(ctx, id, s.now()); err != nil {
			logging.LogError(logging.FromContext(ctx), "mark ended", err, slog.String("session_id", id))
		}
	}
	return nil
}

// History lists recently planned sessions, newest first.
func (s *NavigationService) History(ctx context.Context, limit int) ([]domain.SessionRecord, error) {
	if s.sessions == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.sessions.ListRecent(ctx, limit)
}

// HistoryRecord returns the persisted row of one session, live or not.
func (s *NavigationService) HistoryRecord(ctx context.Context, id string) (*domain.SessionRecord, error) {
	if s.sessions == nil {
		return nil, domain.ErrSessionNotFound
	}
	return s.sessions.GetByID(ctx, id)
}

// Count returns the number of live sessions.
func (s *NavigationService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.live)
}

// Consume feeds samples from the broker into the live sessions until ctx
// is done. Samples for sessions owned by another process are dropped.
func (s *NavigationService) Consume(ctx context.Context, sub ports.EventSubscriber) error {
	err := sub.SubscribePositions(ctx, func(ctx context.Context, p *domain.PositionSample) error {
		_, err := s.UpdatePosition(ctx, *p)
		return ignoreUnknownSession(err)
	})
	if err != nil {
		return err
	}
	return sub.SubscribeHeadings(ctx, func(ctx context.Context, h *domain.HeadingSample) error {
		_, err := s.UpdateHeading(ctx, *h)
		return ignoreUnknownSession(err)
	})
}

func ignoreUnknownSession(err error) error {
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	return err
}

func (s *NavigationService) get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.live[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}
