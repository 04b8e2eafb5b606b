package usecases_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pathpal/pathpal/internal/core/domain"
)

// Three points due north, ~111 m apart: start, left turn, destination.
const testRouteJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [127.0, 37.5000]},
     "properties": {"totalDistance": 222, "totalTime": 160, "index": 0, "description": "보행자도로 을 따라 111m 이동", "turnType": 200, "facilityType": "11", "pointType": "SP"}},
    {"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[127.0, 37.5000], [127.0, 37.5010]]},
     "properties": {"index": 1, "distance": 111, "time": 80, "roadType": 21}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [127.0, 37.5010]},
     "properties": {"index": 2, "description": "세종대로 방면", "turnType": 12, "pointType": "GP"}},
    {"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[127.0, 37.5010], [127.0, 37.5020]]},
     "properties": {"index": 3, "distance": 111, "time": 80, "roadType": 23}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [127.0, 37.5020]},
     "properties": {"index": 4, "description": "도착", "turnType": 201, "pointType": "EP"}}
  ]
}`

var (
	testOrigin      = domain.GeoPoint{Lat: 37.5000, Lon: 127.0}
	testTurn        = domain.GeoPoint{Lat: 37.5010, Lon: 127.0}
	testDestination = domain.GeoPoint{Lat: 37.5020, Lon: 127.0}
)

// --- Mock RouteProvider ---

type mockProvider struct {
	fetchFn func(ctx context.Context, req domain.RouteRequest) ([]byte, error)
	calls   int
}

func (m *mockProvider) FetchRoute(ctx context.Context, req domain.RouteRequest) ([]byte, error) {
	m.calls++
	if m.fetchFn != nil {
		return m.fetchFn(ctx, req)
	}
	return []byte(testRouteJSON), nil
}

// --- Mock PlaceSearcher ---

type mockSearcher struct {
	searchFn func(ctx context.Context, query string, near *domain.GeoPoint, limit int) ([]domain.Place, error)
	calls    int
}

func (m *mockSearcher) SearchPlaces(ctx context.Context, query string, near *domain.GeoPoint, limit int) ([]domain.Place, error) {
	m.calls++
	if m.searchFn != nil {
		return m.searchFn(ctx, query, near, limit)
	}
	return nil, nil
}

// --- Mock CacheService ---

var errCacheMiss = errors.New("cache miss")

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockCache() *mockCache { return &mockCache{data: make(map[string][]byte)} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock SessionRepository ---

type mockSessionRepo struct {
	mu         sync.Mutex
	saveFn     func(ctx context.Context, rec *domain.SessionRecord) error
	saved      []domain.SessionRecord
	arrived    map[string]time.Time
	ended      map[string]time.Time
	listRecent []domain.SessionRecord
	deletedIDs []string
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{arrived: make(map[string]time.Time), ended: make(map[string]time.Time)}
}

func (m *mockSessionRepo) Save(ctx context.Context, rec *domain.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveFn != nil {
		if err := m.saveFn(ctx, rec); err != nil {
			return err
		}
	}
	m.saved = append(m.saved, *rec)
	return nil
}

func (m *mockSessionRepo) GetByID(ctx context.Context, id string) (*domain.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.saved {
		if m.saved[i].ID == id {
			rec := m.saved[i]
			return &rec, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (m *mockSessionRepo) MarkArrived(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.arrived[id] = at
	return nil
}

func (m *mockSessionRepo) MarkEnded(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ended[id] = at
	return nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func (m *mockSessionRepo) ListRecent(ctx context.Context, limit int) ([]domain.SessionRecord, error) {
	return m.listRecent, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu         sync.Mutex
	narrations []domain.Narration
	headings   []domain.HeadingStatus
	ready      []domain.RouteReady
	err        error
}

func (m *mockPublisher) PublishNarration(ctx context.Context, n *domain.Narration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.narrations = append(m.narrations, *n)
	return m.err
}

func (m *mockPublisher) PublishHeadingStatus(ctx context.Context, st *domain.HeadingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headings = append(m.headings, *st)
	return m.err
}

func (m *mockPublisher) PublishRouteReady(ctx context.Context, ev *domain.RouteReady) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = append(m.ready, *ev)
	return m.err
}

// --- Mock SessionPlanner ---

type mockPlanner struct {
	planFn func(ctx context.Context, id string, req domain.RouteRequest) (*domain.Route, error)
	ids    []string
}

func (m *mockPlanner) Plan(ctx context.Context, id string, req domain.RouteRequest) (*domain.Route, error) {
	m.ids = append(m.ids, id)
	return m.planFn(ctx, id, req)
}

// --- Mock EventSubscriber ---

type mockSubscriber struct {
	positions []domain.PositionSample
	headings  []domain.HeadingSample
	errs      []error
}

func (m *mockSubscriber) SubscribePositions(ctx context.Context, handler func(ctx context.Context, s *domain.PositionSample) error) error {
	for i := range m.positions {
		m.errs = append(m.errs, handler(ctx, &m.positions[i]))
	}
	return nil
}

func (m *mockSubscriber) SubscribeHeadings(ctx context.Context, handler func(ctx context.Context, s *domain.HeadingSample) error) error {
	for i := range m.headings {
		m.errs = append(m.errs, handler(ctx, &m.headings[i]))
	}
	return nil
}
