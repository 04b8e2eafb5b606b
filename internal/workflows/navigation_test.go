package workflows

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/core/usecases"
)

const testRouteJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [127.0, 37.5000]},
     "properties": {"totalDistance": 111, "totalTime": 80, "index": 0, "description": "보행자도로 을 따라 111m 이동", "turnType": 200, "pointType": "SP"}},
    {"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[127.0, 37.5000], [127.0, 37.5010]]},
     "properties": {"index": 1, "distance": 111, "time": 80, "roadType": 21}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [127.0, 37.5010]},
     "properties": {"index": 2, "description": "도착", "turnType": 201, "pointType": "EP"}}
  ]
}`

func testInput() PlanInput {
	return PlanInput{
		SessionID: "s-1",
		Request: domain.RouteRequest{
			Origin:          domain.GeoPoint{Lat: 37.5, Lon: 127.0},
			Destination:     domain.GeoPoint{Lat: 37.501, Lon: 127.0},
			DestinationName: "광화문",
		},
	}
}

type stubProvider struct {
	raw []byte
	err error
}

func (p *stubProvider) FetchRoute(ctx context.Context, req domain.RouteRequest) ([]byte, error) {
	return p.raw, p.err
}

type memSessions struct {
	mu      sync.Mutex
	saved   map[string]*domain.SessionRecord
	deleted []string
	saveErr error
}

func newMemSessions() *memSessions { return &memSessions{saved: map[string]*domain.SessionRecord{}} }

func (m *memSessions) Save(ctx context.Context, rec *domain.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[rec.ID] = rec
	return nil
}

func (m *memSessions) GetByID(ctx context.Context, id string) (*domain.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.saved[id]; ok {
		return rec, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (m *memSessions) MarkArrived(ctx context.Context, id string, at time.Time) error { return nil }
func (m *memSessions) MarkEnded(ctx context.Context, id string, at time.Time) error   { return nil }

func (m *memSessions) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saved, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *memSessions) ListRecent(ctx context.Context, limit int) ([]domain.SessionRecord, error) {
	return nil, nil
}

type stubPublisher struct {
	mu    sync.Mutex
	ready []*domain.RouteReady
	err   error
}

func (p *stubPublisher) PublishNarration(ctx context.Context, n *domain.Narration) error { return nil }
func (p *stubPublisher) PublishHeadingStatus(ctx context.Context, st *domain.HeadingStatus) error {
	return nil
}

func (p *stubPublisher) PublishRouteReady(ctx context.Context, ev *domain.RouteReady) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.ready = append(p.ready, ev)
	return nil
}

type PlanWorkflowSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func (s *PlanWorkflowSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
}

func (s *PlanWorkflowSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func (s *PlanWorkflowSuite) register(provider *stubProvider, sessions *memSessions, pub *stubPublisher) {
	s.env.RegisterActivity(&NavigationActivities{
		Routes:    usecases.NewRouteService(provider, "test", nil, 0),
		Sessions:  sessions,
		Publisher: pub,
	})
}

func (s *PlanWorkflowSuite) TestPlansPersistsAndAnnounces() {
	sessions := newMemSessions()
	pub := &stubPublisher{}
	s.register(&stubProvider{raw: []byte(testRouteJSON)}, sessions, pub)

	s.env.ExecuteWorkflow(PlanSessionWorkflow, testInput())

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var raw []byte
	s.NoError(s.env.GetWorkflowResult(&raw))
	s.JSONEq(testRouteJSON, string(raw))

	rec, ok := sessions.saved["s-1"]
	s.Require().True(ok)
	s.Equal("광화문", rec.DestinationName)
	s.Equal(1, rec.WaypointCount)

	s.Require().Len(pub.ready, 1)
	s.Equal("s-1", pub.ready[0].SessionID)
}

func (s *PlanWorkflowSuite) TestNoRouteIsNotRetried() {
	s.register(&stubProvider{raw: []byte(`{"type":"FeatureCollection","features":[]}`)}, newMemSessions(), &stubPublisher{})

	s.env.ExecuteWorkflow(PlanSessionWorkflow, testInput())

	s.True(s.env.IsWorkflowCompleted())
	err := s.env.GetWorkflowError()
	s.Require().Error(err)
	s.ErrorIs(fromWorkflowError(err), domain.ErrNoRoute)
}

func (s *PlanWorkflowSuite) TestHistoryFailureIsTolerated() {
	sessions := newMemSessions()
	sessions.saveErr = errors.New("db down")
	pub := &stubPublisher{}
	s.register(&stubProvider{raw: []byte(testRouteJSON)}, sessions, pub)

	s.env.ExecuteWorkflow(PlanSessionWorkflow, testInput())

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	s.Len(pub.ready, 1)
	s.Empty(sessions.deleted)
}

func (s *PlanWorkflowSuite) TestAnnounceFailureCompensates() {
	sessions := newMemSessions()
	s.register(&stubProvider{raw: []byte(testRouteJSON)}, sessions, &stubPublisher{err: errors.New("broker down")})

	s.env.ExecuteWorkflow(PlanSessionWorkflow, testInput())

	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
	s.Equal([]string{"s-1"}, sessions.deleted)
	s.Empty(sessions.saved)
}

func TestPlanWorkflowSuite(t *testing.T) {
	suite.Run(t, new(PlanWorkflowSuite))
}

func TestFromWorkflowError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"no route", temporal.NewNonRetryableApplicationError("empty", errTypeNoRoute, nil), domain.ErrNoRoute},
		{"malformed", temporal.NewNonRetryableApplicationError("bad", errTypeMalformed, nil), domain.ErrMalformedGeometry},
		{"invalid coordinate", temporal.NewNonRetryableApplicationError("bad", errTypeInvalidCoordinate, nil), domain.ErrInvalidCoordinate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, fromWorkflowError(tc.err), tc.want)
		})
	}

	other := errors.New("timeout")
	require.Equal(t, other, fromWorkflowError(other))
}

func TestClassify_LeavesTransientErrorsRetryable(t *testing.T) {
	err := classify(errors.New("connection reset"))
	var appErr *temporal.ApplicationError
	require.False(t, errors.As(err, &appErr))

	err = classify(domain.ErrNoRoute)
	require.True(t, errors.As(err, &appErr))
	require.True(t, appErr.NonRetryable())
}

func TestPlanner_Plan(t *testing.T) {
	c := &mocks.Client{}
	run := &mocks.WorkflowRun{}

	c.On("ExecuteWorkflow", mock.Anything, mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
		return o.TaskQueue == "navigation-queue" && o.ID == WorkflowID("s-1")
	}), mock.Anything, mock.Anything).Return(run, nil)
	run.On("Get", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		*(args.Get(1).(*[]byte)) = []byte(testRouteJSON)
	})

	route, err := NewPlanner(c, "navigation-queue").Plan(context.Background(), "s-1", testInput().Request)
	require.NoError(t, err)
	require.Len(t, route.Features, 3)
	require.Equal(t, 111, route.Summary.TotalDistanceMeters)
	c.AssertExpectations(t)
}

func TestPlanner_PlanStartFailure(t *testing.T) {
	c := &mocks.Client{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("frontend unavailable"))

	_, err := NewPlanner(c, "navigation-queue").Plan(context.Background(), "s-1", testInput().Request)
	require.ErrorContains(t, err, "start planning workflow")
}
