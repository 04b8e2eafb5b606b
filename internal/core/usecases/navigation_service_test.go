package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/core/geometry"
	"github.com/pathpal/pathpal/internal/core/usecases"
)

func routePlanner() *mockPlanner {
	return &mockPlanner{
		planFn: func(ctx context.Context, id string, req domain.RouteRequest) (*domain.Route, error) {
			return geometry.ParseRoute([]byte(testRouteJSON))
		},
	}
}

func TestNavigationService_StartSession(t *testing.T) {
	planner := routePlanner()
	svc := usecases.NewNavigationService(planner, nil, nil, usecases.DefaultNavigationSettings())

	v, err := svc.StartSession(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ID == "" || len(planner.ids) != 1 || planner.ids[0] != v.ID {
		t.Fatalf("expected planner to receive session id %q, got %v", v.ID, planner.ids)
	}
	if v.Waypoints != 2 || v.DestinationName != "광화문" {
		t.Errorf("unexpected view %+v", v)
	}
	if v.SummaryText != "총 거리: 222m, 소요 시간: 2분" {
		t.Errorf("unexpected summary %q", v.SummaryText)
	}
	if svc.Count() != 1 {
		t.Errorf("expected 1 live session, got %d", svc.Count())
	}
}

func TestNavigationService_StartSession_InvalidCoordinate(t *testing.T) {
	planner := routePlanner()
	svc := usecases.NewNavigationService(planner, nil, nil, usecases.DefaultNavigationSettings())

	req := testRequest()
	req.Origin = domain.GeoPoint{Lat: -91, Lon: 0}
	if _, err := svc.StartSession(context.Background(), req); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
	}
	if len(planner.ids) != 0 {
		t.Error("planner should not be called")
	}
}

func TestNavigationService_StartSession_PlannerError(t *testing.T) {
	planner := &mockPlanner{
		planFn: func(ctx context.Context, id string, req domain.RouteRequest) (*domain.Route, error) {
			return nil, domain.ErrNoRoute
		},
	}
	svc := usecases.NewNavigationService(planner, nil, nil, usecases.DefaultNavigationSettings())

	if _, err := svc.StartSession(context.Background(), testRequest()); !errors.Is(err, domain.ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}
	if svc.Count() != 0 {
		t.Error("failed session must not be kept")
	}
}

func TestNavigationService_UnknownSession(t *testing.T) {
	svc := usecases.NewNavigationService(routePlanner(), nil, nil, usecases.DefaultNavigationSettings())
	ctx := context.Background()

	if _, err := svc.Get("nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Get: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.UpdatePosition(ctx, domain.PositionSample{SessionID: "nope"}); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("UpdatePosition: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.UpdateHeading(ctx, domain.HeadingSample{SessionID: "nope"}); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("UpdateHeading: expected ErrSessionNotFound, got %v", err)
	}
	if err := svc.EndSession(ctx, "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("EndSession: expected ErrSessionNotFound, got %v", err)
	}
}

func TestNavigationService_UpdatePosition_PublishesAndStampsArrival(t *testing.T) {
	repo := newMockSessionRepo()
	pub := &mockPublisher{}
	svc := usecases.NewNavigationService(routePlanner(), repo, pub, usecases.DefaultNavigationSettings())
	ctx := context.Background()

	v, err := svc.StartSession(ctx, testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	for _, p := range []domain.GeoPoint{testOrigin, testTurn, testDestination} {
		if _, err := svc.UpdatePosition(ctx, domain.PositionSample{SessionID: v.ID, Location: p, Timestamp: at}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(pub.narrations) != 3 {
		t.Fatalf("expected 2 waypoint narrations and 1 arrival, got %d", len(pub.narrations))
	}
	if pub.narrations[2].Kind != domain.NarrationArrival {
		t.Errorf("expected arrival last, got %+v", pub.narrations[2])
	}
	if got, ok := repo.arrived[v.ID]; !ok || !got.Equal(at) {
		t.Errorf("expected arrival stamped at %v, got %v", at, got)
	}
}

func TestNavigationService_PublishFailureIsNotFatal(t *testing.T) {
	pub := &mockPublisher{err: errors.New("nats down")}
	svc := usecases.NewNavigationService(routePlanner(), nil, pub, usecases.DefaultNavigationSettings())
	ctx := context.Background()

	v, _ := svc.StartSession(ctx, testRequest())
	out, err := svc.UpdatePosition(ctx, domain.PositionSample{SessionID: v.ID, Location: testOrigin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].At.IsZero() {
		t.Errorf("expected one timestamped narration, got %+v", out)
	}

	st, err := svc.UpdateHeading(ctx, domain.HeadingSample{SessionID: v.ID, Degrees: 2})
	if err != nil || !st.Facing {
		t.Errorf("expected facing status, got %+v, %v", st, err)
	}
}

func TestNavigationService_Reroute(t *testing.T) {
	var origins []domain.GeoPoint
	planner := &mockPlanner{
		planFn: func(ctx context.Context, id string, req domain.RouteRequest) (*domain.Route, error) {
			origins = append(origins, req.Origin)
			return geometry.ParseRoute([]byte(testRouteJSON))
		},
	}
	svc := usecases.NewNavigationService(planner, nil, nil, usecases.DefaultNavigationSettings())
	ctx := context.Background()

	v, _ := svc.StartSession(ctx, testRequest())
	_, _ = svc.UpdatePosition(ctx, domain.PositionSample{SessionID: v.ID, Location: testOrigin})

	detour := domain.GeoPoint{Lat: 37.5001, Lon: 127.001}
	after, err := svc.Reroute(ctx, v.ID, detour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.CurrentIndex != 0 || after.ID != v.ID {
		t.Errorf("expected reset cursor on same session, got %+v", after)
	}
	if len(origins) != 2 || origins[1] != detour {
		t.Errorf("expected reroute from detour, got %v", origins)
	}
	if planner.ids[1] != v.ID {
		t.Errorf("expected reroute to keep session id")
	}
}

func TestNavigationService_EndSession(t *testing.T) {
	repo := newMockSessionRepo()
	svc := usecases.NewNavigationService(routePlanner(), repo, nil, usecases.DefaultNavigationSettings())
	ctx := context.Background()

	v, _ := svc.StartSession(ctx, testRequest())
	if err := svc.EndSession(ctx, v.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Count() != 0 {
		t.Error("session should be removed")
	}
	if _, ok := repo.ended[v.ID]; !ok {
		t.Error("expected end to be stamped")
	}
	if _, err := svc.Get(v.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after end, got %v", err)
	}
}

func TestNavigationService_Consume(t *testing.T) {
	pub := &mockPublisher{}
	svc := usecases.NewNavigationService(routePlanner(), nil, pub, usecases.DefaultNavigationSettings())
	ctx := context.Background()

	v, _ := svc.StartSession(ctx, testRequest())
	sub := &mockSubscriber{
		positions: []domain.PositionSample{
			{SessionID: v.ID, Location: testOrigin},
			{SessionID: "other-instance", Location: testOrigin},
		},
		headings: []domain.HeadingSample{{SessionID: v.ID, Degrees: 1}},
	}

	if err := svc.Consume(ctx, sub); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, err := range sub.errs {
		if err != nil {
			t.Errorf("handler returned %v", err)
		}
	}
	if len(pub.narrations) != 1 || len(pub.headings) != 1 {
		t.Errorf("expected 1 narration and 1 heading, got %d and %d", len(pub.narrations), len(pub.headings))
	}
}

func TestNavigationService_History(t *testing.T) {
	repo := newMockSessionRepo()
	repo.listRecent = []domain.SessionRecord{{ID: "a"}, {ID: "b"}}
	svc := usecases.NewNavigationService(routePlanner(), repo, nil, usecases.DefaultNavigationSettings())

	recs, err := svc.History(context.Background(), 0)
	if err != nil || len(recs) != 2 {
		t.Fatalf("expected 2 records, got %v, %v", recs, err)
	}

	noRepo := usecases.NewNavigationService(routePlanner(), nil, nil, usecases.DefaultNavigationSettings())
	if _, err := noRepo.HistoryRecord(context.Background(), "a"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound without a repository, got %v", err)
	}
}
