package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/core/usecases"
)

func TestDirectPlanner_Plan(t *testing.T) {
	repo := newMockSessionRepo()
	pub := &mockPublisher{}
	routes := usecases.NewRouteService(&mockProvider{}, "tmap", nil, 0)
	planner := usecases.NewDirectPlanner(routes, repo, pub)

	route, err := planner.Plan(context.Background(), "s1", testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(route.Features) != 5 {
		t.Errorf("expected 5 features, got %d", len(route.Features))
	}

	if len(repo.saved) != 1 {
		t.Fatalf("expected session to be saved once, got %d", len(repo.saved))
	}
	rec := repo.saved[0]
	if rec.ID != "s1" || rec.WaypointCount != 2 || rec.DestinationName != "광화문" || rec.Summary.TotalTimeSeconds != 160 {
		t.Errorf("unexpected record %+v", rec)
	}

	if len(pub.ready) != 1 || pub.ready[0].Text != "총 거리: 222m, 소요 시간: 2분" {
		t.Errorf("unexpected route ready events %+v", pub.ready)
	}
}

func TestDirectPlanner_PersistenceFailureIsNotFatal(t *testing.T) {
	repo := newMockSessionRepo()
	repo.saveFn = func(ctx context.Context, rec *domain.SessionRecord) error {
		return errors.New("db down")
	}
	routes := usecases.NewRouteService(&mockProvider{}, "tmap", nil, 0)
	planner := usecases.NewDirectPlanner(routes, repo, &mockPublisher{err: errors.New("nats down")})

	if _, err := planner.Plan(context.Background(), "s1", testRequest()); err != nil {
		t.Fatalf("expected route despite side-effect failures, got %v", err)
	}
}

func TestDirectPlanner_FetchErrorPropagates(t *testing.T) {
	repo := newMockSessionRepo()
	provider := &mockProvider{
		fetchFn: func(ctx context.Context, req domain.RouteRequest) ([]byte, error) {
			return []byte(`{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"LineString","coordinates":[[1,2]]},"properties":{}}]}`), nil
		},
	}
	planner := usecases.NewDirectPlanner(usecases.NewRouteService(provider, "tmap", nil, 0), repo, nil)

	_, err := planner.Plan(context.Background(), "s1", testRequest())
	if !errors.Is(err, domain.ErrMalformedGeometry) {
		t.Fatalf("expected ErrMalformedGeometry, got %v", err)
	}
	if len(repo.saved) != 0 {
		t.Error("nothing should be persisted for a rejected route")
	}
}
