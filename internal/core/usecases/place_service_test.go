package usecases_test

import (
	"context"
	"testing"

	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/core/usecases"
)

func TestPlaceService_Search_EmptyQuery(t *testing.T) {
	svc := usecases.NewPlaceService(&mockSearcher{}, nil)
	_, err := svc.Search(context.Background(), "   ", nil, 10)
	if err == nil {
		t.Error("expected error for empty query")
	}
}

func TestPlaceService_Search_Success(t *testing.T) {
	searcher := &mockSearcher{
		searchFn: func(ctx context.Context, query string, near *domain.GeoPoint, limit int) ([]domain.Place, error) {
			if query != "광화문" {
				t.Errorf("expected query '광화문', got '%s'", query)
			}
			if near == nil || near.Lat != 37.5 {
				t.Errorf("expected near point to be passed through, got %v", near)
			}
			return []domain.Place{{ID: "1", Name: "광화문광장", Location: domain.GeoPoint{Lat: 37.5725, Lon: 126.9769}}}, nil
		},
	}

	svc := usecases.NewPlaceService(searcher, nil)
	places, err := svc.Search(context.Background(), "광화문", &domain.GeoPoint{Lat: 37.5, Lon: 127}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 1 {
		t.Fatalf("expected 1 place, got %d", len(places))
	}
}

func TestPlaceService_Search_ClampLimitAndDropInvalidNear(t *testing.T) {
	searcher := &mockSearcher{
		searchFn: func(ctx context.Context, query string, near *domain.GeoPoint, limit int) ([]domain.Place, error) {
			if limit != 15 {
				t.Errorf("expected limit clamped to 15, got %d", limit)
			}
			if near != nil {
				t.Errorf("expected invalid near point to be dropped")
			}
			return nil, nil
		},
	}

	svc := usecases.NewPlaceService(searcher, nil)
	_, _ = svc.Search(context.Background(), "시청", &domain.GeoPoint{Lat: 200, Lon: 0}, 999)
	if searcher.calls != 1 {
		t.Error("searcher was not called")
	}
}

func TestPlaceService_Search_Cached(t *testing.T) {
	searcher := &mockSearcher{
		searchFn: func(ctx context.Context, query string, near *domain.GeoPoint, limit int) ([]domain.Place, error) {
			return []domain.Place{{ID: "1", Name: "서울역"}}, nil
		},
	}
	svc := usecases.NewPlaceService(searcher, newMockCache())

	for i := 0; i < 2; i++ {
		places, err := svc.Search(context.Background(), "서울역", nil, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(places) != 1 || places[0].Name != "서울역" {
			t.Fatalf("unexpected places: %v", places)
		}
	}
	if searcher.calls != 1 {
		t.Errorf("expected 1 searcher call, got %d", searcher.calls)
	}
}
