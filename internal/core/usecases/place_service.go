package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/core/ports"
	"github.com/pathpal/pathpal/internal/pkg/metrics"
)

// PlaceService resolves destination names through the geocoding service.
type PlaceService struct {
	searcher ports.PlaceSearcher
	cache    ports.CacheService
}

// NewPlaceService creates a new PlaceService.
func NewPlaceService(searcher ports.PlaceSearcher, cache ports.CacheService) *PlaceService {
	return &PlaceService{searcher: searcher, cache: cache}
}

// Search looks places up by keyword, optionally biased towards near.
func (s *PlaceService) Search(ctx context.Context, query string, near *domain.GeoPoint, limit int) ([]domain.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}
	if limit <= 0 || limit > 50 {
		limit = 15
	}
	if near != nil && !near.Valid() {
		near = nil
	}

	// Try cache
	cacheKey := fmt.Sprintf("places:search:%s:%d", query, limit)
	if near != nil {
		cacheKey += fmt.Sprintf(":%.3f:%.3f", near.Lat, near.Lon)
	}
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var places []domain.Place
			if err := json.Unmarshal(data, &places); err == nil {
				metrics.CacheHits.WithLabelValues("places").Inc()
				return places, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("places").Inc()
	}

	places, err := s.searcher.SearchPlaces(ctx, query, near, limit)
	if err != nil {
		return nil, err
	}

	// Cache for 5 minutes
	if s.cache != nil {
		if data, err := json.Marshal(places); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return places, nil
}
