package services

import (
	"context"

	"price-scout/metrics"
	"price-scout/models"
	"price-scout/storage"
	"price-scout/utils"
)

// SearchService answers searches from the cache and falls back to a fresh
// aggregation on a miss.
type SearchService struct {
	cache      storage.Cache
	aggregator *Aggregator
	logger     *utils.Logger
	metrics    *metrics.Metrics
}

func NewSearchService(cache storage.Cache, aggregator *Aggregator, logger *utils.Logger, m *metrics.Metrics) *SearchService {
	return &SearchService{
		cache:      cache,
		aggregator: aggregator,
		logger:     logger,
		metrics:    m,
	}
}

// Search returns the cached result for query when one is live, otherwise
// aggregates.
func (s *SearchService) Search(ctx context.Context, query string) (*models.AggregatedResult, error) {
	key := NormalizeQuery(query)
	if cached, ok := s.cache.Get(ctx, key); ok {
		s.metrics.CacheLookup(true)
		s.logger.Info("[cache] hit %q (%d listings)", key, len(cached.Results))
		return cached, nil
	}
	s.metrics.CacheLookup(false)
	return s.aggregator.Aggregate(ctx, query)
}
