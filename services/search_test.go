package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-scout/models"
	"price-scout/storage"
)

func TestSearchServesFromCache(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := storage.NewMemoryCache(time.Hour, storage.WithClock(func() time.Time { return now }))
	src := &fakeSource{name: models.StoreAmazon, listings: []*models.Listing{listing(models.StoreAmazon, "a", 100)}}
	svc := NewSearchService(cache, newTestAggregator(cache, AggregatorOptions{}, src), newTestLogger(), nil)

	first, err := svc.Search(context.Background(), "Mouse")
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), "mouse")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
	assert.Equal(t, first, second)

	now = now.Add(time.Hour)
	_, err = svc.Search(context.Background(), "MOUSE")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&src.calls), "expired entry must trigger a fresh search")
}

func TestSearchHitSkipsSources(t *testing.T) {
	cache := storage.NewMemoryCache(time.Hour)
	require.NoError(t, cache.Set(context.Background(), "keyboard", &models.AggregatedResult{
		Query:   "keyboard",
		Results: []*models.Listing{listing(models.StoreSnapdeal, "cached", 42)},
	}))
	src := &fakeSource{name: models.StoreAmazon}
	svc := NewSearchService(cache, newTestAggregator(cache, AggregatorOptions{}, src), newTestLogger(), nil)

	got, err := svc.Search(context.Background(), "Keyboard")
	require.NoError(t, err)
	assert.Equal(t, "cached", got.Results[0].Name)
	assert.Zero(t, atomic.LoadInt32(&src.calls))
}
