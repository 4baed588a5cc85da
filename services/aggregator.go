package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	"price-scout/metrics"
	"price-scout/models"
	"price-scout/storage"
	"price-scout/utils"
)

// DefaultAdapterTimeout bounds how long the join waits on a single source.
const DefaultAdapterTimeout = 8 * time.Second

// AggregatorOptions tune the fan-out.
type AggregatorOptions struct {
	AdapterTimeout time.Duration
	// SingleFlight coalesces concurrent aggregations of the same key.
	SingleFlight bool
	// Now is the clock used for CreatedAt. Defaults to time.Now.
	Now func() time.Time
}

// Aggregator queries every source concurrently, merges the results in source
// order, sorts them by price and stores them in the cache.
type Aggregator struct {
	sources []Source
	cache   storage.Cache
	logger  *utils.Logger
	metrics *metrics.Metrics
	opts    AggregatorOptions
	group   singleflight.Group
}

// NewAggregator creates an Aggregator. The order of sources is the merge
// order and therefore the tie-break order for equal prices.
func NewAggregator(sources []Source, cache storage.Cache, logger *utils.Logger, m *metrics.Metrics, opts AggregatorOptions) *Aggregator {
	if opts.AdapterTimeout <= 0 {
		opts.AdapterTimeout = DefaultAdapterTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Aggregator{
		sources: sources,
		cache:   cache,
		logger:  logger,
		metrics: m,
		opts:    opts,
	}
}

// Aggregate runs a fresh search for query and caches the result under the
// case-folded query. The only error is a failed cache write.
func (a *Aggregator) Aggregate(ctx context.Context, query string) (*models.AggregatedResult, error) {
	key := NormalizeQuery(query)
	if !a.opts.SingleFlight {
		return a.aggregate(ctx, query, key)
	}

	// The shared computation must outlive any single caller's cancellation.
	shared := context.WithoutCancel(ctx)
	v, err, dup := a.group.Do(key, func() (any, error) {
		return a.aggregate(shared, query, key)
	})
	if dup {
		a.logger.Debug("[aggregator] %q joined an in-flight search", key)
	}
	if err != nil {
		return nil, err
	}
	return v.(*models.AggregatedResult), nil
}

func (a *Aggregator) aggregate(ctx context.Context, query, key string) (*models.AggregatedResult, error) {
	start := time.Now()
	a.logger.Info("[aggregator] Searching %d sources for %q", len(a.sources), query)

	perSource := make([][]*models.Listing, len(a.sources))
	pool := utils.NewWorkerPool(len(a.sources), 0)
	for i, src := range a.sources {
		i, src := i, src // per-iteration copies; module targets go 1.21 loop semantics
		pool.Submit(func() {
			perSource[i] = a.fetchWithDeadline(ctx, src, query)
		})
	}
	pool.Wait()

	merged := make([]*models.Listing, 0)
	for _, listings := range perSource {
		for _, l := range listings {
			if l == nil || l.Price <= 0 {
				continue
			}
			merged = append(merged, l)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Price < merged[j].Price
	})

	result := &models.AggregatedResult{
		Results:   merged,
		Query:     key,
		CreatedAt: a.opts.Now(),
	}
	if err := a.cache.Set(ctx, key, result); err != nil {
		err = fmt.Errorf("aggregator: cache write for %q: %w", key, err)
		a.logger.Error("[aggregator] %v", err)
		a.metrics.Aggregated(err, time.Since(start))
		return nil, err
	}

	a.logger.Info("[aggregator] %q: %d listings in %v", key, len(merged), time.Since(start).Round(time.Millisecond))
	a.metrics.Aggregated(nil, time.Since(start))
	return result, nil
}

// fetchWithDeadline returns the source's listings, or an empty slice when it
// has not answered within the adapter timeout.
func (a *Aggregator) fetchWithDeadline(ctx context.Context, src Source, query string) []*models.Listing {
	ctx, cancel := context.WithTimeout(ctx, a.opts.AdapterTimeout)
	defer cancel()

	done := make(chan []*models.Listing, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				a.logger.Error("[aggregator] %s panicked: %v", src.Name(), r)
				done <- nil
			}
		}()
		done <- src.Fetch(ctx, query)
	}()

	select {
	case listings := <-done:
		if listings == nil {
			return []*models.Listing{}
		}
		return listings
	case <-ctx.Done():
		a.logger.Warn("[aggregator] %s did not answer within %v", src.Name(), a.opts.AdapterTimeout)
		return []*models.Listing{}
	}
}
