// Package metrics exposes Prometheus instrumentation for the search pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by the counters.
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeFailed  = "failed"
	OutcomeOffline = "offline"
)

// Metrics holds all collectors. A nil *Metrics is a valid no-op recorder.
type Metrics struct {
	SourceFetches       *prometheus.CounterVec
	SourceListings      *prometheus.HistogramVec
	SourceFetchDuration *prometheus.HistogramVec
	CacheLookups        *prometheus.CounterVec
	Aggregations        *prometheus.CounterVec
	AggregationDuration prometheus.Histogram
	AnswerGenerations   *prometheus.CounterVec
}

// New registers all collectors on reg. Pass prometheus.NewRegistry() in tests
// to avoid duplicate registration on the default registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		SourceFetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pricescout_source_fetch_total",
			Help: "Source adapter fetches by store and outcome",
		}, []string{"store", "outcome"}),

		SourceListings: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pricescout_source_listings",
			Help:    "Listings returned per source fetch",
			Buckets: []float64{0, 1, 5, 10, 15, 25, 50},
		}, []string{"store"}),

		SourceFetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pricescout_source_fetch_duration_seconds",
			Help:    "Time spent in one source adapter fetch",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"store"}),

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pricescout_cache_lookups_total",
			Help: "Query cache lookups by result (hit, miss)",
		}, []string{"result"}),

		Aggregations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pricescout_aggregations_total",
			Help: "Aggregator runs by outcome",
		}, []string{"outcome"}),

		AggregationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pricescout_aggregation_duration_seconds",
			Help:    "Wall time of one aggregation fan-out",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),

		AnswerGenerations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pricescout_answer_generations_total",
			Help: "Answer generator calls by provider and outcome",
		}, []string{"provider", "outcome"}),
	}
}

// SourceFetched records one adapter fetch.
func (m *Metrics) SourceFetched(store string, count int, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	switch {
	case err != nil:
		outcome = OutcomeFailed
	case count == 0:
		outcome = OutcomeEmpty
	}
	m.SourceFetches.WithLabelValues(store, outcome).Inc()
	m.SourceListings.WithLabelValues(store).Observe(float64(count))
	m.SourceFetchDuration.WithLabelValues(store).Observe(elapsed.Seconds())
}

// CacheLookup records a cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// Aggregated records one aggregator run.
func (m *Metrics) Aggregated(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeFailed
	}
	m.Aggregations.WithLabelValues(outcome).Inc()
	m.AggregationDuration.Observe(elapsed.Seconds())
}

// AnswerGenerated records one answer generator call.
func (m *Metrics) AnswerGenerated(provider, outcome string) {
	if m == nil {
		return
	}
	m.AnswerGenerations.WithLabelValues(provider, outcome).Inc()
}
