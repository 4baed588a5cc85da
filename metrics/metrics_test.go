package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.SourceFetched("Amazon", 3, nil, time.Second)
		m.CacheLookup(true)
		m.Aggregated(nil, time.Second)
		m.AnswerGenerated("groq", OutcomeOK)
	})
}

func TestSourceFetchedOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SourceFetched("Amazon", 2, nil, 10*time.Millisecond)
	m.SourceFetched("Flipkart", 0, nil, 10*time.Millisecond)
	m.SourceFetched("Snapdeal", 0, errors.New("403"), 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFetches.WithLabelValues("Amazon", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFetches.WithLabelValues("Flipkart", OutcomeEmpty)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFetches.WithLabelValues("Snapdeal", OutcomeFailed)))
}

func TestCacheLookup(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
}
