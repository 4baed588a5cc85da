package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"price-scout/metrics"
	"price-scout/models"
	"price-scout/utils"
)

func TestGuardMapsErrorToEmpty(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	got := Guard(context.Background(), "shop", utils.NewNopLogger(), m, func(context.Context) ([]*models.Listing, error) {
		return []*models.Listing{{Name: "partial"}}, errors.New("boom")
	})

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SourceFetches.WithLabelValues("shop", metrics.OutcomeFailed)))
}

func TestGuardRecoversPanic(t *testing.T) {
	got := Guard(context.Background(), "shop", utils.NewNopLogger(), nil, func(context.Context) ([]*models.Listing, error) {
		panic("selector exploded")
	})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGuardNilSliceBecomesEmpty(t *testing.T) {
	got := Guard(context.Background(), "shop", utils.NewNopLogger(), nil, func(context.Context) ([]*models.Listing, error) {
		return nil, nil
	})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGuardPassesListingsThrough(t *testing.T) {
	want := []*models.Listing{{Name: "a", Price: 1}, {Name: "b", Price: 2}}
	got := Guard(context.Background(), "shop", utils.NewNopLogger(), nil, func(context.Context) ([]*models.Listing, error) {
		return want, nil
	})
	assert.Equal(t, want, got)
}
