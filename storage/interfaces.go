package storage

import (
	"context"
	"errors"
	"io"

	"price-scout/models"
)

// ErrNilResult is returned when Set is called without a value.
var ErrNilResult = errors.New("storage: nil aggregated result")

// Cache is the query-keyed store of aggregated search results.
// Keys are used exactly as given; callers normalise them first.
type Cache interface {
	// Get returns the entry for key, or false when it is absent or expired.
	Get(ctx context.Context, key string) (*models.AggregatedResult, bool)
	// Set stores value under key, replacing any previous entry and
	// restarting its time-to-live.
	Set(ctx context.Context, key string, value *models.AggregatedResult) error
	// Has reports whether a non-expired entry exists for key.
	Has(ctx context.Context, key string) bool
}

// ListingWriter is the interface any listing export format must satisfy.
type ListingWriter interface {
	Write(w io.Writer, listings []*models.Listing) error
}
