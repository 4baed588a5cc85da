package scraper

import (
	"context"
	"fmt"
	"time"

	"price-scout/metrics"
	"price-scout/models"
	"price-scout/utils"
)

// Guard runs fetch and maps every failure, panics included, to an empty
// result. The failure is logged and counted; it never reaches the caller.
func Guard(
	ctx context.Context,
	store string,
	logger *utils.Logger,
	m *metrics.Metrics,
	fetch func(ctx context.Context) ([]*models.Listing, error),
) (listings []*models.Listing) {
	start := time.Now()
	var err error

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			listings = nil
		}
		if err != nil {
			logger.Error("[%s] fetch failed after %v: %v", store, time.Since(start).Round(time.Millisecond), err)
			listings = []*models.Listing{}
		}
		m.SourceFetched(store, len(listings), err, time.Since(start))
	}()

	listings, err = fetch(ctx)
	if err == nil {
		if listings == nil {
			listings = []*models.Listing{}
		}
		logger.Info("[%s] %d listings", store, len(listings))
	}
	return listings
}
