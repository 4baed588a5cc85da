// Package amazon adapts the RapidAPI "real-time Amazon data" search API.
package amazon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cast"

	"price-scout/metrics"
	"price-scout/models"
	"price-scout/scraper"
	"price-scout/services"
	"price-scout/utils"
)

const (
	defaultEndpoint = "https://real-time-amazon-data.p.rapidapi.com/search"
	defaultHost     = "real-time-amazon-data.p.rapidapi.com"
	country         = "IN"
	page            = "1"
)

// ErrNoData is returned when the API answers without a data object.
var ErrNoData = errors.New("amazon: response has no data field")

// Config configures the API adapter.
type Config struct {
	APIKey   string
	APIHost  string
	Endpoint string
}

// Source is the structured-API source adapter.
type Source struct {
	cfg     Config
	client  *http.Client
	cleaner *services.Cleaner
	logger  *utils.Logger
	metrics *metrics.Metrics
}

type searchResponse struct {
	Status string `json:"status"`
	Data   *struct {
		Products []product `json:"products"`
	} `json:"data"`
}

// product fields arrive as strings, numbers or null depending on the listing.
type product struct {
	Title  string `json:"product_title"`
	Price  any    `json:"product_price"`
	Rating any    `json:"product_star_rating"`
	URL    string `json:"product_url"`
}

// New creates the Amazon adapter. m may be nil.
func New(cfg Config, client *http.Client, logger *utils.Logger, m *metrics.Metrics) *Source {
	if cfg.APIHost == "" {
		cfg.APIHost = defaultHost
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if client == nil {
		client = utils.NewHTTPClient(0)
	}
	return &Source{
		cfg:     cfg,
		client:  client,
		cleaner: services.NewCleaner(logger),
		logger:  logger,
		metrics: m,
	}
}

func (s *Source) Name() string {
	return models.StoreAmazon
}

// Fetch returns an empty slice without any network call when no API key is configured.
func (s *Source) Fetch(ctx context.Context, query string) []*models.Listing {
	if s.cfg.APIKey == "" {
		s.logger.Debug("[%s] RAPIDAPI_KEY not set, skipping", models.StoreAmazon)
		return []*models.Listing{}
	}
	return scraper.Guard(ctx, models.StoreAmazon, s.logger, s.metrics, func(ctx context.Context) ([]*models.Listing, error) {
		return s.search(ctx, query)
	})
}

func (s *Source) search(ctx context.Context, query string) ([]*models.Listing, error) {
	endpoint, err := url.Parse(s.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("amazon: invalid endpoint: %w", err)
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", page)
	params.Set("country", country)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("amazon: build request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", s.cfg.APIKey)
	req.Header.Set("x-rapidapi-host", s.cfg.APIHost)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("amazon: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("amazon: status %d: %s", resp.StatusCode, string(body))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("amazon: decode response: %w", err)
	}
	if payload.Data == nil {
		return nil, ErrNoData
	}

	raw := make([]*models.RawListing, 0, len(payload.Data.Products))
	for _, p := range payload.Data.Products {
		raw = append(raw, &models.RawListing{
			Store:     models.StoreAmazon,
			Title:     p.Title,
			RawPrice:  cast.ToString(p.Price),
			RawLink:   p.URL,
			RawRating: p.Rating,
		})
	}
	return s.cleaner.Clean(raw, ""), nil
}
