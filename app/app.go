// Package app wires configuration into the running search and chat services.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"price-scout/api"
	"price-scout/config"
	"price-scout/llm"
	"price-scout/metrics"
	"price-scout/scraper"
	"price-scout/scraper/amazon"
	"price-scout/scraper/duckduckgo"
	"price-scout/scraper/flipkart"
	"price-scout/scraper/snapdeal"
	"price-scout/services"
	"price-scout/storage"
	"price-scout/utils"
)

const (
	retryBaseDelay  = 500 * time.Millisecond
	janitorInterval = 5 * time.Minute
)

// App holds the assembled services.
type App struct {
	Config   *config.Config
	Logger   *utils.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	Cache     storage.Cache
	Search    *services.SearchService
	Chat      *services.ChatService
	Insights  *services.InsightService
	Generator *llm.Generator

	memory  *storage.MemoryCache
	closers []func() error
}

// New builds every component selected by cfg.
func New(cfg *config.Config, logger *utils.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Metrics:  m,
	}

	if err := a.setupCache(); err != nil {
		return nil, err
	}

	httpClient := utils.NewHTTPClient(cfg.HTTPTimeout)
	httpFetcher := scraper.NewHTTPFetcher(httpClient, &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   retryBaseDelay,
		Logger:      logger,
	})

	var pageFetcher scraper.PageFetcher = httpFetcher
	if cfg.UseBrowser {
		pageFetcher = scraper.NewBrowserFetcher(cfg.ChromeBin, logger)
	}

	// Order is the merge order: Amazon, Flipkart, Snapdeal.
	sources := []services.Source{
		amazon.New(amazon.Config{APIKey: cfg.RapidAPIKey, APIHost: cfg.RapidAPIHost}, httpClient, logger, m),
		flipkart.New(pageFetcher, logger, m),
		snapdeal.New(pageFetcher, logger, m),
	}
	if cfg.RapidAPIKey == "" {
		logger.Warn("[app] RAPIDAPI_KEY is missing, Amazon results disabled")
	}

	aggregator := services.NewAggregator(sources, a.Cache, logger, m, services.AggregatorOptions{
		AdapterTimeout: cfg.AdapterTimeout,
		SingleFlight:   cfg.SingleFlight,
	})

	a.Search = services.NewSearchService(a.Cache, aggregator, logger, m)
	a.Generator = llm.New(cfg, logger, m)
	a.Chat = services.NewChatService(a.Cache, duckduckgo.New("", httpFetcher, logger), a.Generator, logger)
	a.Insights = services.NewInsightService(logger)

	return a, nil
}

func (a *App) setupCache() error {
	switch a.Config.CacheBackend {
	case "redis":
		client, err := storage.NewRedisClient(storage.RedisConfig{
			Address:  a.Config.RedisAddress,
			Password: a.Config.RedisPassword,
			DB:       a.Config.RedisDB,
		})
		if err != nil {
			return fmt.Errorf("app: redis cache: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		a.Cache = storage.NewRedisCache(client, a.Config.CacheTTL, a.Logger)
		a.Logger.Info("[app] Query cache: redis at %s (ttl %v)", a.Config.RedisAddress, a.Config.CacheTTL)
	case "memory", "":
		a.memory = storage.NewMemoryCache(a.Config.CacheTTL)
		a.Cache = a.memory
		a.Logger.Info("[app] Query cache: in-memory (ttl %v)", a.Config.CacheTTL)
	default:
		return fmt.Errorf("app: unknown CACHE_BACKEND %q", a.Config.CacheBackend)
	}
	return nil
}

// Handler returns the HTTP API.
func (a *App) Handler() http.Handler {
	h := api.NewHandler(a.Search, a.Chat, a.Insights, storage.NewCSVWriter(), a.Logger)
	return api.NewRouter(h, api.RouterOptions{
		CORSOrigins: a.Config.CORSOrigins,
		Gatherer:    a.Registry,
		Logger:      a.Logger,
	})
}

// StartBackground starts the in-memory cache janitor until ctx is done.
func (a *App) StartBackground(ctx context.Context) {
	if a.memory != nil {
		a.memory.StartJanitor(ctx, janitorInterval)
	}
}

// Close releases external connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
