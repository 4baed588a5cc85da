// Package snapdeal scrapes Snapdeal's search results page.
package snapdeal

import (
	"net/url"

	"price-scout/metrics"
	"price-scout/models"
	"price-scout/scraper"
	"price-scout/utils"
)

const baseURL = "https://www.snapdeal.com"

// Rules returns the selector rules for Snapdeal's search page.
func Rules() scraper.MarkupRules {
	return RulesFor(baseURL)
}

// RulesFor returns the Snapdeal rules against a different origin.
func RulesFor(origin string) scraper.MarkupRules {
	return scraper.MarkupRules{
		Store:   models.StoreSnapdeal,
		BaseURL: origin,
		SearchURL: func(query string) string {
			v := url.Values{}
			v.Set("keyword", query)
			v.Set("sort", "rlvncy")
			return origin + "/search?" + v.Encode()
		},
		Blocks:     []string{".product-tuple-listing"},
		Title:      []string{"p.product-title", ".product-title"},
		Price:      []string{"span.product-price", ".lfloat.product-price"},
		Link:       []string{"a.dp-widget-link", ".product-tuple-image a"},
		MaxResults: scraper.DefaultMaxResults,
	}
}

// New creates the Snapdeal source adapter.
func New(fetcher scraper.PageFetcher, logger *utils.Logger, m *metrics.Metrics) *scraper.MarkupSource {
	return scraper.NewMarkupSource(Rules(), fetcher, logger, m)
}
