// Package flipkart scrapes Flipkart's search results page.
package flipkart

import (
	"net/url"

	"price-scout/metrics"
	"price-scout/models"
	"price-scout/scraper"
	"price-scout/utils"
)

const baseURL = "https://www.flipkart.com"

// Rules returns the selector rules for Flipkart's search page. Flipkart
// rotates its generated class names; older and newer layouts are listed.
func Rules() scraper.MarkupRules {
	return RulesFor(baseURL)
}

// RulesFor returns the Flipkart rules against a different origin, for tests
// and mirrors.
func RulesFor(origin string) scraper.MarkupRules {
	return scraper.MarkupRules{
		Store:   models.StoreFlipkart,
		BaseURL: origin,
		SearchURL: func(query string) string {
			v := url.Values{}
			v.Set("q", query)
			v.Set("otracker", "search")
			v.Set("marketplace", "FLIPKART")
			return origin + "/search?" + v.Encode()
		},
		Blocks:     []string{"div._1AtVbE", "div.cPHDOP"},
		Title:      []string{"div._4rR01T", "div.KzDlHZ", "a.s1Q9rs", "a.wjcEIp"},
		Price:      []string{"div._30jeq3", "div.Nx9bqj"},
		Link:       []string{"a._1fQZEK", "a.s1Q9rs", "a.CGtC98", "a.wjcEIp"},
		MaxResults: scraper.DefaultMaxResults,
	}
}

// New creates the Flipkart source adapter.
func New(fetcher scraper.PageFetcher, logger *utils.Logger, m *metrics.Metrics) *scraper.MarkupSource {
	return scraper.NewMarkupSource(Rules(), fetcher, logger, m)
}
