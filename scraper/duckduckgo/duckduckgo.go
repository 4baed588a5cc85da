// Package duckduckgo builds short web-context blocks from DuckDuckGo's HTML
// results page.
package duckduckgo

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"price-scout/scraper"
	"price-scout/utils"
)

const (
	defaultEndpoint = "https://html.duckduckgo.com/html/"
	maxSnippets     = 3

	// NoResults is returned when the page parsed but held no results.
	NoResults = "No web results found."
	// SearchFailed is returned on any fetch or parse failure.
	SearchFailed = "Could not search the web."
)

// Client fetches web context. Its result is never empty.
type Client struct {
	endpoint string
	fetcher  scraper.PageFetcher
	logger   *utils.Logger
}

// New creates a Client. An empty endpoint uses the public HTML endpoint.
func New(endpoint string, fetcher scraper.PageFetcher, logger *utils.Logger) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{endpoint: endpoint, fetcher: fetcher, logger: logger}
}

// FetchContext returns up to three "- title: snippet" lines for query, or
// one of the fixed fallback strings.
func (c *Client) FetchContext(ctx context.Context, query string) string {
	snippets, err := c.search(ctx, query)
	if err != nil {
		c.logger.Error("[duckduckgo] search failed: %v", err)
		return SearchFailed
	}
	if len(snippets) == 0 {
		return NoResults
	}
	return strings.Join(snippets, "\n")
}

func (c *Client) search(ctx context.Context, query string) ([]string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	v := url.Values{}
	v.Set("q", query)
	u.RawQuery = v.Encode()

	body, err := c.fetcher.Fetch(ctx, u.String())
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var snippets []string
	doc.Find(".result__body").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := strings.TrimSpace(s.Find(".result__a").First().Text())
		snippet := strings.TrimSpace(s.Find(".result__snippet").First().Text())
		snippets = append(snippets, fmt.Sprintf("- %s: %s", title, snippet))
		return len(snippets) < maxSnippets
	})
	return snippets, nil
}
