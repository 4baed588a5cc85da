package scraper

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"price-scout/metrics"
	"price-scout/models"
	"price-scout/services"
	"price-scout/utils"
)

// DefaultMaxResults caps how many listings one markup source contributes.
const DefaultMaxResults = 15

// MarkupRules describe how to find listings on one site's search page.
// Blocks is a union: an element matching any of its selectors is a listing
// block. Title, Price and Link are tried in order and the first selector that
// yields a non-empty value wins.
type MarkupRules struct {
	Store      string
	BaseURL    string
	SearchURL  func(query string) string
	Blocks     []string
	Title      []string
	Price      []string
	Link       []string
	MaxResults int
}

// MarkupSource is a source adapter that scrapes an HTML search page.
type MarkupSource struct {
	rules   MarkupRules
	fetcher PageFetcher
	cleaner *services.Cleaner
	logger  *utils.Logger
	metrics *metrics.Metrics
}

// NewMarkupSource creates a MarkupSource. m may be nil.
func NewMarkupSource(rules MarkupRules, fetcher PageFetcher, logger *utils.Logger, m *metrics.Metrics) *MarkupSource {
	if rules.MaxResults <= 0 {
		rules.MaxResults = DefaultMaxResults
	}
	return &MarkupSource{
		rules:   rules,
		fetcher: fetcher,
		cleaner: services.NewCleaner(logger),
		logger:  logger,
		metrics: m,
	}
}

func (s *MarkupSource) Name() string {
	return s.rules.Store
}

// Fetch never fails: any error yields an empty slice.
func (s *MarkupSource) Fetch(ctx context.Context, query string) []*models.Listing {
	return Guard(ctx, s.rules.Store, s.logger, s.metrics, func(ctx context.Context) ([]*models.Listing, error) {
		return s.fetch(ctx, query)
	})
}

func (s *MarkupSource) fetch(ctx context.Context, query string) ([]*models.Listing, error) {
	pageURL := s.rules.SearchURL(query)
	s.logger.Debug("[%s] GET %s", s.rules.Store, pageURL)

	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	raw := s.Extract(doc)
	if len(raw) == 0 {
		s.logger.Warn("[%s] no listing blocks matched for %q", s.rules.Store, query)
	}

	cleaned := s.cleaner.Clean(raw, s.rules.BaseURL)
	seen := utils.NewURLSet()
	listings := make([]*models.Listing, 0, len(cleaned))
	for _, l := range cleaned {
		if l.Link != "" && !seen.Add(l.Link) {
			s.logger.Debug("[%s] Skipping duplicate: %s", s.rules.Store, l.Link)
			continue
		}
		listings = append(listings, l)
		if len(listings) == s.rules.MaxResults {
			break
		}
	}
	return listings, nil
}

// Extract pulls raw listings out of a parsed search page.
func (s *MarkupSource) Extract(doc *goquery.Document) []*models.RawListing {
	if len(s.rules.Blocks) == 0 {
		return nil
	}
	blocks := doc.Find(strings.Join(s.rules.Blocks, ", "))

	raw := make([]*models.RawListing, 0, blocks.Length())
	blocks.Each(func(_ int, block *goquery.Selection) {
		title := firstText(block, s.rules.Title)
		price := firstText(block, s.rules.Price)
		if title == "" || price == "" {
			return
		}
		raw = append(raw, &models.RawListing{
			Store:    s.rules.Store,
			Title:    title,
			RawPrice: price,
			RawLink:  firstAttr(block, s.rules.Link, "href"),
		})
	})
	return raw
}

func firstText(root *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(root.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func firstAttr(root *goquery.Selection, selectors []string, attr string) string {
	for _, sel := range selectors {
		if val, ok := root.Find(sel).First().Attr(attr); ok && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}
