package services

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cast"

	"price-scout/models"
	"price-scout/utils"
)

var (
	// priceRegexp captures the first numeric amount once separators are gone
	priceRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)
	// ratingRegexp captures a numeric rating in the 0.0–5.0 range
	ratingRegexp = regexp.MustCompile(`\b([0-5](?:\.\d{1,2})?)\b`)

	currencyStripper = strings.NewReplacer(
		"₹", "",
		"Rs.", "",
		"Rs", "",
		"INR", "",
		"$", "",
		",", "",
		"\u00a0", " ",
	)
)

// Cleaner transforms RawListings into validated Listings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean normalizes raw listings and drops the ones that cannot be priced or named.
// Relative links are resolved against baseURL; pass "" when the source only
// returns absolute links.
func (c *Cleaner) Clean(raw []*models.RawListing, baseURL string) []*models.Listing {
	base, err := url.Parse(baseURL)
	if err != nil || baseURL == "" {
		base = nil
	}

	result := make([]*models.Listing, 0, len(raw))
	for _, r := range raw {
		name := normaliseText(r.Title)
		if name == "" {
			c.logger.Debug("[cleaner] %s: dropping listing without title", r.Store)
			continue
		}

		price := c.parsePrice(r.RawPrice)
		if price <= 0 {
			c.logger.Debug("[cleaner] %s: dropping %q, unparsable price %q", r.Store, name, r.RawPrice)
			continue
		}

		inStock := true
		if r.InStock != nil {
			inStock = *r.InStock
		}

		result = append(result, &models.Listing{
			Store:   r.Store,
			Name:    name,
			Price:   price,
			InStock: inStock,
			Rating:  c.parseRating(r.RawRating),
			Link:    resolveLink(base, r.RawLink),
		})
	}

	if dropped := len(raw) - len(result); dropped > 0 {
		c.logger.Debug("[cleaner] Cleaned %d → %d listings (dropped %d)", len(raw), len(result), dropped)
	}
	return result
}

// parsePrice strips currency glyphs and thousands separators and returns the
// first amount found. Examples:
//
//	"₹1,299"    → 1299
//	"Rs. 499"   → 499
//	"₹2,499.50" → 2499.5
func (c *Cleaner) parsePrice(raw string) float64 {
	cleaned := currencyStripper.Replace(strings.TrimSpace(raw))
	match := priceRegexp.FindString(cleaned)
	if match == "" {
		return 0
	}

	price, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return price
}

// parseRating accepts numbers or text such as "4.3 out of 5 stars".
func (c *Cleaner) parseRating(raw any) float64 {
	if raw == nil {
		return 0
	}

	if f, err := cast.ToFloat64E(raw); err == nil {
		return clampRating(f)
	}

	match := ratingRegexp.FindStringSubmatch(cast.ToString(raw))
	if len(match) < 2 {
		return 0
	}
	val, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	return clampRating(val)
}

func clampRating(v float64) float64 {
	if v < 0 || v > 5 {
		return 0
	}
	return v
}

// resolveLink returns an absolute URL or "" when one cannot be formed.
func resolveLink(base *url.URL, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	if base == nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
