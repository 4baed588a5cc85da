package services

import (
	"testing"

	"price-scout/models"
	"price-scout/utils"
)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

func TestCleanerParsePrice(t *testing.T) {
	c := NewCleaner(newTestLogger())

	tests := []struct {
		raw  string
		want float64
	}{
		{"₹1,299", 1299},
		{"Rs. 499", 499},
		{"Rs  12,999", 12999},
		{"₹2,499.50", 2499.50},
		{"INR 1,00,000", 100000},
		{"  ₹ 899 ", 899},
		{"", 0},
		{"Price not available", 0},
		{"₹0", 0},
	}

	for _, tt := range tests {
		got := c.parsePrice(tt.raw)
		if got != tt.want {
			t.Errorf("parsePrice(%q) = %.2f; want %.2f", tt.raw, got, tt.want)
		}
	}
}

func TestCleanerParseRating(t *testing.T) {
	c := NewCleaner(newTestLogger())

	tests := []struct {
		raw  any
		want float64
	}{
		{"4.5", 4.5},
		{4.1, 4.1},
		{"3.9 out of 5 stars", 3.9},
		{nil, 0},
		{"", 0},
		{"New", 0},
		{"6.0", 0},
	}

	for _, tt := range tests {
		got := c.parseRating(tt.raw)
		if got != tt.want {
			t.Errorf("parseRating(%v) = %.2f; want %.2f", tt.raw, got, tt.want)
		}
	}
}

func TestCleanerResolvesRelativeLinks(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []*models.RawListing{
		{Store: models.StoreFlipkart, Title: "Mouse", RawPrice: "₹499", RawLink: "/mouse/p/itm1?pid=1"},
		{Store: models.StoreFlipkart, Title: "Pad", RawPrice: "₹199", RawLink: "https://www.flipkart.com/pad/p/itm2"},
		{Store: models.StoreFlipkart, Title: "Cable", RawPrice: "₹99", RawLink: ""},
	}

	cleaned := c.Clean(raw, "https://www.flipkart.com")
	if len(cleaned) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(cleaned))
	}
	if cleaned[0].Link != "https://www.flipkart.com/mouse/p/itm1?pid=1" {
		t.Errorf("relative link not resolved: %q", cleaned[0].Link)
	}
	if cleaned[1].Link != "https://www.flipkart.com/pad/p/itm2" {
		t.Errorf("absolute link changed: %q", cleaned[1].Link)
	}
	if cleaned[2].Link != "" {
		t.Errorf("missing link should stay empty, got %q", cleaned[2].Link)
	}
}

func TestCleanerDropsUnpricedAndUntitled(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []*models.RawListing{
		{Store: models.StoreSnapdeal, Title: "", RawPrice: "Rs. 100"},
		{Store: models.StoreSnapdeal, Title: "Free thing", RawPrice: "Rs. 0"},
		{Store: models.StoreSnapdeal, Title: "No price", RawPrice: ""},
		{Store: models.StoreSnapdeal, Title: "  Good   mouse ", RawPrice: "Rs. 350"},
	}

	cleaned := c.Clean(raw, "")
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(cleaned))
	}
	if cleaned[0].Name != "Good mouse" {
		t.Errorf("name not normalised: %q", cleaned[0].Name)
	}
	if !cleaned[0].InStock {
		t.Error("stock should default to true")
	}
}

func TestCleanerHonoursReportedStock(t *testing.T) {
	c := NewCleaner(newTestLogger())
	out := false
	raw := []*models.RawListing{
		{Store: models.StoreAmazon, Title: "Gone", RawPrice: "₹10", InStock: &out},
	}

	cleaned := c.Clean(raw, "")
	if len(cleaned) != 1 || cleaned[0].InStock {
		t.Errorf("expected one out-of-stock listing, got %+v", cleaned)
	}
}
