package models

import "time"

// Store names, in the fixed order the aggregator concatenates them.
const (
	StoreAmazon   = "Amazon"
	StoreFlipkart = "Flipkart"
	StoreSnapdeal = "Snapdeal"
)

// RawListing holds unprocessed data exactly as an adapter extracted it.
// The cleaner turns it into a Listing or drops it.
type RawListing struct {
	Store     string
	Title     string
	RawPrice  string
	RawLink   string
	RawRating any
	// InStock is nil when the source does not report availability.
	InStock *bool
}

// Listing is one normalized product offer from one source.
type Listing struct {
	Store   string  `json:"store"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	InStock bool    `json:"inStock"`
	Rating  float64 `json:"rating"`
	Link    string  `json:"link"`
}

// AggregatedResult is the merged, price-sorted set of listings for one query.
// It is the unit stored in the query cache and is read-only once stored.
type AggregatedResult struct {
	Results   []*Listing `json:"results"`
	Query     string     `json:"query"`
	CreatedAt time.Time  `json:"createdAt"`
}

// InsightReport holds price statistics computed over one AggregatedResult.
type InsightReport struct {
	Query           string         `json:"query"`
	TotalListings   int            `json:"totalListings"`
	ListingsByStore map[string]int `json:"listingsByStore"`
	AveragePrice    float64        `json:"averagePrice"`
	MinPrice        float64        `json:"minPrice"`
	MaxPrice        float64        `json:"maxPrice"`
	Cheapest        *Listing       `json:"cheapest,omitempty"`
	TopRated        []*Listing     `json:"topRated"`
}
