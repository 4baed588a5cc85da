package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"price-scout/models"
	"price-scout/utils"
)

const topRatedLimit = 5

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes price statistics over a search result.
func (s *InsightService) Generate(result *models.AggregatedResult) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByStore: make(map[string]int),
		TopRated:        []*models.Listing{},
	}
	if result == nil {
		return report
	}
	report.Query = result.Query

	listings := result.Results
	if len(listings) == 0 {
		return report
	}
	report.TotalListings = len(listings)

	var ratedListings []*models.Listing
	var total float64
	report.MinPrice = listings[0].Price
	report.MaxPrice = listings[0].Price
	report.Cheapest = listings[0]

	for _, l := range listings {
		report.ListingsByStore[l.Store]++
		total += l.Price
		if l.Price < report.MinPrice {
			report.MinPrice = l.Price
			report.Cheapest = l
		}
		if l.Price > report.MaxPrice {
			report.MaxPrice = l.Price
		}
		if l.Rating > 0 {
			ratedListings = append(ratedListings, l)
		}
	}
	report.AveragePrice = round2(total / float64(len(listings)))
	report.MinPrice = round2(report.MinPrice)
	report.MaxPrice = round2(report.MaxPrice)

	// Top 5 by rating, cheaper first on ties
	sort.SliceStable(ratedListings, func(i, j int) bool {
		return ratedListings[i].Rating > ratedListings[j].Rating
	})
	if len(ratedListings) > topRatedLimit {
		ratedListings = ratedListings[:topRatedLimit]
	}
	if ratedListings != nil {
		report.TopRated = ratedListings
	}

	s.logger.Debug("[insights] %q: %d listings, avg ₹%.2f", report.Query, report.TotalListings, report.AveragePrice)
	return report
}

// Print renders the report for a terminal.
func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 PRICE INSIGHTS: %s\033[0m\n", r.Query)
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total listings : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Price Statistics\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.TotalListings > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m₹%.2f\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum price : \033[1;32m₹%.2f\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price : \033[1;32m₹%.2f\033[0m\n", r.MaxPrice)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if r.Cheapest != nil {
		fmt.Fprintf(w, "\033[1;33m  Cheapest Listing\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.Cheapest.Name, 50))
		fmt.Fprintf(w, "  Store : %s\n", r.Cheapest.Store)
		fmt.Fprintf(w, "  Price : \033[1;32m₹%.2f\033[0m\n", r.Cheapest.Price)
		if r.Cheapest.Link != "" {
			fmt.Fprintf(w, "  Link  : %s\n", r.Cheapest.Link)
		}
		fmt.Fprintln(w)
	}

	// ── TOP 5 HIGHEST RATED ──────────────────────────────────────────────
	fmt.Fprintf(w, "\033[1;33m  Top 5 Highest Rated\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopRated) == 0 {
		fmt.Fprintf(w, "  No rated listings found\n")
	} else {
		for i, l := range r.TopRated {
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%.1f ★\033[0m  ₹%.2f\n",
				i+1, truncate(l.Name, 38), l.Rating, l.Price)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Listings by Store\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByStore) == 0 {
		fmt.Fprintf(w, "  No listings\n")
	} else {
		type storeCount struct {
			store string
			count int
		}
		var stores []storeCount
		for store, cnt := range r.ListingsByStore {
			stores = append(stores, storeCount{store, cnt})
		}
		sort.Slice(stores, func(i, j int) bool {
			if stores[i].count != stores[j].count {
				return stores[i].count > stores[j].count
			}
			return stores[i].store < stores[j].store
		})
		for _, sc := range stores {
			bar := strings.Repeat("█", sc.count)
			fmt.Fprintf(w, "  %-12s %s (%d)\n", sc.store, bar, sc.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
