package services

import (
	"context"
	"strings"

	"price-scout/models"
)

// Source is one upstream product source. Fetch never fails: errors surface
// as an empty slice.
type Source interface {
	Name() string
	Fetch(ctx context.Context, query string) []*models.Listing
}

// WebContext supplies a short free-text summary of web results for a query.
type WebContext interface {
	FetchContext(ctx context.Context, query string) string
}

// AnswerGenerator turns a chat question plus context into a reply. Generate
// always returns non-empty text.
type AnswerGenerator interface {
	Generate(ctx context.Context, in models.AnswerInput) string
}

// NormalizeQuery returns the cache key for a query.
func NormalizeQuery(query string) string {
	return strings.ToLower(query)
}
