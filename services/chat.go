package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"price-scout/models"
	"price-scout/storage"
	"price-scout/utils"
)

const (
	// NoMarketData is the price context for a product that has not been searched.
	NoMarketData = "Market data not available (User hasn't searched yet)."

	priceContextLimit = 5
)

// ChatService assembles context for a product question and hands it to the
// answer generator.
type ChatService struct {
	cache     storage.Cache
	web       WebContext
	generator AnswerGenerator
	logger    *utils.Logger
}

func NewChatService(cache storage.Cache, web WebContext, generator AnswerGenerator, logger *utils.Logger) *ChatService {
	return &ChatService{
		cache:     cache,
		web:       web,
		generator: generator,
		logger:    logger,
	}
}

// BuildContext reads the cached prices for product and fetches fresh web
// context for the question. It never triggers a product search.
func (s *ChatService) BuildContext(ctx context.Context, product, message string) models.ChatContext {
	priceContext := NoMarketData
	if cached, ok := s.cache.Get(ctx, NormalizeQuery(product)); ok && len(cached.Results) > 0 {
		priceContext = FormatPriceContext(cached.Results)
	}

	return models.ChatContext{
		PriceContext: priceContext,
		WebContext:   s.web.FetchContext(ctx, product+" "+message),
	}
}

// Answer builds the context and returns the generator's reply.
func (s *ChatService) Answer(ctx context.Context, product, message string) string {
	cc := s.BuildContext(ctx, product, message)
	s.logger.Debug("[chat] %q: price context %d bytes, web context %d bytes", product, len(cc.PriceContext), len(cc.WebContext))

	return s.generator.Generate(ctx, models.AnswerInput{
		Message:      message,
		Product:      product,
		PriceContext: cc.PriceContext,
		WebContext:   cc.WebContext,
	})
}

// FormatPriceContext renders the cheapest listings one per line as
// "- <store>: ₹<price> (<name>)".
func FormatPriceContext(listings []*models.Listing) string {
	n := min(len(listings), priceContextLimit)
	lines := make([]string, 0, n)
	for _, l := range listings[:n] {
		lines = append(lines, fmt.Sprintf("- %s: ₹%s (%s)", l.Store, strconv.FormatFloat(l.Price, 'f', -1, 64), l.Name))
	}
	return strings.Join(lines, "\n")
}
