package llm

import (
	"fmt"

	"price-scout/models"
)

const noPriceData = "No live price data available."

const systemPromptTemplate = `You are a helpful Shopping Assistant.
The user is interested in: %q.

CURRENT MARKET DATA:
%s

WEB INFORMATION:
%s

INSTRUCTIONS:
1. Answer the user's question based on the data above.
2. If asked for price, quote the specific stores from the Market Data.
3. If the price data looks empty, suggest checking the links manually.
4. Keep your answer concise (2-3 sentences max).
5. Do not explicitly mention "I searched the web" or "I found in the context". Just answer naturally.`

// SystemPrompt embeds the product, market data and web information into the
// assistant instructions.
func SystemPrompt(in models.AnswerInput) string {
	priceContext := in.PriceContext
	if priceContext == "" {
		priceContext = noPriceData
	}
	return fmt.Sprintf(systemPromptTemplate, in.Product, priceContext, in.WebContext)
}
