// Package llm implements the answer generator on top of hosted chat models.
package llm

import (
	"context"
	"strings"

	"price-scout/config"
	"price-scout/metrics"
	"price-scout/models"
	"price-scout/utils"
)

// Replies used when the model cannot answer.
const (
	OfflineReply = "AI features are currently offline (API Key missing)."
	TroubleReply = "I'm having trouble processing that request right now."
	EmptyReply   = "I couldn't generate a response."
)

// Provider names accepted in LLM_PROVIDER.
const (
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
)

// Completer sends one system + user exchange to a chat model.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Generator answers product questions. Generate never returns an empty
// string; every failure maps to one of the fixed replies.
type Generator struct {
	provider  string
	completer Completer
	logger    *utils.Logger
	metrics   *metrics.Metrics
}

// NewGenerator wraps completer. A nil completer yields an offline generator.
func NewGenerator(provider string, completer Completer, logger *utils.Logger, m *metrics.Metrics) *Generator {
	return &Generator{
		provider:  provider,
		completer: completer,
		logger:    logger,
		metrics:   m,
	}
}

// New builds the generator selected by cfg. A provider without an API key
// is offline.
func New(cfg *config.Config, logger *utils.Logger, m *metrics.Metrics) *Generator {
	provider := cfg.LLMProvider
	switch provider {
	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			logger.Warn("[llm] ANTHROPIC_API_KEY is missing, AI features offline")
			return NewGenerator(provider, nil, logger, m)
		}
		logger.Info("[llm] Using Anthropic model %s", cfg.AnthropicModel)
		return NewGenerator(provider, NewAnthropicCompleter(AnthropicConfig{
			APIKey:      cfg.AnthropicAPIKey,
			Model:       cfg.AnthropicModel,
			Temperature: cfg.LLMTemperature,
			MaxTokens:   cfg.LLMMaxTokens,
			HTTPClient:  utils.NewHTTPClient(cfg.HTTPTimeout),
		}), logger, m)
	case ProviderGroq, "":
	default:
		logger.Warn("[llm] Unknown LLM_PROVIDER %q, falling back to %s", provider, ProviderGroq)
	}

	provider = ProviderGroq
	if cfg.GroqAPIKey == "" {
		logger.Warn("[llm] GROQ_API_KEY is missing, AI features offline")
		return NewGenerator(provider, nil, logger, m)
	}
	logger.Info("[llm] Using Groq model %s", cfg.GroqModel)
	return NewGenerator(provider, NewOpenAIClient(OpenAIConfig{
		APIKey:      cfg.GroqAPIKey,
		BaseURL:     cfg.GroqBaseURL,
		Model:       cfg.GroqModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
		HTTPClient:  utils.NewHTTPClient(cfg.HTTPTimeout),
	}), logger, m)
}

func (g *Generator) Provider() string {
	return g.provider
}

// Online reports whether a model is configured.
func (g *Generator) Online() bool {
	return g.completer != nil
}

func (g *Generator) Generate(ctx context.Context, in models.AnswerInput) string {
	if g.completer == nil {
		g.metrics.AnswerGenerated(g.provider, metrics.OutcomeOffline)
		return OfflineReply
	}

	reply, err := g.completer.Complete(ctx, SystemPrompt(in), in.Message)
	if err != nil {
		g.logger.Error("[llm] %s completion failed: %v", g.provider, err)
		g.metrics.AnswerGenerated(g.provider, metrics.OutcomeFailed)
		return TroubleReply
	}
	if strings.TrimSpace(reply) == "" {
		g.metrics.AnswerGenerated(g.provider, metrics.OutcomeEmpty)
		return EmptyReply
	}

	g.metrics.AnswerGenerated(g.provider, metrics.OutcomeOK)
	return reply
}
