package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"price-scout/config"
	"price-scout/metrics"
	"price-scout/models"
	"price-scout/utils"
)

type fakeCompleter struct {
	reply  string
	err    error
	system string
	user   string
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.system, f.user = system, user
	return f.reply, f.err
}

func sampleInput() models.AnswerInput {
	return models.AnswerInput{
		Message:      "Which store is cheapest?",
		Product:      "wireless mouse",
		PriceContext: "- Flipkart: ₹500 (HP X200)",
		WebContext:   "- Review: reliable",
	}
}

func TestGenerateReplies(t *testing.T) {
	tests := []struct {
		name      string
		completer Completer
		want      string
		outcome   string
	}{
		{"offline", nil, OfflineReply, metrics.OutcomeOffline},
		{"failure", &fakeCompleter{err: errors.New("status 503")}, TroubleReply, metrics.OutcomeFailed},
		{"empty", &fakeCompleter{reply: "  "}, EmptyReply, metrics.OutcomeEmpty},
		{"ok", &fakeCompleter{reply: "Flipkart has it for ₹500."}, "Flipkart has it for ₹500.", metrics.OutcomeOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New(prometheus.NewRegistry())
			g := NewGenerator(ProviderGroq, tt.completer, utils.NewNopLogger(), m)

			assert.Equal(t, tt.want, g.Generate(context.Background(), sampleInput()))
			assert.Equal(t, 1.0, testutil.ToFloat64(m.AnswerGenerations.WithLabelValues(ProviderGroq, tt.outcome)))
		})
	}
}

func TestGeneratePassesPrompt(t *testing.T) {
	fc := &fakeCompleter{reply: "ok"}
	NewGenerator(ProviderGroq, fc, utils.NewNopLogger(), nil).Generate(context.Background(), sampleInput())

	assert.Equal(t, "Which store is cheapest?", fc.user)
	assert.Contains(t, fc.system, `The user is interested in: "wireless mouse".`)
	assert.Contains(t, fc.system, "- Flipkart: ₹500 (HP X200)")
	assert.Contains(t, fc.system, "- Review: reliable")
	assert.Contains(t, fc.system, "2-3 sentences max")
}

func TestSystemPromptWithoutPrices(t *testing.T) {
	in := sampleInput()
	in.PriceContext = ""
	assert.True(t, strings.Contains(SystemPrompt(in), noPriceData))
}

func TestNewSelectsProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		provider string
		online   bool
	}{
		{"groq without key", config.Config{LLMProvider: "groq"}, ProviderGroq, false},
		{"groq with key", config.Config{LLMProvider: "groq", GroqAPIKey: "k", GroqBaseURL: "https://api.groq.com/openai/v1"}, ProviderGroq, true},
		{"anthropic without key", config.Config{LLMProvider: "anthropic"}, ProviderAnthropic, false},
		{"anthropic with key", config.Config{LLMProvider: "anthropic", AnthropicAPIKey: "k"}, ProviderAnthropic, true},
		{"unknown falls back", config.Config{LLMProvider: "mystery", GroqAPIKey: "k"}, ProviderGroq, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(&tt.cfg, utils.NewNopLogger(), nil)
			assert.Equal(t, tt.provider, g.Provider())
			assert.Equal(t, tt.online, g.Online())
		})
	}
}
