package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClientComplete(t *testing.T) {
	var got chatRequest
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"Snapdeal is cheapest."},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(OpenAIConfig{
		APIKey:      "gsk_test",
		BaseURL:     srv.URL + "/openai/v1/",
		Model:       "llama-3.1-8b-instant",
		Temperature: 0.3,
		MaxTokens:   300,
		HTTPClient:  srv.Client(),
	})
	reply, err := c.Complete(context.Background(), "system prompt", "question")

	require.NoError(t, err)
	assert.Equal(t, "Snapdeal is cheapest.", reply)
	assert.Equal(t, "Bearer gsk_test", auth)
	assert.Equal(t, "/openai/v1/chat/completions", path)
	assert.Equal(t, "llama-3.1-8b-instant", got.Model)
	assert.Equal(t, 0.3, got.Temperature)
	assert.Equal(t, 300, got.MaxTokens)
	assert.Equal(t, []Message{{Role: "system", Content: "system prompt"}, {Role: "user", Content: "question"}}, got.Messages)
}

func TestOpenAIClientErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusUnauthorized, `{"error":{"message":"Invalid API Key"}}`},
		{"api error", http.StatusOK, `{"error":{"message":"model overloaded","type":"server_error"}}`},
		{"bad json", http.StatusOK, `{"choices":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()})
			_, err := c.Complete(context.Background(), "s", "u")
			assert.Error(t, err)
		})
	}
}

func TestOpenAIClientNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(OpenAIConfig{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()})
	reply, err := c.Complete(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Empty(t, reply)
}
