package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAI_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "extract this", req.Messages[0].Content)

		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:    "chatcmpl-1",
			Model: req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: `[{"Claim Number":"A1"}]`},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	}))
	defer srv.Close()

	o, err := NewOpenAI(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o-mini", o.Name())

	out, err := o.Generate(context.Background(), "extract this")
	require.NoError(t, err)
	assert.Equal(t, `[{"Claim Number":"A1"}]`, out)
}

func TestOpenAI_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{ID: "chatcmpl-2"})
	}))
	defer srv.Close()

	o, err := NewOpenAI(Config{APIKey: "k", BaseURL: srv.URL, Model: "gpt-4o"})
	require.NoError(t, err)

	_, err = o.Generate(context.Background(), "x")
	assert.ErrorContains(t, err, "no choices")
}

func TestOpenAI_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	o, err := NewOpenAI(Config{APIKey: "bad", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = o.Generate(context.Background(), "x")
	assert.ErrorContains(t, err, "invalid api key")
}

func TestNewGenerator(t *testing.T) {
	g, err := NewGenerator(context.Background(), Config{Provider: "openai", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, g)

	g, err = NewGenerator(context.Background(), Config{Provider: "gemini", APIKey: "k", RequestsPerMinute: 10})
	require.NoError(t, err)
	assert.IsType(t, &Limited{}, g)
	assert.Equal(t, "gemini/gemini-2.5-flash", g.Name())

	_, err = NewGenerator(context.Background(), Config{Provider: "bard", APIKey: "k"})
	assert.Error(t, err)

	_, err = NewGenerator(context.Background(), Config{Provider: "openai"})
	assert.Error(t, err)
}
