package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestGemini_Generate(t *testing.T) {
	var gotPrompt string
	srv := geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		body, _ := io.ReadAll(r.Body)
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		require.NotEmpty(t, req.Contents)
		gotPrompt = req.Contents[0].Parts[0].Text

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"`+"```json\\n[]\\n```"+`"}]}}]}`)
	})

	g, err := NewGemini(context.Background(), Config{APIKey: "test-key", BaseURL: srv.URL, Temperature: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "gemini/gemini-2.5-flash", g.Name())

	out, err := g.Generate(context.Background(), "extract this")
	require.NoError(t, err)
	assert.Equal(t, "```json\n[]\n```", out)
	assert.Equal(t, "extract this", gotPrompt)
}

func TestGemini_APIError(t *testing.T) {
	srv := geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":429,"message":"quota exhausted","status":"RESOURCE_EXHAUSTED"}}`)
	})

	g, err := NewGemini(context.Background(), Config{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exhausted")
}

func TestGemini_Timeout(t *testing.T) {
	srv := geminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	g, err := NewGemini(context.Background(), Config{APIKey: "k", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewGemini_MissingKey(t *testing.T) {
	_, err := NewGemini(context.Background(), Config{})
	assert.Error(t, err)
}
