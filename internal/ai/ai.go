package ai

import (
	"context"
	"fmt"
	"time"
)

// Generator sends a prompt to a hosted model and returns its text reply.
// Calls block until the model answers or ctx is done; they are never retried.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config is shared by all providers.
type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	// Timeout bounds a single call; zero means no bound beyond ctx.
	Timeout time.Duration
	// RequestsPerMinute throttles outgoing calls; zero disables throttling.
	RequestsPerMinute int
}

// NewGenerator builds the client for cfg.Provider, wrapped with throttling
// when configured. It is meant to be called once at startup.
func NewGenerator(ctx context.Context, cfg Config) (Generator, error) {
	var (
		g   Generator
		err error
	)
	switch cfg.Provider {
	case "", "gemini":
		g, err = NewGemini(ctx, cfg)
	case "openai":
		g, err = NewOpenAI(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	if cfg.RequestsPerMinute > 0 {
		g = NewLimited(g, cfg.RequestsPerMinute)
	}
	return g, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
