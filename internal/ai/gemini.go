package ai

import (
	"context"
	"errors"

	genai "google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

type Gemini struct {
	client      *genai.Client
	model       string
	temperature float32
	cfg         Config
}

func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Gemini{client: c, model: cfg.Model, temperature: cfg.Temperature, cfg: cfg}, nil
}

func (g *Gemini) Name() string { return "gemini/" + g.model }

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	})
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}
