package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type OpenAI struct {
	client *openai.Client
	cfg    Config
}

func NewOpenAI(cfg Config) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing OPENAI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(cc), cfg: cfg}, nil
}

func (o *OpenAI) Name() string { return "openai/" + o.cfg.Model }

func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: o.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response from %s", o.cfg.Model)
	}
	return resp.Choices[0].Message.Content, nil
}
