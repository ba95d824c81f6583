package main

import (
	"context"
	"errors"

	"github.com/thywilljoshua/pdf-to-claims/internal/ai"
	"github.com/thywilljoshua/pdf-to-claims/internal/config"
	"github.com/thywilljoshua/pdf-to-claims/internal/convert"
	"github.com/thywilljoshua/pdf-to-claims/internal/logging"
)

// loadConfig reads configuration and initialises the global logger from it.
func loadConfig(opts *rootOptions) (config.Config, error) {
	v := config.New()
	if opts.logLevel != "" {
		v.Set("logger.level", opts.logLevel)
	}
	cfg, err := config.Load(v, opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	logging.InitLogger(
		cfg.Logger.File,
		cfg.Logger.MaxSizeMB,
		cfg.Logger.MaxBackups,
		cfg.Logger.MaxAgeDays,
		cfg.Logger.Compress,
		cfg.Logger.Level,
	)
	return cfg, nil
}

// newConverter wires the configured PDF engine and model client. When
// needModel is false a missing API key is tolerated and no client is built.
func newConverter(ctx context.Context, cfg config.Config, needModel bool) (*convert.Converter, error) {
	if err := cfg.Validate(); err != nil {
		if needModel || !errors.Is(err, config.ErrMissingAPIKey) {
			return nil, err
		}
	}
	text, err := convert.NewTextExtractor(cfg.Extract.PDFEngine)
	if err != nil {
		return nil, err
	}
	opts := convert.Options{
		Text:           text,
		RepairJSON:     cfg.LLM.RepairJSON,
		ValidateSchema: cfg.LLM.ValidateSchema,
	}
	if needModel {
		gen, err := ai.NewGenerator(ctx, aiConfig(cfg.LLM))
		if err != nil {
			return nil, err
		}
		opts.Generator = gen
		logging.Info("LLM client ready", "model", gen.Name())
	}
	return convert.New(opts), nil
}

func aiConfig(c config.LLMConfig) ai.Config {
	return ai.Config{
		Provider:          c.Provider,
		Model:             c.Model,
		APIKey:            c.APIKey,
		BaseURL:           c.BaseURL,
		Temperature:       c.Temperature,
		Timeout:           c.Timeout,
		RequestsPerMinute: c.RequestsPerMinute,
	}
}
