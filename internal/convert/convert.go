package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/thywilljoshua/pdf-to-claims/internal/ai"
	"github.com/thywilljoshua/pdf-to-claims/internal/logging"
)

// Converter runs the upload -> text -> structured JSON pipeline. It holds no
// per-request state and is safe for concurrent use.
type Converter struct {
	opts Options
}

func New(opts Options) *Converter {
	if opts.Text == nil {
		opts.Text = RSCExtractor{}
	}
	return &Converter{opts: opts}
}

// ExtractText validates the filename and returns the document text.
func (c *Converter) ExtractText(filename string, data []byte) (Document, error) {
	if !IsPDFName(filename) {
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupportedFile, filename)
	}
	return c.opts.Text.ExtractText(data)
}

func (c *Converter) Run(ctx context.Context, req Request) (Result, error) {
	if req.Mode == "" {
		req.Mode = ModeClaims
	}
	if req.Strategy == "" {
		req.Strategy = StrategyLLM
	}
	if req.Strategy == StrategyPattern && req.Mode != ModeClaims {
		return Result{}, fmt.Errorf("%w: strategy %s supports mode %s only", ErrUnsupportedMode, req.Strategy, ModeClaims)
	}

	start := time.Now()
	doc, err := c.ExtractText(req.Filename, req.Data)
	if err != nil {
		return Result{}, err
	}
	text := doc.Text()
	logging.Debug("pdf text extracted", "file", req.Filename, "pages", len(doc.Pages), "chars", len(text))

	res := Result{Mode: req.Mode, Strategy: req.Strategy, Pages: len(doc.Pages), Chars: len(text)}
	switch req.Strategy {
	case StrategyPattern:
		res.Records = ParseClaims(text)
		b, err := json.Marshal(res.Records)
		if err != nil {
			return Result{}, err
		}
		res.Payload = b
	default:
		payload, err := c.generate(ctx, req.Mode, text)
		if err != nil {
			return Result{}, err
		}
		res.Payload = payload
	}

	logging.Info("document converted",
		"file", req.Filename,
		"mode", req.Mode,
		"strategy", req.Strategy,
		"pages", res.Pages,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (c *Converter) generate(ctx context.Context, mode Mode, text string) (json.RawMessage, error) {
	if c.opts.Generator == nil {
		return nil, fmt.Errorf("%w: no model configured", ErrRemote)
	}
	out, err := c.opts.Generator.Generate(ctx, ai.Prompt(mode, text))
	if err != nil {
		return nil, fmt.Errorf("%w (%s): %w", ErrRemote, c.opts.Generator.Name(), err)
	}
	return ai.Decode(out, ai.DecodeOptions{
		Mode:           mode,
		Repair:         c.opts.RepairJSON,
		ValidateSchema: c.opts.ValidateSchema,
	})
}

// ClaimRecords decodes a claims-mode payload into claim records. Keys the model
// invents beyond the known fields are dropped.
func (r Result) ClaimRecords() ([]ClaimRecord, error) {
	if r.Records != nil {
		return r.Records, nil
	}
	if r.Mode != ModeClaims {
		return nil, fmt.Errorf("%w: mode %s has no claim records", ErrUnsupportedMode, r.Mode)
	}
	var records []ClaimRecord
	if err := json.Unmarshal(r.Payload, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return records, nil
}
