package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/kaptinlin/jsonrepair"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrInvalidJSON = errors.New("LLM output was not valid JSON")
	ErrSchema      = errors.New("LLM output does not match the expected shape")
)

const fence = "```"

// fenceLanguages are the info strings accepted after an opening fence.
var fenceLanguages = []string{"json", "JSON", "javascript"}

// StripFences removes one pair of markdown code fences around s, with an
// optional language tag after the opening fence. Unfenced input is only
// trimmed.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, fence); ok {
		for _, lang := range fenceLanguages {
			if after, ok := strings.CutPrefix(rest, lang); ok {
				rest = after
				break
			}
		}
		s = rest
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), fence)
	return strings.TrimSpace(s)
}

type DecodeOptions struct {
	Mode           Mode
	Repair         bool
	ValidateSchema bool
}

// Decode turns a raw model reply into JSON. The returned bytes keep the
// model's key order.
func Decode(raw string, opts DecodeOptions) (json.RawMessage, error) {
	s := StripFences(raw)
	if !json.Valid([]byte(s)) {
		if !opts.Repair {
			return nil, fmt.Errorf("%w: %s", ErrInvalidJSON, preview(s))
		}
		repaired, err := jsonrepair.JSONRepair(s)
		if err != nil || !json.Valid([]byte(repaired)) {
			return nil, fmt.Errorf("%w (repair failed): %s", ErrInvalidJSON, preview(s))
		}
		s = repaired
	}
	if opts.ValidateSchema {
		if err := validate(opts.Mode, []byte(s)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchema, err)
		}
	}
	return json.RawMessage(s), nil
}

func preview(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

var (
	schemaOnce sync.Once
	schemas    map[Mode]*jsonschema.Schema
	schemaErr  error
)

func validate(mode Mode, data []byte) error {
	schemaOnce.Do(compileSchemas)
	if schemaErr != nil {
		return schemaErr
	}
	sch, ok := schemas[mode]
	if !ok {
		return fmt.Errorf("no schema for mode %q", mode)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return sch.Validate(v)
}

func compileSchemas() {
	schemas = make(map[Mode]*jsonschema.Schema)
	for mode, def := range schemaDefs() {
		b, err := json.Marshal(def)
		if err != nil {
			schemaErr = fmt.Errorf("marshal schema %s: %w", mode, err)
			return
		}
		url := string(mode) + ".json"
		c := jsonschema.NewCompiler()
		if err := c.AddResource(url, bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("add schema %s: %w", mode, err)
			return
		}
		sch, err := c.Compile(url)
		if err != nil {
			schemaErr = fmt.Errorf("compile schema %s: %w", mode, err)
			return
		}
		schemas[mode] = sch
	}
}

func schemaDefs() map[Mode]map[string]any {
	nullableString := map[string]any{"type": []any{"string", "null"}}

	claimProps := map[string]any{}
	for _, f := range ClaimFields {
		claimProps[f] = nullableString
	}
	sectionProps := map[string]any{}
	for _, s := range ApplicationSections {
		sectionProps[s] = map[string]any{"type": []any{"object", "array", "string", "null"}}
	}

	return map[Mode]map[string]any{
		ModeClaims: {
			"type": "array",
			"items": map[string]any{
				"type":       "object",
				"properties": claimProps,
				"required":   []any{"Claim Number"},
			},
		},
		ModeApplication: {
			"type":          "object",
			"properties":    sectionProps,
			"minProperties": 1,
		},
	}
}
