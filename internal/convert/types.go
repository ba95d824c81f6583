package convert

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thywilljoshua/pdf-to-claims/internal/ai"
)

// ClaimRecord is one claim found by the pattern parser. Field order here is
// the serialisation order. Dates are the literal NN/NN/NNNN substrings from
// the document; whether they are day-first or month-first is not decided.
type ClaimRecord struct {
	ClaimNumber         string `json:"Claim Number"`
	AccidentDate        string `json:"Accident Date,omitempty"`
	NoticeDate          string `json:"Notice Date,omitempty"`
	CloseDate           string `json:"Close Date,omitempty"`
	IncidentDescription string `json:"Incident Description"`
}

// Strategy selects where structured extraction runs.
type Strategy string

const (
	StrategyLLM     Strategy = "llm"
	StrategyPattern Strategy = "pattern"
)

// ParseStrategy maps user input to a Strategy, ignoring case and surrounding
// space. Empty input means llm.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyLLM:
		return StrategyLLM, nil
	case StrategyPattern:
		return StrategyPattern, nil
	}
	return "", fmt.Errorf("%w %q (want llm|pattern)", ErrUnsupportedStrategy, s)
}

// Request is one document to convert.
type Request struct {
	Filename string
	Data     []byte
	Mode     Mode
	Strategy Strategy
}

// Result is the outcome of one Run. Payload is the JSON served under "claims".
type Result struct {
	Mode     Mode            `json:"mode"`
	Strategy Strategy        `json:"strategy"`
	Pages    int             `json:"pages"`
	Chars    int             `json:"chars"`
	Payload  json.RawMessage `json:"claims"`
	// Records is set for the pattern strategy only.
	Records []ClaimRecord `json:"-"`
}

// Options configures a Converter. Generator may be nil when only the
// pattern strategy is used.
type Options struct {
	Text           TextExtractor
	Generator      ai.Generator
	RepairJSON     bool
	ValidateSchema bool
}

// Mode selects the prompt and output shape.
type Mode = ai.Mode

const (
	ModeClaims      = ai.ModeClaims
	ModeApplication = ai.ModeApplication
)
