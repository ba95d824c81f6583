package convert

import (
	"errors"

	"github.com/thywilljoshua/pdf-to-claims/internal/ai"
)

// Error kinds surfaced to callers. Wrapped errors keep the underlying cause
// in their message; use errors.Is to classify.
var (
	ErrUnsupportedFile     = errors.New("only PDF files are supported")
	ErrUnsupportedMode     = errors.New("unsupported extraction mode")
	ErrUnsupportedStrategy = errors.New("unsupported extraction strategy")
	ErrPDF                 = errors.New("failed to read PDF")
	ErrRemote              = errors.New("LLM request failed")
	ErrInvalidJSON         = ai.ErrInvalidJSON
	ErrSchema              = ai.ErrSchema
)

// Kind returns a short stable name for the error kind of err, or "internal".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedFile), errors.Is(err, ErrUnsupportedMode), errors.Is(err, ErrUnsupportedStrategy):
		return "invalid_upload"
	case errors.Is(err, ErrPDF):
		return "pdf"
	case errors.Is(err, ErrInvalidJSON):
		return "invalid_json"
	case errors.Is(err, ErrSchema):
		return "schema"
	case errors.Is(err, ErrRemote):
		return "remote"
	default:
		return "internal"
	}
}
