package server

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/thywilljoshua/pdf-to-claims/internal/ai"
	"github.com/thywilljoshua/pdf-to-claims/internal/convert"
	"github.com/thywilljoshua/pdf-to-claims/internal/export"
)

type extractHandler struct {
	conv        *convert.Converter
	defaultMode convert.Mode
}

// handle serves POST /extract-claims with a multipart "file" field.
// Query: mode=claims|application, strategy=llm|pattern, format=json|xlsx.
func (h *extractHandler) handle(c *fiber.Ctx) error {
	mode, err := ai.ParseMode(c.Query("mode"), h.defaultMode)
	if err != nil {
		return fmt.Errorf("%w: %q", convert.ErrUnsupportedMode, c.Query("mode"))
	}
	strategy, err := convert.ParseStrategy(c.Query("strategy"))
	if err != nil {
		return err
	}
	format := c.Query("format", "json")
	switch format {
	case "json":
	case "xlsx":
		if mode != convert.ModeClaims {
			return fmt.Errorf("%w: xlsx output requires mode %s", convert.ErrUnsupportedMode, convert.ModeClaims)
		}
	default:
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("unsupported format %q (want json|xlsx)", format))
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, `multipart field "file" is required`)
	}
	// Reject by name before extraction.
	if !convert.IsPDFName(fh.Filename) {
		return fmt.Errorf("%w: %q", convert.ErrUnsupportedFile, fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot open upload: "+err.Error())
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot read upload: "+err.Error())
	}

	res, err := h.conv.Run(c.UserContext(), convert.Request{
		Filename: fh.Filename,
		Data:     data,
		Mode:     mode,
		Strategy: strategy,
	})
	if err != nil {
		return err
	}

	if format == "xlsx" {
		records, err := res.ClaimRecords()
		if err != nil {
			return err
		}
		b, err := export.ClaimsXLSX(records)
		if err != nil {
			return err
		}
		c.Attachment(attachmentName(fh.Filename, ".xlsx"))
		c.Set(fiber.HeaderContentType, export.ContentType)
		return c.Send(b)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(envelope(res.Payload))
}

// envelope wraps payload as {"claims": payload} without re-encoding it, so
// the model's key order survives.
func envelope(payload []byte) []byte {
	out := make([]byte, 0, len(payload)+12)
	out = append(out, `{"claims":`...)
	out = append(out, payload...)
	return append(out, '}')
}
