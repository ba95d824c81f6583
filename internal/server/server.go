package server

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/xid"

	"github.com/thywilljoshua/pdf-to-claims/internal/config"
	"github.com/thywilljoshua/pdf-to-claims/internal/convert"
	"github.com/thywilljoshua/pdf-to-claims/internal/logging"
)

// New creates the fiber app serving the extraction endpoint. Every request
// runs under ctx, so cancelling it aborts in-flight model calls.
func New(ctx context.Context, cfg config.Config, conv *convert.Converter) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             cfg.Server.BodyLimitMB * 1024 * 1024,
		ErrorHandler:          errorHandler,
	})

	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(ctx)
		return c.Next()
	})
	RegisterMiddleware(app)
	RegisterRoutes(app, cfg, conv)

	// Ensure all responses, including 404s, return JSON
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})
	return app
}

func RegisterMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string {
			return xid.New().String()
		},
	}))
	app.Use(healthcheck.New())
	app.Use(func(c *fiber.Ctx) error {
		requestID := c.GetRespHeader(fiber.HeaderXRequestID)
		logging.Info("Incoming request", "method", c.Method(), "path", c.Path(), "request_id", requestID)
		return c.Next()
	})
}

func RegisterRoutes(app *fiber.App, cfg config.Config, conv *convert.Converter) {
	h := &extractHandler{
		conv:        conv,
		defaultMode: convert.Mode(cfg.Extract.DefaultMode),
	}
	app.Post("/extract-claims", h.handle)
}

// errorHandler renders every failure as {"error":{"code","kind","message"}}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	kind := convert.Kind(err)
	msg := err.Error()

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code, msg = fe.Code, fe.Message
		kind = "http"
		if code == fiber.StatusBadRequest {
			kind = "invalid_upload"
		}
	} else {
		code = statusFor(err)
	}

	if code >= fiber.StatusInternalServerError {
		logging.Error("Request failed", "path", c.Path(), "status", code, "kind", kind, "error", err)
	} else {
		logging.Warn("Request rejected", "path", c.Path(), "status", code, "kind", kind, "message", msg)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"kind":    kind,
			"message": msg,
		},
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, convert.ErrUnsupportedFile),
		errors.Is(err, convert.ErrUnsupportedMode),
		errors.Is(err, convert.ErrUnsupportedStrategy):
		return fiber.StatusBadRequest
	case errors.Is(err, convert.ErrPDF):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, convert.ErrRemote),
		errors.Is(err, convert.ErrInvalidJSON),
		errors.Is(err, convert.ErrSchema):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func attachmentName(upload, ext string) string {
	base := upload
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	if base == "" {
		base = "claims"
	}
	return base + ext
}
