package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"requirements-assistant-be/internal/pkg/apperror"
	"requirements-assistant-be/pkg/llm"
	"requirements-assistant-be/pkg/prompt"
)

// StatusFor maps an error returned by a handler to its HTTP status and message.
func StatusFor(err error) (int, string) {
	if appErr, ok := apperror.As(err); ok {
		return appErr.Code, appErr.Message
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	if errors.Is(err, llm.ErrUnavailable) {
		return fiber.StatusServiceUnavailable, "Language model unavailable, please retry later"
	}

	var tmplErr *prompt.TemplateError
	if errors.As(err, &tmplErr) {
		return fiber.StatusInternalServerError, "Prompt configuration error"
	}

	return fiber.StatusInternalServerError, "Internal server error"
}

func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		code, message := StatusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
