package handlers

import (
	"errors"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"

	"github.com/SShahid97/marcos/internal/config"
	"github.com/SShahid97/marcos/pkg/apperrors"
)

// NewErrorHandler returns the central Fiber error handler translating the
// error taxonomy into HTTP responses. In development the full error detail
// and a stack are echoed to the client; in production only operational
// errors reveal their message, everything else is flattened to a generic
// body and logged server-side.
func NewErrorHandler(env string) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				appErr = &apperrors.AppError{Status: fiberErr.Code, Message: fiberErr.Message, Operational: true}
			} else {
				appErr = apperrors.NewInternal(err)
			}
		}

		if env == config.EnvDevelopment {
			body := fiber.Map{
				"status":  appErr.Status,
				"message": appErr.Message,
				"stack":   string(debug.Stack()),
			}
			if appErr.Err != nil {
				body["error"] = appErr.Err.Error()
			}
			return c.Status(appErr.Status).JSON(body)
		}

		if !appErr.Operational {
			log.Printf("Unexpected error handling %s %s: %v", c.Method(), c.Path(), err)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
				"status":  http.StatusInternalServerError,
				"message": "Something went wrong",
			})
		}

		return c.Status(appErr.Status).JSON(fiber.Map{
			"status":  appErr.Status,
			"message": appErr.Message,
		})
	}
}
