package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/heliodash/heliodash/internal/logging"
	"github.com/heliodash/heliodash/internal/models"
)

// ErrorHandler converts unhandled route errors into the standard error
// envelope. Fiber errors keep their status and message; anything else maps
// to a 500 without leaking the internal message to the client.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		logger.Error("Request error",
			"path", c.Path(),
			"method", c.Method(),
			"status", code,
			"error", err,
		)

		return c.Status(code).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "ERROR",
				Message: message,
			},
		})
	}
}
