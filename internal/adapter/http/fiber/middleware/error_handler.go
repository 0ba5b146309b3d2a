package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/groupcart/payments-service/internal/domain"
)

// ErrorHandler translates service errors into JSON responses. Validation,
// verification and conflict errors are client faults; upstream failures are
// reported as 500 without leaking gateway internals.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		switch domain.KindOf(err) {
		case domain.KindValidation, domain.KindVerification, domain.KindConflict:
			code = fiber.StatusBadRequest
		case domain.KindNotFound:
			code = fiber.StatusNotFound
		}

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		if code == fiber.StatusInternalServerError {
			log.Error("Internal Server Error", zap.Error(err), zap.String("path", c.Path()))
		}

		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
}

// NotFoundHandler answers requests that matched no route.
func NotFoundHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Route not found",
		})
	}
}
