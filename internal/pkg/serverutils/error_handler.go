package serverutils

import (
	"errors"

	"github.com/momonga11/notenext-server/internal/apperror"
	"github.com/momonga11/notenext-server/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// NewErrorHandler converts service errors into the API error envelope.
// Domain errors carry their own status; anything else is a 500.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return ctx.Status(appErr.Status()).JSON(ErrorBody{Errors: appErr.Messages})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		log.Error("http", "unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("Internal server error"))
	}
}
