package controller

import (
	"github.com/momonga11/notenext-server/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// parseUUIDParam reads a path parameter as a UUID. A malformed id reads the
// same as a missing record.
func parseUUIDParam(ctx *fiber.Ctx, name, resource string) (uuid.UUID, error) {
	raw := ctx.Params(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.NewNotFound(resource, raw)
	}
	return id, nil
}
