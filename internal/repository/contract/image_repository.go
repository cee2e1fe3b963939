package contract

import (
	"context"

	"github.com/momonga11/notenext-server/internal/entity"
	"github.com/momonga11/notenext-server/internal/repository/specification"

	"github.com/google/uuid"
)

type ImageRepository interface {
	Create(ctx context.Context, image *entity.Image) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Image, error)
	// Delete removes the metadata row; deleting an absent row is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}
