package contract

import (
	"context"

	"github.com/momonga11/notenext-server/internal/entity"
	"github.com/momonga11/notenext-server/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	UpdateVersioned(ctx context.Context, id uuid.UUID, claimedVersion int, changes map[string]any) (*entity.Note, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
