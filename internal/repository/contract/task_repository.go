package contract

import (
	"context"

	"github.com/momonga11/notenext-server/internal/entity"
	"github.com/momonga11/notenext-server/internal/repository/specification"

	"github.com/google/uuid"
)

type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Task, error)
	ExistsByNoteId(ctx context.Context, noteId uuid.UUID) (bool, error)
	UpdateVersioned(ctx context.Context, id uuid.UUID, claimedVersion int, changes map[string]any) (*entity.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
