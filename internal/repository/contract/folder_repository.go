package contract

import (
	"context"

	"github.com/momonga11/notenext-server/internal/entity"
	"github.com/momonga11/notenext-server/internal/repository/specification"

	"github.com/google/uuid"
)

type FolderRepository interface {
	Create(ctx context.Context, folder *entity.Folder) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Folder, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Folder, error)
	// FindAllWithTaskCounts returns the project's folders together with the
	// number of incomplete tasks under each, ordered by folder id.
	FindAllWithTaskCounts(ctx context.Context, projectId uuid.UUID) ([]*entity.FolderWithTaskCount, error)
	UpdateVersioned(ctx context.Context, id uuid.UUID, claimedVersion int, changes map[string]any) (*entity.Folder, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
