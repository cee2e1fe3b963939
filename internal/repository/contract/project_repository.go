package contract

import (
	"context"

	"github.com/momonga11/notenext-server/internal/entity"
	"github.com/momonga11/notenext-server/internal/repository/specification"

	"github.com/google/uuid"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Project, error)
	FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.Project, error)
	UpdateVersioned(ctx context.Context, id uuid.UUID, claimedVersion int, changes map[string]any) (*entity.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MembershipRepository interface {
	Create(ctx context.Context, member *entity.ProjectMember) error
	Exists(ctx context.Context, userId, projectId uuid.UUID) (bool, error)
	ExistsOwned(ctx context.Context, userId uuid.UUID) (bool, error)
	FindUserIdsByProjectId(ctx context.Context, projectId uuid.UUID) ([]uuid.UUID, error)
	DeleteAllByProjectId(ctx context.Context, projectId uuid.UUID) error
}
