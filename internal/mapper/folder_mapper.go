package mapper

import (
	"time"

	"github.com/momonga11/notenext-server/internal/entity"
	"github.com/momonga11/notenext-server/internal/model"
)

type FolderMapper struct{}

func NewFolderMapper() *FolderMapper {
	return &FolderMapper{}
}

func (m *FolderMapper) ToEntity(f *model.Folder) *entity.Folder {
	if f == nil {
		return nil
	}

	return &entity.Folder{
		Id:          f.Id,
		ProjectId:   f.ProjectId,
		Name:        f.Name,
		Description: f.Description,
		LockVersion: f.LockVersion,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   optionalTime(f.UpdatedAt),
	}
}

func (m *FolderMapper) ToModel(f *entity.Folder) *model.Folder {
	if f == nil {
		return nil
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.Folder{
		Id:          f.Id,
		ProjectId:   f.ProjectId,
		Name:        f.Name,
		Description: f.Description,
		LockVersion: f.LockVersion,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *FolderMapper) ToEntities(folders []*model.Folder) []*entity.Folder {
	entities := make([]*entity.Folder, len(folders))
	for i, f := range folders {
		entities[i] = m.ToEntity(f)
	}
	return entities
}
