package implementation

import (
	"context"
	"errors"

	"github.com/momonga11/notenext-server/internal/entity"
	"github.com/momonga11/notenext-server/internal/mapper"
	"github.com/momonga11/notenext-server/internal/model"
	"github.com/momonga11/notenext-server/internal/repository/contract"
	"github.com/momonga11/notenext-server/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FolderRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FolderMapper
}

func NewFolderRepository(db *gorm.DB) contract.FolderRepository {
	return &FolderRepositoryImpl{
		db:     db,
		mapper: mapper.NewFolderMapper(),
	}
}

func (r *FolderRepositoryImpl) Create(ctx context.Context, folder *entity.Folder) error {
	m := r.mapper.ToModel(folder)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*folder = *r.mapper.ToEntity(m)
	return nil
}

func (r *FolderRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Folder, error) {
	var m model.Folder
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FolderRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Folder, error) {
	var models []*model.Folder
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *FolderRepositoryImpl) FindAllWithTaskCounts(ctx context.Context, projectId uuid.UUID) ([]*entity.FolderWithTaskCount, error) {
	type row struct {
		model.Folder
		TasksCount int64
	}

	var rows []row
	err := r.db.WithContext(ctx).Model(&model.Folder{}).
		Select("folders.*, COUNT(tasks.id) AS tasks_count").
		Joins("LEFT JOIN notes ON notes.folder_id = folders.id").
		Joins("LEFT JOIN tasks ON tasks.note_id = notes.id AND tasks.completed = ?", false).
		Where("folders.project_id = ?", projectId).
		Group("folders.id").
		Order("folders.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*entity.FolderWithTaskCount, len(rows))
	for i, rw := range rows {
		result[i] = &entity.FolderWithTaskCount{
			Folder:     *r.mapper.ToEntity(&rw.Folder),
			TasksCount: rw.TasksCount,
		}
	}
	return result, nil
}

func (r *FolderRepositoryImpl) UpdateVersioned(ctx context.Context, id uuid.UUID, claimedVersion int, changes map[string]any) (*entity.Folder, error) {
	m, err := updateVersioned[model.Folder](r.db.WithContext(ctx), "folder", id, claimedVersion, changes)
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(m), nil
}

func (r *FolderRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Folder{}, id).Error
}
