package mapper

import (
	"time"

	"github.com/momonga11/notenext-server/internal/entity"
	"github.com/momonga11/notenext-server/internal/model"

	"gorm.io/datatypes"
)

type TaskMapper struct{}

func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

func (m *TaskMapper) ToEntity(t *model.Task) *entity.Task {
	if t == nil {
		return nil
	}

	var dateTo *time.Time
	if t.DateTo != nil {
		d := time.Time(*t.DateTo)
		dateTo = &d
	}

	return &entity.Task{
		Id:          t.Id,
		ProjectId:   t.ProjectId,
		NoteId:      t.NoteId,
		DateTo:      dateTo,
		Completed:   t.Completed,
		LockVersion: t.LockVersion,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   optionalTime(t.UpdatedAt),
	}
}

func (m *TaskMapper) ToModel(t *entity.Task) *model.Task {
	if t == nil {
		return nil
	}

	var dateTo *datatypes.Date
	if t.DateTo != nil {
		d := datatypes.Date(*t.DateTo)
		dateTo = &d
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	return &model.Task{
		Id:          t.Id,
		ProjectId:   t.ProjectId,
		NoteId:      t.NoteId,
		DateTo:      dateTo,
		Completed:   t.Completed,
		LockVersion: t.LockVersion,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *TaskMapper) ToEntities(tasks []*model.Task) []*entity.Task {
	entities := make([]*entity.Task, len(tasks))
	for i, t := range tasks {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
