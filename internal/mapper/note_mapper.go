package mapper

import (
	"time"

	"github.com/momonga11/notenext-server/internal/entity"
	"github.com/momonga11/notenext-server/internal/model"
)

type NoteMapper struct {
	taskMapper *TaskMapper
}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{taskMapper: NewTaskMapper()}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	return &entity.Note{
		Id:          n.Id,
		ProjectId:   n.ProjectId,
		FolderId:    n.FolderId,
		Title:       n.Title,
		Text:        n.Text,
		HtmlText:    n.HtmlText,
		LockVersion: n.LockVersion,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   optionalTime(n.UpdatedAt),
		Task:        m.taskMapper.ToEntity(n.Task),
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	return &model.Note{
		Id:          n.Id,
		ProjectId:   n.ProjectId,
		FolderId:    n.FolderId,
		Title:       n.Title,
		Text:        n.Text,
		HtmlText:    n.HtmlText,
		LockVersion: n.LockVersion,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
