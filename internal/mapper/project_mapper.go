package mapper

import (
	"time"

	"github.com/momonga11/notenext-server/internal/entity"
	"github.com/momonga11/notenext-server/internal/model"
)

type ProjectMapper struct{}

func NewProjectMapper() *ProjectMapper {
	return &ProjectMapper{}
}

func (m *ProjectMapper) ToEntity(p *model.Project) *entity.Project {
	if p == nil {
		return nil
	}

	return &entity.Project{
		Id:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		LockVersion: p.LockVersion,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   optionalTime(p.UpdatedAt),
	}
}

func (m *ProjectMapper) ToModel(p *entity.Project) *model.Project {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Project{
		Id:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		LockVersion: p.LockVersion,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ProjectMapper) ToEntities(projects []*model.Project) []*entity.Project {
	entities := make([]*entity.Project, len(projects))
	for i, p := range projects {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *ProjectMapper) MemberToEntity(pm *model.ProjectMember) *entity.ProjectMember {
	if pm == nil {
		return nil
	}

	return &entity.ProjectMember{
		Id:        pm.Id,
		UserId:    pm.UserId,
		ProjectId: pm.ProjectId,
		IsOwner:   pm.IsOwner,
		CreatedAt: pm.CreatedAt,
	}
}

func (m *ProjectMapper) MemberToModel(pm *entity.ProjectMember) *model.ProjectMember {
	if pm == nil {
		return nil
	}

	return &model.ProjectMember{
		Id:        pm.Id,
		UserId:    pm.UserId,
		ProjectId: pm.ProjectId,
		IsOwner:   pm.IsOwner,
		CreatedAt: pm.CreatedAt,
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	c := t
	return &c
}
