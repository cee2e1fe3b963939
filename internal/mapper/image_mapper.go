package mapper

import (
	"github.com/momonga11/notenext-server/internal/entity"
	"github.com/momonga11/notenext-server/internal/model"
)

type ImageMapper struct{}

func NewImageMapper() *ImageMapper {
	return &ImageMapper{}
}

func (m *ImageMapper) ToEntity(i *model.Image) *entity.Image {
	if i == nil {
		return nil
	}

	return &entity.Image{
		Id:          i.Id,
		OwnerType:   i.OwnerType,
		OwnerId:     i.OwnerId,
		Key:         i.Key,
		Filename:    i.Filename,
		ContentType: i.ContentType,
		ByteSize:    i.ByteSize,
		CreatedAt:   i.CreatedAt,
	}
}

func (m *ImageMapper) ToModel(i *entity.Image) *model.Image {
	if i == nil {
		return nil
	}

	return &model.Image{
		Id:          i.Id,
		OwnerType:   i.OwnerType,
		OwnerId:     i.OwnerId,
		Key:         i.Key,
		Filename:    i.Filename,
		ContentType: i.ContentType,
		ByteSize:    i.ByteSize,
		CreatedAt:   i.CreatedAt,
	}
}

func (m *ImageMapper) ToEntities(images []*model.Image) []*entity.Image {
	entities := make([]*entity.Image, len(images))
	for i, img := range images {
		entities[i] = m.ToEntity(img)
	}
	return entities
}
