package model

import (
	"time"

	"github.com/google/uuid"
)

// Image rows are polymorphic over their owner (note or user), so no database
// foreign key exists; cascade removal is handled by the services because the
// blob has to be purged alongside the row anyway.
type Image struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerType   string    `gorm:"type:varchar(10);not null;index:idx_images_owner"`
	OwnerId     uuid.UUID `gorm:"type:uuid;not null;index:idx_images_owner"`
	Key         string    `gorm:"type:varchar(512);not null;uniqueIndex"`
	Filename    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(50);not null"`
	ByteSize    int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Image) TableName() string {
	return "images"
}
